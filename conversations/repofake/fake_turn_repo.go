package faketurnrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-factcheck-chat/conversations"
)

var _ conversations.Repo = (*FakeTurnRepo)(nil)

type FakeTurnRepo struct {
	turns []conversations.Turn
	lock  sync.RWMutex

	// AppendErr, when set, is returned by every Append.
	AppendErr error
}

func NewFakeTurnRepo() *FakeTurnRepo {
	return &FakeTurnRepo{}
}

func (tr *FakeTurnRepo) Append(ctx context.Context, turn *conversations.Turn) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	if tr.AppendErr != nil {
		return tr.AppendErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if turn.ID == "" {
		turn.ID = uuid.New().String()
	}
	tr.turns = append(tr.turns, *turn)
	return nil
}

func (tr *FakeTurnRepo) ListByUser(_ context.Context, userID string, limit int) ([]*conversations.Turn, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	turns := make([]*conversations.Turn, 0)
	for _, t := range tr.turns {
		if t.UserID == userID {
			turn := t
			turns = append(turns, &turn)
		}
	}
	sort.SliceStable(turns, func(i, j int) bool {
		return turns[i].CreatedAt.Before(turns[j].CreatedAt)
	})
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return turns, nil
}

// Len reports the number of stored turns across all users.
func (tr *FakeTurnRepo) Len() int {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	return len(tr.turns)
}
