package conversations

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-factcheck-chat/storage"
)

var _ Repo = (*PostgresRepo)(nil)

type PostgresRepo struct {
	db storage.Acquirer
}

func NewPostgresRepo(db storage.Acquirer) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Append(ctx context.Context, turn *Turn) error {
	db, err := r.db.Acquire(ctx)
	if err != nil {
		return err
	}

	if turn.ID == "" {
		turn.ID = uuid.New().String()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}

	var verdict any
	if turn.FactCheckResult != nil {
		b, err := json.Marshal(turn.FactCheckResult)
		if err != nil {
			return fmt.Errorf("encode verdict: %w", err)
		}
		verdict = string(b)
	}

	query :=
		`INSERT INTO messages (id, user_id, message, response, is_fact_checked, fact_check_result, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err = db.ExecContext(ctx, query,
		turn.ID, turn.UserID, turn.Message, turn.Response, turn.IsFactChecked, verdict, turn.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*Turn, error) {
	db, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	query :=
		`SELECT id, user_id, message, response, is_fact_checked, fact_check_result, created_at FROM messages
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2
		 `

	rows, err := db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	turns := make([]*Turn, 0)
	for rows.Next() {
		var (
			turn    Turn
			verdict []byte
		)
		if err := rows.Scan(&turn.ID, &turn.UserID, &turn.Message, &turn.Response,
			&turn.IsFactChecked, &verdict, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if len(verdict) > 0 {
			turn.FactCheckResult = &Verdict{}
			if err := json.Unmarshal(verdict, turn.FactCheckResult); err != nil {
				return nil, fmt.Errorf("decode verdict for message %s: %w", turn.ID, err)
			}
		}
		turns = append(turns, &turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	slices.Reverse(turns)
	return turns, nil
}
