package conversations

import (
	"context"
	"time"
)

// HistoryLimit caps how many turns a history listing returns.
const HistoryLimit = 100

// Verdict is the structured outcome attached to a fact-checked turn.
type Verdict struct {
	IsAccurate  bool     `json:"isAccurate"`
	Confidence  int      `json:"confidence"` // 0..100
	Explanation string   `json:"explanation"`
	Sources     []string `json:"sources,omitempty"`
}

// Turn is one user message and the reply recorded for it. Turns are never
// updated once appended.
type Turn struct {
	ID              string
	UserID          string
	Message         string
	Response        string
	IsFactChecked   bool
	FactCheckResult *Verdict
	CreatedAt       time.Time
}

type Repo interface {
	Append(ctx context.Context, turn *Turn) error
	// ListByUser returns the most recent limit turns of userID, oldest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]*Turn, error)
}
