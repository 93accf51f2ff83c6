// Package chat runs one fact-check exchange per user message and keeps the
// resulting history.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-factcheck-chat/conversations"
	"github.com/jrsteele09/go-factcheck-chat/extractor"
	"github.com/jrsteele09/go-factcheck-chat/factcheck"
	apperrors "github.com/jrsteele09/go-factcheck-chat/internal/errors"
	"github.com/rs/zerolog/log"
)

// DegradedWarning accompanies a reply recorded while the collaborator was
// failing.
const DegradedWarning = "Fact-checking service temporarily unavailable"

const (
	defaultTimeout       = 30 * time.Second
	confidenceAccurate   = 95
	confidenceInaccurate = 90
)

// Outcome is the stored turn plus a warning for degraded replies.
type Outcome struct {
	Turn    *conversations.Turn
	Warning string
}

type Service struct {
	collaborator factcheck.Collaborator
	turns        conversations.Repo
	timeout      time.Duration
	historyLimit int
	nowTime      func() time.Time
}

type ServiceOption func(*Service)

// WithTimeout bounds each collaborator call.
func WithTimeout(timeout time.Duration) ServiceOption {
	return func(s *Service) {
		s.timeout = timeout
	}
}

func WithHistoryLimit(limit int) ServiceOption {
	return func(s *Service) {
		s.historyLimit = limit
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(collaborator factcheck.Collaborator, turns conversations.Repo, options ...ServiceOption) (*Service, error) {
	if collaborator == nil {
		return nil, errors.New("[NewService] collaborator is required")
	}
	if turns == nil {
		return nil, errors.New("[NewService] conversations repo is required")
	}

	s := &Service{
		collaborator: collaborator,
		turns:        turns,
		timeout:      defaultTimeout,
		historyLimit: conversations.HistoryLimit,
		nowTime:      time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Send asks the collaborator about message and appends exactly one turn.
// Collaborator failures are not errors: they produce a degraded turn and a
// warning. The call is never retried.
func (s *Service) Send(ctx context.Context, userID, message string) (*Outcome, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.Validation("Message is required")
	}

	turn := &conversations.Turn{
		ID:      uuid.New().String(),
		UserID:  userID,
		Message: message,
	}
	outcome := &Outcome{Turn: turn}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	reply, err := s.collaborator.FactCheck(callCtx, message)
	cancel()

	if err != nil {
		fcErr := factcheck.Classify(err)
		log.Err(err).Str("kind", string(fcErr.Kind)).Str("userId", userID).Msg("Fact-check service call failed")
		turn.Response = fcErr.UserMessage()
		outcome.Warning = DegradedWarning
	} else {
		result := extractor.Extract(reply)
		turn.Response = result.Text
		if result.Verdict != nil {
			turn.IsFactChecked = true
			turn.FactCheckResult = toVerdict(result.Verdict)
		}
		if !result.Matched() {
			log.Warn().Str("userId", userID).Msg("Fact-check reply could not be parsed")
		}
	}

	// The turn is stored even if the caller has gone away.
	turn.CreatedAt = s.nowTime().UTC()
	if err := s.turns.Append(context.WithoutCancel(ctx), turn); err != nil {
		return nil, apperrors.Internal(err, "store message")
	}
	return outcome, nil
}

// History returns the caller's most recent turns, oldest first.
func (s *Service) History(ctx context.Context, userID string) ([]*conversations.Turn, error) {
	turns, err := s.turns.ListByUser(ctx, userID, s.historyLimit)
	if err != nil {
		return nil, apperrors.Internal(err, "list messages")
	}
	return turns, nil
}

func toVerdict(v *extractor.Verdict) *conversations.Verdict {
	confidence := confidenceInaccurate
	if v.Accurate {
		confidence = confidenceAccurate
	}
	return &conversations.Verdict{
		IsAccurate:  v.Accurate,
		Confidence:  confidence,
		Explanation: v.Explanation,
		Sources:     v.Sources,
	}
}
