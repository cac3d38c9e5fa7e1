package chat

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/career-navigator/internal/analysis"
	"github.com/spigell/career-navigator/internal/logger"
	"github.com/spigell/career-navigator/internal/notify"
)

// ErrNoAnalysis is returned by a Source when the user has no stored analysis.
var ErrNoAnalysis = errors.New("no analysis stored")

// Source loads the latest durably written analysis for a user.
type Source interface {
	LatestAnalysis(ctx context.Context, userID string) (*analysis.Result, error)
}

// Reply is one answered question.
type Reply struct {
	Intent Intent `json:"intent"`
	Text   string `json:"text"`
}

// Assistant answers questions against the analysis the source holds at the
// time of the question. Writes from other processes sharing the store are
// picked up on the next question.
type Assistant struct {
	source Source
	logger *zap.Logger
}

func NewAssistant(source Source, log *zap.Logger) *Assistant {
	return &Assistant{
		source: source,
		logger: logger.WithFields(log),
	}
}

// Observe is a notify.Subscriber. It only records that a fresh analysis
// exists; answers are always read from the source.
func (a *Assistant) Observe(ev notify.Event) {
	a.logger.Debug("analysis update observed",
		zap.String(logger.FieldUserID, ev.UserID),
		zap.String(logger.FieldEventID, ev.ID.String()),
		zap.String(logger.FieldSource, string(ev.Result.Source)),
	)
}

// Ask classifies text and renders an answer against the latest analysis.
func (a *Assistant) Ask(ctx context.Context, userID, text string) (Reply, error) {
	intent := Classify(text)

	result, err := a.latest(ctx, userID)
	if err != nil {
		return Reply{}, err
	}

	a.logger.Debug("chat question answered",
		zap.String(logger.FieldUserID, userID),
		zap.String(logger.FieldIntent, string(intent)),
		zap.Bool("has_analysis", result != nil),
	)

	return Reply{Intent: intent, Text: Render(intent, result)}, nil
}

// Converse appends the question and the reply to session.
func (a *Assistant) Converse(ctx context.Context, session *Session, text string) (Reply, error) {
	session.Append(RoleUser, text)

	reply, err := a.Ask(ctx, session.UserID, text)
	if err != nil {
		return Reply{}, err
	}

	session.Append(RoleSystem, reply.Text)
	return reply, nil
}

func (a *Assistant) latest(ctx context.Context, userID string) (*analysis.Result, error) {
	if a.source == nil {
		return nil, nil
	}

	result, err := a.source.LatestAnalysis(ctx, userID)
	if errors.Is(err, ErrNoAnalysis) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load latest analysis: %w", err)
	}

	return result, nil
}
