// Package enrich asks a language model for an alternative (foundSkills, gaps,
// roadmap) triple and substitutes it for the deterministic one only when the
// whole reply validates.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/career-navigator/internal/ai"
	"github.com/spigell/career-navigator/internal/analysis"
	"github.com/spigell/career-navigator/internal/lexicon"
	"github.com/spigell/career-navigator/internal/logger"
)

// SystemInstruction is sent verbatim with every enrichment request.
const SystemInstruction = "You are a career analysis engine. Return JSON only with keys: " +
	"foundSkills (array of strings), gaps (array of strings), " +
	"roadmap (array of exactly 4 {period, focus, outputs, checkpoint})."

const (
	defaultTimeout      = 20 * time.Second
	defaultMaxLogLength = 200
)

// ErrDisabled is the Kept reason when no generator is configured.
var ErrDisabled = errors.New("enrichment is disabled")

type Options struct {
	Timeout      time.Duration
	MaxLogLength int
}

// Adapter wraps an ai.Generator. A nil generator turns every attempt into Kept.
type Adapter struct {
	generator ai.Generator
	lex       *lexicon.Lexicon
	timeout   time.Duration
	maxLogLen int
	logger    *zap.Logger
}

type requestContext struct {
	TargetRole          string                `json:"targetRole"`
	ImportedProfileText string                `json:"importedProfileText"`
	ResumeText          string                `json:"resumeText"`
	RepoSummary         *analysis.RepoSummary `json:"repoSummary"`
}

func New(generator ai.Generator, lex *lexicon.Lexicon, opts Options, log *zap.Logger) *Adapter {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxLogLength <= 0 {
		opts.MaxLogLength = defaultMaxLogLength
	}

	model := ""
	if generator != nil {
		model = generator.Model()
	}

	return &Adapter{
		generator: generator,
		lex:       lex,
		timeout:   opts.Timeout,
		maxLogLen: opts.MaxLogLength,
		logger:    logger.WithFields(log, zap.String(logger.FieldModel, model)),
	}
}

// Enabled reports whether a generator is configured.
func (a *Adapter) Enabled() bool {
	return a != nil && a.generator != nil
}

// Enrich returns either det unchanged or a result built wholesale from a
// validated model triple. It never fails.
func (a *Adapter) Enrich(ctx context.Context, ev analysis.Evidence, det analysis.Result) analysis.Result {
	return a.Apply(det, a.Attempt(ctx, ev, det))
}

// Attempt performs one bounded request to the generator.
func (a *Adapter) Attempt(ctx context.Context, ev analysis.Evidence, det analysis.Result) Outcome {
	if !a.Enabled() {
		return Kept{Reason: ErrDisabled}
	}

	message, err := json.Marshal(requestContext{
		TargetRole:          det.TargetRole,
		ImportedProfileText: ev.ImportedProfileText,
		ResumeText:          ev.ResumeText,
		RepoSummary:         ev.RepoSummary,
	})
	if err != nil {
		return a.keep(det, fmt.Errorf("marshal enrichment context: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	a.logger.Debug("enrichment request",
		zap.String(logger.FieldRole, det.TargetRole),
		zap.Int("message_length", len(message)),
		zap.String("message_preview", logger.TruncateForLog(string(message), a.maxLogLen)),
	)

	raw, err := a.generate(ctx, string(message))
	if err != nil {
		return a.keep(det, err)
	}

	a.logger.Debug("enrichment response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, a.maxLogLen)),
	)

	triple, err := ParseTriple(raw)
	if err != nil {
		return a.keep(det, err)
	}

	return Replaced{Triple: triple}
}

// Apply folds an outcome into the deterministic result.
func (a *Adapter) Apply(det analysis.Result, outcome Outcome) analysis.Result {
	replaced, ok := outcome.(Replaced)
	if !ok {
		return det
	}

	enriched := analysis.Result{
		TargetRole:  det.TargetRole,
		FoundSkills: replaced.Triple.FoundSkills,
		Gaps:        replaced.Triple.Gaps,
		Roadmap:     replaced.Triple.Roadmap,
		Source:      analysis.SourceEnriched,
	}

	return analysis.Derive(a.lex, enriched)
}

// generate shields callers from generator panics so Attempt keeps its contract.
func (a *Adapter) generate(ctx context.Context, message string) (raw string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panicked: %v", r)
		}
	}()

	raw, err = a.generator.GenerateContent(ctx, SystemInstruction, message)
	if err != nil {
		return "", fmt.Errorf("generate enrichment: %w", err)
	}
	return raw, nil
}

func (a *Adapter) keep(det analysis.Result, reason error) Outcome {
	a.logger.Warn("enrichment rejected, keeping deterministic result",
		zap.String(logger.FieldRole, det.TargetRole),
		zap.Error(reason),
	)
	return Kept{Reason: reason}
}
