// Package navigator wires the analysis engine to storage, enrichment and
// notifications.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spigell/career-navigator/internal/analysis"
	"github.com/spigell/career-navigator/internal/chat"
	"github.com/spigell/career-navigator/internal/enrich"
	"github.com/spigell/career-navigator/internal/lexicon"
	"github.com/spigell/career-navigator/internal/logger"
	"github.com/spigell/career-navigator/internal/notify"
	"github.com/spigell/career-navigator/internal/store"
)

// Publisher receives the result of every durably written analysis.
type Publisher interface {
	Publish(userID string, result analysis.Result) notify.Event
}

// EvidenceImport carries the evidence fields to merge for a user. Nil fields
// are left untouched.
type EvidenceImport struct {
	TargetRole          *string               `json:"targetRole" validate:"omitempty,max=200"`
	ImportedProfileText *string               `json:"importedProfileText" validate:"omitempty,max=200000"`
	ResumeText          *string               `json:"resumeText" validate:"omitempty,max=200000"`
	RepoSummary         *analysis.RepoSummary `json:"repoSummary" validate:"omitempty"`
}

// AnalyzeRequest triggers an analysis. Fields given here override the stored
// evidence for this run and are merged into the store.
type AnalyzeRequest struct {
	TargetRole          *string               `json:"targetRole" validate:"omitempty,max=200"`
	ImportedProfileText *string               `json:"importedProfileText" validate:"omitempty,max=200000"`
	ResumeText          *string               `json:"resumeText" validate:"omitempty,max=200000"`
	RepoSummary         *analysis.RepoSummary `json:"repoSummary" validate:"omitempty"`
	// SkipEnrichment forces the deterministic path for this run.
	SkipEnrichment bool `json:"skipEnrichment"`
}

func (r AnalyzeRequest) carriesAllEvidence() bool {
	return r.ImportedProfileText != nil && r.ResumeText != nil && r.RepoSummary != nil
}

type Service struct {
	lex       *lexicon.Lexicon
	store     store.Store
	enricher  *enrich.Adapter
	publisher Publisher
	validate  *validator.Validate
	logger    *zap.Logger
}

// New builds a service. enricher and publisher may be nil.
func New(lex *lexicon.Lexicon, st store.Store, enricher *enrich.Adapter, publisher Publisher, log *zap.Logger) *Service {
	return &Service{
		lex:       lex,
		store:     st,
		enricher:  enricher,
		publisher: publisher,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger.WithFields(log),
	}
}

// Lexicon returns the tables the service analyzes against.
func (s *Service) Lexicon() *lexicon.Lexicon {
	return s.lex
}

// ImportEvidence merges evidence fields into the user's document.
func (s *Service) ImportEvidence(ctx context.Context, userID string, in EvidenceImport) (*store.Document, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: invalid evidence: %w", ErrInvalidInput, err)
	}

	patch := store.Patch{
		TargetRole:          trimmed(in.TargetRole),
		ImportedProfileText: in.ImportedProfileText,
		ResumeText:          in.ResumeText,
		RepoSummary:         in.RepoSummary,
	}
	if patch.Empty() {
		return nil, fmt.Errorf("%w: no evidence fields provided", ErrInvalidInput)
	}

	doc, err := s.store.Merge(ctx, userID, patch)
	if err != nil {
		return nil, fmt.Errorf("import evidence: %w", err)
	}

	s.logger.Info("evidence imported", logger.AnalysisFields(userID, doc.TargetRole)...)
	return doc, nil
}

// Analyze computes and stores a fresh analysis. When only the store write
// fails the computed result is returned together with a *PersistError.
func (s *Service) Analyze(ctx context.Context, userID string, req AnalyzeRequest) (analysis.Result, error) {
	if err := s.validate.Struct(req); err != nil {
		return analysis.Result{}, fmt.Errorf("%w: invalid analysis request: %w", ErrInvalidInput, err)
	}

	doc, err := s.store.Load(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		doc = &store.Document{UserID: userID}
	case err != nil && req.carriesAllEvidence():
		// Stored evidence would be fully overridden anyway.
		s.logger.Warn("stored evidence unavailable, analyzing request evidence only",
			append(logger.AnalysisFields(userID, ""), zap.Error(err))...,
		)
		doc = &store.Document{UserID: userID}
	case err != nil:
		return analysis.Result{}, fmt.Errorf("load evidence: %w", err)
	}

	ev := doc.Evidence()
	if req.ImportedProfileText != nil {
		ev.ImportedProfileText = *req.ImportedProfileText
	}
	if req.ResumeText != nil {
		ev.ResumeText = *req.ResumeText
	}
	if req.RepoSummary != nil {
		ev.RepoSummary = req.RepoSummary
	}

	role := s.resolveRole(trimmed(req.TargetRole), doc.TargetRole)
	log := s.logger.With(logger.AnalysisFields(userID, role)...)

	// The deterministic result must exist before enrichment is attempted.
	result := analysis.Analyze(s.lex, role, ev)
	log.Debug("deterministic analysis computed",
		zap.Int("found_skills", len(result.FoundSkills)),
		zap.Int("gaps", len(result.Gaps)),
	)

	if !req.SkipEnrichment && s.enricher.Enabled() {
		result = s.enricher.Enrich(ctx, ev, result)
	}

	patch := store.Patch{
		TargetRole:          &role,
		ImportedProfileText: req.ImportedProfileText,
		ResumeText:          req.ResumeText,
		RepoSummary:         req.RepoSummary,
		Analysis:            &result,
	}

	if _, err := s.store.Merge(ctx, userID, patch); err != nil {
		log.Error("analysis computed but not stored", zap.Error(err))
		return result, &PersistError{UserID: userID, Err: err}
	}

	log.Info("analysis stored",
		zap.String(logger.FieldSource, string(result.Source)),
		zap.Float64("alignment_score", result.AlignmentScore),
	)

	if s.publisher != nil {
		s.publisher.Publish(userID, result)
	}

	return result, nil
}

// Latest returns the stored analysis, or store.ErrNotFound.
func (s *Service) Latest(ctx context.Context, userID string) (*analysis.Result, error) {
	doc, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if doc.Analysis == nil {
		return nil, store.ErrNotFound
	}
	return doc.Analysis, nil
}

// LatestAnalysis implements chat.Source.
func (s *Service) LatestAnalysis(ctx context.Context, userID string) (*analysis.Result, error) {
	result, err := s.Latest(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, chat.ErrNoAnalysis
	}
	return result, err
}

func (s *Service) resolveRole(requested *string, stored string) string {
	if requested != nil {
		return *requested
	}
	if stored = strings.TrimSpace(stored); stored != "" {
		return stored
	}
	return s.lex.DefaultRole()
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
