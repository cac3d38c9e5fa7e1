package enrich

import "github.com/spigell/career-navigator/internal/analysis"

// Triple is the unit the model may replace: all three fields or none.
type Triple struct {
	FoundSkills []string
	Gaps        []string
	Roadmap     []analysis.PeriodPlan
}

// Outcome is the result of one enrichment attempt. It is either Kept or Replaced.
type Outcome interface {
	outcome()
}

// Kept means the deterministic result stays the system of record.
type Kept struct {
	Reason error
}

// Replaced carries a fully validated triple that supersedes the deterministic one.
type Replaced struct {
	Triple Triple
}

func (Kept) outcome()     {}
func (Replaced) outcome() {}
