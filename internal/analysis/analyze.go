package analysis

import (
	"fmt"

	"github.com/spigell/career-navigator/internal/lexicon"
)

const maxResources = 4

// Analyze runs the deterministic path: normalize, match, compute gaps and
// synthesize the roadmap. An unknown role yields zero gaps and a warning.
func Analyze(lex *lexicon.Lexicon, targetRole string, ev Evidence) Result {
	found := MatchSkills(ScanText(ev), lex.Skills())
	required, _ := lex.Required(targetRole)
	gaps := ComputeGaps(required, found)

	return Derive(lex, Result{
		TargetRole:  targetRole,
		FoundSkills: found,
		Gaps:        gaps,
		Roadmap:     BuildRoadmap(targetRole, gaps),
		Source:      SourceDeterministic,
	})
}

// Derive recomputes the fields that depend on the (foundSkills, gaps, roadmap)
// triple. It is applied to both deterministic and enriched triples so the
// derived fields always describe the triple that was kept.
func Derive(lex *lexicon.Lexicon, r Result) Result {
	if r.FoundSkills == nil {
		r.FoundSkills = []string{}
	}
	if r.Gaps == nil {
		r.Gaps = []string{}
	}
	if r.Roadmap == nil {
		r.Roadmap = []PeriodPlan{}
	}

	required, known := lex.Required(r.TargetRole)

	r.AlignmentScore = AlignmentScore(required, r.FoundSkills, r.Gaps)
	r.Readiness = Readiness(r.AlignmentScore)
	r.Projects = lex.Projects(r.TargetRole)

	r.Resources = make([]string, 0, maxResources)
	for _, gap := range r.Gaps {
		if len(r.Resources) == maxResources {
			break
		}
		if res, ok := lex.Resource(gap); ok {
			r.Resources = append(r.Resources, res)
		}
	}

	r.Warnings = nil
	if !known {
		r.Warnings = []string{fmt.Sprintf("unknown target role %q: no requirements to compare against", r.TargetRole)}
	}

	return r
}
