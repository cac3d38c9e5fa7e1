package analysis

import (
	"math"
	"strings"
)

// AlignmentScore is the share of role requirements covered by found, as a
// percentage rounded to two decimals. Requirements already counted as gaps are
// never counted as matched. It is 0 when nothing is required and nothing is missing.
func AlignmentScore(required, found, gaps []string) float64 {
	have := make(map[string]struct{}, len(found))
	for _, skill := range found {
		have[strings.ToLower(skill)] = struct{}{}
	}
	missing := make(map[string]struct{}, len(gaps))
	for _, skill := range gaps {
		missing[strings.ToLower(skill)] = struct{}{}
	}

	matched := 0
	for _, skill := range required {
		key := strings.ToLower(skill)
		if _, gap := missing[key]; gap {
			continue
		}
		if _, ok := have[key]; ok {
			matched++
		}
	}

	total := matched + len(gaps)
	if total == 0 {
		return 0
	}

	return math.Round(float64(matched)/float64(total)*10000) / 100
}

// Readiness maps an alignment score to a rough time-to-ready estimate.
func Readiness(score float64) string {
	switch {
	case score >= 80:
		return "Job-ready in ~30 days"
	case score >= 60:
		return "Job-ready in ~60 days"
	case score >= 40:
		return "Job-ready in ~90 days"
	default:
		return "Needs strong foundation (120+ days)"
	}
}
