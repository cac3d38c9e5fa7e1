package analysis

import "strings"

// MatchSkills returns every vocabulary term that occurs as a substring of scan,
// in vocabulary order. Matching is plain substring search: "sql" is found
// inside "postgresql" and "java" inside "javascript".
func MatchSkills(scan string, vocabulary []string) []string {
	scan = strings.ToLower(scan)

	found := make([]string, 0, len(vocabulary))
	for _, term := range vocabulary {
		term = strings.ToLower(term)
		if term == "" {
			continue
		}
		if strings.Contains(scan, term) {
			found = append(found, term)
		}
	}

	return found
}

// ComputeGaps returns the required terms missing from found, in required order.
func ComputeGaps(required, found []string) []string {
	have := make(map[string]struct{}, len(found))
	for _, skill := range found {
		have[strings.ToLower(skill)] = struct{}{}
	}

	gaps := make([]string, 0, len(required))
	for _, skill := range required {
		if _, ok := have[strings.ToLower(skill)]; ok {
			continue
		}
		gaps = append(gaps, skill)
	}

	return gaps
}
