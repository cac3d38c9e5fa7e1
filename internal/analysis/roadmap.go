package analysis

import (
	"fmt"
	"strings"
)

// RoadmapPeriods is the fixed number of periods in every roadmap.
const RoadmapPeriods = 4

// BuildRoadmap turns ordered gaps into the fixed four-period plan. The first two
// gaps drive period 1 and the next two drive period 2; periods 3 and 4 depend
// only on the target role.
func BuildRoadmap(targetRole string, gaps []string) []PeriodPlan {
	first := window(gaps, 0, 2)
	second := window(gaps, 2, 4)

	firstFocus := "Baseline projects"
	if len(first) > 0 {
		firstFocus = "Close gaps: " + strings.Join(first, ", ")
	}

	secondFocus := "Advance project"
	if len(second) > 0 {
		secondFocus = "Build proof in " + strings.Join(second, ", ")
	}

	role := strings.TrimSpace(targetRole)
	if role == "" {
		role = "your target role"
	}

	return []PeriodPlan{
		{
			Period:     periodLabel(1),
			Focus:      firstFocus,
			Outputs:    "One portfolio project + skill drills",
			Checkpoint: "Vibe-Check review",
		},
		{
			Period:     periodLabel(2),
			Focus:      secondFocus,
			Outputs:    "Second project + case study",
			Checkpoint: "Mock interview",
		},
		{
			Period:     periodLabel(3),
			Focus:      fmt.Sprintf("Role alignment for %s", role),
			Outputs:    "Interview stories + resume update",
			Checkpoint: "Role fit score update",
		},
		{
			Period:     periodLabel(4),
			Focus:      "Signal amplification",
			Outputs:    "LinkedIn refresh + applications",
			Checkpoint: "Next sprint plan",
		},
	}
}

func periodLabel(n int) string {
	return fmt.Sprintf("Week %d", n)
}

func window(items []string, from, to int) []string {
	if from >= len(items) {
		return nil
	}
	if to > len(items) {
		to = len(items)
	}
	return items[from:to]
}
