package chat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/career-navigator/internal/analysis"
)

const (
	NoDataReply = "I don't have analysis data yet. Please upload your resume or import GitHub first."
	HelpReply   = "Try asking about summary, skill gaps, weekly plan, projects, or resources."

	maxGaps      = 6
	maxProjects  = 5
	maxResources = 4
)

// Render formats the reply for intent from result. A nil result always yields
// NoDataReply, whatever the intent.
func Render(intent Intent, result *analysis.Result) string {
	if result == nil {
		return NoDataReply
	}

	switch intent {
	case IntentSummary:
		return fmt.Sprintf("Alignment: %s%% | Readiness: %s. Skills found: %d. Gaps found: %d.",
			number(result.AlignmentScore), text(result.Readiness), len(result.FoundSkills), len(result.Gaps))
	case IntentGaps:
		if len(result.Gaps) == 0 {
			return "Great news, no major skill gaps were detected."
		}
		return "Top gaps: " + strings.Join(head(result.Gaps, maxGaps), ", ") + "."
	case IntentWeek:
		if len(result.Roadmap) == 0 {
			return "No roadmap yet. Run analysis to generate your weekly plan."
		}
		first := result.Roadmap[0]
		return fmt.Sprintf("%s: %s. Outputs: %s. Checkpoint: %s.",
			text(first.Period), text(first.Focus), text(first.Outputs), text(first.Checkpoint))
	case IntentProjects:
		if len(result.Projects) == 0 {
			return "No project recommendations yet. Run analysis first."
		}
		return "Recommended projects: " + strings.Join(head(result.Projects, maxProjects), " | ") + "."
	case IntentResources:
		if len(result.Resources) == 0 {
			return "No resources found yet. Run analysis first."
		}
		return "Recommended resources: " + strings.Join(head(result.Resources, maxResources), " | ") + "."
	case IntentScore:
		return fmt.Sprintf("Your alignment score is %s%% and readiness is %s.",
			number(result.AlignmentScore), text(result.Readiness))
	default:
		return HelpReply
	}
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func text(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
