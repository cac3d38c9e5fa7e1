package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-navigator/internal/analysis"
	"github.com/spigell/career-navigator/internal/navigator"
)

var (
	analyzeFlags  evidenceFlags
	analyzeNoAI   bool
	analyzeFormat string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute skill gaps and a four-week roadmap for the target role",
	Run: func(_ *cobra.Command, _ []string) {
		ctx := context.Background()
		rt := newApplication(ctx)
		defer rt.Close()

		ev, err := analyzeFlags.collect(ctx, newGitHubClient(rt.config, rt.logger), rt.logger)
		if err != nil {
			rt.logger.Fatal("collecting evidence", zap.Error(err))
		}

		result, err := rt.service.Analyze(ctx, analyzeFlags.user, navigator.AnalyzeRequest{
			TargetRole:          ev.role,
			ImportedProfileText: ev.profile,
			ResumeText:          ev.resume,
			RepoSummary:         ev.repoSummary,
			SkipEnrichment:      analyzeNoAI,
		})

		var persistErr *navigator.PersistError
		if err != nil && !errors.As(err, &persistErr) {
			rt.logger.Fatal("analysis failed", zap.Error(err))
		}

		if printErr := printResult(result, analyzeFormat); printErr != nil {
			rt.logger.Fatal("printing result", zap.Error(printErr))
		}

		if persistErr != nil {
			rt.logger.Fatal("analysis was not stored", zap.Error(persistErr))
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeFlags.register(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&analyzeNoAI, "no-ai", false, "skip enrichment even when it is configured")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "output", "o", "text", "output format: text or json")
}

func printResult(result analysis.Result, format string) error {
	if strings.EqualFold(format, "json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("Target role:  %s\n", result.TargetRole)
	fmt.Printf("Source:       %s\n", result.Source)
	fmt.Printf("Alignment:    %s%% (%s)\n", formatScore(result.AlignmentScore), result.Readiness)
	fmt.Printf("Found skills: %s\n", joinOrNone(result.FoundSkills))
	fmt.Printf("Gaps:         %s\n", joinOrNone(result.Gaps))
	for _, w := range result.Warnings {
		fmt.Printf("Warning:      %s\n", w)
	}

	fmt.Println("\nRoadmap:")
	for _, p := range result.Roadmap {
		fmt.Printf("  %s: %s\n    outputs: %s\n    checkpoint: %s\n", p.Period, p.Focus, p.Outputs, p.Checkpoint)
	}

	if len(result.Projects) > 0 {
		fmt.Println("\nProjects:")
		for _, p := range result.Projects {
			fmt.Printf("  - %s\n", p)
		}
	}
	if len(result.Resources) > 0 {
		fmt.Println("\nResources:")
		for _, r := range result.Resources {
			fmt.Printf("  - %s\n", r)
		}
	}

	return nil
}

func formatScore(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
