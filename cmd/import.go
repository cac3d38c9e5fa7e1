package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-navigator/internal/navigator"
)

var importFlags evidenceFlags

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Store resume, profile notes or a GitHub summary for later analysis",
	Run: func(_ *cobra.Command, _ []string) {
		ctx := context.Background()
		rt := newApplication(ctx)
		defer rt.Close()

		ev, err := importFlags.collect(ctx, newGitHubClient(rt.config, rt.logger), rt.logger)
		if err != nil {
			rt.logger.Fatal("collecting evidence", zap.Error(err))
		}

		doc, err := rt.service.ImportEvidence(ctx, importFlags.user, navigator.EvidenceImport{
			TargetRole:          ev.role,
			ImportedProfileText: ev.profile,
			ResumeText:          ev.resume,
			RepoSummary:         ev.repoSummary,
		})
		if err != nil {
			rt.logger.Fatal("importing evidence", zap.Error(err))
		}

		rt.logger.Info("evidence stored",
			zap.String("user", doc.UserID),
			zap.Int("resume_length", len(doc.ResumeText)),
			zap.Int("profile_length", len(doc.ImportedProfileText)),
			zap.Bool("repo_summary", doc.RepoSummary != nil),
		)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importFlags.register(importCmd)
}
