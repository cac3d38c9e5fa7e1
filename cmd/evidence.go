package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-navigator/internal/analysis"
	"github.com/spigell/career-navigator/internal/github"
)

// evidenceFlags are shared by the import and analyze commands.
type evidenceFlags struct {
	user        string
	role        string
	resumeFile  string
	profileFile string
	github      string
}

func (f *evidenceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.user, "user", "u", "local", "user identifier the evidence and analysis are stored under")
	cmd.Flags().StringVarP(&f.role, "role", "r", "", "target role (default: stored role, then the configured default)")
	cmd.Flags().StringVar(&f.resumeFile, "resume-file", "", "plain-text resume file")
	cmd.Flags().StringVar(&f.profileFile, "profile-file", "", "plain-text file with imported profile notes")
	cmd.Flags().StringVar(&f.github, "github", "", "GitHub username to summarize public repositories for")
}

type collected struct {
	role        *string
	resume      *string
	profile     *string
	repoSummary *analysis.RepoSummary
}

func (f *evidenceFlags) collect(ctx context.Context, gh *github.Client, logger *zap.Logger) (collected, error) {
	var out collected

	if role := strings.TrimSpace(f.role); role != "" {
		out.role = &role
	}

	var err error
	if out.resume, err = readOptional(f.resumeFile); err != nil {
		return out, fmt.Errorf("reading resume: %w", err)
	}
	if out.profile, err = readOptional(f.profileFile); err != nil {
		return out, fmt.Errorf("reading profile: %w", err)
	}

	if username := strings.TrimSpace(f.github); username != "" {
		summary, err := gh.PublicSummary(ctx, username)
		if err != nil {
			return out, err
		}
		logger.Info("github summary imported",
			zap.String("username", username),
			zap.Int("repos", summary.RepoCount),
			zap.Strings("languages", summary.Languages),
		)
		out.repoSummary = summary
	}

	return out, nil
}

func readOptional(path string) (*string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := string(data)
	return &text, nil
}
