// Package github builds a public repository summary for a GitHub user.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/career-navigator/internal/analysis"
	"github.com/spigell/career-navigator/internal/logger"
)

const (
	apiURL    = "https://api.github.com"
	userAgent = "spigell/career-navigator"
	// Matches the number of repositories considered for a summary.
	perPage = "50"
)

type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

// Repo is the subset of repository fields the summary uses.
type Repo struct {
	Name     string   `json:"name"`
	Language string   `json:"language"`
	Topics   []string `json:"topics"`
	Fork     bool     `json:"fork"`
}

// New returns a client. The token is optional and only raises rate limits.
func New(log *zap.Logger, token string) *Client {
	return &Client{
		token:  strings.TrimSpace(token),
		logger: logger.WithFields(log),
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		UserAgent: userAgent,
	}
}

// PublicRepos lists up to 50 public repositories of username, most recently
// updated first.
func (c *Client) PublicRepos(ctx context.Context, username string) ([]Repo, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("github username is required")
	}

	endpoint := fmt.Sprintf("%s/users/%s/repos", strings.TrimRight(c.APIURL, "/"), url.PathEscape(username))
	q := url.Values{}
	q.Set("per_page", perPage)
	q.Set("sort", "updated")

	var repos []Repo
	if err := c.getJSON(ctx, endpoint, q, &repos); err != nil {
		return nil, fmt.Errorf("list repos for %s: %w", username, err)
	}

	c.logger.Debug("got repositories from GitHub", zap.String("username", username), zap.Int("count", len(repos)))

	return repos, nil
}

// PublicSummary fetches the repositories of username and summarizes them.
func (c *Client) PublicSummary(ctx context.Context, username string) (*analysis.RepoSummary, error) {
	repos, err := c.PublicRepos(ctx, username)
	if err != nil {
		return nil, err
	}

	summary := Summarize(repos)
	summary.Username = strings.TrimSpace(username)
	return summary, nil
}

// Summarize counts repos and collects distinct languages and topics in
// first-seen order.
func Summarize(repos []Repo) *analysis.RepoSummary {
	summary := &analysis.RepoSummary{
		RepoCount: len(repos),
		Languages: []string{},
		Topics:    []string{},
	}

	seenLang := map[string]struct{}{}
	seenTopic := map[string]struct{}{}

	for _, repo := range repos {
		if lang := strings.TrimSpace(repo.Language); lang != "" {
			if _, ok := seenLang[lang]; !ok {
				seenLang[lang] = struct{}{}
				summary.Languages = append(summary.Languages, lang)
			}
		}
		for _, topic := range repo.Topics {
			topic = strings.TrimSpace(topic)
			if topic == "" {
				continue
			}
			if _, ok := seenTopic[topic]; !ok {
				seenTopic[topic] = struct{}{}
				summary.Topics = append(summary.Topics, topic)
			}
		}
	}

	return summary
}
