package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/career-navigator/internal/analysis"
)

func ptr(s string) *string { return &s }

func backends(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	stores := map[string]Store{
		DriverMemory: NewMemory(),
		DriverSQLite: sqlite,
	}

	if url := os.Getenv("CAREER_NAVIGATOR_TEST_REDIS_URL"); url != "" {
		opts, err := redis.ParseURL(url)
		require.NoError(t, err)
		client := redis.NewClient(opts)
		t.Cleanup(func() { _ = client.Close() })
		stores[DriverRedis] = NewRedis(client, "career-navigator-test:"+t.Name()+":")
	}

	return stores
}

func TestStoreMergeSemantics(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.Load(ctx, "u-1")
			require.ErrorIs(t, err, ErrNotFound)

			_, err = s.Merge(ctx, "u-1", Patch{
				ResumeText:  ptr("SQL analyst"),
				RepoSummary: &analysis.RepoSummary{RepoCount: 2, Languages: []string{"Go"}},
			})
			require.NoError(t, err)

			doc, err := s.Merge(ctx, "u-1", Patch{ImportedProfileText: ptr("Stakeholder work")})
			require.NoError(t, err)
			assert.Equal(t, "SQL analyst", doc.ResumeText, "unpatched field must survive")
			assert.Equal(t, "Stakeholder work", doc.ImportedProfileText)

			result := analysis.Result{TargetRole: "Data Analyst", FoundSkills: []string{"sql"}, Gaps: []string{"excel"}}
			_, err = s.Merge(ctx, "u-1", Patch{TargetRole: ptr("Data Analyst"), Analysis: &result})
			require.NoError(t, err)

			loaded, err := s.Load(ctx, "u-1")
			require.NoError(t, err)
			assert.Equal(t, "u-1", loaded.UserID)
			assert.Equal(t, "Data Analyst", loaded.TargetRole)
			require.NotNil(t, loaded.Analysis)
			assert.Equal(t, []string{"excel"}, loaded.Analysis.Gaps)
			require.NotNil(t, loaded.RepoSummary)
			assert.Equal(t, 2, loaded.RepoSummary.RepoCount)
			assert.False(t, loaded.UpdatedAt.IsZero())

			ev := loaded.Evidence()
			assert.Equal(t, "SQL analyst", ev.ResumeText)
			assert.Equal(t, []string{"Go"}, ev.RepoSummary.Languages)

			newer := analysis.Result{TargetRole: "Data Analyst", Gaps: []string{}}
			_, err = s.Merge(ctx, "u-1", Patch{Analysis: &newer})
			require.NoError(t, err)

			loaded, err = s.Load(ctx, "u-1")
			require.NoError(t, err)
			assert.Empty(t, loaded.Analysis.Gaps, "latest analysis overwrites the previous one")
		})
	}
}

func TestStoreRejectsEmptyUserID(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Load(context.Background(), " ")
			assert.Error(t, err)
			_, err = s.Merge(context.Background(), "", Patch{})
			assert.Error(t, err)
		})
	}
}

func TestMemoryIsolation(t *testing.T) {
	m := NewMemory()
	summary := &analysis.RepoSummary{Languages: []string{"Go"}}

	doc, err := m.Merge(context.Background(), "u", Patch{RepoSummary: summary})
	require.NoError(t, err)

	summary.Languages[0] = "mutated"
	doc.RepoSummary.RepoCount = 99

	loaded, err := m.Load(context.Background(), "u")
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.RepoSummary.RepoCount)
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()

	first, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	_, err = first.Merge(ctx, "u", Patch{ResumeText: ptr("python")})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer second.Close()

	doc, err := second.Load(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, "python", doc.ResumeText)
}

func TestOpen(t *testing.T) {
	s, err := Open(context.Background(), Config{Driver: "MEMORY"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	_, err = Open(context.Background(), Config{Driver: "etcd"})
	assert.ErrorContains(t, err, "unknown store driver")

	_, err = Open(context.Background(), Config{Driver: DriverRedis})
	assert.ErrorContains(t, err, "url is required")
}

func TestPatchEmpty(t *testing.T) {
	assert.True(t, Patch{}.Empty())
	assert.False(t, Patch{ResumeText: ptr("")}.Empty())
}
