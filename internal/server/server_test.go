package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/career-navigator/internal/analysis"
	"github.com/spigell/career-navigator/internal/chat"
	"github.com/spigell/career-navigator/internal/lexicon"
	"github.com/spigell/career-navigator/internal/navigator"
	"github.com/spigell/career-navigator/internal/notify"
	"github.com/spigell/career-navigator/internal/store"
)

type brokenStore struct {
	store.Store
}

func (brokenStore) Merge(context.Context, string, store.Patch) (*store.Document, error) {
	return nil, errors.New("store unavailable")
}

func newTestServer(t *testing.T, st store.Store) *Server {
	t.Helper()

	hub := notify.NewHub(zap.NewNop())
	svc := navigator.New(lexicon.Default(), st, nil, hub, zap.NewNop())
	assistant := chat.NewAssistant(svc, zap.NewNop())
	hub.Subscribe(assistant.Observe)

	return New("127.0.0.1:0", svc, assistant, zap.NewNop())
}

func post(t *testing.T, s *Server, path string, payload any) *ut.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(payload))
	}

	return ut.PerformRequest(s.Engine(), http.MethodPost, path,
		&ut.Body{Body: &buf, Len: buf.Len()},
		ut.Header{Key: "Content-Type", Value: "application/json"},
	)
}

func TestAnalysisFlow(t *testing.T) {
	s := newTestServer(t, store.NewMemory())

	resp := post(t, s, "/api/v1/users/u-1/evidence", map[string]any{
		"resumeText":  "React and SQL projects",
		"repoSummary": map[string]any{"repoCount": 3, "languages": []string{"TypeScript"}, "topics": []string{}},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = post(t, s, "/api/v1/users/u-1/analysis", map[string]any{"targetRole": "Frontend Engineer"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var analyzed analysisResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &analyzed))
	assert.True(t, analyzed.Persisted)
	assert.Equal(t, []string{"javascript", "git"}, analyzed.Result.Gaps)
	assert.Len(t, analyzed.Result.Roadmap, analysis.RoadmapPeriods)

	resp = ut.PerformRequest(s.Engine(), http.MethodGet, "/api/v1/users/u-1/analysis", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var latest analysis.Result
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &latest))
	assert.Equal(t, analyzed.Result.Gaps, latest.Gaps)

	resp = post(t, s, "/api/v1/users/u-1/chat", map[string]string{"message": "What are my top skill gaps?"})
	require.Equal(t, http.StatusOK, resp.Code)

	var reply chat.Reply
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &reply))
	assert.Equal(t, chat.IntentGaps, reply.Intent)
	assert.Equal(t, "Top gaps: javascript, git.", reply.Text)
}

func TestChatWithoutAnalysis(t *testing.T) {
	s := newTestServer(t, store.NewMemory())

	resp := post(t, s, "/api/v1/users/nobody/chat", map[string]string{"message": "Show recommended projects"})
	require.Equal(t, http.StatusOK, resp.Code)

	var reply chat.Reply
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &reply))
	assert.Equal(t, chat.NoDataReply, reply.Text)

	resp = ut.PerformRequest(s.Engine(), http.MethodGet, "/api/v1/users/nobody/analysis", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestAnalyzeEmptyBodyUsesDefaults(t *testing.T) {
	s := newTestServer(t, store.NewMemory())

	resp := post(t, s, "/api/v1/users/u/analysis", nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var analyzed analysisResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &analyzed))
	assert.Equal(t, "Product Analyst", analyzed.Result.TargetRole)
	assert.Empty(t, analyzed.Result.FoundSkills)
}

func TestAnalyzePersistFailureStillReturnsResult(t *testing.T) {
	s := newTestServer(t, brokenStore{Store: store.NewMemory()})

	resp := post(t, s, "/api/v1/users/u/analysis", map[string]any{"targetRole": "Data Analyst"})
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)

	var analyzed analysisResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &analyzed))
	assert.False(t, analyzed.Persisted)
	assert.Contains(t, analyzed.Error, "store unavailable")
	assert.Len(t, analyzed.Result.Gaps, 5)
}

func TestBadRequests(t *testing.T) {
	s := newTestServer(t, store.NewMemory())

	tests := []struct {
		name    string
		path    string
		payload any
	}{
		{name: "chat without message", path: "/api/v1/users/u/chat", payload: map[string]string{"message": ""}},
		{name: "chat without body", path: "/api/v1/users/u/chat"},
		{name: "evidence without fields", path: "/api/v1/users/u/evidence", payload: map[string]any{}},
		{name: "negative repo count", path: "/api/v1/users/u/analysis", payload: map[string]any{"repoSummary": map[string]any{"repoCount": -2}}},
		{name: "wrong types", path: "/api/v1/users/u/analysis", payload: map[string]any{"resumeText": 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, s, tt.path, tt.payload)
			assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

			var body map[string]string
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestRolesAndPrompts(t *testing.T) {
	s := newTestServer(t, store.NewMemory())

	resp := ut.PerformRequest(s.Engine(), http.MethodGet, "/api/v1/roles", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var roles struct {
		DefaultRole string         `json:"defaultRole"`
		Roles       []roleResponse `json:"roles"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &roles))
	assert.Equal(t, "Product Analyst", roles.DefaultRole)
	require.Len(t, roles.Roles, 4)
	assert.Equal(t, "Data Analyst", roles.Roles[0].Name)

	resp = ut.PerformRequest(s.Engine(), http.MethodGet, "/api/v1/chat/prompts", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "What should I do this week?")
}
