package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}

	got, err := Load(Source{Name: "gemini api key", File: path, Value: "inline"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-file" {
		t.Fatalf("expected file value, got %q", got)
	}
}

func TestLoadFallsBackToEnv(t *testing.T) {
	t.Setenv("CAREER_NAVIGATOR_TEST_KEY", " env-key ")

	got, err := Load(Source{Env: "CAREER_NAVIGATOR_TEST_KEY"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "env-key" {
		t.Fatalf("expected env value, got %q", got)
	}

	got, err = Load(Source{Value: "inline", Env: "CAREER_NAVIGATOR_TEST_KEY"})
	if err != nil || got != "inline" {
		t.Fatalf("expected inline value to win over env, got %q (%v)", got, err)
	}
}

func TestLoadErrors(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(empty, []byte("   "), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}

	tests := []struct {
		name   string
		src    Source
		expect string
	}{
		{name: "missing file", src: Source{Name: "groq api key", File: filepath.Join(t.TempDir(), "nope")}, expect: "reading groq api key"},
		{name: "empty file", src: Source{File: empty}, expect: "is empty"},
		{name: "nothing configured", src: Source{}, expect: "secret is not configured"},
		{name: "unset env", src: Source{Env: "CAREER_NAVIGATOR_UNSET_KEY"}, expect: "set CAREER_NAVIGATOR_UNSET_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.src)
			if err == nil || !strings.Contains(err.Error(), tt.expect) {
				t.Fatalf("expected error containing %q, got %v", tt.expect, err)
			}
		})
	}
}
