// Package ai holds the provider-neutral contract the enrichment adapter talks to.
package ai

import "context"

const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

// Generator sends a system instruction and one user message to a language model
// and returns the raw textual reply.
type Generator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}
