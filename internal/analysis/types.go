// Package analysis implements the deterministic skill matcher, gap computation
// and roadmap synthesis over normalized evidence.
package analysis

// Source tags which path produced a Result.
type Source string

const (
	SourceDeterministic Source = "deterministic"
	SourceEnriched      Source = "enriched"
)

// RepoSummary is the structured code-repository metadata imported for a user.
type RepoSummary struct {
	RepoCount int      `json:"repoCount" mapstructure:"repoCount" validate:"gte=0"`
	Languages []string `json:"languages" mapstructure:"languages" validate:"dive,max=100"`
	Topics    []string `json:"topics" mapstructure:"topics" validate:"dive,max=100"`
	Username  string   `json:"username,omitempty" mapstructure:"username"`
}

// Evidence is the raw input bundle for one user. Every field may be empty.
type Evidence struct {
	ImportedProfileText string       `json:"importedProfileText"`
	ResumeText          string       `json:"resumeText"`
	RepoSummary         *RepoSummary `json:"repoSummary"`
}

// PeriodPlan is one period of the roadmap.
type PeriodPlan struct {
	Period     string `json:"period"`
	Focus      string `json:"focus"`
	Outputs    string `json:"outputs"`
	Checkpoint string `json:"checkpoint"`
}

// Result is the analysis artifact persisted per user.
//
// FoundSkills, Gaps and Roadmap form the core triple; the remaining fields are
// derived from the triple and the lexicon.
type Result struct {
	TargetRole     string       `json:"targetRole"`
	FoundSkills    []string     `json:"foundSkills"`
	Gaps           []string     `json:"gaps"`
	Roadmap        []PeriodPlan `json:"roadmap"`
	Source         Source       `json:"source"`
	AlignmentScore float64      `json:"alignmentScore"`
	Readiness      string       `json:"readiness"`
	Projects       []string     `json:"projects"`
	Resources      []string     `json:"resources"`
	Warnings       []string     `json:"warnings,omitempty"`
}
