package analysis

import (
	"encoding/json"
	"strings"
)

// ScanText concatenates the evidence into one lowercase buffer. The repo summary
// is serialized as JSON so its languages and topics take part in matching.
func ScanText(ev Evidence) string {
	summary := "{}"
	if ev.RepoSummary != nil {
		// RepoSummary holds only strings, slices and an int; Marshal cannot fail.
		data, _ := json.Marshal(ev.RepoSummary)
		summary = string(data)
	}

	var b strings.Builder
	b.WriteString(ev.ImportedProfileText)
	b.WriteString("\n")
	b.WriteString(ev.ResumeText)
	b.WriteString("\n")
	b.WriteString(summary)

	return strings.ToLower(b.String())
}
