package enrich

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"

	"github.com/spigell/career-navigator/internal/analysis"
)

//go:embed payload.schema.json
var payloadSchema []byte

var (
	// ErrInvalidPayload wraps every structural rejection of a model reply.
	ErrInvalidPayload = errors.New("invalid enrichment payload")

	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	schemaErr      error
)

type rawPeriod struct {
	Period     any    `json:"period"`
	Week       any    `json:"week"`
	Focus      string `json:"focus"`
	Outputs    any    `json:"outputs"`
	Checkpoint any    `json:"checkpoint"`
}

type rawPayload struct {
	FoundSkills []string    `json:"foundSkills"`
	Gaps        []string    `json:"gaps"`
	Roadmap     []rawPeriod `json:"roadmap"`
}

func schema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(payloadSchema))
	})
	return compiledSchema, schemaErr
}

// ParseTriple validates a raw model reply and returns the triple it carries.
// The reply is rejected as a whole if any part of it is malformed.
func ParseTriple(raw string) (Triple, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return Triple{}, fmt.Errorf("%w: empty reply", ErrInvalidPayload)
	}

	s, err := schema()
	if err != nil {
		return Triple{}, fmt.Errorf("load payload schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return Triple{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return Triple{}, fmt.Errorf("%w: %s", ErrInvalidPayload, strings.Join(msgs, "; "))
	}

	var generic map[string]any
	decoder := json.NewDecoder(bytes.NewReader([]byte(cleaned)))
	decoder.UseNumber()
	if err := decoder.Decode(&generic); err != nil {
		return Triple{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	var payload rawPayload
	if err := decode(generic, &payload); err != nil {
		return Triple{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	triple := Triple{
		FoundSkills: trimTerms(payload.FoundSkills),
		Gaps:        trimTerms(payload.Gaps),
		Roadmap:     make([]analysis.PeriodPlan, 0, len(payload.Roadmap)),
	}

	for i, p := range payload.Roadmap {
		label := labelFor(p)
		if label == "" {
			return Triple{}, fmt.Errorf("%w: roadmap entry %d has no period label", ErrInvalidPayload, i+1)
		}
		focus := strings.TrimSpace(p.Focus)
		if focus == "" {
			return Triple{}, fmt.Errorf("%w: roadmap entry %d has no focus", ErrInvalidPayload, i+1)
		}
		triple.Roadmap = append(triple.Roadmap, analysis.PeriodPlan{
			Period:     label,
			Focus:      focus,
			Outputs:    flatten(p.Outputs),
			Checkpoint: flatten(p.Checkpoint),
		})
	}

	if len(triple.Roadmap) != analysis.RoadmapPeriods {
		return Triple{}, fmt.Errorf("%w: roadmap has %d entries", ErrInvalidPayload, len(triple.Roadmap))
	}

	if term, ok := overlap(triple.FoundSkills, triple.Gaps); ok {
		return Triple{}, fmt.Errorf("%w: %q is both found and missing", ErrInvalidPayload, term)
	}

	return triple, nil
}

func decode(input map[string]any, out *rawPayload) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// labelFor prefers period over week. Bare integers become "Week N".
func labelFor(p rawPeriod) string {
	label := scalar(p.Period)
	if label == "" {
		label = scalar(p.Week)
	}
	if label == "" {
		return ""
	}
	if _, err := strconv.Atoi(label); err == nil {
		return "Week " + label
	}
	return label
}

func scalar(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	default:
		return ""
	}
}

func flatten(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

func trimTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		if term = strings.TrimSpace(term); term != "" {
			out = append(out, term)
		}
	}
	return out
}

func overlap(found, gaps []string) (string, bool) {
	have := make(map[string]struct{}, len(found))
	for _, f := range found {
		have[strings.ToLower(f)] = struct{}{}
	}
	for _, g := range gaps {
		if _, ok := have[strings.ToLower(g)]; ok {
			return g, true
		}
	}
	return "", false
}

// extractJSON strips markdown code fences some models wrap around JSON replies.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
