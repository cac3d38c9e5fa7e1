package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/career-navigator/internal/analysis"
	"github.com/spigell/career-navigator/internal/notify"
)

func TestClassifyPriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		expect Intent
	}{
		{input: "Give me my profile summary", expect: IntentSummary},
		{input: "summary of my gap list", expect: IntentSummary},
		{input: "roadmap gap this week", expect: IntentGaps},
		{input: "What am I MISSING?", expect: IntentGaps},
		{input: "What should I do this week?", expect: IntentWeek},
		{input: "show the plan for my project", expect: IntentWeek},
		{input: "Show recommended projects", expect: IntentProjects},
		{input: "project resources", expect: IntentProjects},
		{input: "Show recommended resources", expect: IntentResources},
		{input: "what is my readiness score", expect: IntentScore},
		{input: "hello", expect: IntentHelp},
		{input: "", expect: IntentHelp},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.input); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestQuickPromptsCoverDistinctIntents(t *testing.T) {
	seen := map[Intent]bool{}
	for _, prompt := range QuickPrompts {
		intent := Classify(prompt)
		if intent == IntentHelp || seen[intent] {
			t.Fatalf("quick prompt %q resolves to %q", prompt, intent)
		}
		seen[intent] = true
	}
}

func TestRenderWithoutAnalysis(t *testing.T) {
	for _, intent := range []Intent{IntentSummary, IntentGaps, IntentWeek, IntentProjects, IntentResources, IntentScore, IntentHelp} {
		if got := Render(intent, nil); got != NoDataReply {
			t.Fatalf("intent %q: expected fallback, got %q", intent, got)
		}
	}
}

func TestRender(t *testing.T) {
	result := &analysis.Result{
		FoundSkills:    []string{"sql", "excel"},
		Gaps:           []string{"a", "b", "c", "d", "e", "f", "g"},
		Roadmap:        []analysis.PeriodPlan{{Period: "Week 1", Focus: "Close gaps: a, b", Outputs: "drills"}},
		AlignmentScore: 22.22,
		Readiness:      "Needs strong foundation (120+ days)",
		Projects:       []string{"p1", "p2"},
		Resources:      []string{"r1", "r2", "r3", "r4", "r5"},
	}

	tests := []struct {
		intent Intent
		expect string
	}{
		{intent: IntentSummary, expect: "Alignment: 22.22% | Readiness: Needs strong foundation (120+ days). Skills found: 2. Gaps found: 7."},
		{intent: IntentGaps, expect: "Top gaps: a, b, c, d, e, f."},
		{intent: IntentWeek, expect: "Week 1: Close gaps: a, b. Outputs: drills. Checkpoint: N/A."},
		{intent: IntentProjects, expect: "Recommended projects: p1 | p2."},
		{intent: IntentResources, expect: "Recommended resources: r1 | r2 | r3 | r4."},
		{intent: IntentScore, expect: "Your alignment score is 22.22% and readiness is Needs strong foundation (120+ days)."},
		{intent: IntentHelp, expect: HelpReply},
	}

	for _, tt := range tests {
		if got := Render(tt.intent, result); got != tt.expect {
			t.Fatalf("intent %q:\nexpected %q\ngot      %q", tt.intent, tt.expect, got)
		}
	}
}

func TestRenderEmptyAnalysis(t *testing.T) {
	empty := &analysis.Result{}

	tests := []struct {
		intent Intent
		expect string
	}{
		{intent: IntentSummary, expect: "Alignment: 0% | Readiness: N/A. Skills found: 0. Gaps found: 0."},
		{intent: IntentGaps, expect: "Great news, no major skill gaps were detected."},
		{intent: IntentWeek, expect: "No roadmap yet. Run analysis to generate your weekly plan."},
		{intent: IntentProjects, expect: "No project recommendations yet. Run analysis first."},
		{intent: IntentResources, expect: "No resources found yet. Run analysis first."},
		{intent: IntentScore, expect: "Your alignment score is 0% and readiness is N/A."},
	}

	for _, tt := range tests {
		if got := Render(tt.intent, empty); got != tt.expect {
			t.Fatalf("intent %q: expected %q, got %q", tt.intent, tt.expect, got)
		}
	}
}

type stubSource struct {
	result *analysis.Result
	err    error
	calls  int
}

func (s *stubSource) LatestAnalysis(context.Context, string) (*analysis.Result, error) {
	s.calls++
	return s.result, s.err
}

func TestAssistantReadsSourceOnEveryQuestion(t *testing.T) {
	source := &stubSource{result: &analysis.Result{Gaps: []string{"stored"}}}
	assistant := NewAssistant(source, zap.NewNop())

	reply, err := assistant.Ask(context.Background(), "u-1", "gaps?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Intent != IntentGaps || reply.Text != "Top gaps: stored." {
		t.Fatalf("unexpected reply: %+v", reply)
	}

	hub := notify.NewHub(nil)
	hub.Subscribe(assistant.Observe)
	hub.Publish("u-1", analysis.Result{Gaps: []string{"in-process"}})

	// Another process overwrote the stored analysis after the event.
	source.result = &analysis.Result{Gaps: []string{"durable"}}

	reply, err = assistant.Ask(context.Background(), "u-1", "gaps?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Text != "Top gaps: durable." {
		t.Fatalf("expected the stored analysis, got %q", reply.Text)
	}
	if source.calls != 2 {
		t.Fatalf("expected a source read per question, got %d", source.calls)
	}
}

func TestAssistantWithoutAnalysis(t *testing.T) {
	assistant := NewAssistant(&stubSource{err: ErrNoAnalysis}, nil)

	reply, err := assistant.Ask(context.Background(), "nobody", "Show recommended projects")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Text != NoDataReply {
		t.Fatalf("expected fallback, got %q", reply.Text)
	}
}

func TestAssistantSourceFailure(t *testing.T) {
	assistant := NewAssistant(&stubSource{err: errors.New("store down")}, nil)

	if _, err := assistant.Ask(context.Background(), "u", "summary"); err == nil || !strings.Contains(err.Error(), "store down") {
		t.Fatalf("expected source error, got %v", err)
	}
}

func TestConverseAppendsTranscript(t *testing.T) {
	assistant := NewAssistant(nil, nil)
	session := NewSession("u-1")

	if _, err := assistant.Converse(context.Background(), session, "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	messages := session.Messages()
	if len(messages) != 3 {
		t.Fatalf("expected greeting, question and reply, got %d messages", len(messages))
	}
	if messages[0].Text != Greeting || messages[1].Role != RoleUser || messages[2].Text != NoDataReply {
		t.Fatalf("unexpected transcript: %+v", messages)
	}

	messages[0].Text = "mutated"
	if session.Messages()[0].Text != Greeting {
		t.Fatal("Messages must return a copy")
	}
}
