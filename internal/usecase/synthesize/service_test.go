package synthesize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/motorq/concierge/internal/domain"
)

type mockCompleter struct {
	out    string
	err    error
	gotOp  string
	gotReq domain.Prompt
}

func (m *mockCompleter) Complete(_ context.Context, op string, p domain.Prompt) (string, error) {
	m.gotOp = op
	m.gotReq = p
	return m.out, m.err
}

func TestSynthesize_Success(t *testing.T) {
	llm := &mockCompleter{out: "Hello! The road bike comes in sizes S through XL."}

	svc := New(llm, "gpt-4o")
	answer, err := svc.Synthesize(context.Background(), "what sizes",
		domain.SubQuestions{"available sizes?"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != llm.out {
		t.Errorf("answer = %q", answer)
	}
	if llm.gotOp != "synthesize" {
		t.Errorf("op = %q, want synthesize", llm.gotOp)
	}
	if llm.gotReq.Deterministic {
		t.Error("synthesis must use the provider's default sampling")
	}
}

func TestSynthesize_TrimsAnswer(t *testing.T) {
	llm := &mockCompleter{out: "\n  the answer  \n"}

	svc := New(llm, "gpt-4o")
	answer, err := svc.Synthesize(context.Background(), "q", domain.SubQuestions{"q"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "the answer" {
		t.Errorf("answer = %q, want trimmed", answer)
	}
}

func TestSynthesize_WhitespaceOutputIsEmptySynthesis(t *testing.T) {
	for _, out := range []string{"", "   ", "\n\t\n"} {
		llm := &mockCompleter{out: out}

		svc := New(llm, "gpt-4o")
		_, err := svc.Synthesize(context.Background(), "q", domain.SubQuestions{"q"}, nil)

		if !errors.Is(err, domain.ErrEmptySynthesis) {
			t.Errorf("output %q: err = %v, want ErrEmptySynthesis", out, err)
		}
	}
}

func TestSynthesize_ProviderFailureWrapped(t *testing.T) {
	llm := &mockCompleter{err: errors.New("provider: 500")}

	svc := New(llm, "gpt-4o")
	_, err := svc.Synthesize(context.Background(), "q", domain.SubQuestions{"q"}, nil)

	if !errors.Is(err, domain.ErrSynthesisUnavailable) {
		t.Fatalf("err = %v, want ErrSynthesisUnavailable", err)
	}
	if errors.Is(err, domain.ErrEmptySynthesis) {
		t.Error("provider failure must not be conflated with empty synthesis")
	}
}

func TestBuildContext_CarriesAllMaterial(t *testing.T) {
	subqs := domain.SubQuestions{"price?", "sizes?"}
	retrieved := []domain.Retrieved{
		{
			SubQuestion: "price?",
			Search:      domain.SearchBundle{Query: "price?", Raw: []byte(`{"results":["$900"]}`)},
			Passages:    []domain.Passage{{Content: "The road bike retails at $900."}},
		},
		{
			SubQuestion: "sizes?",
			Search:      domain.EmptyBundle("sizes?"),
		},
	}

	got := buildContext("how much and what sizes", subqs, retrieved)

	for _, want := range []string{
		"how much and what sizes",
		"1. price?",
		"2. sizes?",
		`{"results":["$900"]}`,
		"The road bike retails at $900.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("context missing %q:\n%s", want, got)
		}
	}

	// Degraded slots are stated as absent, not silently dropped.
	if !strings.Contains(got, "Web search: no results.") {
		t.Errorf("context must mark the empty search bundle:\n%s", got)
	}
	if !strings.Contains(got, "Stored passages: none.") {
		t.Errorf("context must mark the missing passages:\n%s", got)
	}
}

func TestBuildContext_PromptOrderFollowsSlots(t *testing.T) {
	retrieved := []domain.Retrieved{
		{SubQuestion: "first", Search: domain.EmptyBundle("first")},
		{SubQuestion: "second", Search: domain.EmptyBundle("second")},
	}

	got := buildContext("q", domain.SubQuestions{"first", "second"}, retrieved)

	if strings.Index(got, "sub-question 1: first") > strings.Index(got, "sub-question 2: second") {
		t.Errorf("material sections out of order:\n%s", got)
	}
}
