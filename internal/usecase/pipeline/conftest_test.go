package pipeline

import (
	"context"
	"sync"

	"github.com/motorq/concierge/internal/domain"
)

// --- Mocks ---

type mockCache struct {
	mu      sync.Mutex
	answers map[string]string
	stored  map[string]string
	lookups int
}

func newMockCache() *mockCache {
	return &mockCache{answers: make(map[string]string), stored: make(map[string]string)}
}

func (m *mockCache) Lookup(_ context.Context, query string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	a, ok := m.answers[query]
	return a, ok
}

func (m *mockCache) Store(_ context.Context, query, answer string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored[query] = answer
}

func (m *mockCache) storedAnswer(query string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.stored[query]
	return a, ok
}

type mockDecomposer struct {
	subqs  domain.SubQuestions
	err    error
	called int
}

func (m *mockDecomposer) Decompose(_ context.Context, _ string) (domain.SubQuestions, error) {
	m.called++
	return m.subqs, m.err
}

type mockCoordinator struct {
	retrieved []domain.Retrieved
	called    int
	gotSubqs  domain.SubQuestions
}

func (m *mockCoordinator) RetrieveAll(_ context.Context, subqs domain.SubQuestions) []domain.Retrieved {
	m.called++
	m.gotSubqs = subqs
	if m.retrieved != nil {
		return m.retrieved
	}
	out := make([]domain.Retrieved, len(subqs))
	for i, q := range subqs {
		out[i] = domain.Retrieved{SubQuestion: q, Search: domain.EmptyBundle(q)}
	}
	return out
}

type mockSynthesizer struct {
	answer   string
	err      error
	called   int
	gotQuery string
	gotSlots []domain.Retrieved
}

func (m *mockSynthesizer) Synthesize(
	_ context.Context, query string, _ domain.SubQuestions, retrieved []domain.Retrieved,
) (string, error) {
	m.called++
	m.gotQuery = query
	m.gotSlots = retrieved
	return m.answer, m.err
}

type panicSynthesizer struct{}

func (panicSynthesizer) Synthesize(
	_ context.Context, _ string, _ domain.SubQuestions, _ []domain.Retrieved,
) (string, error) {
	panic("synthesizer blew up")
}
