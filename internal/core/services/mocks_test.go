package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/docent-ai/docent/internal/core/domain"
	"github.com/docent-ai/docent/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder implements driven.EmbeddingService for testing.
// Embeddings are produced by fn when set, else a constant unit vector.
type mockEmbedder struct {
	dims     int
	fn       func(text string) []float32
	embedErr error
	batchErr error
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.fn != nil {
		return m.fn(text), nil
	}
	v := make([]float32, m.dims)
	v[0] = 1
	return v, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return m.dims }
func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockLLM implements driven.LLMService for testing. Responses come from
// fn when set, else from the responses/errs scripts consumed per call.
// Safe for concurrent use; the summariser fans out.
type mockLLM struct {
	mu        sync.Mutex
	fn        func(prompt string) (string, error)
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	call := m.calls
	m.calls++
	m.mu.Unlock()

	if m.fn != nil {
		return m.fn(prompt)
	}
	if call < len(m.errs) && m.errs[call] != nil {
		return "", m.errs[call]
	}
	if call < len(m.responses) {
		return m.responses[call], nil
	}
	if len(m.responses) > 0 {
		return m.responses[len(m.responses)-1], nil
	}
	return "", fmt.Errorf("mock llm: no scripted response for call %d", call)
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockPromptStore implements driven.PromptStore with in-memory templates.
type mockPromptStore struct {
	overrides map[string]string
	loadErr   error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	if tpl, ok := m.overrides[name]; ok {
		return tpl, nil
	}
	switch name {
	case driven.PromptTableSummary:
		return "Describe this table:\n%s", nil
	case driven.PromptImageSummary:
		return "Describe this figure:\n%s", nil
	case driven.PromptAnswer:
		return "Context:\n%s\n\nQuestion: %s\n\nAnswer:", nil
	default:
		return "", fmt.Errorf("mock prompt store: unknown prompt %q", name)
	}
}

func (m *mockPromptStore) Reload() {}

// mockExtractor implements driven.Extractor for testing.
type mockExtractor struct {
	units    []domain.RawUnit
	err      error
	supports bool
}

func (m *mockExtractor) Extract(_ context.Context, _ string) ([]domain.RawUnit, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.units, nil
}

func (m *mockExtractor) Supports(_ string) bool { return m.supports }

// testLLMFor scripts the mock LLM for a multi-modal document: tables and
// figures get distinct summaries, the answer prompt gets a cited answer.
func testLLMFor(answer string) *mockLLM {
	return &mockLLM{fn: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "Question:"):
			return answer, nil
		case strings.Contains(prompt, "figure"):
			return "Formula for the test-negative design: VE = 1 - OR", nil
		case strings.Contains(prompt, "table"):
			return "Comparison of vaccine efficacy across age groups", nil
		default:
			return "Generated summary", nil
		}
	}}
}
