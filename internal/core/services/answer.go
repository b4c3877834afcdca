package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docent-ai/docent/internal/core/domain"
	"github.com/docent-ai/docent/internal/core/ports/driven"
	"github.com/docent-ai/docent/internal/logger"
)

// Answer generation defaults.
const (
	// DefaultAnswerAttempts is the total attempt count: one call plus two
	// bounded retries before the failure surfaces.
	DefaultAnswerAttempts = 3

	// DefaultAnswerBackoff is the base delay between attempts; it doubles
	// per retry.
	DefaultAnswerBackoff = 500 * time.Millisecond

	// answerMaxTokens caps the generated answer length.
	answerMaxTokens = 1024

	// previewLength caps citation content previews.
	previewLength = 200
)

// AnswerGenerator produces a cited answer from a context bundle through
// the external generation capability. The prompt instructs the model to
// answer only from the supplied bundle and to attach citation labels to
// every factual claim; enforcing that is prompt discipline, not an
// algorithm.
type AnswerGenerator struct {
	llm      driven.LLMService
	prompts  driven.PromptStore
	attempts int
	backoff  time.Duration
}

// NewAnswerGenerator creates an answer generator.
func NewAnswerGenerator(llm driven.LLMService, prompts driven.PromptStore) *AnswerGenerator {
	return &AnswerGenerator{
		llm:      llm,
		prompts:  prompts,
		attempts: DefaultAnswerAttempts,
		backoff:  DefaultAnswerBackoff,
	}
}

// SetRetryPolicy overrides the attempt count and base backoff.
func (g *AnswerGenerator) SetRetryPolicy(attempts int, backoff time.Duration) {
	if attempts > 0 {
		g.attempts = attempts
	}
	if backoff >= 0 {
		g.backoff = backoff
	}
}

// Answer generates a cited answer to the question from the bundle.
// External-service failures are retried a bounded number of times with
// backoff, then surface as a *domain.GenerationError.
func (g *AnswerGenerator) Answer(ctx context.Context, question string, bundle *domain.ContextBundle) (*domain.Answer, error) {
	if g.llm == nil {
		return nil, &domain.GenerationError{Attempts: 0, Err: domain.ErrLLMUnavailable}
	}

	template, err := g.prompts.Load(driven.PromptAnswer)
	if err != nil {
		return nil, fmt.Errorf("load answer prompt: %w", err)
	}

	prompt := fmt.Sprintf(template, formatContext(bundle), question)
	logger.Section("Answer Generation")
	logger.Debug("Prompt: %d bytes, %d context units", len(prompt), len(bundle.Entries))

	var text string
	var lastErr error
	for attempt := 1; attempt <= g.attempts; attempt++ {
		text, lastErr = g.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: answerMaxTokens})
		if lastErr == nil && strings.TrimSpace(text) != "" {
			break
		}
		if lastErr == nil {
			lastErr = fmt.Errorf("empty completion")
		}
		logger.Warn("Generation attempt %d/%d failed: %v", attempt, g.attempts, lastErr)

		if attempt == g.attempts {
			return nil, &domain.GenerationError{Attempts: attempt, Err: lastErr}
		}
		if err := sleepContext(ctx, g.backoff*time.Duration(1<<(attempt-1))); err != nil {
			return nil, &domain.GenerationError{Attempts: attempt, Err: err}
		}
	}

	text = strings.TrimSpace(text)
	answer := &domain.Answer{
		Text:      text,
		Citations: extractCitations(text, bundle),
	}

	logger.Info("Answer: %d bytes, %d citations", len(answer.Text), len(answer.Citations))
	return answer, nil
}

// formatContext renders the bundle for the prompt. Each unit appears
// under its citation label with its page and kind so the model can cite
// it; the body is always the unit's raw content.
func formatContext(bundle *domain.ContextBundle) string {
	var b strings.Builder
	for _, entry := range bundle.Entries {
		fmt.Fprintf(&b, "[%s] (page %d, %s)\n%s\n\n", entry.Label, entry.Unit.Page, entry.Unit.Kind, entry.Unit.RawContent)
	}
	return strings.TrimRight(b.String(), "\n")
}

// extractCitations lists the bundle entries whose labels appear in the
// answer text. When the model attached no labels at all, every bundle
// entry is cited: the answer was generated from exactly that context.
func extractCitations(text string, bundle *domain.ContextBundle) []domain.Citation {
	var cited []domain.Citation
	for _, entry := range bundle.Entries {
		if strings.Contains(text, "["+entry.Label+"]") {
			cited = append(cited, newCitation(entry))
		}
	}
	if len(cited) > 0 {
		return cited
	}

	all := make([]domain.Citation, len(bundle.Entries))
	for i, entry := range bundle.Entries {
		all[i] = newCitation(entry)
	}
	return all
}

// newCitation builds a citation with a kind-appropriate content preview.
func newCitation(entry domain.ContextEntry) domain.Citation {
	return domain.Citation{
		Label:   entry.Label,
		Page:    entry.Unit.Page,
		Kind:    entry.Unit.Kind,
		Preview: contentPreview(entry.Unit),
	}
}

// contentPreview produces a short excerpt of the cited raw content:
// the first rows of a table, a truncated prefix of text, a fixed marker
// for images.
func contentPreview(unit domain.ContentUnit) string {
	switch unit.Kind {
	case domain.KindImage:
		return "[diagram]"
	case domain.KindTable:
		lines := strings.Split(unit.RawContent, "\n")
		if len(lines) > 3 {
			return strings.Join(lines[:3], "\n") + "\n..."
		}
		return unit.RawContent
	default:
		if len(unit.RawContent) > previewLength {
			return unit.RawContent[:previewLength] + "..."
		}
		return unit.RawContent
	}
}

// sleepContext waits for the duration unless the context ends first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
