package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/docent-ai/docent/internal/core/domain"
	"github.com/docent-ai/docent/internal/core/ports/driven"
	"github.com/docent-ai/docent/internal/logger"
)

// Default summariser configuration.
const (
	// DefaultSummaryConcurrency bounds the fan-out of summary generation.
	DefaultSummaryConcurrency = 4

	// summaryMaxTokens caps the length of a generated summary.
	summaryMaxTokens = 300
)

// Summarizer produces the semantic summary string for each content unit.
// Text units pass through with light normalisation; tables and images are
// described by the generation capability using per-kind prompt templates.
type Summarizer struct {
	llm         driven.LLMService
	prompts     driven.PromptStore
	concurrency int
}

// NewSummarizer creates a new summariser.
func NewSummarizer(llm driven.LLMService, prompts driven.PromptStore) *Summarizer {
	return &Summarizer{
		llm:         llm,
		prompts:     prompts,
		concurrency: DefaultSummaryConcurrency,
	}
}

// SetConcurrency overrides the summary fan-out width.
func (s *Summarizer) SetConcurrency(n int) {
	if n > 0 {
		s.concurrency = n
	}
}

// Summarize produces the summary for one unit. Returns a
// *domain.SummarizationError when the generation capability fails or
// returns a degenerate result.
func (s *Summarizer) Summarize(ctx context.Context, kind domain.ContentKind, page int, rawContent string) (string, error) {
	switch kind {
	case domain.KindText:
		return normaliseText(rawContent), nil
	case domain.KindTable:
		return s.generateSummary(ctx, driven.PromptTableSummary, kind, page, rawContent)
	case domain.KindImage:
		return s.generateSummary(ctx, driven.PromptImageSummary, kind, page, rawContent)
	default:
		return "", fmt.Errorf("%w: unknown content kind %q", domain.ErrInvalidInput, kind)
	}
}

// SummarizeAll fills in the Summary field of every unit, fanning out
// independent units across a bounded number of workers. Per-unit failures
// degrade to a placeholder summary with the LowConfidence flag set; a unit
// is never silently dropped. Only context cancellation aborts the batch.
func (s *Summarizer) SummarizeAll(ctx context.Context, units []domain.ContentUnit) ([]domain.ContentUnit, error) {
	logger.Section("Summarisation")
	logger.Debug("Summarising %d units with concurrency %d", len(units), s.concurrency)

	out := make([]domain.ContentUnit, len(units))
	copy(out, units)

	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i := range out {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			unit := &out[i]
			summary, err := s.Summarize(ctx, unit.Kind, unit.Page, unit.RawContent)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Warn("Summarisation failed for %s on page %d: %v (using placeholder)",
					unit.Kind, unit.Page, err)
				unit.Summary = placeholderSummary(unit.Kind, unit.Page)
				unit.LowConfidence = true
				return
			}
			unit.Summary = summary
		}(i)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// generateSummary calls the generation capability with the named prompt
// template and validates the result.
func (s *Summarizer) generateSummary(
	ctx context.Context, promptName string, kind domain.ContentKind, page int, rawContent string,
) (string, error) {
	if s.llm == nil {
		return "", &domain.SummarizationError{Page: page, Kind: kind, Err: domain.ErrLLMUnavailable}
	}

	template, err := s.prompts.Load(promptName)
	if err != nil {
		return "", &domain.SummarizationError{Page: page, Kind: kind, Err: fmt.Errorf("load prompt: %w", err)}
	}

	prompt := fmt.Sprintf(template, rawContent)
	summary, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: summaryMaxTokens})
	if err != nil {
		return "", &domain.SummarizationError{Page: page, Kind: kind, Err: err}
	}

	summary = strings.TrimSpace(summary)
	if isDegenerateSummary(summary) {
		return "", &domain.SummarizationError{
			Page: page,
			Kind: kind,
			Err:  fmt.Errorf("degenerate summary %q", summary),
		}
	}

	return summary, nil
}

// placeholderSummary is the low-confidence fallback used when summary
// generation fails. The unit stays retrievable by page and kind terms.
func placeholderSummary(kind domain.ContentKind, page int) string {
	name := kind.String()
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return fmt.Sprintf("%s on page %d (summary unavailable)", name, page)
}

// normaliseText collapses runs of whitespace in a text unit without
// altering its wording. Text units are matched on their own content.
func normaliseText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// isDegenerateSummary rejects results too short to carry meaning.
func isDegenerateSummary(summary string) bool {
	return len(summary) < 3
}
