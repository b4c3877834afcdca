package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns the prompt content and any error encountered.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptTableSummary describes a markdown table in natural language.
	// The template expects a %s placeholder for the table content.
	PromptTableSummary = "table_summary"

	// PromptImageSummary describes a figure or diagram.
	// The template expects a %s placeholder for the image reference.
	PromptImageSummary = "image_summary"

	// PromptAnswer synthesises a cited answer from retrieved context.
	// The template expects %s (context) and %s (question) placeholders.
	PromptAnswer = "answer"
)
