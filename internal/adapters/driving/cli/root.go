// Package cli provides the docent command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docent-ai/docent/internal/adapters/driven/ai"
	fileconfig "github.com/docent-ai/docent/internal/adapters/driven/config/file"
	"github.com/docent-ai/docent/internal/adapters/driven/extract/manifest"
	"github.com/docent-ai/docent/internal/adapters/driven/extract/pdf"
	indexmemory "github.com/docent-ai/docent/internal/adapters/driven/index/memory"
	storagememory "github.com/docent-ai/docent/internal/adapters/driven/storage/memory"
	"github.com/docent-ai/docent/internal/core/domain"
	"github.com/docent-ai/docent/internal/core/ports/driven"
	"github.com/docent-ai/docent/internal/core/ports/driving"
	"github.com/docent-ai/docent/internal/core/services"
	"github.com/docent-ai/docent/internal/logger"
)

// version is set by Execute from build information.
var version = "dev"

var verbose bool

// Services wired by ensureServices. Commands that query the pipeline call
// ensureServices first; config and version commands only need the store.
var (
	configStore   driven.ConfigStore
	session       *domain.Session
	unitStore     driven.UnitStore
	ingestService driving.IngestService
	askService    driving.AskService
)

var rootCmd = &cobra.Command{
	Use:   "docent",
	Short: "Ask questions about a document",
	Long: `Docent answers natural-language questions about a single document.

The document is extracted into text, table and image units, summarised,
and indexed for hybrid retrieval (semantic + keyword, fused by reciprocal
rank). Answers are generated from the original content only and carry
page-level citations.

Supported documents:
  *.pdf          - text extracted per page
  *.yaml, *.yml  - pre-parsed manifests with text, table and image units`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// Execute runs the root command. The version string is injected by main.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}

// ensureConfigStore opens the config store if not already open.
func ensureConfigStore() error {
	if configStore != nil {
		return nil
	}
	store, err := fileconfig.NewConfigStore(os.Getenv("DOCENT_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}
	configStore = store
	return nil
}

// ensureServices wires the full pipeline: config, AI services, indexes,
// core services. It is idempotent.
func ensureServices() error {
	if askService != nil {
		return nil
	}
	if err := ensureConfigStore(); err != nil {
		return err
	}

	embedSettings := loadEmbeddingSettings()
	llmSettings := loadLLMSettings()

	embedder, err := ai.CreateAndValidateEmbeddingService(&embedSettings)
	if err != nil {
		return err
	}
	if embedder == nil {
		return errors.New("no embedding provider configured, run 'docent config set embedding.provider ollama' (or openai)")
	}

	llm, err := ai.CreateAndValidateLLMService(&llmSettings)
	if err != nil {
		return err
	}
	if llm == nil {
		return errors.New("no LLM provider configured, run 'docent config set llm.provider ollama' (or openai, anthropic)")
	}

	prompts, err := fileconfig.NewPromptStore(os.Getenv("DOCENT_PROMPT_DIR"))
	if err != nil {
		return fmt.Errorf("open prompt store: %w", err)
	}

	session = domain.NewSession()
	unitStore = storagememory.NewUnitStore()
	vectorIndex := indexmemory.NewVectorIndex(embedder.Dimensions())
	lexicalIndex := indexmemory.NewLexicalIndex()

	dualIndex := services.NewDualIndex(unitStore, vectorIndex, lexicalIndex, embedder)
	summarizer := services.NewSummarizer(llm, prompts)
	retriever := services.NewFusionRetriever(dualIndex, unitStore, loadRetrievalConfig())
	assembler := services.NewContextAssembler(unitStore)
	generator := services.NewAnswerGenerator(llm, prompts)

	extractors := []driven.Extractor{
		manifest.NewExtractor(),
		pdf.NewExtractor(),
	}

	ingestService = services.NewIngestService(session, extractors, summarizer, dualIndex)
	askService = services.NewAskService(session, retriever, assembler, generator, unitStore)
	return nil
}

// loadEmbeddingSettings reads embedding provider settings from the config
// store, with environment fallback for the API key.
func loadEmbeddingSettings() domain.EmbeddingSettings {
	s := domain.EmbeddingSettings{
		Provider: domain.AIProvider(configStore.GetString("embedding.provider")),
		Model:    configStore.GetString("embedding.model"),
		BaseURL:  configStore.GetString("embedding.base_url"),
		APIKey:   configStore.GetString("embedding.api_key"),
	}
	if s.APIKey == "" && s.Provider == domain.AIProviderOpenAI {
		s.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return s
}

// loadLLMSettings reads generation provider settings from the config
// store, with environment fallback for the API key.
func loadLLMSettings() domain.LLMSettings {
	s := domain.LLMSettings{
		Provider:          domain.AIProvider(configStore.GetString("llm.provider")),
		Model:             configStore.GetString("llm.model"),
		BaseURL:           configStore.GetString("llm.base_url"),
		APIKey:            configStore.GetString("llm.api_key"),
		RequestsPerSecond: configStore.GetFloat("llm.requests_per_second"),
	}
	if s.APIKey == "" {
		switch s.Provider {
		case domain.AIProviderOpenAI:
			s.APIKey = os.Getenv("OPENAI_API_KEY")
		case domain.AIProviderAnthropic:
			s.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	return s
}

// loadRetrievalConfig reads retrieval tuning from the config store.
// Unset keys fall back to the built-in defaults via Normalised.
func loadRetrievalConfig() domain.RetrievalConfig {
	return domain.RetrievalConfig{
		KDense:        configStore.GetInt("retrieval.k_dense"),
		KLexical:      configStore.GetInt("retrieval.k_lexical"),
		KFinal:        configStore.GetInt("retrieval.k_final"),
		RRFConstant:   configStore.GetInt("retrieval.rrf_constant"),
		ContextBudget: configStore.GetInt("retrieval.context_budget"),
	}
}
