package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// configKeys documents the recognised configuration keys.
var configKeys = []string{
	"embedding.provider",
	"embedding.model",
	"embedding.base_url",
	"embedding.api_key",
	"llm.provider",
	"llm.model",
	"llm.base_url",
	"llm.api_key",
	"llm.requests_per_second",
	"retrieval.k_dense",
	"retrieval.k_lexical",
	"retrieval.k_final",
	"retrieval.rrf_constant",
	"retrieval.context_budget",
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and edit docent configuration.

Recognised keys:
  embedding.provider          ollama | openai
  embedding.model             embedding model name
  embedding.base_url          API endpoint (for ollama)
  embedding.api_key           API key (for openai)
  llm.provider                ollama | openai | anthropic
  llm.model                   generation model name
  llm.base_url                API endpoint (for ollama)
  llm.api_key                 API key (for openai/anthropic)
  llm.requests_per_second     outbound generation rate limit (0 = off)
  retrieval.k_dense           dense candidates per query
  retrieval.k_lexical         lexical candidates per query
  retrieval.k_final           fused results per query
  retrieval.rrf_constant      rank fusion damping constant
  retrieval.context_budget    context size budget in bytes`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if err := ensureConfigStore(); err != nil {
		return err
	}

	keys := append([]string(nil), configKeys...)
	sort.Strings(keys)

	cmd.Println("Configuration:")
	for _, key := range keys {
		val, ok := configStore.Get(key)
		if !ok {
			continue
		}
		if strings.HasSuffix(key, "api_key") {
			val = maskAPIKey(fmt.Sprintf("%v", val))
		}
		cmd.Printf("  %s = %v\n", key, val)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if err := ensureConfigStore(); err != nil {
		return err
	}

	val, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}
	cmd.Printf("%v\n", val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := ensureConfigStore(); err != nil {
		return err
	}

	key, raw := args[0], args[1]
	if err := configStore.Set(key, parseConfigValue(raw)); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("%s set\n", key)
	return nil
}

// parseConfigValue interprets the raw string as bool, int or float before
// falling back to a plain string.
func parseConfigValue(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil && (raw == "true" || raw == "false") {
		return b
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

// maskAPIKey hides all but the last four characters of a key.
func maskAPIKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
