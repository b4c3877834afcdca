package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docent-ai/docent/internal/core/ports/driving"
)

var (
	retrieveLimit int
	retrieveJSON  bool
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [document] [query]",
	Short: "Run hybrid retrieval without answer generation",
	Long: `Ingests the document and prints the fused retrieval candidates
with their scores and per-path ranks. Useful for inspecting what the
answer pipeline would see.`,
	Args: cobra.ExactArgs(2),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().IntVarP(&retrieveLimit, "limit", "n", 0, "maximum number of results (0 = retrieval default)")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	source, query := args[0], args[1]

	if err := ensureServices(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if _, err := ingestService.Ingest(ctx, source); err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	results, err := askService.Retrieve(ctx, query, retrieveLimit)
	if err != nil {
		return fmt.Errorf("retrieve failed: %w", err)
	}

	if retrieveJSON {
		return outputRetrieveJSON(cmd, results)
	}
	return outputRetrieveTable(cmd, results)
}

func outputRetrieveJSON(cmd *cobra.Command, results []driving.RetrievedUnit) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputRetrieveTable(cmd *cobra.Command, results []driving.RetrievedUnit) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		cmd.Printf("[%d] page %d %s (score %.4f, dense #%s, lexical #%s)\n",
			i+1, r.Unit.Page, r.Unit.Kind, r.Score,
			rankString(r.DenseRank), rankString(r.LexicalRank))
		cmd.Printf("    %s\n", snippet(r.Unit.Summary, 120))
	}
	return nil
}

// rankString renders a 1-based rank, with "-" for absence from a path.
func rankString(rank int) string {
	if rank == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", rank)
}

// snippet truncates s to max bytes on a best-effort basis.
func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
