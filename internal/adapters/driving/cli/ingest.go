package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docent-ai/docent/internal/core/domain"
)

var ingestJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [document]",
	Short: "Ingest a document and report what was indexed",
	Long: `Runs the full ingestion pipeline (extraction, summarisation,
indexing) and prints the resulting unit counts. The index is
session-scoped, so this is a validation pass rather than a persistent
load: use it to check what a document yields before asking questions.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	report, err := ingestService.Ingest(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if ingestJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputReport(cmd, report)
}

func outputReport(cmd *cobra.Command, report *domain.IngestReport) error {
	cmd.Printf("Ingested %s\n", report.Source)
	cmd.Println()
	cmd.Printf("  Text units:  %d\n", report.TextUnits)
	cmd.Printf("  Table units: %d\n", report.TableUnits)
	cmd.Printf("  Image units: %d\n", report.ImageUnits)
	cmd.Printf("  Total:       %d\n", report.TotalUnits())
	if report.LowConfidence > 0 {
		cmd.Printf("  Low confidence summaries: %d\n", report.LowConfidence)
	}
	return nil
}
