package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docent-ai/docent/internal/core/domain"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [document] [question]",
	Short: "Ask a question about a document",
	Long: `Ingests the document, retrieves the most relevant content and
generates a cited answer.

Examples:
  docent ask paper.pdf "What is the main finding?"
  docent ask report.yaml "What does table 2 compare?" --json`,
	Args: cobra.ExactArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	source, question := args[0], args[1]

	if err := ensureServices(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if _, err := ingestService.Ingest(ctx, source); err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	answer, err := askService.Ask(ctx, question)
	if err != nil {
		if errors.Is(err, domain.ErrNoRelevantContent) {
			cmd.Println("The document contains nothing relevant to this question.")
			return nil
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}
	return outputAnswerText(cmd, answer)
}

func outputAnswerJSON(cmd *cobra.Command, answer *domain.Answer) error {
	data, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, answer *domain.Answer) error {
	cmd.Println(answer.Text)

	if len(answer.Citations) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, c := range answer.Citations {
			cmd.Printf("  [%s] page %d (%s): %s\n", c.Label, c.Page, c.Kind, c.Preview)
		}
	}
	return nil
}
