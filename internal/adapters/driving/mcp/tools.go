package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docent-ai/docent/internal/core/domain"
)

// LoadDocumentInput is the input schema for the load_document tool.
type LoadDocumentInput struct {
	Source string `json:"source" jsonschema:"path to the document to load (pdf or yaml manifest)"`
}

// LoadDocumentOutput is the output schema for the load_document tool.
type LoadDocumentOutput struct {
	Source        string `json:"source"`
	TextUnits     int    `json:"text_units"`
	TableUnits    int    `json:"table_units"`
	ImageUnits    int    `json:"image_units"`
	LowConfidence int    `json:"low_confidence"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the natural-language question to answer from the loaded document"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string           `json:"answer"`
	Citations []CitationOutput `json:"citations"`
	// NoContent is true when the document contains nothing relevant.
	NoContent bool `json:"no_content,omitempty"`
}

// CitationOutput represents a single citation.
type CitationOutput struct {
	Label   string `json:"label"`
	Page    int    `json:"page"`
	Kind    string `json:"kind"`
	Preview string `json:"preview"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query string `json:"query" jsonschema:"the retrieval query"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Results []RetrieveResultOutput `json:"results"`
	Count   int                    `json:"count"`
}

// RetrieveResultOutput represents a single fused retrieval result.
type RetrieveResultOutput struct {
	Page        int     `json:"page"`
	Kind        string  `json:"kind"`
	Score       float64 `json:"score"`
	DenseRank   int     `json:"dense_rank,omitempty"`
	LexicalRank int     `json:"lexical_rank,omitempty"`
	Summary     string  `json:"summary"`
	Content     string  `json:"content"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "load_document",
		Description: "Load a document into the session, replacing any previous one",
	}, s.handleLoadDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the loaded document with citations",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Retrieve the most relevant content units for a query",
	}, s.handleRetrieve)
}

// handleLoadDocument handles the load_document tool invocation.
func (s *Server) handleLoadDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LoadDocumentInput,
) (*mcp.CallToolResult, LoadDocumentOutput, error) {
	report, err := s.ports.Ingest.Ingest(ctx, input.Source)
	if err != nil {
		return nil, LoadDocumentOutput{}, err
	}

	return nil, LoadDocumentOutput{
		Source:        report.Source,
		TextUnits:     report.TextUnits,
		TableUnits:    report.TableUnits,
		ImageUnits:    report.ImageUnits,
		LowConfidence: report.LowConfidence,
	}, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Ask.Ask(ctx, input.Question)
	if err != nil {
		// An unanswerable question is a result, not a protocol error.
		if errors.Is(err, domain.ErrNoRelevantContent) {
			return nil, AskOutput{
				Answer:    "The document contains nothing relevant to this question.",
				NoContent: true,
			}, nil
		}
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:    answer.Text,
		Citations: make([]CitationOutput, len(answer.Citations)),
	}
	for i, c := range answer.Citations {
		output.Citations[i] = CitationOutput{
			Label:   c.Label,
			Page:    c.Page,
			Kind:    c.Kind.String(),
			Preview: c.Preview,
		}
	}

	return nil, output, nil
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	results, err := s.ports.Ask.Retrieve(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Results: make([]RetrieveResultOutput, len(results)),
		Count:   len(results),
	}
	for i, r := range results {
		output.Results[i] = RetrieveResultOutput{
			Page:        r.Unit.Page,
			Kind:        r.Unit.Kind.String(),
			Score:       r.Score,
			DenseRank:   r.DenseRank,
			LexicalRank: r.LexicalRank,
			Summary:     r.Unit.Summary,
			Content:     r.Unit.RawContent,
		}
	}

	return nil, output, nil
}
