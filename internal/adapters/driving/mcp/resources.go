package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for docent resources.
const uriScheme = "docent://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "session",
		Name:        "session",
		Description: "State of the document session and its ingestion report",
		MIMEType:    "application/json",
	}, s.handleSessionResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "units",
		Name:        "units",
		Description: "Indexed content units of the loaded document",
		MIMEType:    "application/json",
	}, s.handleUnitsResource)
}

// handleSessionResource returns the session state and ingest report.
func (s *Server) handleSessionResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type sessionInfo struct {
		State         string `json:"state"`
		Source        string `json:"source,omitempty"`
		TextUnits     int    `json:"text_units,omitempty"`
		TableUnits    int    `json:"table_units,omitempty"`
		ImageUnits    int    `json:"image_units,omitempty"`
		LowConfidence int    `json:"low_confidence,omitempty"`
	}

	info := sessionInfo{State: "unknown"}
	if s.ports.Session != nil {
		info.State = s.ports.Session.State().String()
		info.Source = s.ports.Session.Source()
		if report := s.ports.Session.Report(); report != nil {
			info.TextUnits = report.TextUnits
			info.TableUnits = report.TableUnits
			info.ImageUnits = report.ImageUnits
			info.LowConfidence = report.LowConfidence
		}
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling session: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleUnitsResource returns the indexed units in ingestion order.
func (s *Server) handleUnitsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Units == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	units, err := s.ports.Units.ListUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing units: %w", err)
	}

	type unitInfo struct {
		ID            string `json:"id"`
		Kind          string `json:"kind"`
		Page          int    `json:"page"`
		Summary       string `json:"summary"`
		LowConfidence bool   `json:"low_confidence,omitempty"`
	}

	infos := make([]unitInfo, len(units))
	for i, u := range units {
		infos[i] = unitInfo{
			ID:            u.ID,
			Kind:          u.Kind.String(),
			Page:          u.Page,
			Summary:       u.Summary,
			LowConfidence: u.LowConfidence,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling units: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
