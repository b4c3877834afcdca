// Package mcp provides an MCP (Model Context Protocol) server adapter for
// docent. It lets AI assistants load a document and ask cited questions
// about it.
package mcp

import "errors"

// ErrMissingAskService is returned when the ask service is not provided.
var ErrMissingAskService = errors.New("mcp: ask service is required")

// ErrMissingIngestService is returned when the ingest service is not provided.
var ErrMissingIngestService = errors.New("mcp: ingest service is required")
