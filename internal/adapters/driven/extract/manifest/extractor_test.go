package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docent-ai/docent/internal/core/domain"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestSupports(t *testing.T) {
	e := NewExtractor()
	assert.True(t, e.Supports("doc.yaml"))
	assert.True(t, e.Supports("doc.yml"))
	assert.True(t, e.Supports("DOC.YAML"))
	assert.False(t, e.Supports("doc.pdf"))
	assert.False(t, e.Supports("doc"))
}

func TestExtractParsesUnitsInFileOrder(t *testing.T) {
	path := writeManifest(t, `
title: Vaccine efficacy study
units:
  - kind: text
    page: 1
    content: |
      Introduction to the study design.
  - kind: table
    page: 3
    content: |
      | age | ve |
      | 18+ | 0.9 |
  - kind: image
    page: 5
    content: "Figure 1: VE = 1 - OR"
`)

	units, err := NewExtractor().Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, units, 3)

	assert.Equal(t, domain.KindText, units[0].Kind)
	assert.Equal(t, 1, units[0].Page)
	assert.Equal(t, "Introduction to the study design.", units[0].Content)

	assert.Equal(t, domain.KindTable, units[1].Kind)
	assert.Equal(t, 3, units[1].Page)
	assert.Equal(t, "| age | ve |\n| 18+ | 0.9 |", units[1].Content)

	assert.Equal(t, domain.KindImage, units[2].Kind)
	assert.Equal(t, 5, units[2].Page)
}

func TestExtractRejectsUnknownKind(t *testing.T) {
	path := writeManifest(t, `
units:
  - kind: video
    page: 1
    content: something
`)

	_, err := NewExtractor().Extract(context.Background(), path)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), `unknown kind "video"`)
}

func TestExtractRejectsInvalidPage(t *testing.T) {
	path := writeManifest(t, `
units:
  - kind: text
    page: 0
    content: something
`)

	_, err := NewExtractor().Extract(context.Background(), path)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtractRejectsEmptyContent(t *testing.T) {
	path := writeManifest(t, `
units:
  - kind: text
    page: 1
    content: "   "
`)

	_, err := NewExtractor().Extract(context.Background(), path)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtractMissingFile(t *testing.T) {
	_, err := NewExtractor().Extract(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestExtractMalformedYAML(t *testing.T) {
	path := writeManifest(t, "units: [kind: {{")
	_, err := NewExtractor().Extract(context.Background(), path)
	require.Error(t, err)
}

func TestExtractEmptyManifest(t *testing.T) {
	path := writeManifest(t, "title: Empty\nunits: []\n")
	units, err := NewExtractor().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, units)
}
