// Package manifest provides a document extractor for YAML manifests.
//
// A manifest is a pre-parsed document: a YAML file listing content units
// with their kind, page and original content. It is the multi-modal entry
// point - tables arrive as markdown and figures as descriptive references,
// which binary PDF text extraction cannot deliver.
package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/docent-ai/docent/internal/core/domain"
	"github.com/docent-ai/docent/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// document is the YAML manifest format.
type document struct {
	Title string `yaml:"title"`
	Units []unit `yaml:"units"`
}

// unit is a single manifest entry.
type unit struct {
	Kind    string `yaml:"kind"`
	Page    int    `yaml:"page"`
	Content string `yaml:"content"`
}

// Extractor parses YAML document manifests.
type Extractor struct{}

// NewExtractor creates a new manifest extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Supports reports whether the source looks like a YAML manifest.
func (e *Extractor) Supports(source string) bool {
	ext := strings.ToLower(filepath.Ext(source))
	return ext == ".yaml" || ext == ".yml"
}

// Extract reads the manifest and returns its units in file order.
func (e *Extractor) Extract(_ context.Context, source string) ([]domain.RawUnit, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", source, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", source, err)
	}

	units := make([]domain.RawUnit, 0, len(doc.Units))
	for i, u := range doc.Units {
		kind := domain.ContentKind(u.Kind)
		if !kind.IsValid() {
			return nil, fmt.Errorf("%w: manifest unit %d has unknown kind %q",
				domain.ErrInvalidInput, i, u.Kind)
		}
		if u.Page < 1 {
			return nil, fmt.Errorf("%w: manifest unit %d has invalid page %d",
				domain.ErrInvalidInput, i, u.Page)
		}

		content := strings.TrimSpace(u.Content)
		if content == "" {
			return nil, fmt.Errorf("%w: manifest unit %d has empty content",
				domain.ErrInvalidInput, i)
		}

		units = append(units, domain.RawUnit{
			Kind:    kind,
			Page:    u.Page,
			Content: content,
		})
	}

	return units, nil
}
