package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	s := NewSession()
	assert.Equal(t, StateUninitialized, s.State())
	require.Error(t, s.RequireReady())

	require.NoError(t, s.BeginIngest("doc.pdf"))
	assert.Equal(t, StateIngesting, s.State())
	assert.Equal(t, "doc.pdf", s.Source())
	require.ErrorIs(t, s.RequireReady(), ErrSessionNotReady)

	report := &IngestReport{Source: "doc.pdf", TextUnits: 3}
	require.NoError(t, s.CompleteIngest(report))
	assert.Equal(t, StateReady, s.State())
	require.NoError(t, s.RequireReady())
	assert.Equal(t, report, s.Report())
}

func TestSessionConcurrentIngestRejected(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.BeginIngest("a.pdf"))

	err := s.BeginIngest("b.pdf")
	require.ErrorIs(t, err, ErrIngestInProgress)
}

func TestSessionFailedIngestBlocksQueries(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.BeginIngest("doc.pdf"))
	s.FailIngest()

	assert.Equal(t, StateFailed, s.State())
	require.ErrorIs(t, s.RequireReady(), ErrSessionNotReady)
	assert.Nil(t, s.Report())
}

func TestSessionReingestReplacesDocument(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.BeginIngest("a.pdf"))
	require.NoError(t, s.CompleteIngest(&IngestReport{Source: "a.pdf"}))

	// A ready session accepts a new document.
	require.NoError(t, s.BeginIngest("b.pdf"))
	assert.Equal(t, "b.pdf", s.Source())
	assert.Nil(t, s.Report())
}

func TestCompleteIngestRequiresIngesting(t *testing.T) {
	s := NewSession()
	err := s.CompleteIngest(&IngestReport{})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestIngestReportTotalUnits(t *testing.T) {
	r := IngestReport{TextUnits: 2, TableUnits: 1, ImageUnits: 1}
	assert.Equal(t, 4, r.TotalUnits())
}
