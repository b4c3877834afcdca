package domain

import (
	"fmt"
	"sync"
)

// SessionState tracks the lifecycle of a single-document session.
type SessionState string

// Session lifecycle states. Queries are only served in StateReady;
// ingestion must complete fully before the first search.
const (
	StateUninitialized SessionState = "uninitialized"
	StateIngesting     SessionState = "ingesting"
	StateReady         SessionState = "ready"
	StateFailed        SessionState = "failed"
)

// String returns the string representation.
func (s SessionState) String() string {
	return string(s)
}

// Session holds the per-session document state. Exactly one document is
// loaded per session; starting a new ingestion discards the prior one.
// The session is passed explicitly rather than held as ambient globals so
// the pipeline stays testable in isolation.
type Session struct {
	mu     sync.RWMutex
	state  SessionState
	source string
	report *IngestReport
}

// NewSession creates an uninitialized session.
func NewSession() *Session {
	return &Session{state: StateUninitialized}
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Source returns the document source loaded into this session, if any.
func (s *Session) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Report returns the ingestion report of the current document, or nil.
func (s *Session) Report() *IngestReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// BeginIngest transitions the session into StateIngesting. A new document
// may replace a ready or failed session, but concurrent ingestion runs
// are not supported.
func (s *Session) BeginIngest(source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIngesting {
		return ErrIngestInProgress
	}
	s.state = StateIngesting
	s.source = source
	s.report = nil
	return nil
}

// CompleteIngest transitions the session into StateReady.
func (s *Session) CompleteIngest(report *IngestReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIngesting {
		return fmt.Errorf("%w: cannot complete ingest from state %s", ErrInvalidInput, s.state)
	}
	s.state = StateReady
	s.report = report
	return nil
}

// FailIngest transitions the session into StateFailed. The document must
// be re-ingested before any query is served.
func (s *Session) FailIngest() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateFailed
	s.report = nil
}

// RequireReady returns an error unless the session is ready for queries.
func (s *Session) RequireReady() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateReady {
		return fmt.Errorf("%w: session state is %s", ErrSessionNotReady, s.state)
	}
	return nil
}

// IngestReport summarises a completed ingestion pass.
type IngestReport struct {
	// Source is the document that was ingested.
	Source string

	// TextUnits, TableUnits and ImageUnits count indexed units per kind.
	TextUnits  int
	TableUnits int
	ImageUnits int

	// LowConfidence counts units indexed with a placeholder summary.
	LowConfidence int
}

// TotalUnits returns the number of indexed content units.
func (r *IngestReport) TotalUnits() int {
	return r.TextUnits + r.TableUnits + r.ImageUnits
}
