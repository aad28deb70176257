package core

import (
	"context"
	"strings"
	"sync"
)

// Analyzer produces a verdict for email text
type Analyzer interface {
	Analyze(ctx context.Context, emailText string) (*Verdict, error)
}

// SessionState is a point-in-time copy of a session
type SessionState struct {
	Input      string
	InProgress bool
	Verdict    *Verdict
	Err        error
}

// Session holds the state of one user's analysis screen.
// At most one submission is outstanding; a new one cancels and replaces the pending one.
type Session struct {
	analyzer Analyzer

	mu         sync.Mutex
	input      string
	inProgress bool
	verdict    *Verdict
	lastErr    error
	generation uint64
	cancel     context.CancelFunc
}

// NewSession creates a new session
func NewSession(analyzer Analyzer) *Session {
	return &Session{analyzer: analyzer}
}

// SetInput replaces the current input text
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
}

// Snapshot returns the current state
func (s *Session) Snapshot() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionState{
		Input:      s.input,
		InProgress: s.inProgress,
		Verdict:    s.verdict,
		Err:        s.lastErr,
	}
}

// Analyze submits the current input
func (s *Session) Analyze(ctx context.Context) (*Verdict, error) {
	s.mu.Lock()
	text := s.input
	s.mu.Unlock()
	return s.run(ctx, text, false)
}

// Submit sets the input and analyzes it in one step
func (s *Session) Submit(ctx context.Context, text string) (*Verdict, error) {
	return s.run(ctx, text, true)
}

func (s *Session) run(ctx context.Context, text string, setInput bool) (*Verdict, error) {
	s.mu.Lock()
	if setInput {
		s.input = text
	}
	if strings.TrimSpace(text) == "" {
		s.lastErr = ErrEmptyInput
		s.mu.Unlock()
		return nil, ErrEmptyInput
	}
	if s.cancel != nil {
		s.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.generation++
	generation := s.generation
	s.cancel = cancel
	s.inProgress = true
	s.mu.Unlock()
	defer cancel()

	verdict, err := s.analyzer.Analyze(runCtx, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return nil, ErrSuperseded
	}
	s.inProgress = false
	s.cancel = nil
	if err != nil {
		// Previous verdict stays on screen
		s.lastErr = err
		return nil, err
	}
	s.verdict = verdict
	s.lastErr = nil
	return verdict, nil
}

// Cancel abandons the pending submission, if any
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abandonLocked()
}

// Clear abandons the pending submission and drops the last verdict and error
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abandonLocked()
	s.verdict = nil
	s.lastErr = nil
}

func (s *Session) abandonLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
	s.inProgress = false
}
