package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mikey/phish-verdict/internal/core"
)

// blockingAnalyzer waits for release or cancellation before answering
type blockingAnalyzer struct {
	started chan string
	release chan struct{}
	verdict *core.Verdict
	err     error
}

func newBlockingAnalyzer() *blockingAnalyzer {
	return &blockingAnalyzer{
		started: make(chan string, 4),
		release: make(chan struct{}),
	}
}

func (a *blockingAnalyzer) Analyze(ctx context.Context, text string) (*core.Verdict, error) {
	a.started <- text
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-a.release:
		return a.verdict, a.err
	}
}

// funcAnalyzer adapts a function to core.Analyzer
type funcAnalyzer func(ctx context.Context, text string) (*core.Verdict, error)

func (f funcAnalyzer) Analyze(ctx context.Context, text string) (*core.Verdict, error) {
	return f(ctx, text)
}

func TestSession_EmptyInputNeverAnalyzes(t *testing.T) {
	called := false
	session := core.NewSession(funcAnalyzer(func(context.Context, string) (*core.Verdict, error) {
		called = true
		return nil, nil
	}))

	session.SetInput("   ")
	if _, err := session.Analyze(context.Background()); !errors.Is(err, core.ErrEmptyInput) {
		t.Fatalf("Analyze error = %v, want ErrEmptyInput", err)
	}
	if called {
		t.Error("analyzer was called for blank input")
	}
	state := session.Snapshot()
	if state.InProgress || state.Verdict != nil || !errors.Is(state.Err, core.ErrEmptyInput) {
		t.Errorf("unexpected state: %+v", state)
	}
}

func TestSession_SuccessStoresVerdict(t *testing.T) {
	verdict := &core.Verdict{Score: 10, SeverityTier: core.SeverityLow}
	session := core.NewSession(funcAnalyzer(func(context.Context, string) (*core.Verdict, error) {
		return verdict, nil
	}))

	got, err := session.Submit(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got != verdict {
		t.Errorf("Submit returned %+v", got)
	}
	state := session.Snapshot()
	if state.InProgress || state.Verdict != verdict || state.Err != nil || state.Input != "hello" {
		t.Errorf("unexpected state: %+v", state)
	}
}

func TestSession_FailureKeepsPreviousVerdict(t *testing.T) {
	previous := &core.Verdict{Score: 55, SeverityTier: core.SeverityHigh}
	failure := &core.ServiceError{StatusCode: 500}
	fail := false
	session := core.NewSession(funcAnalyzer(func(context.Context, string) (*core.Verdict, error) {
		if fail {
			return nil, failure
		}
		return previous, nil
	}))

	if _, err := session.Submit(context.Background(), "first"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	fail = true
	if _, err := session.Submit(context.Background(), "second"); !errors.Is(err, failure) {
		t.Fatalf("Submit error = %v, want service error", err)
	}

	state := session.Snapshot()
	if state.Verdict != previous {
		t.Errorf("previous verdict lost: %+v", state.Verdict)
	}
	if state.InProgress {
		t.Error("in-progress flag not cleared after failure")
	}
	if !errors.Is(state.Err, failure) {
		t.Errorf("Err = %v", state.Err)
	}
}

func TestSession_NewSubmissionSupersedesPending(t *testing.T) {
	analyzer := newBlockingAnalyzer()
	analyzer.verdict = &core.Verdict{Score: 90, SeverityTier: core.SeverityCritical}
	session := core.NewSession(analyzer)

	firstErr := make(chan error, 1)
	go func() {
		_, err := session.Submit(context.Background(), "first")
		firstErr <- err
	}()
	<-analyzer.started

	if !session.Snapshot().InProgress {
		t.Fatal("expected in-progress state while first submission is pending")
	}

	secondDone := make(chan *core.Verdict, 1)
	go func() {
		v, _ := session.Submit(context.Background(), "second")
		secondDone <- v
	}()

	select {
	case err := <-firstErr:
		if !errors.Is(err, core.ErrSuperseded) {
			t.Fatalf("first submission error = %v, want ErrSuperseded", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first submission was not canceled")
	}

	if text := <-analyzer.started; text != "second" {
		t.Fatalf("second submission analyzed %q", text)
	}
	close(analyzer.release)

	select {
	case v := <-secondDone:
		if v != analyzer.verdict {
			t.Errorf("second submission returned %+v", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("second submission did not finish")
	}

	state := session.Snapshot()
	if state.InProgress || state.Verdict != analyzer.verdict || state.Input != "second" {
		t.Errorf("unexpected state: %+v", state)
	}
}

func TestSession_CancelAbandonsPending(t *testing.T) {
	analyzer := newBlockingAnalyzer()
	session := core.NewSession(analyzer)

	done := make(chan error, 1)
	go func() {
		_, err := session.Submit(context.Background(), "text")
		done <- err
	}()
	<-analyzer.started
	session.Cancel()

	select {
	case err := <-done:
		if !errors.Is(err, core.ErrSuperseded) {
			t.Errorf("error = %v, want ErrSuperseded", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("canceled submission did not return")
	}
	if session.Snapshot().InProgress {
		t.Error("in-progress flag still set after Cancel")
	}
}

func TestSession_ClearDropsVerdict(t *testing.T) {
	session := core.NewSession(funcAnalyzer(func(context.Context, string) (*core.Verdict, error) {
		return &core.Verdict{}, nil
	}))
	if _, err := session.Submit(context.Background(), "text"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	session.Clear()
	if state := session.Snapshot(); state.Verdict != nil || state.Err != nil {
		t.Errorf("unexpected state after Clear: %+v", state)
	}
}
