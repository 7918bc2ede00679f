package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerDraws(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(context.Background(), true, "Reading...")
	s.w = &buf
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Update("Reconciling...")
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Reading...") || !strings.Contains(out, "Reconciling...") {
		t.Errorf("output = %q, want both messages", out)
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerDisabled(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(context.Background(), false, "Reading...")
	s.w = &buf
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
	if buf.Len() != 0 {
		t.Errorf("disabled spinner wrote %q", buf.String())
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, true, "Testing with context...")
	s.w = &bytes.Buffer{}
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), true, "Testing idempotent stop...")
	s.w = &bytes.Buffer{}
	s.Start()
	s.Stop()
	s.Stop()
	s.StopWithError("Failed!")
}
