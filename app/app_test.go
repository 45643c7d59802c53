package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/godamri/helix-api/log"
)

func TestRunner_PropagatesError(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(log.NewWithWriter(log.Config{}, &buf))

	boom := errors.New("boom")
	err := r.run(context.Background(), func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("run() error = %v, want %v", err, boom)
	}
	if !strings.Contains(buf.String(), "Service stopped with error") {
		t.Errorf("expected failure log, got %s", buf.String())
	}
}

func TestRunner_CleanShutdown(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(log.NewWithWriter(log.Config{}, &buf))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.run(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Service shutdown complete.") {
		t.Errorf("expected shutdown log, got %s", buf.String())
	}
}
