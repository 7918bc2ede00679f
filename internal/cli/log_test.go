package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))
	p.done("Wrote provenance.svg")
	if !strings.Contains(buf.String(), "Wrote provenance.svg (") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := &logHooks{logger: newLogger(&buf, log.DebugLevel)}
	ctx := context.Background()

	h.OnLoadStart(ctx, "/src/demo")
	h.OnLoadComplete(ctx, "/src/demo", 3, time.Millisecond, nil)
	h.OnLoadComplete(ctx, "/src/demo", 0, time.Millisecond, errors.New("boom"))
	h.OnExtract(ctx, "Cargo.toml", 4, true, time.Millisecond)
	h.OnReconcile(ctx, 12, 7, time.Millisecond)
	h.OnCacheHit(ctx, "guesses")
	h.OnCacheMiss(ctx, "guesses")
	h.OnCacheSet(ctx, "guesses", 128)

	out := buf.String()
	for _, want := range []string{"load start", "load complete", "load failed", "artifact=Cargo.toml", "fields=7", "cache hit", "cache miss", "bytes=128"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
