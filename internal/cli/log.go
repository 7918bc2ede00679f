package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/upstreamer/pkg/observability"
)

// newLogger creates a logger with timestamps formatted as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs an operation's completion with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Wrote provenance.svg (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Hooks
// =============================================================================

// logHooks reports pipeline and cache events at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.PipelineHooks = (*logHooks)(nil)
	_ observability.CacheHooks    = (*logHooks)(nil)
)

func (h *logHooks) OnLoadStart(_ context.Context, dir string) {
	h.logger.Debug("load start", "dir", dir)
}

func (h *logHooks) OnLoadComplete(_ context.Context, dir string, artifacts int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "dir", dir, "err", err)
		return
	}
	h.logger.Debug("load complete", "dir", dir, "artifacts", artifacts, "duration", d)
}

func (h *logHooks) OnExtract(_ context.Context, label string, guesses int, cached bool, d time.Duration) {
	h.logger.Debug("extracted", "artifact", label, "guesses", guesses, "cached", cached, "duration", d)
}

func (h *logHooks) OnReconcile(_ context.Context, guesses, fields int, d time.Duration) {
	h.logger.Debug("reconciled", "guesses", guesses, "fields", fields, "duration", d)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "key", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "key", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "key", keyType, "bytes", size)
}
