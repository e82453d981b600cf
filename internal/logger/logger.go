package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that appends to a file
func NewFileLogger(path string, level log.Level) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewWithLevel(f, level), cleanup, nil
}

// ParseLevel maps a config level name to a log level, defaulting to info
func ParseLevel(s string) log.Level {
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(source, contentDir string, pageSize int) {
	l.Debug("config loaded",
		"source", source,
		"content_dir", contentDir,
		"page_size", pageSize)
}

// ContentLoaded logs a completed read from a content source
func (l *Logger) ContentLoaded(source string, listings, posts int, duration time.Duration) {
	l.Info("content loaded",
		"source", source,
		"listings", listings,
		"posts", posts,
		"duration", duration.Round(time.Millisecond))
}

// SourceError logs a failed content source operation
func (l *Logger) SourceError(operation string, err error) {
	l.Error("source error",
		"operation", operation,
		"error", err)
}

// PostRendered logs a rendered post
func (l *Logger) PostRendered(slug string, blocks, nodes int) {
	l.Debug("post rendered",
		"slug", slug,
		"blocks", blocks,
		"nodes", nodes)
}

// ListingsQueried logs a listings page computation
func (l *Logger) ListingsQueried(total, page, totalPages int) {
	l.Debug("listings queried",
		"matched", total,
		"page", page,
		"total_pages", totalPages)
}

// SnapshotMismatch logs a post whose rendered output differs from its snapshot
func (l *Logger) SnapshotMismatch(slug, path string) {
	l.Warn("snapshot mismatch",
		"slug", slug,
		"snapshot", path)
}

// SnapshotWritten logs an updated snapshot
func (l *Logger) SnapshotWritten(slug, path string) {
	l.Info("snapshot written",
		"slug", slug,
		"snapshot", path)
}

// ContentImported logs a completed import into a SQL store
func (l *Logger) ContentImported(target string, listings, posts int) {
	l.Info("content imported",
		"target", target,
		"listings", listings,
		"posts", posts)
}

// LeadCaptured logs a lead accepted from the contact modal
func (l *Logger) LeadCaptured(id, kind, listingID string) {
	l.Info("lead captured",
		"id", id,
		"kind", kind,
		"listing", listingID)
}
