package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/websum"
)

// Ensure LoggingWriter implements websum.KnowledgeBaseWriter.
var _ websum.KnowledgeBaseWriter = (*LoggingWriter)(nil)

// LoggingWriter wraps a KnowledgeBaseWriter with logging.
type LoggingWriter struct {
	next   websum.KnowledgeBaseWriter
	logger *slog.Logger
}

// NewLoggingWriter creates a new LoggingWriter.
func NewLoggingWriter(next websum.KnowledgeBaseWriter, logger *slog.Logger) *LoggingWriter {
	return &LoggingWriter{next: next, logger: logger}
}

// Write delegates to the wrapped writer. Failures are logged at error level.
func (w *LoggingWriter) Write(ctx context.Context, page *websum.PageResult) (path string, err error) {
	defer func(begin time.Time) {
		if err != nil {
			w.logger.Error("write page", "url", page.URL, "err", err)
			return
		}
		w.logger.Debug("write page",
			"url", page.URL,
			"path", path,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return w.next.Write(ctx, page)
}
