package mock

import (
	"context"

	"github.com/fwojciec/websum"
)

var _ websum.KnowledgeBaseWriter = (*Writer)(nil)

// Writer is a mock implementation of websum.KnowledgeBaseWriter.
type Writer struct {
	WriteFn func(ctx context.Context, page *websum.PageResult) (string, error)
}

func (w *Writer) Write(ctx context.Context, page *websum.PageResult) (string, error) {
	return w.WriteFn(ctx, page)
}
