package navix

import (
	"context"

	"github.com/hupe1980/navix/index"
	"github.com/hupe1980/navix/vectorstore"
)

// loggedIndex decorates a backend with build and search event logging.
// All other capabilities pass through to the embedded index.
type loggedIndex struct {
	index.Index
	logger *Logger
}

// Compile-time check.
var _ index.Index = (*loggedIndex)(nil)

func (l *loggedIndex) Train(ctx context.Context, vectors vectorstore.Store) error {
	err := l.Index.Train(ctx, vectors)
	l.logger.LogBuild(ctx, string(l.Index.Kind()), l.Index.Count(), err)
	return err
}

func (l *loggedIndex) Search(ctx context.Context, query []float32, k int, optFns ...func(*index.SearchOptions)) ([]index.SearchResult, error) {
	results, err := l.Index.Search(ctx, query, k, optFns...)
	l.logger.LogSearch(ctx, k, len(results), err)
	return results, err
}
