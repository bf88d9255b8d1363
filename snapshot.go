package navix

import (
	"context"
	"io"

	"github.com/hupe1980/navix/blobstore"
	"github.com/hupe1980/navix/index"
	"github.com/hupe1980/navix/persistence"
	"github.com/hupe1980/navix/resource"
)

// SnapshotOptions configures SaveSnapshot and LoadSnapshot.
type SnapshotOptions struct {
	// Controller optionally throttles snapshot IO bandwidth.
	Controller *resource.Controller

	// Logger receives snapshot events. nil disables logging.
	Logger *Logger
}

// WithSnapshotController throttles snapshot IO through the controller.
func WithSnapshotController(c *resource.Controller) func(*SnapshotOptions) {
	return func(o *SnapshotOptions) {
		o.Controller = c
	}
}

// WithSnapshotLogger sets the logger for snapshot events.
func WithSnapshotLogger(l *Logger) func(*SnapshotOptions) {
	return func(o *SnapshotOptions) {
		o.Logger = l
	}
}

// SaveSnapshot serializes the index and streams it into the blob store
// under name. The index bytes never buffer fully in memory.
func SaveSnapshot(ctx context.Context, store blobstore.Store, name string, idx index.Index, optFns ...func(*SnapshotOptions)) error {
	opts := SnapshotOptions{}

	for _, fn := range optFns {
		fn(&opts)
	}

	pr, pw := io.Pipe()

	written := make(chan int64, 1)
	go func() {
		var w io.Writer = pw
		if opts.Controller != nil {
			w = resource.NewRateLimitedWriter(ctx, pw, opts.Controller)
		}

		n, err := idx.WriteTo(w)
		_ = pw.CloseWithError(err)
		written <- n
	}()

	err := store.Put(ctx, name, pr)
	// Unblock the writer if Put bailed early.
	_ = pr.CloseWithError(err)
	n := <-written

	if opts.Logger != nil {
		opts.Logger.LogSnapshot(ctx, name, n, err)
	}

	return err
}

// LoadSnapshot restores the index from the named blob.
func LoadSnapshot(ctx context.Context, store blobstore.Store, name string, idx index.Index, optFns ...func(*SnapshotOptions)) error {
	opts := SnapshotOptions{}

	for _, fn := range optFns {
		fn(&opts)
	}

	rc, err := store.Get(ctx, name)
	if err != nil {
		if opts.Logger != nil {
			opts.Logger.LogSnapshot(ctx, name, 0, err)
		}
		return err
	}
	defer rc.Close()

	var r io.Reader = rc
	if opts.Controller != nil {
		r = resource.NewRateLimitedReader(ctx, rc, opts.Controller)
	}

	n, err := idx.ReadFrom(r)

	if opts.Logger != nil {
		opts.Logger.LogSnapshot(ctx, name, n, err)
	}

	return err
}

// SaveToFile serializes the index to a local file, written atomically via a
// temp file and rename.
func SaveToFile(filename string, idx index.Index) error {
	return persistence.SaveToFile(filename, func(w io.Writer) error {
		_, err := idx.WriteTo(w)
		return err
	})
}

// LoadFromFile restores the index from a local file.
func LoadFromFile(filename string, idx index.Index) error {
	return persistence.LoadFromFile(filename, func(r io.Reader) error {
		_, err := idx.ReadFrom(r)
		return err
	})
}
