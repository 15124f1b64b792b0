package dataset

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/RyanBlaney/sample-organizer/pkg/logging"
)

// Batch is a group of items in loader order
type Batch struct {
	Index int     `json:"index"`
	Items []*Item `json:"items"`
}

// Paths returns the source file of each item
func (b *Batch) Paths() []string {
	paths := make([]string, len(b.Items))
	for i, it := range b.Items {
		paths[i] = it.Path
	}
	return paths
}

// Shape returns [batch, maxFrames, channels, bins]. Items shorter than the
// longest one are counted at the longest length.
func (b *Batch) Shape() []int {
	shape := []int{len(b.Items), 0, 0, 0}
	for _, it := range b.Items {
		s := it.Shape()
		shape[1] = max(shape[1], s[0])
		shape[2] = max(shape[2], s[1])
		shape[3] = max(shape[3], s[2])
	}
	return shape
}

// Loader iterates a Dataset in batches
type Loader struct {
	BatchSize int
	Shuffle   bool
	Seed      int64
	Workers   int

	dataset *Dataset
	logger  logging.Logger
}

// NewLoader returns a loader over ds. batchSize below 1 means 1; workers below
// 1 means GOMAXPROCS.
func NewLoader(ds *Dataset, batchSize int, shuffle bool, seed int64, workers int) *Loader {
	if batchSize < 1 {
		batchSize = 1
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Loader{
		BatchSize: batchSize,
		Shuffle:   shuffle,
		Seed:      seed,
		Workers:   workers,
		dataset:   ds,
		logger:    ds.logger.WithFields(logging.Fields{"component": "dataset_loader"}),
	}
}

// NumBatches returns how many batches one pass yields
func (l *Loader) NumBatches() int {
	n := l.dataset.Len()
	return (n + l.BatchSize - 1) / l.BatchSize
}

// Order returns the item indices of one pass. The permutation depends only on
// the seed, so repeated passes with the same seed visit files identically.
func (l *Loader) Order() []int {
	n := l.dataset.Len()
	if !l.Shuffle {
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		return order
	}
	return rand.New(rand.NewSource(l.Seed)).Perm(n)
}

// Batches runs one pass over the dataset and calls fn with each batch in
// order. Items within a batch are decoded concurrently. Iteration stops at the
// first decode error, the first error returned by fn, or when ctx is done.
func (l *Loader) Batches(ctx context.Context, fn func(*Batch) error) error {
	order := l.Order()

	for b, start := 0, 0; start < len(order); b, start = b+1, start+l.BatchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(start+l.BatchSize, len(order))
		batch, err := l.loadBatch(ctx, b, order[start:end])
		if err != nil {
			return fmt.Errorf("batch %d: %w", b, err)
		}

		l.logger.Debug("Batch ready", logging.Fields{
			"batch": b,
			"size":  len(batch.Items),
			"shape": batch.Shape(),
		})

		if err := fn(batch); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadBatch(ctx context.Context, index int, indices []int) (*Batch, error) {
	items := make([]*Item, len(indices))

	p := pool.New().
		WithErrors().
		WithContext(ctx).
		WithMaxGoroutines(l.Workers).
		WithCancelOnError()

	for slot, idx := range indices {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := l.dataset.Item(idx)
			if err != nil {
				return err
			}
			items[slot] = item
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return &Batch{Index: index, Items: items}, nil
}
