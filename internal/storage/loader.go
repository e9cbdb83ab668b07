// This file implements a generic, batched loader that drains rows from a
// channel and invokes a bulk-insert function (CopyFn) per batch. The
// warehouse staging step feeds it with Repository.CopyFrom.
package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// CopyFn abstracts a backend's bulk insert capability. Implementations insert
// the provided rows (aligned to columns) and return the number inserted.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// CopyInto binds repo.CopyFrom to a table.
func CopyInto(repo Repository, table string) CopyFn {
	return func(ctx context.Context, columns []string, rows [][]any) (int64, error) {
		return repo.CopyFrom(ctx, table, columns, rows)
	}
}

// LoadBatches drains rows from in, groups them into batches of batchSize and
// calls copyFn for each non-empty batch. It returns the total reported by
// copyFn and the first error encountered, or ctx.Err() when canceled.
func LoadBatches(
	ctx context.Context,
	columns []string,
	in <-chan []any,
	batchSize int,
	copyFn CopyFn,
	logger *zap.Logger,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		total   int64
		batches int64
		batch   = make([][]any, 0, batchSize)
		start   = time.Now()
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := copyFn(ctx, columns, batch)
		total += n
		batch = make([][]any, 0, batchSize)

		if err != nil {
			logger.Error("copy failed", zap.Int64("after", n), zap.Int64("total", total), zap.Error(err))
			return err
		}
		batches++
		logger.Debug("batch copied",
			zap.Int64("batch", batches),
			zap.Int64("rows", n),
			zap.Int64("total", total),
			zap.Duration("elapsed", time.Since(start).Truncate(time.Millisecond)),
		)
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()

		case row, ok := <-in:
			if !ok {
				if err := flush(); err != nil {
					return total, err
				}
				return total, nil
			}
			batch = append(batch, row)
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return total, err
				}
			}
		}
	}
}

// LoadRows is LoadBatches over an in-memory slice.
func LoadRows(ctx context.Context, columns []string, rows [][]any, batchSize int, copyFn CopyFn, logger *zap.Logger) (int64, error) {
	in := make(chan []any)
	go func() {
		defer close(in)
		for _, r := range rows {
			select {
			case in <- r:
			case <-ctx.Done():
				return
			}
		}
	}()
	n, err := LoadBatches(ctx, columns, in, batchSize, copyFn, logger)
	if err != nil {
		// Unblock the producer.
		for range in {
		}
	}
	return n, err
}
