package correlation

import (
	"context"
	"fmt"
	"iter"

	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
)

// Source yields rows one at a time. A non-nil error ends the stream.
type Source = iter.Seq2[dataset.Row, error]

// FromRows streams an in-memory slice of rows.
func FromRows(rows []dataset.Row) Source {
	return func(yield func(dataset.Row, error) bool) {
		for _, row := range rows {
			if !yield(row, nil) {
				return
			}
		}
	}
}

// FromDataset streams the rows of ds.
func FromDataset(ds *dataset.Dataset) Source {
	return FromRows(ds.Rows())
}

// FromChannel streams rows received on ch until it is closed. If ctx is
// cancelled first the stream ends with the context error.
func FromChannel(ctx context.Context, ch <-chan dataset.Row) Source {
	return func(yield func(dataset.Row, error) bool) {
		for {
			select {
			case <-ctx.Done():
				yield(nil, ctx.Err())
				return
			case row, ok := <-ch:
				if !ok {
					return
				}
				if !yield(row, nil) {
					return
				}
			}
		}
	}
}

// FromRecordReader streams every row of every record batch produced by rdr.
// The reader is not released.
func FromRecordReader(rdr array.RecordReader) Source {
	return func(yield func(dataset.Row, error) bool) {
		batch := 0
		for rdr.Next() {
			rows, err := dataset.RowsFromRecord(rdr.Record())
			if err != nil {
				yield(nil, fmt.Errorf("record batch %d: %w", batch, err))
				return
			}
			for _, row := range rows {
				if !yield(row, nil) {
					return
				}
			}
			batch++
		}
		if err := rdr.Err(); err != nil {
			yield(nil, fmt.Errorf("record batch %d: %w", batch, err))
		}
	}
}
