package correlation

import (
	"context"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/dataset"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/logging"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/parallel"
)

// Pair is one cell of a correlation matrix. Err is set when the pair could
// not be correlated, for example because it has fewer than two valid rows.
type Pair struct {
	X      string  `json:"x"`
	Y      string  `json:"y"`
	Result *Result `json:"result,omitempty"`
	Err    error   `json:"-"`
}

// Matrix correlates every unordered pair of columns, running one
// independent calculator per pair across workers goroutines. Pairs come
// back in row-major order of the upper triangle. A non-positive workers
// uses one goroutine per CPU.
func Matrix(ctx context.Context, ds *dataset.Dataset, columns []string, workers int) ([]Pair, error) {
	var pairs []Pair
	for i := 0; i < len(columns); i++ {
		for j := i + 1; j < len(columns); j++ {
			pairs = append(pairs, Pair{X: columns[i], Y: columns[j]})
		}
	}
	if len(pairs) == 0 {
		return nil, nil
	}

	pool := parallel.NewWorkerPool(ctx, workers)
	defer pool.Close()

	rows := ds.Rows()
	out := parallel.ProcessIndexed(pool, pairs, func(_ int, p Pair) Pair {
		p.Result, p.Err = Stream(ctx, FromRows(rows), p.X, p.Y, WithLogger(logging.Discard()))
		return p
	})
	if err := pool.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
