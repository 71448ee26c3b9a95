package ebm

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/wkdwhotjr/interpret/core/parallel"
	"github.com/wkdwhotjr/interpret/pkg/errors"
	"github.com/wkdwhotjr/interpret/pkg/log"
)

// BinningStrategy selects how bin cut points are placed over a feature's
// value range.
type BinningStrategy string

const (
	// BinningQuantile places cuts by value density.
	BinningQuantile BinningStrategy = "quantile"
	// BinningUniform places cuts equidistantly between min and max.
	BinningUniform BinningStrategy = "uniform"
)

// featureParallelThreshold is the feature count below which binning runs
// sequentially.
const featureParallelThreshold = 4

// Binner discretizes a raw value matrix into the integer bin codes the
// dataset consumes. Fit learns per-feature cut points; Transform maps values
// to codes in the feature-major layout Dataset.Initialize expects, with
// Feature.DataIndex equal to the column index.
//
// Bin 0 is reserved for missing values (NaN); real values map to bins
// 1..BinCount-1. Features whose distinct values fit under MaxBins get one
// bin per distinct value.
type Binner struct {
	// MaxBins caps the number of value bins per feature. Zero means 255.
	MaxBins int

	// Strategy places the cut points. Empty means quantile.
	Strategy BinningStrategy

	cuts   [][]float64
	fitted bool
	logger log.Logger
}

// NewBinner creates a binner with the given bin cap and strategy, applying
// the defaults for zero values.
func NewBinner(maxBins int, strategy BinningStrategy) *Binner {
	if maxBins == 0 {
		maxBins = 255
	}
	if strategy == "" {
		strategy = BinningQuantile
	}
	return &Binner{
		MaxBins:  maxBins,
		Strategy: strategy,
		logger:   log.GetLoggerWithName("ebm.binner"),
	}
}

// Fit learns the cut points for every column of X.
func (b *Binner) Fit(X mat.Matrix) error {
	const op = "Binner.Fit"
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.Wrap(errors.ErrEmptyData, op)
	}
	if b.MaxBins < 2 {
		return errors.NewValidationError("MaxBins", "need at least 2 value bins", b.MaxBins)
	}
	if b.Strategy != BinningQuantile && b.Strategy != BinningUniform {
		return errors.NewValidationError("Strategy", "unknown binning strategy", string(b.Strategy))
	}
	if b.logger == nil {
		b.logger = log.GetLoggerWithName("ebm.binner")
	}

	b.logger.Debug("fitting binner",
		log.OperationKey, op,
		log.InstancesKey, rows,
		log.FeaturesKey, cols,
		log.BinsKey, b.MaxBins,
	)

	cuts := make([][]float64, cols)
	parallel.ForThreshold(cols, featureParallelThreshold, func(start, end int) {
		for j := start; j < end; j++ {
			col := make([]float64, 0, rows)
			for i := 0; i < rows; i++ {
				if v := X.At(i, j); !math.IsNaN(v) {
					col = append(col, v)
				}
			}
			sort.Float64s(col)
			cuts[j] = b.cutPoints(col)
		}
	})

	b.cuts = cuts
	b.fitted = true
	return nil
}

// cutPoints computes ascending, deduplicated cut points for one feature from
// its sorted non-missing values.
func (b *Binner) cutPoints(sorted []float64) []float64 {
	if len(sorted) == 0 {
		return nil
	}

	uniq := sorted[:0:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			uniq = append(uniq, v)
		}
	}
	if len(uniq) <= b.MaxBins {
		// One bin per distinct value: a cut at every value above the lowest.
		if len(uniq) < 2 {
			return nil
		}
		return append([]float64(nil), uniq[1:]...)
	}

	raw := make([]float64, 0, b.MaxBins-1)
	switch b.Strategy {
	case BinningUniform:
		lo, hi := sorted[0], sorted[len(sorted)-1]
		step := (hi - lo) / float64(b.MaxBins)
		for i := 1; i < b.MaxBins; i++ {
			raw = append(raw, lo+float64(i)*step)
		}
	default: // BinningQuantile
		for i := 1; i < b.MaxBins; i++ {
			p := float64(i) / float64(b.MaxBins)
			raw = append(raw, stat.Quantile(p, stat.Empirical, sorted, nil))
		}
	}

	cuts := raw[:0]
	for _, v := range raw {
		if len(cuts) == 0 || v != cuts[len(cuts)-1] {
			cuts = append(cuts, v)
		}
	}
	return cuts
}

// Transform maps every value of X to its bin code. The returned buffer is
// feature-major: column j occupies out[j*rows : (j+1)*rows], matching
// Feature.DataIndex == j.
func (b *Binner) Transform(X mat.Matrix) ([]int64, error) {
	const op = "Binner.Transform"
	if !b.fitted {
		return nil, errors.NewNotFittedError("Binner", "Transform")
	}
	rows, cols := X.Dims()
	if cols != len(b.cuts) {
		return nil, errors.NewDimensionError(op, "X", len(b.cuts), cols)
	}
	if errors.MulOverflows(rows, cols) {
		return nil, errors.NewCapacityError(op, rows, cols)
	}

	out := make([]int64, rows*cols)
	parallel.ForThreshold(cols, featureParallelThreshold, func(start, end int) {
		for j := start; j < end; j++ {
			cuts := b.cuts[j]
			dst := out[j*rows : (j+1)*rows]
			for i := 0; i < rows; i++ {
				dst[i] = binValue(cuts, X.At(i, j))
			}
		}
	})
	return out, nil
}

// FitTransform fits the binner and transforms X in one call.
func (b *Binner) FitTransform(X mat.Matrix) ([]int64, error) {
	if err := b.Fit(X); err != nil {
		return nil, err
	}
	return b.Transform(X)
}

// Features returns the metadata describing the binned output, one entry per
// input column.
func (b *Binner) Features() ([]Feature, error) {
	if !b.fitted {
		return nil, errors.NewNotFittedError("Binner", "Features")
	}
	features := make([]Feature, len(b.cuts))
	for j := range b.cuts {
		features[j] = Feature{
			DataIndex: j,
			BinCount:  len(b.cuts[j]) + 2,
			Type:      Ordinal,
		}
	}
	return features, nil
}

// BinCount returns the bin-count bound for one feature, including the
// missing bin.
func (b *Binner) BinCount(feature int) (int, error) {
	if !b.fitted {
		return 0, errors.NewNotFittedError("Binner", "BinCount")
	}
	return len(b.cuts[feature]) + 2, nil
}

// binValue maps one value to its code: 0 for missing, otherwise 1 plus the
// number of cuts at or below the value.
func binValue(cuts []float64, v float64) int64 {
	if math.IsNaN(v) {
		return 0
	}
	idx := sort.Search(len(cuts), func(i int) bool { return v < cuts[i] })
	return int64(1 + idx)
}
