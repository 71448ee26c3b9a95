package ebm

import (
	"github.com/wkdwhotjr/interpret/pkg/errors"
	"github.com/wkdwhotjr/interpret/pkg/log"
)

// Dataset owns the column-major training representation for one booster:
// the initial residual array and one narrowed column per feature. A Dataset
// starts in its zero state; Initialize populates it atomically and Destruct
// is the single teardown path.
//
// A Dataset is not safe for concurrent use.
type Dataset struct {
	instances int
	features  int
	residuals []float64
	columns   [][]BinIndex

	alloc  Allocator
	logger log.Logger
}

// DatasetOption configures a Dataset at construction.
type DatasetOption func(*Dataset)

// WithAllocator replaces the allocator behind all dataset buffers.
func WithAllocator(a Allocator) DatasetOption {
	return func(d *Dataset) { d.alloc = a }
}

// WithLogger replaces the construction-path logger.
func WithLogger(l log.Logger) DatasetOption {
	return func(d *Dataset) { d.logger = l }
}

// NewDataset creates an empty dataset in its zero state.
func NewDataset(opts ...DatasetOption) *Dataset {
	d := &Dataset{
		alloc:  DefaultAllocator,
		logger: log.GetLoggerWithName("ebm"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Initialize builds the residual array and the per-feature columns from the
// caller's buffers. binned is row-major per feature: feature f's codes live
// at binned[f.DataIndex*instances : (f.DataIndex+1)*instances].
//
// The operation is all-or-nothing. On any failure every buffer allocated so
// far is released before the error is returned and the dataset stays in its
// zero state, safe to destruct or re-initialize. instances == 0 is a valid
// empty dataset: nothing is allocated and only the feature count is
// recorded.
func (d *Dataset) Initialize(features []Feature, instances int, binned []int64, targets Targets, scores []float64, task Task) error {
	const op = "Dataset.Initialize"

	if d.residuals != nil || d.columns != nil || d.instances != 0 {
		return errors.NewValidationError("dataset", "already initialized; call Destruct first", nil)
	}
	if instances < 0 {
		return errors.NewValidationError("instances", "negative instance count", instances)
	}
	if task == nil {
		return errors.NewValidationError("task", "nil task descriptor", nil)
	}
	if err := task.validate(); err != nil {
		return err
	}
	if d.alloc == nil {
		d.alloc = DefaultAllocator
	}
	if d.logger == nil {
		d.logger = log.GetLoggerWithName("ebm")
	}

	logger := d.logger.With(
		log.OperationKey, op,
		log.InstancesKey, instances,
		log.FeaturesKey, len(features),
		log.TaskKey, task.Name(),
	)
	logger.Debug("initializing dataset")

	if instances == 0 {
		d.features = len(features)
		logger.Debug("empty dataset, nothing to allocate")
		return nil
	}

	if err := checkColumnShapes(op, features, instances, binned); err != nil {
		logger.Warn("dataset initialization rejected", err)
		return err
	}

	residuals, err := buildResiduals(d.alloc, logger, instances, targets, scores, task)
	if err != nil {
		logger.Warn("dataset initialization failed", err)
		return err
	}

	if len(features) > 0 {
		columns, err := buildColumns(d.alloc, logger, features, instances, binned)
		if err != nil {
			d.alloc.PutFloat64s(residuals)
			logger.Warn("dataset initialization failed", err)
			return err
		}
		d.columns = columns
	}

	d.residuals = residuals
	d.instances = instances
	d.features = len(features)
	logger.Debug("dataset ready")
	return nil
}

// Destruct releases everything the dataset owns and returns it to the zero
// state. It is a no-op on a zero dataset and safe to call again after it
// ran.
func (d *Dataset) Destruct() {
	alloc := d.alloc
	if alloc == nil {
		alloc = DefaultAllocator
	}
	if d.residuals != nil {
		alloc.PutFloat64s(d.residuals)
	}
	if d.columns != nil {
		for _, col := range d.columns {
			alloc.PutBinIndexes(col)
		}
		alloc.PutColumns(d.columns)
	}
	d.residuals = nil
	d.columns = nil
	d.instances = 0
	d.features = 0
}

// InstanceCount returns the number of training rows.
func (d *Dataset) InstanceCount() int { return d.instances }

// FeatureCount returns the number of feature columns.
func (d *Dataset) FeatureCount() int { return d.features }

// Residuals returns the flat residual array, one VectorLength-sized group
// per instance. The slice is a read-only view owned by the dataset; it is
// invalid after Destruct.
func (d *Dataset) Residuals() []float64 { return d.residuals }

// Column returns the narrowed codes for one feature, in instance order. The
// slice is a read-only view owned by the dataset; it is invalid after
// Destruct.
func (d *Dataset) Column(feature int) []BinIndex {
	return d.columns[feature]
}

// checkColumnShapes validates the feature metadata against the binned buffer
// before anything is allocated.
func checkColumnShapes(op string, features []Feature, instances int, binned []int64) error {
	for i, feature := range features {
		if err := feature.validate(i); err != nil {
			return err
		}
		if errors.MulOverflows(feature.DataIndex+1, instances) {
			return errors.NewCapacityError(op, feature.DataIndex+1, instances)
		}
		if need := (feature.DataIndex + 1) * instances; len(binned) < need {
			return errors.NewDimensionError(op, "binned", need, len(binned))
		}
	}
	return nil
}

// buildResiduals allocates and fills the initial residual array. On any
// failure nothing allocated here survives the call; the multiclass scratch
// vector is released unconditionally before returning.
func buildResiduals(alloc Allocator, logger log.Logger, instances int, targets Targets, scores []float64, task Task) ([]float64, error) {
	const op = "ebm.buildResiduals"

	vectorLength := task.VectorLength()
	if errors.MulOverflows(instances, vectorLength) {
		return nil, errors.NewCapacityError(op, instances, vectorLength)
	}
	elements := instances * vectorLength

	out := alloc.Float64s(elements)
	if out == nil {
		return nil, errors.NewAllocationError(op, "residual", elements)
	}

	var scratch []float64
	if n := task.scratchLen(); n > 0 {
		scratch = alloc.Float64s(n)
		if scratch == nil {
			alloc.PutFloat64s(out)
			return nil, errors.NewAllocationError(op, "scratch", n)
		}
		defer alloc.PutFloat64s(scratch)
	}

	if err := task.fillResiduals(instances, targets, scores, out, scratch); err != nil {
		alloc.PutFloat64s(out)
		return nil, err
	}

	logger.Debug("residuals built", log.ElementsKey, elements)
	return out, nil
}

// buildColumns allocates the outer column table and one narrowed column per
// feature, copying and range-checking every raw code. Any failure unwinds
// every column allocated so far plus the table; a partial table is never
// returned.
func buildColumns(alloc Allocator, logger log.Logger, features []Feature, instances int, binned []int64) ([][]BinIndex, error) {
	const op = "ebm.buildColumns"

	table := alloc.Columns(len(features))
	if table == nil {
		return nil, errors.NewAllocationError(op, "column slot", len(features))
	}

	for i, feature := range features {
		col := alloc.BinIndexes(instances)
		if col == nil {
			releaseColumns(alloc, table, i)
			return nil, errors.NewAllocationError(op, "bin index", instances)
		}
		table[i] = col

		src := binned[feature.DataIndex*instances : (feature.DataIndex+1)*instances]
		for j, raw := range src {
			if raw < 0 || !errors.FitsInUint32(raw) || raw >= int64(feature.BinCount) {
				releaseColumns(alloc, table, i+1)
				return nil, errors.NewRangeError(op, i, j, raw, feature.BinCount)
			}
			col[j] = BinIndex(raw)
		}
	}

	logger.Debug("columns built", log.FeaturesKey, len(features))
	return table, nil
}

// releaseColumns puts back the first count columns and the table itself.
func releaseColumns(alloc Allocator, table [][]BinIndex, count int) {
	for i := 0; i < count; i++ {
		alloc.PutBinIndexes(table[i])
	}
	alloc.PutColumns(table)
}
