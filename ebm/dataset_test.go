package ebm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wkdwhotjr/interpret/pkg/errors"
	"github.com/wkdwhotjr/interpret/pkg/log"
)

// countingAllocator tracks outstanding buffers and can fail the n-th
// allocation call, letting tests verify the all-or-nothing contract.
type countingAllocator struct {
	calls  int // allocation attempts, including the failed one
	allocs int
	puts   int
	live   int
	failAt int // 1-based call index to fail at; 0 disables injection
}

func (a *countingAllocator) grab() bool {
	a.calls++
	if a.failAt != 0 && a.calls == a.failAt {
		return false
	}
	a.allocs++
	a.live++
	return true
}

func (a *countingAllocator) put(buf bool) {
	if !buf {
		return
	}
	a.puts++
	a.live--
}

func (a *countingAllocator) Float64s(n int) []float64 {
	if !a.grab() {
		return nil
	}
	return make([]float64, n)
}

func (a *countingAllocator) BinIndexes(n int) []BinIndex {
	if !a.grab() {
		return nil
	}
	return make([]BinIndex, n)
}

func (a *countingAllocator) Columns(n int) [][]BinIndex {
	if !a.grab() {
		return nil
	}
	return make([][]BinIndex, n)
}

func (a *countingAllocator) PutFloat64s(buf []float64) { a.put(buf != nil) }

func (a *countingAllocator) PutBinIndexes(buf []BinIndex) { a.put(buf != nil) }

func (a *countingAllocator) PutColumns(t [][]BinIndex) { a.put(t != nil) }

func newTestDataset(alloc Allocator) *Dataset {
	return NewDataset(WithAllocator(alloc), WithLogger(log.Nop()))
}

// regressionInputs builds a consistent regression call for n instances and
// the given features.
func regressionInputs(n, featureCount, binCount int) ([]Feature, []int64, Targets, []float64) {
	features := make([]Feature, featureCount)
	binned := make([]int64, featureCount*n)
	for f := 0; f < featureCount; f++ {
		features[f] = Feature{DataIndex: f, BinCount: binCount}
		for i := 0; i < n; i++ {
			binned[f*n+i] = int64((f + i) % binCount)
		}
	}
	targets := Targets{Values: make([]float64, n)}
	scores := make([]float64, n)
	for i := 0; i < n; i++ {
		targets.Values[i] = float64(i)
		scores[i] = 0.25 * float64(i)
	}
	return features, binned, targets, scores
}

func TestDataset_Initialize_Regression(t *testing.T) {
	// Scenario A: 3 instances, 1 feature with binCount=4, codes [0,3,1].
	features := []Feature{{DataIndex: 0, BinCount: 4}}
	binned := []int64{0, 3, 1}
	targets := Targets{Values: []float64{1.0, 2.0, 3.0}}
	scores := []float64{0.5, 0.5, 0.5}

	ds := newTestDataset(&countingAllocator{})
	err := ds.Initialize(features, 3, binned, targets, scores, Regression{})
	require.NoError(t, err)
	defer ds.Destruct()

	assert.Equal(t, 3, ds.InstanceCount())
	assert.Equal(t, 1, ds.FeatureCount())
	assert.Len(t, ds.Residuals(), 3)
	assert.Equal(t, []BinIndex{0, 3, 1}, ds.Column(0))
	assert.InDelta(t, 0.5, ds.Residuals()[0], 1e-12)
	assert.InDelta(t, 1.5, ds.Residuals()[1], 1e-12)
	assert.InDelta(t, 2.5, ds.Residuals()[2], 1e-12)
}

func TestDataset_Initialize_MulticlassNoFeatures(t *testing.T) {
	// Scenario B: 2 instances, 0 features, K=3.
	task, err := NewMulticlass(3)
	require.NoError(t, err)

	targets := Targets{Classes: []int{0, 2}}
	scores := make([]float64, 6)

	ds := newTestDataset(&countingAllocator{})
	err = ds.Initialize(nil, 2, nil, targets, scores, task)
	require.NoError(t, err)
	defer ds.Destruct()

	assert.Len(t, ds.Residuals(), 6)
	assert.Nil(t, ds.columns)
	assert.Equal(t, 0, ds.FeatureCount())
}

func TestDataset_Initialize_EmptyDataset(t *testing.T) {
	alloc := &countingAllocator{}
	ds := newTestDataset(alloc)

	features := []Feature{{DataIndex: 0, BinCount: 4}}
	err := ds.Initialize(features, 0, nil, Targets{}, nil, Regression{})
	require.NoError(t, err)

	assert.Nil(t, ds.Residuals())
	assert.Nil(t, ds.columns)
	assert.Equal(t, 0, ds.InstanceCount())
	assert.Equal(t, 1, ds.FeatureCount())
	assert.Equal(t, 0, alloc.calls)

	ds.Destruct()
	assert.Equal(t, 0, alloc.puts)
}

func TestDataset_Initialize_VectorLengthDispatch(t *testing.T) {
	const n = 5
	targetsF := Targets{Values: make([]float64, n)}
	targetsC := Targets{Classes: make([]int, n)}
	scores1 := make([]float64, n)

	ds := newTestDataset(&countingAllocator{})
	require.NoError(t, ds.Initialize(nil, n, nil, targetsF, scores1, Regression{}))
	assert.Len(t, ds.Residuals(), n)
	ds.Destruct()

	require.NoError(t, ds.Initialize(nil, n, nil, targetsC, scores1, BinaryClassification{}))
	assert.Len(t, ds.Residuals(), n)
	ds.Destruct()

	task, err := NewMulticlass(4)
	require.NoError(t, err)
	scores4 := make([]float64, n*4)
	require.NoError(t, ds.Initialize(nil, n, nil, targetsC, scores4, task))
	assert.Len(t, ds.Residuals(), n*4)
	ds.Destruct()
}

func TestDataset_Initialize_NarrowingRoundTrip(t *testing.T) {
	// Codes above the uint16 range still survive the uint32 narrowing.
	const binCount = 70000
	codes := []int64{0, 1, 255, 256, 65535, 65536, 69999}
	n := len(codes)

	features := []Feature{{DataIndex: 0, BinCount: binCount}}
	targets := Targets{Values: make([]float64, n)}
	scores := make([]float64, n)

	ds := newTestDataset(&countingAllocator{})
	require.NoError(t, ds.Initialize(features, n, codes, targets, scores, Regression{}))
	defer ds.Destruct()

	col := ds.Column(0)
	for i, want := range codes {
		assert.Equal(t, want, int64(col[i]), "code at instance %d", i)
	}
}

func TestDataset_Initialize_CapacityGuard(t *testing.T) {
	alloc := &countingAllocator{}
	ds := newTestDataset(alloc)

	task := Multiclass{Classes: math.MaxInt/2 + 1}
	targets := Targets{Classes: []int{0, 0, 0}}
	err := ds.Initialize(nil, 3, nil, targets, nil, task)

	var capErr *errors.CapacityError
	require.Error(t, err)
	assert.True(t, errors.As(err, &capErr))
	assert.Equal(t, 0, alloc.calls, "capacity failure must allocate nothing")
	assert.Equal(t, 0, ds.InstanceCount())
}

func TestDataset_Initialize_RollbackOnEveryAllocationFailure(t *testing.T) {
	// Multiclass with features exercises every allocation point: residual
	// array, scratch vector, outer column table, and each feature column.
	const n = 4
	task, err := NewMulticlass(3)
	require.NoError(t, err)

	featureCount := 3
	features, binned, _, _ := regressionInputs(n, featureCount, 3)
	targets := Targets{Classes: []int{0, 1, 2, 1}}
	scores := make([]float64, n*3)

	// Probe the total number of allocation calls on a clean run.
	probe := &countingAllocator{}
	ds := newTestDataset(probe)
	require.NoError(t, ds.Initialize(features, n, binned, targets, scores, task))
	ds.Destruct()
	require.Equal(t, probe.allocs, probe.puts)
	require.Equal(t, 0, probe.live)
	totalCalls := probe.calls

	// The scratch vector is released before Initialize returns, so the
	// expected outstanding count after success is totalCalls - 1.
	require.Equal(t, 2+1+featureCount, totalCalls)

	for failAt := 1; failAt <= totalCalls; failAt++ {
		alloc := &countingAllocator{failAt: failAt}
		ds := newTestDataset(alloc)

		err := ds.Initialize(features, n, binned, targets, scores, task)
		require.Error(t, err, "failAt=%d", failAt)

		var allocErr *errors.AllocationError
		assert.True(t, errors.As(err, &allocErr), "failAt=%d: %v", failAt, err)
		assert.Equal(t, 0, alloc.live, "failAt=%d leaked buffers", failAt)
		assert.Equal(t, alloc.allocs, alloc.puts, "failAt=%d alloc/free mismatch", failAt)

		// The dataset stays in its zero state and Destruct frees nothing.
		putsBefore := alloc.puts
		ds.Destruct()
		assert.Equal(t, putsBefore, alloc.puts, "failAt=%d Destruct must be a no-op", failAt)
		assert.Equal(t, 0, ds.InstanceCount())
		assert.Nil(t, ds.Residuals())
	}
}

func TestDataset_Initialize_SecondFeatureAllocationFails(t *testing.T) {
	// Scenario C: the 2nd of 3 feature columns fails; the 1st column, the
	// outer table, and the residual array are all released.
	const n = 3
	features, binned, targets, scores := regressionInputs(n, 3, 4)

	// Regression: call 1 residuals, call 2 outer table, call 3 first
	// column, call 4 second column.
	alloc := &countingAllocator{failAt: 4}
	ds := newTestDataset(alloc)

	err := ds.Initialize(features, n, binned, targets, scores, Regression{})
	require.Error(t, err)

	var allocErr *errors.AllocationError
	assert.True(t, errors.As(err, &allocErr))
	assert.Equal(t, 3, alloc.allocs)
	assert.Equal(t, 3, alloc.puts)
	assert.Equal(t, 0, alloc.live)
}

func TestDataset_Initialize_RangeErrorUnwinds(t *testing.T) {
	const n = 3
	features := []Feature{
		{DataIndex: 0, BinCount: 4},
		{DataIndex: 1, BinCount: 4},
	}
	binned := []int64{0, 1, 2, 0, 9, 1} // 9 is outside [0, 4)
	targets := Targets{Values: make([]float64, n)}
	scores := make([]float64, n)

	alloc := &countingAllocator{}
	ds := newTestDataset(alloc)
	err := ds.Initialize(features, n, binned, targets, scores, Regression{})
	require.Error(t, err)

	var rangeErr *errors.RangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, 1, rangeErr.Feature)
	assert.Equal(t, 1, rangeErr.Instance)
	assert.Equal(t, int64(9), rangeErr.Value)
	assert.Equal(t, 0, alloc.live)
	assert.Equal(t, 0, ds.InstanceCount())
}

func TestDataset_Initialize_NegativeCodeRejected(t *testing.T) {
	features := []Feature{{DataIndex: 0, BinCount: 4}}
	binned := []int64{0, -1, 2}
	targets := Targets{Values: make([]float64, 3)}
	scores := make([]float64, 3)

	alloc := &countingAllocator{}
	ds := newTestDataset(alloc)
	err := ds.Initialize(features, 3, binned, targets, scores, Regression{})

	var rangeErr *errors.RangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, 0, alloc.live)
}

func TestDataset_Initialize_ShortBinnedBuffer(t *testing.T) {
	features := []Feature{{DataIndex: 1, BinCount: 4}}
	binned := []int64{0, 1, 2} // needs (1+1)*3 = 6 elements
	targets := Targets{Values: make([]float64, 3)}
	scores := make([]float64, 3)

	alloc := &countingAllocator{}
	ds := newTestDataset(alloc)
	err := ds.Initialize(features, 3, binned, targets, scores, Regression{})

	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 0, alloc.calls, "shape check must run before any allocation")
}

func TestDataset_Initialize_DoubleInitializeRejected(t *testing.T) {
	features, binned, targets, scores := regressionInputs(3, 1, 4)

	ds := newTestDataset(&countingAllocator{})
	require.NoError(t, ds.Initialize(features, 3, binned, targets, scores, Regression{}))

	err := ds.Initialize(features, 3, binned, targets, scores, Regression{})
	var valErr *errors.ValidationError
	require.True(t, errors.As(err, &valErr))

	// After Destruct the dataset is re-initializable.
	ds.Destruct()
	require.NoError(t, ds.Initialize(features, 3, binned, targets, scores, Regression{}))
	ds.Destruct()
}

func TestDataset_Destruct_ZeroValueAndIdempotent(t *testing.T) {
	var zero Dataset
	zero.Destruct()
	zero.Destruct()

	alloc := &countingAllocator{}
	ds := newTestDataset(alloc)
	features, binned, targets, scores := regressionInputs(3, 2, 4)
	require.NoError(t, ds.Initialize(features, 3, binned, targets, scores, Regression{}))

	ds.Destruct()
	assert.Equal(t, alloc.allocs, alloc.puts)
	assert.Equal(t, 0, alloc.live)

	putsAfterFirst := alloc.puts
	ds.Destruct()
	assert.Equal(t, putsAfterFirst, alloc.puts)
}

func TestDataset_Initialize_FailureIsLogged(t *testing.T) {
	logger := log.NewTestLogger(log.LevelDebug)
	alloc := &countingAllocator{failAt: 1}
	ds := NewDataset(WithAllocator(alloc), WithLogger(logger))

	features, binned, targets, scores := regressionInputs(3, 1, 4)
	err := ds.Initialize(features, 3, binned, targets, scores, Regression{})
	require.Error(t, err)
	assert.True(t, logger.Contains("dataset initialization failed"))
}
