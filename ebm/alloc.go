package ebm

// BinIndex is the narrow storage cell holding one binned feature value.
// Raw codes arrive as int64 and are range-checked before narrowing.
type BinIndex uint32

// Allocator is the fallible allocation layer behind dataset construction.
// Get methods return nil when the buffer cannot be provided; Put methods
// release a buffer obtained from the same allocator. The pairing lets tests
// count allocations against releases and inject failures at any allocation
// point.
//
// Put methods must tolerate nil.
type Allocator interface {
	// Float64s returns an uninitialized buffer of n float64 values, or nil.
	Float64s(n int) []float64

	// BinIndexes returns an uninitialized buffer of n storage cells, or nil.
	BinIndexes(n int) []BinIndex

	// Columns returns a zeroed table of n column slots, or nil.
	Columns(n int) [][]BinIndex

	PutFloat64s(buf []float64)
	PutBinIndexes(buf []BinIndex)
	PutColumns(table [][]BinIndex)
}

// heapAllocator allocates from the Go heap. It never reports failure and
// release is left to the garbage collector.
type heapAllocator struct{}

func (heapAllocator) Float64s(n int) []float64 {
	return make([]float64, n)
}

func (heapAllocator) BinIndexes(n int) []BinIndex {
	return make([]BinIndex, n)
}

func (heapAllocator) Columns(n int) [][]BinIndex {
	return make([][]BinIndex, n)
}

func (heapAllocator) PutFloat64s([]float64) {}

func (heapAllocator) PutBinIndexes([]BinIndex) {}

func (heapAllocator) PutColumns([][]BinIndex) {}

// DefaultAllocator is the allocator used when none is configured.
var DefaultAllocator Allocator = heapAllocator{}
