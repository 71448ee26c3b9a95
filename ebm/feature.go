package ebm

import "github.com/wkdwhotjr/interpret/pkg/errors"

// FeatureType distinguishes how a feature's bins are ordered.
type FeatureType int

const (
	// Ordinal features have bins with a meaningful order, such as binned
	// continuous values.
	Ordinal FeatureType = iota
	// Nominal features have unordered categorical bins.
	Nominal
)

// String returns the feature type name.
func (t FeatureType) String() string {
	switch t {
	case Ordinal:
		return "ordinal"
	case Nominal:
		return "nominal"
	default:
		return "unknown"
	}
}

// Feature describes one pre-binned input column.
type Feature struct {
	// DataIndex is the offset multiplier into the raw binned buffer: the
	// feature's codes occupy binned[DataIndex*instances : (DataIndex+1)*instances].
	DataIndex int

	// BinCount is the exclusive upper bound for legal codes of this feature.
	BinCount int

	// Type records whether the bins are ordered.
	Type FeatureType
}

// validate checks the metadata itself, not the codes it describes.
func (f Feature) validate(index int) error {
	if f.BinCount < 1 {
		return errors.NewValidationError("features", "feature has no bins", map[string]interface{}{"feature": index, "binCount": f.BinCount})
	}
	if f.DataIndex < 0 {
		return errors.NewValidationError("features", "negative data index", map[string]interface{}{"feature": index, "dataIndex": f.DataIndex})
	}
	return nil
}
