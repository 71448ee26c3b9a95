package ebm

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/wkdwhotjr/interpret/pkg/errors"
)

// Targets carries the raw label buffer for a training set. Regression
// kernels read Values; classification kernels read Classes. The buffer is
// caller-owned and read-only to this package.
type Targets struct {
	Values  []float64
	Classes []int
}

// Task is the closed set of learning tasks: Regression,
// BinaryClassification, and Multiclass. The task selects the residual vector
// length per instance and the kernel that fills the initial residuals.
//
// The interface is sealed; implementations outside this package are not
// possible.
type Task interface {
	// VectorLength is the number of residual values per instance: 1 for
	// regression and binary classification, the class count for multiclass.
	VectorLength() int

	// Name returns the task name for logging.
	Name() string

	validate() error

	// scratchLen is the per-row scratch vector length the kernel needs,
	// 0 when the kernel runs without scratch.
	scratchLen() int

	// fillResiduals computes the initial residuals for instances rows into
	// out. scratch has scratchLen() elements and never outlives the call.
	fillResiduals(instances int, targets Targets, scores, out, scratch []float64) error
}

// Regression is the single-output regression task. The initial residual is
// the raw error target - score.
type Regression struct{}

func (Regression) VectorLength() int { return 1 }
func (Regression) Name() string      { return "regression" }
func (Regression) validate() error   { return nil }
func (Regression) scratchLen() int   { return 0 }

func (Regression) fillResiduals(instances int, targets Targets, scores, out, _ []float64) error {
	const op = "Regression.fillResiduals"
	if len(targets.Values) < instances {
		return errors.NewDimensionError(op, "targets", instances, len(targets.Values))
	}
	if len(scores) < instances {
		return errors.NewDimensionError(op, "scores", instances, len(scores))
	}
	for i := 0; i < instances; i++ {
		out[i] = targets.Values[i] - scores[i]
	}
	return nil
}

// BinaryClassification is the fixed two-class task. It keeps the
// single-output logit form: the initial residual is y - sigmoid(score), so
// no scratch vector is needed.
type BinaryClassification struct{}

func (BinaryClassification) VectorLength() int { return 1 }
func (BinaryClassification) Name() string      { return "binary" }
func (BinaryClassification) validate() error   { return nil }
func (BinaryClassification) scratchLen() int   { return 0 }

func (BinaryClassification) fillResiduals(instances int, targets Targets, scores, out, _ []float64) error {
	const op = "BinaryClassification.fillResiduals"
	if len(targets.Classes) < instances {
		return errors.NewDimensionError(op, "targets", instances, len(targets.Classes))
	}
	if len(scores) < instances {
		return errors.NewDimensionError(op, "scores", instances, len(scores))
	}
	for i := 0; i < instances; i++ {
		y := targets.Classes[i]
		if y != 0 && y != 1 {
			return errors.NewRangeError(op, -1, i, int64(y), 2)
		}
		p := 1.0 / (1.0 + math.Exp(-scores[i]))
		out[i] = float64(y) - p
	}
	return nil
}

// Multiclass is the K-class classification task, K >= 3. Scores are row-major
// logits (instances x K); the initial residual for class c is
// 1{y==c} - softmax_c(scores). The kernel uses a per-row scratch vector to
// hold the shifted exponentials.
type Multiclass struct {
	Classes int
}

// NewMulticlass creates a multiclass task descriptor. Two-class problems use
// BinaryClassification instead.
func NewMulticlass(classes int) (Multiclass, error) {
	task := Multiclass{Classes: classes}
	return task, task.validate()
}

func (m Multiclass) VectorLength() int { return m.Classes }
func (m Multiclass) Name() string      { return "multiclass" }
func (m Multiclass) scratchLen() int   { return m.Classes }

func (m Multiclass) validate() error {
	if m.Classes < 3 {
		return errors.NewValidationError("classes", "multiclass needs at least 3 classes", m.Classes)
	}
	return nil
}

func (m Multiclass) fillResiduals(instances int, targets Targets, scores, out, scratch []float64) error {
	const op = "Multiclass.fillResiduals"
	k := m.Classes
	if len(targets.Classes) < instances {
		return errors.NewDimensionError(op, "targets", instances, len(targets.Classes))
	}
	if len(scores) < instances*k {
		return errors.NewDimensionError(op, "scores", instances*k, len(scores))
	}
	for i := 0; i < instances; i++ {
		y := targets.Classes[i]
		if y < 0 || y >= k {
			return errors.NewRangeError(op, -1, i, int64(y), k)
		}
		row := scores[i*k : (i+1)*k]
		// Shift by the row max before exponentiating to keep the softmax
		// stable for large logits.
		maxLogit := floats.Max(row)
		for c := 0; c < k; c++ {
			scratch[c] = math.Exp(row[c] - maxLogit)
		}
		sum := floats.Sum(scratch)
		for c := 0; c < k; c++ {
			p := scratch[c] / sum
			if c == y {
				out[i*k+c] = 1.0 - p
			} else {
				out[i*k+c] = -p
			}
		}
	}
	return nil
}
