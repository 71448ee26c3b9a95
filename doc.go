// Package interpret provides the Go training core for explainable boosting
// machines: dataset construction, initial residual computation, and the
// binning preprocessor that feeds them.
//
// The packages under this module:
//
//   - ebm: training-dataset construction (residuals, narrowed feature
//     columns, binning)
//   - pkg/errors: structured error types with stack traces
//   - pkg/log: slog-based structured logging
//   - core/parallel: chunked parallel-for helper
//
// # Quick Start
//
//	binner := ebm.NewBinner(255, ebm.BinningQuantile)
//	binned, err := binner.FitTransform(X)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	features, _ := binner.Features()
//
//	ds := ebm.NewDataset()
//	if err := ds.Initialize(features, rows, binned, targets, scores, ebm.Regression{}); err != nil {
//	    log.Fatal(err)
//	}
//	defer ds.Destruct()
package interpret
