// Package ebm implements the training-dataset construction core for
// explainable boosting machines.
//
// The package converts externally supplied training buffers (pre-binned
// integer feature codes, target labels, current prediction scores) into the
// compact column-major representation the boosting loop consumes, and
// computes the initial per-instance residuals the booster will refine.
//
// The main entry point is Dataset:
//
//	ds := ebm.NewDataset()
//	err := ds.Initialize(features, instances, binned, targets, scores, task)
//	if err != nil {
//	    return err
//	}
//	defer ds.Destruct()
//
// Initialize is all-or-nothing: any failure rolls back every allocation made
// so far and leaves the dataset in its zero state, safe to destruct or
// re-initialize. Binner produces the binned buffer and feature metadata from
// a raw value matrix when the caller does not bring its own binning.
package ebm
