// Package cal parses Argyll device calibration (.cal) files and estimates
// driver tuning parameters from the correction curves they contain.
//
// A .cal file carries two CGATS-style blocks: the device calibration curves
// (per-channel correction applied by the driver) and the expected delta-E
// response. Both are tables keyed by nominal input level with one column per
// ink channel. The estimator fits simple gamma and slope models to those
// tables and folds the result into a cumulative parameter set, so passing
// the .cal files from successive runs refines the estimate.
package cal
