// Package argyll wraps the external chart and profiling binaries (targen,
// printtarg, scanin, colprof, xicclu). Each client shells out through an
// injectable executor and limits itself to argument assembly, exit status
// interpretation, and output file verification; all color science happens in
// the tools themselves.
package argyll
