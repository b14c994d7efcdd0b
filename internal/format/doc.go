// Package format holds the pure string formatting helpers shared by the CLI
// and the calibration report: durations, byte sizes, digit grouping and
// progress bars with an ETA.
package format
