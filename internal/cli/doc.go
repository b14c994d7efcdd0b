// Package cli renders factcalc runs in a terminal: the execution banner, a
// spinner with an aggregated progress bar, the comparison table, the final
// result, and an interactive REPL.
//
// Display* functions write to an io.Writer, Format* functions return strings
// without I/O, and Write* functions write files.
package cli
