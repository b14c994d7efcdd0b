// Package orchestration runs one or more factorial strategies concurrently
// and compares their results. It reaches the presentation layer only through
// the ProgressReporter and ResultPresenter interfaces.
package orchestration
