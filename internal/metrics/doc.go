// Package metrics collects runtime memory readings and per-strategy
// calculation metrics, exposed in the Prometheus text format.
package metrics
