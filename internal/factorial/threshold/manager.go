// Package threshold tunes the FFT multiplication threshold while a
// calculation runs, from the timings of the merges it has already done.
package threshold

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// ─────────────────────────────────────────────────────────────────────────────
// Dynamic Threshold Configuration
// ─────────────────────────────────────────────────────────────────────────────

const (
	// AdjustmentInterval is the number of recorded merges between two
	// threshold checks.
	AdjustmentInterval = 8

	// MinMetricsForAdjustment is the number of merges needed before the first
	// check.
	MinMetricsForAdjustment = 4

	// MaxMetricsHistory is the size of the merge window analyzed by a check.
	MaxMetricsHistory = 32

	// FFTSpeedupThreshold is the time-per-bit ratio one tier must beat the
	// other by before the threshold moves.
	FFTSpeedupThreshold = 1.2

	// HysteresisMargin is the smallest relative change applied to the
	// threshold.
	HysteresisMargin = 0.15

	// MinFFTThreshold is the floor of the adjusted threshold in bits, unless
	// the initial threshold was already lower.
	MinFFTThreshold = 100_000

	// maxCapMultiplier bounds the adjusted threshold to this multiple of the
	// initial one.
	maxCapMultiplier = 2

	// lowerNumerator and raiseNumerator over 10 scale the threshold down when
	// FFT wins and up when it loses.
	lowerNumerator = 8
	raiseNumerator = 12
)

// MergeMetric is the timing of one multiplication of two subproducts.
type MergeMetric struct {
	// Bits is the bit length of the product.
	Bits     int
	Duration time.Duration
	UsedFFT  bool
}

// Stats is a snapshot of a Manager.
type Stats struct {
	CurrentFFT  int
	OriginalFFT int
	Recorded    int
	Adjustments int
}

// Manager adjusts the FFT threshold from merge timings. Merges within one
// octave of the threshold are compared: when the FFT ones cost clearly less
// per bit than the native ones the threshold is lowered, and raised in the
// opposite case.
//
// A Manager is safe for concurrent use. FFTThreshold is lock-free.
type Manager struct {
	mu     sync.Mutex
	logger zerolog.Logger

	current  atomic.Int64
	original int

	metrics     [MaxMetricsHistory]MergeMetric
	count       int
	head        int
	adjustments int
}

// NewManager returns a Manager starting from fftThreshold bits. A
// non-positive threshold means FFT is disabled and yields nil.
func NewManager(fftThreshold int) *Manager {
	if fftThreshold <= 0 {
		return nil
	}
	m := &Manager{logger: zerolog.Nop(), original: fftThreshold}
	m.current.Store(int64(fftThreshold))
	return m
}

// SetLogger configures the logger for threshold adjustment events.
func (m *Manager) SetLogger(l zerolog.Logger) {
	m.logger = l
}

// FFTThreshold returns the current threshold in bits.
func (m *Manager) FFTThreshold() int {
	return int(m.current.Load())
}

// Tracks reports whether a merge of operands of the given bit lengths is
// close enough to the threshold to be worth recording.
func (m *Manager) Tracks(xBits, yBits int) bool {
	return min(xBits, yBits) >= m.FFTThreshold()/2
}

// Record adds a merge to the window and re-evaluates the threshold every
// AdjustmentInterval merges. It reports whether the threshold changed.
func (m *Manager) Record(metric MergeMetric) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.metrics[m.head] = metric
	m.head = (m.head + 1) % MaxMetricsHistory
	m.count++

	if m.count%AdjustmentInterval != 0 || m.count < MinMetricsForAdjustment {
		return false
	}
	old := int(m.current.Load())
	next := m.analyze(old)
	if !significantChange(old, next) {
		return false
	}
	m.current.Store(int64(next))
	m.adjustments++
	m.logger.Debug().
		Int("merges", m.count).
		Int("fft_old", old).
		Int("fft_new", next).
		Msg("fft threshold adjusted")
	return true
}

// analyze returns the threshold suggested by the window. m.mu is held.
func (m *Manager) analyze(current int) int {
	n := min(m.count, MaxMetricsHistory)
	var fft, native []MergeMetric
	for _, metric := range m.metrics[:n] {
		if metric.UsedFFT {
			fft = append(fft, metric)
		} else {
			native = append(native, metric)
		}
	}
	if len(fft) == 0 || len(native) == 0 {
		return current
	}

	ratio := speedupRatio(avgTimePerBit(fft), avgTimePerBit(native))
	switch {
	case ratio == 0:
		return current
	case ratio > FFTSpeedupThreshold:
		return max(current*lowerNumerator/10, min(MinFFTThreshold, m.original))
	case ratio < 1/FFTSpeedupThreshold:
		return min(current*raiseNumerator/10, m.original*maxCapMultiplier)
	}
	return current
}

// Stats returns a snapshot of m.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		CurrentFFT:  int(m.current.Load()),
		OriginalFFT: m.original,
		Recorded:    m.count,
		Adjustments: m.adjustments,
	}
}

// speedupRatio returns baseline over optimized, or 0 if either is not
// positive.
func speedupRatio(optimized, baseline float64) float64 {
	if optimized <= 0 || baseline <= 0 {
		return 0
	}
	return baseline / optimized
}

func avgTimePerBit(metrics []MergeMetric) float64 {
	var total time.Duration
	var bits int64
	for _, metric := range metrics {
		total += metric.Duration
		bits += int64(metric.Bits)
	}
	if bits == 0 {
		return 0
	}
	return float64(total.Nanoseconds()) / float64(bits)
}

func significantChange(oldVal, newVal int) bool {
	if oldVal == 0 {
		return newVal != 0
	}
	change := float64(newVal-oldVal) / float64(oldVal)
	if change < 0 {
		change = -change
	}
	return change > HysteresisMargin
}
