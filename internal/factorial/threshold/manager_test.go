package threshold

import (
	"sync"
	"testing"
	"time"
)

// feed records interval merges, half of them FFT, with the given cost per
// bit in nanoseconds.
func feed(m *Manager, fftNsPerBit, nativeNsPerBit int) bool {
	const bits = 1_000_000
	changed := false
	for i := 0; i < AdjustmentInterval; i++ {
		metric := MergeMetric{Bits: bits, Duration: time.Duration(nativeNsPerBit * bits)}
		if i%2 == 0 {
			metric = MergeMetric{Bits: bits, Duration: time.Duration(fftNsPerBit * bits), UsedFFT: true}
		}
		if m.Record(metric) {
			changed = true
		}
	}
	return changed
}

func TestNewManagerDisabled(t *testing.T) {
	t.Parallel()
	for _, th := range []int{0, -1} {
		if m := NewManager(th); m != nil {
			t.Errorf("NewManager(%d) = %+v, want nil", th, m)
		}
	}
}

func TestManagerAdjustments(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name           string
		fft, native    int
		rounds         int
		wantThreshold  int
		wantAdjustment bool
	}{
		{"fft faster lowers", 1, 3, 1, 400_000, true},
		{"fft slower raises", 3, 1, 1, 600_000, true},
		{"raise is capped", 3, 1, 10, 1_000_000, true},
		{"comparable keeps", 10, 11, 3, 500_000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := NewManager(500_000)
			for i := 0; i < tt.rounds; i++ {
				feed(m, tt.fft, tt.native)
			}
			stats := m.Stats()
			if stats.CurrentFFT != tt.wantThreshold {
				t.Errorf("threshold = %d, want %d", stats.CurrentFFT, tt.wantThreshold)
			}
			if (stats.Adjustments > 0) != tt.wantAdjustment {
				t.Errorf("adjustments = %d, want adjusted=%v", stats.Adjustments, tt.wantAdjustment)
			}
			if stats.OriginalFFT != 500_000 || stats.Recorded != tt.rounds*AdjustmentInterval {
				t.Errorf("stats = %+v", stats)
			}
		})
	}
}

func TestManagerLowerIsFloored(t *testing.T) {
	t.Parallel()
	m := NewManager(500_000)
	for i := 0; i < 20; i++ {
		feed(m, 1, 3)
	}
	got := m.FFTThreshold()
	if got < MinFFTThreshold || got >= 500_000 {
		t.Errorf("threshold = %d, want lowered but not below %d", got, MinFFTThreshold)
	}
}

func TestManagerFloorBelowDefault(t *testing.T) {
	t.Parallel()
	m := NewManager(2048)
	for i := 0; i < 10; i++ {
		feed(m, 1, 3)
	}
	if got := m.FFTThreshold(); got != 2048 {
		t.Errorf("threshold = %d, should never drop below a small initial value", got)
	}
}

func TestManagerNeedsBothTiers(t *testing.T) {
	t.Parallel()
	m := NewManager(500_000)
	for i := 0; i < 3*AdjustmentInterval; i++ {
		m.Record(MergeMetric{Bits: 1000, Duration: time.Millisecond, UsedFFT: true})
	}
	if m.FFTThreshold() != 500_000 {
		t.Errorf("threshold moved to %d with FFT samples only", m.FFTThreshold())
	}
}

func TestManagerTracks(t *testing.T) {
	t.Parallel()
	m := NewManager(400_000)
	if !m.Tracks(200_000, 900_000) {
		t.Error("merge one octave below the threshold should be tracked")
	}
	if m.Tracks(199_999, 900_000) {
		t.Error("merge with a small operand should not be tracked")
	}
}

func TestManagerConcurrentRecord(t *testing.T) {
	t.Parallel()
	m := NewManager(500_000)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				m.Record(MergeMetric{Bits: 1 << 20, Duration: time.Duration(i+g) * time.Microsecond, UsedFFT: i%2 == 0})
				_ = m.FFTThreshold()
			}
		}(g)
	}
	wg.Wait()
	if got := m.Stats().Recorded; got != 800 {
		t.Errorf("Recorded = %d, want 800", got)
	}
}
