package metrics

import "testing"

var sink []byte

func TestMemoryCollector_Snapshot(t *testing.T) {
	t.Parallel()

	snap := NewMemoryCollector().Snapshot()
	if snap.HeapAlloc == 0 {
		t.Error("HeapAlloc should be > 0")
	}
	if snap.Sys == 0 {
		t.Error("Sys should be > 0")
	}
}

func TestMemoryCollector_Since(t *testing.T) {
	t.Parallel()

	mc := NewMemoryCollector()
	before := mc.Snapshot()
	sink = make([]byte, 1<<20)
	after := mc.Snapshot()

	d := after.Since(before)
	if d.Allocated < 1<<20 {
		t.Errorf("Allocated = %d, want >= %d", d.Allocated, 1<<20)
	}
	if d.PeakHeapSys < before.HeapSys {
		t.Error("PeakHeapSys should not be below the first reading")
	}
}

func TestMemorySnapshot_SinceClampsBackwardCounters(t *testing.T) {
	t.Parallel()

	a := MemorySnapshot{TotalAlloc: 100, NumGC: 5, PauseTotalNs: 10, HeapSys: 7}
	b := MemorySnapshot{TotalAlloc: 50, NumGC: 2, PauseTotalNs: 3, HeapSys: 9}
	d := b.Since(a)
	if d.Allocated != 0 || d.GCCycles != 0 || d.PauseNs != 0 {
		t.Errorf("expected zero deltas, got %+v", d)
	}
	if d.PeakHeapSys != 9 {
		t.Errorf("PeakHeapSys = %d, want 9", d.PeakHeapSys)
	}
}
