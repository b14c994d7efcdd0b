package factorial

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/agbru/factcalc/internal/bigint"
)

func TestNewEngineRejectsInvalidOptions(t *testing.T) {
	t.Parallel()
	for _, opts := range []Options{{Workers: -1}, {Batches: -2}} {
		if _, err := NewEngine(opts); !errors.Is(err, ErrInvalidOptions) {
			t.Errorf("NewEngine(%+v) err = %v, want ErrInvalidOptions", opts, err)
		}
	}
}

func TestEngineDefaults(t *testing.T) {
	t.Parallel()
	e, err := NewEngine(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if e.Workers() < 1 {
		t.Errorf("Workers() = %d, want >= 1", e.Workers())
	}
	if e.opts.ParallelCutoff != DefaultParallelCutoff {
		t.Errorf("ParallelCutoff = %d, want %d", e.opts.ParallelCutoff, DefaultParallelCutoff)
	}
}

// TestWorkerCountIndependence checks that the product does not depend on
// how many workers evaluate it.
func TestWorkerCountIndependence(t *testing.T) {
	t.Parallel()
	const n = 5000
	var want bigint.Value
	for i, workers := range []int{1, 2, 3, 8, 32} {
		e, err := NewEngine(Options{Workers: workers, ParallelCutoff: 1})
		if err != nil {
			t.Fatal(err)
		}
		got, err := e.RangeProduct(context.Background(), 1, n)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if i == 0 {
			want = got
			continue
		}
		if !got.Equal(want) {
			t.Errorf("workers=%d: result differs from workers=1", workers)
		}
	}
}

func TestSingleWorkerNeverForks(t *testing.T) {
	t.Parallel()
	e, err := NewEngine(Options{Workers: 1, ParallelCutoff: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.RangeProduct(context.Background(), 1, 1000); err != nil {
		t.Fatal(err)
	}
	s := e.Stats()
	if s.Forked != 0 {
		t.Errorf("Forked = %d with one worker, want 0", s.Forked)
	}
	if s.Inlined == 0 {
		t.Error("Inlined = 0, want every split inlined")
	}
}

func TestEngineForksWithWorkers(t *testing.T) {
	t.Parallel()
	e, err := NewEngine(Options{Workers: 4, ParallelCutoff: 16})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.RangeProduct(context.Background(), 1, 20_000); err != nil {
		t.Fatal(err)
	}
	if s := e.Stats(); s.Forked == 0 {
		t.Errorf("Forked = 0, want at least one fork (stats %+v)", s)
	}
}

func TestEngineAdaptiveFFT(t *testing.T) {
	t.Parallel()
	const n = 12_000
	want := oracle(1, n)

	e, err := NewEngine(Options{Workers: 4, ParallelCutoff: 16, FFTThreshold: 4096, AdaptiveFFT: true})
	if err != nil {
		t.Fatal(err)
	}
	got, err := e.RangeProduct(context.Background(), 1, n)
	if err != nil {
		t.Fatal(err)
	}
	if got.Big().Cmp(want) != 0 {
		t.Errorf("%d! mismatch with adaptive FFT", n)
	}
	if th := e.Stats().FFTThreshold; th < 4096 || th > 2*4096 {
		t.Errorf("FFTThreshold = %d, want within [4096, 8192]", th)
	}

	off, err := NewEngine(Options{FFTThreshold: -1, AdaptiveFFT: true})
	if err != nil {
		t.Fatal(err)
	}
	if off.thresholds != nil {
		t.Error("threshold manager created with FFT disabled")
	}
	if th := off.Stats().FFTThreshold; th != 0 {
		t.Errorf("FFTThreshold = %d with FFT disabled, want 0", th)
	}
}

func TestEngineConcurrentCallers(t *testing.T) {
	t.Parallel()
	e, err := NewEngine(Options{Workers: 4, ParallelCutoff: 8})
	if err != nil {
		t.Fatal(err)
	}
	want := oracle(1, 2000)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := e.RangeProduct(context.Background(), 1, 2000)
			if err != nil {
				errs <- err
				return
			}
			if got.Big().Cmp(want) != 0 {
				errs <- errors.New("result mismatch")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestEngineCancellationMidFlight(t *testing.T) {
	t.Parallel()
	e, err := NewEngine(Options{Workers: 4, ParallelCutoff: 64})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := e.RangeProduct(ctx, 1, 50_000_000)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("err = %v, want context.DeadlineExceeded", err)
		}
	case <-time.After(30 * time.Second):
		t.Fatal("engine did not stop after cancellation")
	}
}

func TestEngineProgress(t *testing.T) {
	t.Parallel()
	e, err := NewEngine(Options{Workers: 4, ParallelCutoff: 32})
	if err != nil {
		t.Fatal(err)
	}
	var (
		mu     sync.Mutex
		values []float64
	)
	_, err = e.RangeProductWithProgress(context.Background(), 1, 10_000, func(v float64) {
		mu.Lock()
		values = append(values, v)
		mu.Unlock()
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(values) == 0 {
		t.Fatal("no progress reported")
	}
	last := values[len(values)-1]
	for _, v := range values {
		if v < 0 || v > 1 {
			t.Errorf("progress value %v out of [0, 1]", v)
		}
		if v > last {
			last = v
		}
	}
	if last != 1 {
		t.Errorf("maximum progress = %v, want 1", last)
	}
}

func TestFactorial(t *testing.T) {
	t.Parallel()
	got, err := Factorial(context.Background(), 20, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got.Uint64() != knownFactorials[20] {
		t.Errorf("Factorial(20) = %s, want %d", got, knownFactorials[20])
	}
	zero, err := Factorial(context.Background(), 0, Options{})
	if err != nil || !zero.Equal(bigint.One()) {
		t.Errorf("Factorial(0) = %s, %v; want 1", zero, err)
	}
}

// FuzzRangeProduct compares the fork-join engine with the sequential fold
// on arbitrary small ranges.
func FuzzRangeProduct(f *testing.F) {
	f.Add(uint64(1), uint16(10), uint8(2))
	f.Add(uint64(1<<40), uint16(200), uint8(7))
	f.Add(uint64(5), uint16(0), uint8(1))
	f.Fuzz(func(t *testing.T, a uint64, span uint16, workers uint8) {
		if a == 0 || a > 1<<62 {
			return
		}
		opts := Options{Workers: int(workers%16) + 1, ParallelCutoff: 2}
		r := Range{A: a, B: a + uint64(span)}
		e, err := NewEngine(opts)
		if err != nil {
			t.Fatal(err)
		}
		got, err := e.RangeProduct(context.Background(), r.A, r.B)
		if err != nil {
			t.Fatal(err)
		}
		want, err := SequentialProduct(context.Background(), r, opts)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(want) {
			t.Errorf("%v: fork-join and fold disagree", r)
		}
	})
}
