package cli

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/factcalc/internal/errors"
	"github.com/agbru/factcalc/internal/metrics"
	"github.com/agbru/factcalc/internal/orchestration"
)

func TestCLIResultPresenter_PresentComparisonTable(t *testing.T) {
	t.Parallel()
	results := []orchestration.CalculationResult{
		{Name: "Parallel Divide & Conquer (fork-join)", Result: big.NewInt(1), Duration: 1500 * time.Microsecond},
		{Name: "Flat Parallel Reduction", Err: errors.New("empty reduction")},
	}
	var buf bytes.Buffer
	CLIResultPresenter{}.PresentComparisonTable(results, &buf)
	out := buf.String()

	for _, want := range []string{"Comparison Summary", "Algorithm", "Duration", "Status", "Success", "Failure (empty reduction)"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	header := lines[1]
	row := lines[2]
	if strings.Index(header, "Duration") != strings.Index(row, "1.5ms") && strings.Index(header, "Duration") != strings.Index(row, "1ms") {
		t.Errorf("duration column not aligned:\n%s\n%s", header, row)
	}
}

func TestCLIResultPresenter_HandleError(t *testing.T) {
	t.Parallel()
	p := CLIResultPresenter{}
	var buf bytes.Buffer
	if code := p.HandleError(context.DeadlineExceeded, time.Second, &buf); code != apperrors.ExitErrorTimeout {
		t.Errorf("code = %d, want %d", code, apperrors.ExitErrorTimeout)
	}
	if !strings.Contains(buf.String(), "Timeout") {
		t.Errorf("unexpected message %q", buf.String())
	}
	if p.FormatDuration(2*time.Millisecond) == "" {
		t.Error("FormatDuration returned an empty string")
	}
}

func TestCLIResultPresenter_PresentResult(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	res := orchestration.CalculationResult{Name: "x", Result: big.NewInt(120), Duration: time.Millisecond}
	CLIResultPresenter{}.PresentResult(res, 5, false, false, true, &buf)
	if !strings.Contains(buf.String(), "5! = 120") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestDisplayMemoryStats(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayMemoryStats(metrics.MemorySnapshot{HeapAlloc: 2048},
		metrics.MemoryDelta{Allocated: 1 << 20, GCCycles: 3, PauseNs: 1_500_000}, &buf)
	for _, want := range []string{"2.0 KiB", "1.0 MiB", "GC cycles:       3", "1.50ms"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("memory stats missing %q:\n%s", want, buf.String())
		}
	}
}
