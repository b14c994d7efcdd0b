package app

import (
	"bytes"
	"context"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"

	"github.com/agbru/factcalc/internal/calibration"
	"github.com/agbru/factcalc/internal/config"
	apperrors "github.com/agbru/factcalc/internal/errors"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/factorial/mocks"
)

// newTestApp builds an Application with colors off and the calibration
// profile confined to a temp dir.
func newTestApp(t *testing.T, args ...string) (*Application, *bytes.Buffer) {
	t.Helper()
	var errBuf bytes.Buffer
	full := append([]string{"factcalc", "-no-color",
		"-calibration-profile", filepath.Join(t.TempDir(), "profile.json")}, args...)
	a, err := New(full, &errBuf, WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("New(%v): %v (stderr: %s)", args, err, errBuf.String())
	}
	return a, &errBuf
}

func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	a, errBuf := newTestApp(t, args...)
	var out bytes.Buffer
	code = a.Run(context.Background(), &out)
	return code, out.String(), errBuf.String()
}

func TestNewAppliesAdaptiveDefaults(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)

	if a.Config.N != factorial.DefaultN {
		t.Errorf("N = %d, want %d", a.Config.N, factorial.DefaultN)
	}
	if got, want := a.Config.ParallelCutoff, config.EstimateOptimalCutoff(); got != want {
		t.Errorf("ParallelCutoff = %d, want estimate %d", got, want)
	}
	if a.Config.FFTThreshold == 0 {
		t.Error("FFTThreshold left at zero")
	}
	if a.Factory == nil {
		t.Fatal("default factory not installed")
	}
}

func TestNewUsesCachedCalibration(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "profile.json")
	p := calibration.NewProfile()
	p.OptimalCutoff = 777
	if err := p.SaveProfile(path); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	a, err := New([]string{"factcalc", "-calibration-profile", path}, &bytes.Buffer{}, WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.Config.ParallelCutoff != 777 {
		t.Errorf("ParallelCutoff = %d, want 777 from the profile", a.Config.ParallelCutoff)
	}

	a, err = New([]string{"factcalc", "-calibration-profile", path, "-cutoff", "99"}, &bytes.Buffer{}, WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.Config.ParallelCutoff != 99 {
		t.Errorf("ParallelCutoff = %d, want the flag value 99", a.Config.ParallelCutoff)
	}
}

func TestNewErrors(t *testing.T) {
	t.Parallel()
	var errBuf bytes.Buffer

	if _, err := New([]string{"factcalc", "-algo", "bogus"}, &errBuf); err == nil {
		t.Error("expected an error for an unknown algorithm")
	}

	_, err := New([]string{"factcalc", "-h"}, &errBuf)
	if !IsHelpError(err) {
		t.Errorf("IsHelpError(%v) = false, want true", err)
	}
}

func TestRunVersion(t *testing.T) {
	t.Parallel()
	code, out, _ := run(t, "-version")
	if code != apperrors.ExitSuccess {
		t.Fatalf("code = %d", code)
	}
	if !strings.Contains(out, "factcalc "+Version) {
		t.Errorf("version output: %q", out)
	}
}

func TestHasVersionFlag(t *testing.T) {
	t.Parallel()
	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"-n", "5"}, false},
		{[]string{"-version"}, true},
		{[]string{"-n", "5", "--version"}, true},
		{[]string{"-V"}, true},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestRunCompletion(t *testing.T) {
	t.Parallel()
	code, out, _ := run(t, "-completion", "bash")
	if code != apperrors.ExitSuccess {
		t.Fatalf("code = %d", code)
	}
	if !strings.Contains(out, factorial.KeyForkJoin) {
		t.Errorf("completion script lacks strategy names:\n%s", out)
	}

	code, _, stderr := run(t, "-completion", "tcsh")
	if code != apperrors.ExitErrorConfig {
		t.Errorf("unsupported shell: code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
	if !strings.Contains(stderr, "Error generating completion") {
		t.Errorf("stderr: %q", stderr)
	}
}

func TestRunSingleStrategy(t *testing.T) {
	t.Parallel()
	code, out, _ := run(t, "-n", "10", "-algo", factorial.KeyIterative, "-c")
	if code != apperrors.ExitSuccess {
		t.Fatalf("code = %d, output:\n%s", code, out)
	}
	for _, want := range []string{"Single calculation", "Sequential Fold completed", "10! = 3,628,800"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunComparison(t *testing.T) {
	t.Parallel()
	code, out, _ := run(t, "-n", "200", "-d")
	if code != apperrors.ExitSuccess {
		t.Fatalf("code = %d, output:\n%s", code, out)
	}
	for _, want := range []string{"Parallel comparison of 4 strategies", "Global Status: Success", "Memory Stats:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunQuiet(t *testing.T) {
	t.Parallel()
	code, out, _ := run(t, "-n", "10", "-q")
	if code != apperrors.ExitSuccess {
		t.Fatalf("code = %d", code)
	}
	if got := strings.TrimSpace(out); got != "3628800" {
		t.Errorf("quiet output = %q, want 3628800", got)
	}
}

func TestRunZero(t *testing.T) {
	t.Parallel()

	code, out, _ := run(t, "-n", "0", "-algo", factorial.KeyReduce)
	if code != apperrors.ExitErrorGeneric {
		t.Errorf("reduce on 0: code = %d, want %d\n%s", code, apperrors.ExitErrorGeneric, out)
	}

	code, out, _ = run(t, "-n", "0", "-q")
	if code != apperrors.ExitSuccess {
		t.Fatalf("all on 0: code = %d", code)
	}
	if got := strings.TrimSpace(out); got != "1" {
		t.Errorf("0! = %q, want 1", got)
	}
}

func TestRunMemoryLimit(t *testing.T) {
	t.Parallel()
	code, _, stderr := run(t, "-n", "1000000", "-memory-limit", "1KB")
	if code != apperrors.ExitErrorConfig {
		t.Errorf("code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
	if !strings.Contains(stderr, "Memory budget exceeded") {
		t.Errorf("stderr: %q", stderr)
	}

	code, out, _ := run(t, "-n", "100", "-algo", factorial.KeyRecursive, "-memory-limit", "1GB")
	if code != apperrors.ExitSuccess {
		t.Fatalf("within budget: code = %d", code)
	}
	if !strings.Contains(out, "Memory estimate:") {
		t.Errorf("output missing the estimate:\n%s", out)
	}
}

func TestRunWritesOutputAndMetrics(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	resultPath := filepath.Join(dir, "result.txt")
	metricsPath := filepath.Join(dir, "factcalc.prom")

	code, out, _ := run(t, "-n", "20", "-o", resultPath, "-metrics-file", metricsPath)
	if code != apperrors.ExitSuccess {
		t.Fatalf("code = %d, output:\n%s", code, out)
	}
	if !strings.Contains(out, "Result saved to") {
		t.Errorf("output missing save notice:\n%s", out)
	}

	result, err := os.ReadFile(resultPath)
	if err != nil {
		t.Fatalf("reading result: %v", err)
	}
	if !strings.Contains(string(result), "20! =\n2432902008176640000") {
		t.Errorf("result file:\n%s", result)
	}

	prom, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("reading metrics: %v", err)
	}
	for _, want := range []string{"factcalc_calculations_total", `status="ok"`, "factcalc_last_n 20"} {
		if !strings.Contains(string(prom), want) {
			t.Errorf("metrics missing %q:\n%s", want, prom)
		}
	}
}

func TestRunMismatch(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	liar := mocks.NewMockCalculator(ctrl)
	liar.EXPECT().Name().Return("Liar").AnyTimes()
	liar.EXPECT().Calculate(gomock.Any(), gomock.Any(), gomock.Any(), uint64(5), gomock.Any()).Return(big.NewInt(121), nil)

	f := factorial.NewDefaultFactory()
	if err := f.Register("liar", liar); err != nil {
		t.Fatalf("Register: %v", err)
	}
	a, err := New([]string{"factcalc", "-no-color", "-n", "5",
		"-calibration-profile", filepath.Join(t.TempDir(), "p.json")},
		&bytes.Buffer{}, WithFactory(f), WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitErrorMismatch {
		t.Errorf("code = %d, want %d\n%s", code, apperrors.ExitErrorMismatch, out.String())
	}
	if !strings.Contains(out.String(), "CRITICAL ERROR") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestRunInteractive(t *testing.T) {
	t.Parallel()
	a, err := New([]string{"factcalc", "-no-color", "-interactive", "-algo", factorial.KeyForkJoin,
		"-calibration-profile", filepath.Join(t.TempDir(), "p.json")},
		&bytes.Buffer{}, WithInput(strings.NewReader("5\nexit\n")), WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("code = %d", code)
	}
	if !strings.Contains(out.String(), "5! = 120") {
		t.Errorf("session output:\n%s", out.String())
	}
}

func TestRunCalibrate(t *testing.T) {
	if testing.Short() {
		t.Skip("calibration benchmarks every candidate cutoff")
	}
	t.Parallel()
	path := filepath.Join(t.TempDir(), "profile.json")
	a, err := New([]string{"factcalc", "-no-color", "-calibrate", "-calibration-profile", path},
		&bytes.Buffer{}, WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("code = %d\n%s", code, out.String())
	}
	if cutoff := calibration.LoadCachedCutoff(path); cutoff == 0 {
		t.Error("calibration did not save a cutoff")
	}
}

func TestFindBestResult(t *testing.T) {
	t.Parallel()
	if findBestResult(nil) != nil {
		t.Error("expected nil for no results")
	}
}
