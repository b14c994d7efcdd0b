package orchestration

import (
	"testing"

	"github.com/agbru/factcalc/internal/config"
	"github.com/agbru/factcalc/internal/factorial"
)

func TestGetCalculatorsToRun(t *testing.T) {
	t.Parallel()
	factory := factorial.GlobalFactory()

	t.Run("Single algorithm returns one calculator", func(t *testing.T) {
		t.Parallel()
		calculators := GetCalculatorsToRun(config.AppConfig{Algo: factorial.KeyForkJoin}, factory)
		if len(calculators) != 1 {
			t.Fatalf("Expected 1 calculator, got %d", len(calculators))
		}
		if calculators[0].Name() == "" {
			t.Error("Calculator name should not be empty")
		}
	})

	t.Run("All algorithms in key order", func(t *testing.T) {
		t.Parallel()
		calculators := GetCalculatorsToRun(config.AppConfig{Algo: "all"}, factory)
		keys := factory.List()
		if len(calculators) != len(keys) {
			t.Fatalf("Expected %d calculators for 'all', got %d", len(keys), len(calculators))
		}
		for i, k := range keys {
			want, _ := factory.Get(k)
			if calculators[i] != want {
				t.Errorf("position %d: got %s, want %s", i, calculators[i].Name(), want.Name())
			}
		}
	})

	t.Run("Unknown algorithm", func(t *testing.T) {
		t.Parallel()
		if got := GetCalculatorsToRun(config.AppConfig{Algo: "bogus"}, factory); got != nil {
			t.Errorf("expected nil, got %d calculators", len(got))
		}
	})
}
