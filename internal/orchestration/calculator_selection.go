package orchestration

import (
	"github.com/agbru/factcalc/internal/config"
	"github.com/agbru/factcalc/internal/factorial"
)

// GetCalculatorsToRun returns the calculators selected by cfg.Algo: every
// registered strategy in key order for "all", otherwise the single named
// one. An unknown name yields nil.
func GetCalculatorsToRun(cfg config.AppConfig, factory factorial.CalculatorFactory) []factorial.Calculator {
	if cfg.Algo == config.DefaultAlgo {
		keys := factory.List()
		calculators := make([]factorial.Calculator, 0, len(keys))
		for _, k := range keys {
			if calc, err := factory.Get(k); err == nil {
				calculators = append(calculators, calc)
			}
		}
		return calculators
	}
	if calc, err := factory.Get(cfg.Algo); err == nil {
		return []factorial.Calculator{calc}
	}
	return nil
}
