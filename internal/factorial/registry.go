package factorial

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// CalculatorFactory creates and looks up calculators by strategy key.
type CalculatorFactory interface {
	// Get returns the calculator registered under name.
	Get(name string) (Calculator, error)
	// List returns the registered keys in sorted order.
	List() []string
	// Register adds or replaces a calculator.
	Register(name string, calc Calculator) error
	// GetAll returns every registered calculator keyed by name.
	GetAll() map[string]Calculator
}

// DefaultFactory is the CalculatorFactory pre-populated with the four
// built-in strategies. It is safe for concurrent use.
type DefaultFactory struct {
	mu          sync.RWMutex
	calculators map[string]Calculator
}

// Strategy keys of the built-in calculators.
const (
	KeyIterative = "iterative"
	KeyReduce    = "reduce"
	KeyRecursive = "recursive"
	KeyForkJoin  = "forkjoin"
)

// NewDefaultFactory returns a factory holding the built-in strategies, with
// engine events discarded.
func NewDefaultFactory() *DefaultFactory {
	return NewFactoryWithLogger(zerolog.Nop())
}

// NewFactoryWithLogger returns a factory holding the built-in strategies
// whose calculators log to l.
func NewFactoryWithLogger(l zerolog.Logger) *DefaultFactory {
	f := &DefaultFactory{calculators: make(map[string]Calculator, 4)}
	for name, core := range map[string]coreCalculator{
		KeyIterative: IterativeCalculator{},
		KeyReduce:    ReduceCalculator{},
		KeyRecursive: RecursiveCalculator{},
		KeyForkJoin:  NewForkJoinCalculator(l),
	} {
		calc := &FactCalculator{core: core, logger: l}
		f.calculators[name] = calc
	}
	return f
}

// Get implements CalculatorFactory.
func (f *DefaultFactory) Get(name string) (Calculator, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	calc, ok := f.calculators[name]
	if !ok {
		return nil, UnknownAlgorithmError{Name: name}
	}
	return calc, nil
}

// MustGet is like Get but panics on an unknown name.
func (f *DefaultFactory) MustGet(name string) Calculator {
	calc, err := f.Get(name)
	if err != nil {
		panic(err)
	}
	return calc
}

// List implements CalculatorFactory.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.calculators))
	for name := range f.calculators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register implements CalculatorFactory.
func (f *DefaultFactory) Register(name string, calc Calculator) error {
	if name == "" {
		return fmt.Errorf("calculator name must not be empty")
	}
	if calc == nil {
		return fmt.Errorf("calculator %q is nil", name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calculators[name] = calc
	return nil
}

// GetAll implements CalculatorFactory. The returned map is a copy.
func (f *DefaultFactory) GetAll() map[string]Calculator {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]Calculator, len(f.calculators))
	for name, calc := range f.calculators {
		out[name] = calc
	}
	return out
}

var (
	globalFactory     *DefaultFactory
	globalFactoryOnce sync.Once
)

// GlobalFactory returns the process-wide factory, created on first use.
func GlobalFactory() *DefaultFactory {
	globalFactoryOnce.Do(func() {
		globalFactory = NewDefaultFactory()
	})
	return globalFactory
}
