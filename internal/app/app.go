// Package app wires configuration, strategies and presentation into the
// factcalc command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/factcalc/internal/calibration"
	"github.com/agbru/factcalc/internal/cli"
	"github.com/agbru/factcalc/internal/config"
	apperrors "github.com/agbru/factcalc/internal/errors"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/logging"
	"github.com/agbru/factcalc/internal/telemetry"
	"github.com/agbru/factcalc/internal/ui"
)

// telemetryShutdownTimeout bounds the final span flush.
const telemetryShutdownTimeout = 5 * time.Second

// Application is a configured factcalc invocation.
type Application struct {
	Config    config.AppConfig
	Factory   factorial.CalculatorFactory
	ErrWriter io.Writer
	Logger    zerolog.Logger

	in io.Reader
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom CalculatorFactory for the application.
func WithFactory(f factorial.CalculatorFactory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// WithLogger replaces the console logger on ErrWriter.
func WithLogger(l zerolog.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// WithInput sets the reader of the interactive session.
func WithInput(in io.Reader) AppOption {
	return func(a *Application) { a.in = in }
}

// New parses args, whose first element is the program name, and resolves
// the adaptive defaults. A cached calibration profile supplies the fork-join
// cutoff when neither the flag nor the environment does.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{
		ErrWriter: errWriter,
		Logger:    logging.NewConsole(errWriter, "factcalc"),
		in:        os.Stdin,
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.Factory == nil {
		app.Factory = factorial.NewFactoryWithLogger(app.Logger)
	}

	programName := "factcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Factory.List())
	if err != nil {
		return nil, err
	}

	var cached uint64
	if !cfg.Calibrate {
		cached = calibration.LoadCachedCutoff(cfg.CalibrationProfile)
	}
	app.Config = config.ApplyAdaptiveDefaults(cfg, cached)
	return app, nil
}

// Run executes the mode selected by the configuration and returns the
// process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.ShowVersion {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	if err := logging.SetGlobalLevel(a.Config.LogLevel); err != nil {
		fmt.Fprintln(a.ErrWriter, err)
		return apperrors.ExitErrorConfig
	}
	ui.InitTheme(a.Config.NoColor)

	shutdown, err := telemetry.Setup(ctx, "factcalc", Version)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("tracing disabled")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			a.Logger.Warn().Err(err).Msg("flushing traces")
		}
	}()

	switch {
	case a.Config.Calibrate:
		return a.runCalibration(ctx, out)
	case a.Config.Interactive:
		return a.runInteractive(out)
	}
	return a.runCalculate(ctx, out)
}

func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	_, err := calibration.RunCalibration(ctx, calibration.Options{
		Workers:      a.Config.Workers,
		FFTThreshold: a.Config.FFTThreshold,
		ProfilePath:  a.Config.CalibrationProfile,
	}, out, logging.NewZerologAdapter(a.Logger))
	if err != nil {
		return apperrors.HandleCalculationError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	return apperrors.ExitSuccess
}

func (a *Application) runInteractive(out io.Writer) int {
	repl := cli.NewREPL(a.Factory, cli.REPLConfig{
		DefaultAlgo: a.Config.Algo,
		Timeout:     a.Config.Timeout,
		Options:     a.Config.ToFactorialOptions(),
	})
	repl.SetInput(a.in)
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// IsHelpError reports whether err comes from -h or -help.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// ConfigExitCode maps an error returned by New to the process exit code.
// Flag syntax errors count as configuration errors.
func ConfigExitCode(err error) int {
	if code := apperrors.ExitCode(err); code != apperrors.ExitErrorGeneric {
		return code
	}
	return apperrors.ExitErrorConfig
}
