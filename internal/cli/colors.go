package cli

import (
	apperrors "github.com/agbru/factcalc/internal/errors"
	"github.com/agbru/factcalc/internal/ui"
)

// CLIColorProvider supplies the current theme's colors to error handling.
type CLIColorProvider struct{}

var _ apperrors.ColorProvider = CLIColorProvider{}

func (CLIColorProvider) Red() string {
	return ui.ColorRed()
}

func (CLIColorProvider) Yellow() string {
	return ui.ColorYellow()
}

func (CLIColorProvider) Reset() string {
	return ui.ColorReset()
}
