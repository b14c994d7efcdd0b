package cli

import (
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/agbru/factcalc/internal/format"
	"github.com/agbru/factcalc/internal/ui"
)

// DisplayResult prints n! and, on request, its analysis.
//
// The bit size is always shown. details adds timing, digit count and
// scientific notation. showValue prints the value itself, truncated to its
// edges above TruncationLimit digits unless verbose is set.
func DisplayResult(result *big.Int, n uint64, duration time.Duration, verbose, details, showValue bool, out io.Writer) {
	fmt.Fprintf(out, "Result binary size: %s%s%s bits.\n",
		ui.ColorCyan(), format.FormatNumber(uint64(result.BitLen())), ui.ColorReset())

	digits := result.String()
	if details {
		fmt.Fprintf(out, "\n--- Detailed result analysis ---\n")
		fmt.Fprintf(out, "Calculation time        : %s%s%s\n",
			ui.ColorGreen(), format.FormatExecutionDuration(duration), ui.ColorReset())
		fmt.Fprintf(out, "Number of digits        : %s%s%s\n",
			ui.ColorCyan(), format.FormatNumber(uint64(len(digits))), ui.ColorReset())
		if len(digits) > 6 {
			fmt.Fprintf(out, "Scientific notation     : %s%s%s\n",
				ui.ColorCyan(), FormatScientific(digits), ui.ColorReset())
		}
	}

	if !showValue {
		return
	}
	fmt.Fprintf(out, "\n--- Calculated value ---\n")
	if len(digits) > TruncationLimit && !verbose {
		fmt.Fprintf(out, "%d! = %s%s%s (truncated)\n",
			n, ui.ColorGreen(), format.Truncate(digits, TruncationLimit, DisplayEdges), ui.ColorReset())
		fmt.Fprintf(out, "%sTip: use -v to display the full value.%s\n", ui.ColorGrey(), ui.ColorReset())
		return
	}
	fmt.Fprintf(out, "%d! = %s%s%s\n", n, ui.ColorGreen(), format.FormatNumberString(digits), ui.ColorReset())
}

// FormatScientific renders a decimal digit string as d.ddd × 10^k.
func FormatScientific(digits string) string {
	if len(digits) <= 1 {
		return digits + " × 10^0"
	}
	mantissa := digits[:min(len(digits), 5)]
	return fmt.Sprintf("%s.%s × 10^%d", mantissa[:1], mantissa[1:], len(digits)-1)
}
