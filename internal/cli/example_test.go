package cli_test

import (
	"math/big"
	"os"
	"time"

	"github.com/agbru/factcalc/internal/cli"
)

func ExampleDisplayQuietResult() {
	cli.DisplayQuietResult(os.Stdout, big.NewInt(3628800), 10, time.Millisecond)
	// Output: 3628800
}

func ExampleDisplayResultWithConfig() {
	err := cli.DisplayResultWithConfig(os.Stdout, big.NewInt(120), 5, time.Millisecond, "forkjoin",
		cli.OutputConfig{Quiet: true})
	if err != nil {
		panic(err)
	}
	// Output: 120
}
