package bigint

import (
	"math/big"
	"math/rand"
	"testing"
)

func randomValue(r *rand.Rand, bits int) (Value, *big.Int) {
	b := new(big.Int).Rand(r, new(big.Int).Lsh(big.NewInt(1), uint(bits)))
	b.SetBit(b, bits-1, 1)
	return FromBig(b), b
}

// TestMultiplierTiersAgree checks the FFT tier against math/big for operands
// on both sides of a deliberately low threshold.
func TestMultiplierTiersAgree(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(42))
	m := Multiplier{FFTThreshold: 256}

	sizes := [][2]int{{64, 64}, {300, 8}, {300, 300}, {5000, 7000}, {40000, 40000}}
	for _, s := range sizes {
		x, bx := randomValue(r, s[0])
		y, by := randomValue(r, s[1])
		want := new(big.Int).Mul(bx, by)

		if got := m.Mul(x, y); got.Big().Cmp(want) != 0 {
			t.Errorf("%d-bit * %d-bit: FFT-enabled multiplier disagrees with math/big", s[0], s[1])
		}
		if got := (Multiplier{}).Mul(x, y); got.Big().Cmp(want) != 0 {
			t.Errorf("%d-bit * %d-bit: native multiplier disagrees with math/big", s[0], s[1])
		}
	}
}

func TestMultiplierUsesFFT(t *testing.T) {
	t.Parallel()
	m := Multiplier{FFTThreshold: 1000}
	tests := []struct {
		x, y int
		want bool
	}{
		{1001, 1001, true},
		{1001, 10, false},
		{1000, 1000, false},
	}
	for _, tt := range tests {
		if got := m.UsesFFT(tt.x, tt.y); got != tt.want {
			t.Errorf("UsesFFT(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	if (Multiplier{}).UsesFFT(1<<30, 1<<30) {
		t.Error("zero threshold must disable FFT")
	}
}

// FuzzMultiplierOracle compares Multiplier.Mul against math/big for random
// operands, with the FFT threshold low enough that both tiers are hit.
func FuzzMultiplierOracle(f *testing.F) {
	for _, size := range []int{8, 64, 256, 1024, 4096} {
		f.Add(make([]byte, 2*size))
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) < 2 {
			return
		}
		half := len(data) / 2
		bx := new(big.Int).SetBytes(data[:half])
		by := new(big.Int).SetBytes(data[half:])

		got := Multiplier{FFTThreshold: 512}.Mul(FromBig(bx), FromBig(by))
		if want := new(big.Int).Mul(bx, by); got.Big().Cmp(want) != 0 {
			t.Errorf("mismatch for %d-bit * %d-bit", bx.BitLen(), by.BitLen())
		}
	})
}
