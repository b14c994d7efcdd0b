package bigint

import (
	"testing"
)

func TestArenaFromNative(t *testing.T) {
	t.Parallel()
	a := NewArena(4)
	inputs := []uint64{0, 1, 42, ^uint64(0)}
	vals := make([]Value, len(inputs))
	for i, n := range inputs {
		vals[i] = a.FromNative(n)
	}
	for i, n := range inputs {
		if !vals[i].Equal(FromNative(n)) {
			t.Errorf("arena value %d = %s, want %d", i, vals[i], n)
		}
	}
	if got, want := a.UsedWords(), a.CapacityWords(); got != want {
		t.Errorf("UsedWords() = %d, want the full capacity %d", got, want)
	}
}

func TestArenaFallsBackToHeap(t *testing.T) {
	t.Parallel()
	a := NewArena(1)
	first := a.FromNative(7)
	second := a.FromNative(9)
	if first.Uint64() != 7 || second.Uint64() != 9 {
		t.Fatalf("got %s and %s, want 7 and 9", first, second)
	}
	if a.UsedWords() != a.CapacityWords() {
		t.Errorf("UsedWords() = %d, should stop at capacity %d", a.UsedWords(), a.CapacityWords())
	}

	var empty Arena
	if v := empty.FromNative(5); v.Uint64() != 5 {
		t.Errorf("zero Arena FromNative(5) = %s", v)
	}
}

func TestArenaValuesAreIndependent(t *testing.T) {
	t.Parallel()
	a := NewArena(3)
	x := a.FromNative(1 << 40)
	y := a.FromNative(3)
	z := a.FromNative(5)

	p := Mul(Mul(x, y), z)
	if p.String() != "16492674416640" {
		t.Errorf("product = %s, want 16492674416640", p)
	}
	if x.Uint64() != 1<<40 || y.Uint64() != 3 || z.Uint64() != 5 {
		t.Errorf("operands changed after Mul: %s %s %s", x, y, z)
	}
}
