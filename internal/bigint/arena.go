package bigint

import (
	"math/big"
	"math/bits"
)

// nativeWords is the number of big.Word needed to hold any uint64.
const nativeWords = 64 / bits.UintSize

// Arena pre-allocates one contiguous block of big.Word for many small
// Values, so materializing a batch of factors costs a single allocation.
//
// Allocation bumps an offset into the block. When the block is exhausted
// Arena falls back to the heap. The block is never reused: Values carved
// from it stay valid for as long as they are referenced.
//
// An Arena is not safe for concurrent use. Give each goroutine its own.
type Arena struct {
	buf    []big.Word
	offset int
}

// NewArena returns an Arena able to hold count native-sized Values without
// touching the heap for their digits.
func NewArena(count int) *Arena {
	if count <= 0 {
		return &Arena{}
	}
	return &Arena{buf: make([]big.Word, count*nativeWords)}
}

// alloc returns a zero big.Int whose backing array holds words words and
// comes from the arena when it has room.
func (a *Arena) alloc(words int) *big.Int {
	z := new(big.Int)
	if words <= 0 {
		return z
	}
	if a.offset+words > len(a.buf) {
		z.SetBits(make([]big.Word, 0, words))
		return z
	}
	slice := a.buf[a.offset : a.offset+words : a.offset+words]
	a.offset += words
	z.SetBits(slice[:0])
	return z
}

// FromNative returns the Value equal to n with its digits stored in a.
func (a *Arena) FromNative(n uint64) Value {
	return wrap(a.alloc(nativeWords).SetUint64(n))
}

// UsedWords returns the number of words handed out so far.
func (a *Arena) UsedWords() int {
	return a.offset
}

// CapacityWords returns the size of the pre-allocated block in words.
func (a *Arena) CapacityWords() int {
	return len(a.buf)
}
