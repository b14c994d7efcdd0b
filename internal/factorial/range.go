package factorial

import "fmt"

// Range is the closed interval [A, B] of factors to multiply. A Range with
// A > B is empty and its product is the multiplicative identity.
type Range struct {
	A, B uint64
}

// Empty reports whether r contains no factors.
func (r Range) Empty() bool {
	return r.A > r.B
}

// Len returns the number of factors in r. The full uint64 domain does not
// fit and reports 0; no strategy can materialize that product anyway.
func (r Range) Len() uint64 {
	if r.Empty() {
		return 0
	}
	return r.B - r.A + 1
}

// Mid returns floor((A+B)/2) without overflowing.
func (r Range) Mid() uint64 {
	return r.A + (r.B-r.A)/2
}

// Split partitions a range of at least two factors into [A, mid] and
// [mid+1, B]. The halves are disjoint and together cover r exactly.
func (r Range) Split() (left, right Range) {
	mid := r.Mid()
	return Range{A: r.A, B: mid}, Range{A: mid + 1, B: r.B}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d]", r.A, r.B)
}
