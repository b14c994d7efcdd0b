// Package progress carries progress notifications from the factorial
// strategies to whatever presents them.
package progress

import "sync/atomic"

// Update is a progress notification from one calculator.
type Update struct {
	// CalculatorIndex identifies the calculator that sent the update.
	CalculatorIndex int
	// Value is the completed fraction, from 0.0 to 1.0.
	Value float64
}

// Callback receives the completed fraction of a calculation.
type Callback func(float64)

// ChannelCallback returns a Callback that forwards values to ch tagged with
// index. Sends never block: an update is dropped when the channel is full,
// since a later one supersedes it anyway. A nil channel yields a no-op.
func ChannelCallback(ch chan<- Update, index int) Callback {
	if ch == nil {
		return func(float64) {}
	}
	return func(v float64) {
		select {
		case ch <- Update{CalculatorIndex: index, Value: v}:
		default:
		}
	}
}

// Tracker counts completed factors and reports progress at whole-percent
// steps. It is safe for concurrent use. A nil *Tracker ignores all calls.
type Tracker struct {
	total    uint64
	done     atomic.Uint64
	reported atomic.Uint64 // last reported percent
	cb       Callback
}

// NewTracker returns a Tracker expecting total units of work. It returns nil
// when there is nothing to report to.
func NewTracker(total uint64, cb Callback) *Tracker {
	if cb == nil || total == 0 {
		return nil
	}
	return &Tracker{total: total, cb: cb}
}

// Add records k more completed units.
func (t *Tracker) Add(k uint64) {
	if t == nil || k == 0 {
		return
	}
	done := t.done.Add(k)
	if done > t.total {
		done = t.total
	}
	pct := done * 100 / t.total
	for {
		last := t.reported.Load()
		if pct <= last {
			return
		}
		if t.reported.CompareAndSwap(last, pct) {
			t.cb(float64(done) / float64(t.total))
			return
		}
	}
}

// Complete reports 1.0 unconditionally.
func (t *Tracker) Complete() {
	if t == nil {
		return
	}
	t.reported.Store(100)
	t.cb(1.0)
}

// Done returns the number of completed units so far.
func (t *Tracker) Done() uint64 {
	if t == nil {
		return 0
	}
	return t.done.Load()
}
