package temporal

import (
	"github.com/imu-dev/nnlib-go/nd"
)

// Iterator is a single-threaded, forward-only cursor over two time-aligned
// sequences. At each step the policy decides whether to pop the front of the
// state cursor and of the observation cursor; a slot the policy skips yields
// nil. Not safe for concurrent use: callers running parallel batches must use
// one iterator per worker.
type Iterator struct {
	xx, yy []*nd.Dense
	xi, yi int
	step   int
	total  int
	policy Policy
}

// NewIterator validates the sequence lengths against the policy and returns a
// cursor positioned at step 0.
func NewIterator(xx, yy []*nd.Dense, policy Policy) (*Iterator, error) {
	total, err := policy.TotalSteps(len(xx), len(yy))
	if err != nil {
		return nil, err
	}
	return &Iterator{xx: xx, yy: yy, total: total, policy: policy}, nil
}

// NewDataIterator walks a container's xx and yy sequences.
func NewDataIterator(d *Data, policy Policy) (*Iterator, error) {
	return NewIterator(d.XX(), d.YY(), policy)
}

// Next returns the next (state, observation) pair. Either element is nil when
// the policy skipped its sequence at this step. ok is false once every step
// has been emitted.
func (it *Iterator) Next() (state, obs *nd.Dense, ok bool) {
	if it.step >= it.total {
		return nil, nil, false
	}
	if it.policy.TakeState(it.step) && it.xi < len(it.xx) {
		state = it.xx[it.xi]
		it.xi++
	}
	if it.policy.TakeObservation(it.step) && it.yi < len(it.yy) {
		obs = it.yy[it.yi]
		it.yi++
	}
	it.step++
	return state, obs, true
}

// Step returns the number of steps emitted so far.
func (it *Iterator) Step() int { return it.step }

// TotalSteps returns the number of steps the iterator emits in total.
func (it *Iterator) TotalSteps() int { return it.total }

// Reset rewinds both sequence cursors to the front without reallocating.
// It deliberately does NOT rewind the step counter: an iterator that has run
// to completion stays terminal after Reset. Construct a fresh Iterator to
// restart step counting from 0.
func (it *Iterator) Reset() {
	it.xi = 0
	it.yi = 0
}
