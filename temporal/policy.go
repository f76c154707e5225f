package temporal

import (
	"fmt"

	"github.com/imu-dev/nnlib-go/nd"
)

// Policy decides, per iteration step, whether the iterator draws from the
// state sequence and from the observation sequence, and how many steps a pair
// of sequences yields. Steps are 0-based; step 0 is the initial step.
type Policy interface {
	TakeState(step int) bool
	TakeObservation(step int) bool
	// TotalSteps validates the sequence lengths and returns the number of
	// steps to emit.
	TotalSteps(numStates, numObservations int) (int, error)
}

// ZipPolicy draws from both sequences at every step. The sequences must have
// equal length.
type ZipPolicy struct{}

func (ZipPolicy) TakeState(int) bool       { return true }
func (ZipPolicy) TakeObservation(int) bool { return true }

func (ZipPolicy) TotalSteps(numStates, numObservations int) (int, error) {
	if numStates != numObservations {
		return 0, fmt.Errorf("%w: zip over %d states and %d observations",
			nd.ErrPolicy, numStates, numObservations)
	}
	return numStates, nil
}

// TakeInitialStatePolicy draws the state only at the initial step and an
// observation at every step.
type TakeInitialStatePolicy struct{}

func (TakeInitialStatePolicy) TakeState(step int) bool { return step == 0 }
func (TakeInitialStatePolicy) TakeObservation(int) bool { return true }

func (TakeInitialStatePolicy) TotalSteps(numStates, numObservations int) (int, error) {
	if numStates < 1 || numObservations < 1 {
		return 0, fmt.Errorf("%w: need at least one state and one observation, got %d and %d",
			nd.ErrPolicy, numStates, numObservations)
	}
	return numObservations, nil
}

// TakeInitialStateNoMatchingObsPolicy draws the state only at the initial
// step, which has no matching observation; observations are drawn at every
// later step.
type TakeInitialStateNoMatchingObsPolicy struct{}

func (TakeInitialStateNoMatchingObsPolicy) TakeState(step int) bool       { return step == 0 }
func (TakeInitialStateNoMatchingObsPolicy) TakeObservation(step int) bool { return step != 0 }

func (TakeInitialStateNoMatchingObsPolicy) TotalSteps(numStates, numObservations int) (int, error) {
	if numStates < 1 {
		return 0, fmt.Errorf("%w: need at least one state, got %d", nd.ErrPolicy, numStates)
	}
	return numObservations + 1, nil
}
