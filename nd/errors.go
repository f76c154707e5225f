package nd

import "errors"

// Error taxonomy shared by the layout, window, temporal and batch packages.
// Callers match with errors.Is; wrapping sites add the offending values.
var (
	// ErrConfiguration reports invalid constructor arguments, such as a
	// non-positive stride or window, or input too short for a single frame.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrShapeMismatch reports operands that disagree on axes an operation
	// requires to be equal.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrPolicy reports an iteration policy whose sequence-length
	// precondition does not hold.
	ErrPolicy = errors.New("policy precondition violated")

	// ErrIndexOutOfRange reports a batch or element index outside the valid
	// bounds of a container.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrDimension reports an operation that needs an axis of length >= 1
	// but found it empty.
	ErrDimension = errors.New("empty dimension")
)
