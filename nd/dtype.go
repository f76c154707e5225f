package nd

import (
	"encoding/binary"
	"fmt"
	"math"
)

// DType identifies the on-disk element type of the binary frame format.
// In-memory arrays are always float64; writers cast on the way out and
// readers widen on the way in. Encoding is native-endian, matching the
// int64 header fields.
type DType int

const (
	Float64 DType = iota
	Float32
)

// Size returns the encoded size of one element in bytes.
func (t DType) Size() int {
	switch t {
	case Float64:
		return 8
	case Float32:
		return 4
	default:
		panic(fmt.Sprintf("nd: unknown dtype %d", int(t)))
	}
}

func (t DType) String() string {
	switch t {
	case Float64:
		return "float64"
	case Float32:
		return "float32"
	default:
		return fmt.Sprintf("dtype(%d)", int(t))
	}
}

// ParseDType parses the string form accepted by CLI flags and stored in the
// arrangement catalog.
func ParseDType(s string) (DType, error) {
	switch s {
	case "float64", "f64":
		return Float64, nil
	case "float32", "f32":
		return Float32, nil
	}
	return 0, fmt.Errorf("%w: unknown dtype %q", ErrConfiguration, s)
}

// Put encodes v into b, which must hold at least Size bytes.
func (t DType) Put(b []byte, v float64) {
	switch t {
	case Float64:
		binary.NativeEndian.PutUint64(b, math.Float64bits(v))
	case Float32:
		binary.NativeEndian.PutUint32(b, math.Float32bits(float32(v)))
	default:
		panic(fmt.Sprintf("nd: unknown dtype %d", int(t)))
	}
}

// Get decodes one element from b.
func (t DType) Get(b []byte) float64 {
	switch t {
	case Float64:
		return math.Float64frombits(binary.NativeEndian.Uint64(b))
	case Float32:
		return float64(math.Float32frombits(binary.NativeEndian.Uint32(b)))
	default:
		panic(fmt.Sprintf("nd: unknown dtype %d", int(t)))
	}
}

// EncodeSlice appends the encoded form of vals to dst and returns the
// extended slice.
func (t DType) EncodeSlice(dst []byte, vals []float64) []byte {
	size := t.Size()
	start := len(dst)
	dst = append(dst, make([]byte, size*len(vals))...)
	for i, v := range vals {
		t.Put(dst[start+i*size:], v)
	}
	return dst
}

// DecodeSlice decodes exactly len(out) elements from b into out.
func (t DType) DecodeSlice(out []float64, b []byte) error {
	size := t.Size()
	if len(b) < size*len(out) {
		return fmt.Errorf("%w: %d bytes for %d %s elements", ErrShapeMismatch, len(b), len(out), t)
	}
	for i := range out {
		out[i] = t.Get(b[i*size:])
	}
	return nil
}
