package nd

import (
	"errors"
	"testing"
)

func TestDType_RoundTrip(t *testing.T) {
	vals := []float64{0, 1.5, -2.25, 1e6}

	for _, dt := range []DType{Float64, Float32} {
		b := dt.EncodeSlice(nil, vals)
		if len(b) != dt.Size()*len(vals) {
			t.Fatalf("%s: encoded %d bytes, want %d", dt, len(b), dt.Size()*len(vals))
		}
		out := make([]float64, len(vals))
		if err := dt.DecodeSlice(out, b); err != nil {
			t.Fatal(err)
		}
		// These values are exactly representable in float32, so both dtypes
		// round-trip exactly.
		for i, v := range vals {
			if out[i] != v {
				t.Errorf("%s: round trip [%d] = %v, want %v", dt, i, out[i], v)
			}
		}
	}
}

func TestDType_Float32Narrows(t *testing.T) {
	v := 0.1 // not representable in float32
	b := make([]byte, Float32.Size())
	Float32.Put(b, v)
	got := Float32.Get(b)
	if got == v {
		t.Error("float32 encoding should lose precision on 0.1")
	}
	if diff := got - v; diff > 1e-7 || diff < -1e-7 {
		t.Errorf("float32 round trip drifted too far: %v", got)
	}
}

func TestDType_DecodeShortBuffer(t *testing.T) {
	out := make([]float64, 2)
	if err := Float64.DecodeSlice(out, make([]byte, 8)); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("DecodeSlice error = %v, want ErrShapeMismatch", err)
	}
}

func TestParseDType(t *testing.T) {
	cases := []struct {
		in   string
		want DType
		ok   bool
	}{
		{"float64", Float64, true},
		{"f64", Float64, true},
		{"float32", Float32, true},
		{"f32", Float32, true},
		{"int8", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDType(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("ParseDType(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
		if !tc.ok && !errors.Is(err, ErrConfiguration) {
			t.Errorf("ParseDType(%q) error = %v, want ErrConfiguration", tc.in, err)
		}
	}
}
