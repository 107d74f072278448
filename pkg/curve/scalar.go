// Package curve implements the prime-order group used by VeilCoin
// transactions: constant-time scalars and points over edwards25519, and the
// Pedersen commitment scheme built on them.
package curve

import (
	"encoding/binary"
	"errors"
	"io"

	"filippo.io/edwards25519"
)

// Scalar and point errors
var (
	ErrInvalidScalar = errors.New("bytes are not a canonical scalar")
	ErrInvalidPoint  = errors.New("bytes are not a valid compressed point")
	ErrScalarLength  = errors.New("scalar must be 32 bytes")
)

// ScalarSize is the length of a serialized scalar.
const ScalarSize = 32

// Scalar is a canonical representative of an integer modulo the group order.
// Serialization is little-endian. All arithmetic is constant time.
type Scalar struct {
	v edwards25519.Scalar
}

// ScalarFromBytes decodes a canonical little-endian scalar.
func ScalarFromBytes(src []byte) (Scalar, error) {
	var s Scalar
	if len(src) != ScalarSize {
		return s, ErrScalarLength
	}
	if _, err := s.v.SetCanonicalBytes(src); err != nil {
		return s, ErrInvalidScalar
	}
	return s, nil
}

// ScalarFromUint64 lifts v into the scalar field.
func ScalarFromUint64(v uint64) Scalar {
	var buf [ScalarSize]byte
	binary.LittleEndian.PutUint64(buf[:8], v)
	var s Scalar
	// Cannot fail: the value is far below the group order.
	_, _ = s.v.SetCanonicalBytes(buf[:])
	return s
}

// ScalarFromWideBytes reduces a 64-byte value modulo the group order.
// This is the "wide reduction" used when deriving scalars from hashes.
func ScalarFromWideBytes(src [64]byte) Scalar {
	var s Scalar
	// SetUniformBytes only fails on wrong input length.
	_, _ = s.v.SetUniformBytes(src[:])
	return s
}

// RandomScalar draws a uniformly random scalar from rng.
func RandomScalar(rng io.Reader) (Scalar, error) {
	var buf [64]byte
	if _, err := io.ReadFull(rng, buf[:]); err != nil {
		return Scalar{}, err
	}
	return ScalarFromWideBytes(buf), nil
}

// Bytes returns the canonical little-endian encoding.
func (s Scalar) Bytes() [ScalarSize]byte {
	var out [ScalarSize]byte
	copy(out[:], s.v.Bytes())
	return out
}

// Add returns s + t mod the group order.
func (s Scalar) Add(t Scalar) Scalar {
	var r Scalar
	r.v.Add(&s.v, &t.v)
	return r
}

// Subtract returns s - t mod the group order.
func (s Scalar) Subtract(t Scalar) Scalar {
	var r Scalar
	r.v.Subtract(&s.v, &t.v)
	return r
}

// Multiply returns s * t mod the group order.
func (s Scalar) Multiply(t Scalar) Scalar {
	var r Scalar
	r.v.Multiply(&s.v, &t.v)
	return r
}

// Equal reports whether s == t in constant time.
func (s Scalar) Equal(t Scalar) bool {
	return s.v.Equal(&t.v) == 1
}

// Blinding is a blinding factor used in Pedersen commitments. It is a
// distinct type from Scalar so that it is never interchanged implicitly.
type Blinding Scalar

// NewBlinding wraps a scalar as a blinding factor.
func NewBlinding(s Scalar) Blinding {
	return Blinding(s)
}

// BlindingFromBytes decodes a canonical blinding factor.
func BlindingFromBytes(src []byte) (Blinding, error) {
	s, err := ScalarFromBytes(src)
	return Blinding(s), err
}

// RandomBlinding draws a uniformly random blinding factor from rng.
func RandomBlinding(rng io.Reader) (Blinding, error) {
	s, err := RandomScalar(rng)
	return Blinding(s), err
}

// AsScalar exposes the underlying scalar for arithmetic.
func (b Blinding) AsScalar() Scalar {
	return Scalar(b)
}

// Bytes returns the canonical little-endian encoding.
func (b Blinding) Bytes() [ScalarSize]byte {
	return Scalar(b).Bytes()
}

// Equal reports whether b == other in constant time.
func (b Blinding) Equal(other Blinding) bool {
	return Scalar(b).Equal(Scalar(other))
}

// CurveScalar is a masked-value carrier: a scalar that hides a committed
// value behind a shared-secret-derived mask. Distinct from Blinding by type.
type CurveScalar Scalar

// NewCurveScalar wraps a scalar as a masked-value carrier.
func NewCurveScalar(s Scalar) CurveScalar {
	return CurveScalar(s)
}

// CurveScalarFromBytes decodes a canonical masked-value scalar.
func CurveScalarFromBytes(src []byte) (CurveScalar, error) {
	s, err := ScalarFromBytes(src)
	return CurveScalar(s), err
}

// AsScalar exposes the underlying scalar for arithmetic.
func (c CurveScalar) AsScalar() Scalar {
	return Scalar(c)
}

// Bytes returns the canonical little-endian encoding.
func (c CurveScalar) Bytes() [ScalarSize]byte {
	return Scalar(c).Bytes()
}

// Equal reports whether c == other in constant time.
func (c CurveScalar) Equal(other CurveScalar) bool {
	return Scalar(c).Equal(Scalar(other))
}
