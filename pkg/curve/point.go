package curve

import (
	"bytes"

	"filippo.io/edwards25519"
)

// PointSize is the length of a compressed point.
const PointSize = 32

// Point is a decompressed group element, usable for arithmetic. Points must
// be obtained from a constructor or a Decompress call; the zero value is not
// a valid point.
type Point struct {
	p edwards25519.Point
}

// CompressedPoint is the 32-byte wire form of a group element.
type CompressedPoint [PointSize]byte

// CompressedPointFromBytes copies src into a CompressedPoint. The bytes are
// not validated; use Decompress to check them.
func CompressedPointFromBytes(src []byte) (CompressedPoint, error) {
	var c CompressedPoint
	if len(src) != PointSize {
		return c, ErrInvalidPoint
	}
	copy(c[:], src)
	return c, nil
}

// Decompress decodes the point, failing if the bytes are not a valid
// group element encoding.
func (c CompressedPoint) Decompress() (Point, error) {
	var p Point
	if _, err := p.p.SetBytes(c[:]); err != nil {
		return p, ErrInvalidPoint
	}
	// SetBytes also accepts non-canonical encodings; only the canonical one
	// is valid here, so each point has exactly one encoding.
	if !bytes.Equal(p.p.Bytes(), c[:]) {
		return Point{}, ErrInvalidPoint
	}
	return p, nil
}

// Compress returns the 32-byte encoding of p.
func (p Point) Compress() CompressedPoint {
	var c CompressedPoint
	copy(c[:], p.p.Bytes())
	return c
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	var r Point
	r.p.Add(&p.p, &q.p)
	return r
}

// Subtract returns p - q.
func (p Point) Subtract(q Point) Point {
	var r Point
	r.p.Subtract(&p.p, &q.p)
	return r
}

// Mul returns s * p in constant time.
func (p Point) Mul(s Scalar) Point {
	var r Point
	r.p.ScalarMult(&s.v, &p.p)
	return r
}

// Equal reports whether p and q are the same group element.
func (p Point) Equal(q Point) bool {
	return p.p.Equal(&q.p) == 1
}

// BaseMul returns s * G for the group base point, in constant time.
func BaseMul(s Scalar) Point {
	var r Point
	r.p.ScalarBaseMult(&s.v)
	return r
}

// Identity returns the group identity element.
func Identity() Point {
	var r Point
	r.p.Set(edwards25519.NewIdentityPoint())
	return r
}
