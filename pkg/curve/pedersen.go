package curve

import (
	"sync"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/blake2b"
)

// pedersenHTag seeds the derivation of the secondary generator H.
const pedersenHTag = "veilcoin-pedersen-H"

// Generator points for Pedersen commitments. G is the group base point; H is
// derived from G by hashing, so no discrete log relation between them is
// known.
var (
	genOnce sync.Once
	genG    Point
	genH    Point
)

func generators() (Point, Point) {
	genOnce.Do(func() {
		genG.p.Set(edwards25519.NewGeneratorPoint())

		// Derive H by decompressing successive hashes of the tag and the
		// base point, clearing the cofactor so H lands in the prime-order
		// subgroup. The counter advances past encodings that are not valid
		// points.
		seed := append([]byte(pedersenHTag), genG.p.Bytes()...)
		for counter := byte(0); ; counter++ {
			digest := blake2b.Sum512(append(seed, counter))
			var candidate edwards25519.Point
			if _, err := candidate.SetBytes(digest[:32]); err != nil {
				continue
			}
			candidate.MultByCofactor(&candidate)
			if candidate.Equal(edwards25519.NewIdentityPoint()) == 1 {
				continue
			}
			genH.p.Set(&candidate)
			return
		}
	})
	return genG, genH
}

// GeneratorG returns the value generator G.
func GeneratorG() Point {
	g, _ := generators()
	return g
}

// GeneratorH returns the blinding generator H.
func GeneratorH() Point {
	_, h := generators()
	return h
}

// Commitment is a Pedersen commitment v*G + b*H in compressed form. Two
// commitments are equal iff their encodings match.
type Commitment [PointSize]byte

// Commit computes the Pedersen commitment value*G + blinding*H.
func Commit(value Scalar, blinding Blinding) Commitment {
	_, h := generators()
	vG := BaseMul(value)
	bH := h.Mul(blinding.AsScalar())
	return Commitment(vG.Add(bH).Compress())
}

// CommitmentFromBytes copies src into a Commitment.
func CommitmentFromBytes(src []byte) (Commitment, error) {
	var c Commitment
	if len(src) != PointSize {
		return c, ErrInvalidPoint
	}
	copy(c[:], src)
	return c, nil
}

// Decompress decodes the commitment point for arithmetic.
func (c Commitment) Decompress() (Point, error) {
	return CompressedPoint(c).Decompress()
}

// Add returns the homomorphic sum of two commitments:
// C1 + C2 = (v1+v2)*G + (b1+b2)*H.
func (c Commitment) Add(other Commitment) (Commitment, error) {
	p, err := c.Decompress()
	if err != nil {
		return Commitment{}, err
	}
	q, err := other.Decompress()
	if err != nil {
		return Commitment{}, err
	}
	return Commitment(p.Add(q).Compress()), nil
}

// Subtract returns the homomorphic difference of two commitments.
func (c Commitment) Subtract(other Commitment) (Commitment, error) {
	p, err := c.Decompress()
	if err != nil {
		return Commitment{}, err
	}
	q, err := other.Decompress()
	if err != nil {
		return Commitment{}, err
	}
	return Commitment(p.Subtract(q).Compress()), nil
}

// VerifyValueConservation checks that sum(inputs) == sum(outputs) + fee*G.
// The blinding factors must also balance for the sums to agree.
func VerifyValueConservation(inputs, outputs []Commitment, fee uint64) bool {
	inputSum := Identity()
	for _, c := range inputs {
		p, err := c.Decompress()
		if err != nil {
			return false
		}
		inputSum = inputSum.Add(p)
	}

	outputSum := Identity()
	for _, c := range outputs {
		p, err := c.Decompress()
		if err != nil {
			return false
		}
		outputSum = outputSum.Add(p)
	}

	// The fee is public and carries no blinding.
	outputSum = outputSum.Add(BaseMul(ScalarFromUint64(fee)))

	return inputSum.Equal(outputSum)
}
