// Package account implements VeilCoin account keys, public addresses, and
// the one-time addressing scheme that makes transaction outputs unlinkable.
package account

import (
	"io"

	"golang.org/x/crypto/blake2b"

	"github.com/veilcoin/core/pkg/curve"
)

// onetimeKeyTag domain-separates the one-time key hash-to-scalar.
const onetimeKeyTag = "veilcoin-onetime-key"

// AccountKey holds the private halves of an account: the view key unlocks
// incoming amounts and memos, the spend key authorizes spending.
type AccountKey struct {
	ViewPrivate  curve.Scalar
	SpendPrivate curve.Scalar
}

// NewAccountKey draws a fresh account key from rng.
func NewAccountKey(rng io.Reader) (*AccountKey, error) {
	view, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	spend, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	return &AccountKey{ViewPrivate: view, SpendPrivate: spend}, nil
}

// PublicAddress derives the public address of the account.
func (a *AccountKey) PublicAddress() PublicAddress {
	return PublicAddress{
		ViewPublic:  curve.BaseMul(a.ViewPrivate),
		SpendPublic: curve.BaseMul(a.SpendPrivate),
	}
}

// PublicAddress is the public half of an account, handed to senders.
type PublicAddress struct {
	ViewPublic  curve.Point
	SpendPublic curve.Point
}

// SharedSecret computes the Diffie-Hellman point priv * pub. The sender calls
// it with the recipient's view public key and the transaction private key;
// the recipient calls it with the transaction public key and the view private
// key.
func SharedSecret(pub curve.Point, priv curve.Scalar) curve.Point {
	return pub.Mul(priv)
}

// TxPublicKey returns r*G for the transaction private key r.
func TxPublicKey(txPrivate curve.Scalar) curve.Point {
	return curve.BaseMul(txPrivate)
}

// OutputPublicKey returns the per-output public key r*B_spend.
func OutputPublicKey(txPrivate curve.Scalar, spendPublic curve.Point) curve.Point {
	return spendPublic.Mul(txPrivate)
}

// OnetimePublicKey derives the one-time target address for an output:
// Hs(rV)*G + B_spend, where rV is the sender/recipient shared secret.
// Only the recipient can compute the matching private key.
func OnetimePublicKey(txPrivate curve.Scalar, recipient PublicAddress) curve.Point {
	s := SharedSecret(recipient.ViewPublic, txPrivate)
	return curve.BaseMul(hashToScalar(s)).Add(recipient.SpendPublic)
}

// OnetimePrivateKey recovers the private key of a one-time address:
// Hs(aR) + b_spend. The shared secret aR must equal the sender's rV.
func OnetimePrivateKey(sharedSecret curve.Point, spendPrivate curve.Scalar) curve.Scalar {
	return hashToScalar(sharedSecret).Add(spendPrivate)
}

// hashToScalar maps a group point to a scalar with a wide reduction.
func hashToScalar(p curve.Point) curve.Scalar {
	compressed := p.Compress()
	h, _ := blake2b.New512(nil)
	h.Write([]byte(onetimeKeyTag))
	h.Write(compressed[:])
	var wide [64]byte
	copy(wide[:], h.Sum(nil))
	return curve.ScalarFromWideBytes(wide)
}
