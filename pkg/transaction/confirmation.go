package transaction

import (
	"crypto/subtle"

	"golang.org/x/crypto/blake2b"

	"github.com/veilcoin/core/pkg/account"
	"github.com/veilcoin/core/pkg/curve"
)

// ConfirmationNumber is a 32-byte tag derived from an output's shared secret.
// A sender can hand it to the receiver to prove that a particular output was
// created for them.
type ConfirmationNumber [32]byte

// NewConfirmationNumber derives the confirmation number for a shared secret.
func NewConfirmationNumber(sharedSecret curve.Point) ConfirmationNumber {
	compressed := sharedSecret.Compress()
	h, _ := blake2b.New256(nil)
	h.Write([]byte(confirmationDomainTag))
	h.Write(compressed[:])

	var c ConfirmationNumber
	copy(c[:], h.Sum(nil))
	return c
}

// Validate recomputes the confirmation number from the transaction public key
// and the receiver's view private key and compares in constant time.
func (c ConfirmationNumber) Validate(txPubKey curve.Point, viewPrivate curve.Scalar) bool {
	derived := NewConfirmationNumber(account.SharedSecret(txPubKey, viewPrivate))
	return subtle.ConstantTimeCompare(c[:], derived[:]) == 1
}
