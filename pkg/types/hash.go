// Package types defines the core value types shared across the VeilCoin node.
package types

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// HashSize is the length in bytes of every hash used by the node.
const HashSize = 32

// ErrHashLength is returned when decoding a hash of the wrong length.
var ErrHashLength = errors.New("hash must be 32 bytes")

// Hash is a generic 32-byte digest.
type Hash [HashSize]byte

// EmptyHash is the all-zero hash.
var EmptyHash Hash

// HashFromBytes copies src into a Hash. Fails unless len(src) == HashSize.
func HashFromBytes(src []byte) (Hash, error) {
	var h Hash
	if len(src) != HashSize {
		return h, ErrHashLength
	}
	copy(h[:], src)
	return h, nil
}

// String returns the full hex encoding.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// TxHash identifies a transaction. It is never interchanged with other
// 32-byte digests even though they share a width.
type TxHash [HashSize]byte

// TxHashFromBytes copies src into a TxHash. Fails unless len(src) == HashSize.
func TxHashFromBytes(src []byte) (TxHash, error) {
	var h TxHash
	if len(src) != HashSize {
		return h, ErrHashLength
	}
	copy(h[:], src)
	return h, nil
}

// String returns an abbreviated identifier, enough to tell transactions apart
// in logs.
func (h TxHash) String() string {
	return fmt.Sprintf("tx#%s", hex.EncodeToString(h[:6]))
}

// MembershipHash is an internal node hash in a TxOut membership proof.
type MembershipHash [HashSize]byte

// MembershipHashFromBytes copies src into a MembershipHash.
func MembershipHashFromBytes(src []byte) (MembershipHash, error) {
	var h MembershipHash
	if len(src) != HashSize {
		return h, ErrHashLength
	}
	copy(h[:], src)
	return h, nil
}

// String returns the full hex encoding.
func (h MembershipHash) String() string {
	return hex.EncodeToString(h[:])
}
