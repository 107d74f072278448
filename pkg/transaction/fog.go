package transaction

import "errors"

// ErrFogHintLength is returned when decoding a fog hint of the wrong length.
var ErrFogHintLength = errors.New("encrypted fog hint must be 84 bytes")

// EncryptedFogHint is the fixed-size ciphertext that tells a fog service
// which user an output belongs to. This package carries it opaquely; the
// encryption scheme lives with the fog service.
type EncryptedFogHint [EncryptedFogHintLen]byte

// FogHintFromBytes copies src into an EncryptedFogHint.
func FogHintFromBytes(src []byte) (EncryptedFogHint, error) {
	var h EncryptedFogHint
	if len(src) != EncryptedFogHintLen {
		return h, ErrFogHintLength
	}
	copy(h[:], src)
	return h, nil
}

// Bytes returns the hint as a slice.
func (h EncryptedFogHint) Bytes() []byte {
	out := make([]byte, EncryptedFogHintLen)
	copy(out, h[:])
	return out
}
