package transaction

import (
	"crypto/aes"
	"crypto/cipher"

	"golang.org/x/crypto/blake2b"

	"github.com/veilcoin/core/pkg/curve"
)

// MemoPayload is the plaintext of an output memo: a 2-byte memo type followed
// by 32 bytes of type-dependent data. The all-zero payload is the "unused
// memo".
type MemoPayload [MemoPayloadLen]byte

// DefaultMemo returns the unused-memo payload.
func DefaultMemo() MemoPayload {
	return MemoPayload{}
}

// NewMemoPayload assembles a payload from a memo type and its data.
func NewMemoPayload(memoType [2]byte, data [32]byte) MemoPayload {
	var m MemoPayload
	copy(m[:2], memoType[:])
	copy(m[2:], data[:])
	return m
}

// MemoType returns the 2-byte memo type.
func (m MemoPayload) MemoType() [2]byte {
	return [2]byte{m[0], m[1]}
}

// MemoData returns the 32-byte type-dependent data.
func (m MemoPayload) MemoData() [32]byte {
	var d [32]byte
	copy(d[:], m[2:])
	return d
}

// Encrypt returns the 34-byte memo ciphertext under the output shared secret.
// The result is not authenticated.
func (m MemoPayload) Encrypt(sharedSecret curve.Point) []byte {
	out := make([]byte, MemoPayloadLen)
	memoCipher(sharedSecret).XORKeyStream(out, m[:])
	return out
}

// TryDecryptMemo decrypts ciphertext under the output shared secret. It fails
// with MemoLengthError iff the ciphertext length is not MemoPayloadLen.
func TryDecryptMemo(ciphertext []byte, sharedSecret curve.Point) (MemoPayload, error) {
	if len(ciphertext) != MemoPayloadLen {
		return MemoPayload{}, MemoLengthError{Len: len(ciphertext)}
	}
	var m MemoPayload
	memoCipher(sharedSecret).XORKeyStream(m[:], ciphertext)
	return m, nil
}

// memoCipher builds the AES-256-CTR keystream for a shared secret. Key and IV
// are split out of a domain-separated Blake2b digest of the secret.
func memoCipher(sharedSecret curve.Point) cipher.Stream {
	compressed := sharedSecret.Compress()
	h, _ := blake2b.New512(nil)
	h.Write([]byte(memoKeyDomainTag))
	h.Write(compressed[:])
	keyMaterial := h.Sum(nil)

	block, _ := aes.NewCipher(keyMaterial[:32])
	return cipher.NewCTR(block, keyMaterial[32:32+aes.BlockSize])
}
