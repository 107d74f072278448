package types

// KeyImage is the per-input tag produced by a ring signature. It serves as a
// double-spend prevention handle; its derivation is opaque to this package.
type KeyImage [HashSize]byte

// KeyImageFromBytes copies src into a KeyImage.
func KeyImageFromBytes(src []byte) (KeyImage, error) {
	var k KeyImage
	if len(src) != HashSize {
		return k, ErrHashLength
	}
	copy(k[:], src)
	return k, nil
}

// String returns the full hex encoding.
func (k KeyImage) String() string {
	return Hash(k).String()
}
