package transaction

import (
	"bytes"
	"errors"
	"testing"

	"github.com/veilcoin/core/pkg/types"
)

func TestAmountWireRoundTrip(t *testing.T) {
	amount, err := NewAmount(23, testBlinding("wire-amount"), testPoint("wire-ss"))
	if err != nil {
		t.Fatal(err)
	}

	data, err := amount.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	var decoded Amount
	if err := decoded.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}
	if decoded.Commitment != amount.Commitment {
		t.Error("commitment did not round-trip")
	}
	if !decoded.MaskedValue.Equal(amount.MaskedValue) {
		t.Error("masked value did not round-trip")
	}
	if !decoded.MaskedBlinding.Equal(amount.MaskedBlinding) {
		t.Error("masked blinding did not round-trip")
	}
}

func TestTxOutWireRoundTrip(t *testing.T) {
	for _, withMemo := range []bool{true, false} {
		txOut := testTxOut(t, "wire-txout", 23)
		if !withMemo {
			txOut.EMemo = nil
		}

		data, err := txOut.MarshalBinary()
		if err != nil {
			t.Fatal(err)
		}
		var decoded TxOut
		if err := decoded.UnmarshalBinary(data); err != nil {
			t.Fatal(err)
		}
		if decoded.Hash() != txOut.Hash() {
			t.Errorf("txout (memo=%v) did not round-trip", withMemo)
		}
	}
}

// A full prefix with one ring input round-trips and re-encodes to identical
// bytes.
func TestTxPrefixWireRoundTrip(t *testing.T) {
	out := testTxOut(t, "wire-prefix", 23)
	in := TxIn{Ring: []TxOut{out}, Proofs: nil}
	prefix := NewTxPrefix([]TxIn{in}, []TxOut{out}, MinimumFee, 23)

	data, err := prefix.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	var decoded TxPrefix
	if err := decoded.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}
	if decoded.Hash() != prefix.Hash() {
		t.Error("prefix did not round-trip")
	}

	reencoded, err := decoded.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, reencoded) {
		t.Error("re-encoding is not byte-identical")
	}
}

func TestTxInWireRoundTrip(t *testing.T) {
	in := TxIn{
		Ring:   []TxOut{testTxOut(t, "wire-txin", 5)},
		Proofs: []MembershipProof{testMembershipProof(t)},
	}

	data, err := in.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	var decoded TxIn
	if err := decoded.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Ring) != 1 || decoded.Ring[0].Hash() != in.Ring[0].Hash() {
		t.Error("ring did not round-trip")
	}
	if len(decoded.Proofs) != 1 || !decoded.Proofs[0].Equal(&in.Proofs[0]) {
		t.Error("proofs did not round-trip")
	}
}

func TestTxWireRoundTrip(t *testing.T) {
	tx := testTx(t, 23)

	data, err := tx.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	var decoded Tx
	if err := decoded.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}
	if decoded.Hash() != tx.Hash() {
		t.Error("tx did not round-trip")
	}
	if !bytes.Equal(decoded.Signature.Blob, tx.Signature.Blob) {
		t.Error("signature blob did not round-trip")
	}
	if len(decoded.Signature.Images) != 1 || decoded.Signature.Images[0] != tx.Signature.Images[0] {
		t.Error("key images did not round-trip")
	}
}

func TestMembershipProofWireRoundTrip(t *testing.T) {
	proof := testMembershipProof(t)

	data, err := proof.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	var decoded MembershipProof
	if err := decoded.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}
	if !decoded.Equal(&proof) {
		t.Error("membership proof did not round-trip")
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	garbage := []byte{0xff, 0xff, 0xff, 0xff, 0xff}

	var amount Amount
	if err := amount.UnmarshalBinary(garbage); err == nil {
		t.Error("amount decoded garbage")
	}
	var tx Tx
	if err := tx.UnmarshalBinary(garbage); err == nil {
		t.Error("tx decoded garbage")
	}
}

func TestUnmarshalRejectsNonCanonicalScalar(t *testing.T) {
	amount, err := NewAmount(1, testBlinding("wire-bad"), testPoint("wire-bad-ss"))
	if err != nil {
		t.Fatal(err)
	}
	data, err := amount.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	// Corrupt the masked value field into a non-canonical scalar. The field
	// layout puts the 32 masked-value bytes after the 34-byte commitment
	// field and the 2-byte tag/length header.
	bad := append([]byte(nil), data...)
	for i := 36; i < 68; i++ {
		bad[i] = 0xff
	}
	var decoded Amount
	if err := decoded.UnmarshalBinary(bad); err == nil {
		t.Error("non-canonical masked value decoded")
	}
}

func TestUnmarshalSkipsUnknownFields(t *testing.T) {
	proof := testMembershipProof(t)
	data, err := proof.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	// Append an unknown varint field (number 15).
	data = append(data, 0x78, 0x01)

	var decoded MembershipProof
	if err := decoded.UnmarshalBinary(data); err != nil {
		t.Fatalf("unknown field broke decoding: %v", err)
	}
	if !decoded.Equal(&proof) {
		t.Error("known fields did not survive an unknown field")
	}
}

func TestKeyImageFromBytesLength(t *testing.T) {
	if _, err := types.KeyImageFromBytes(make([]byte, 31)); !errors.Is(err, types.ErrHashLength) {
		t.Errorf("expected ErrHashLength, got %v", err)
	}
}
