package account

import (
	"bytes"
	"testing"

	"golang.org/x/crypto/blake2b"

	"github.com/veilcoin/core/pkg/curve"
)

func testScalar(seed string) curve.Scalar {
	return curve.ScalarFromWideBytes(blake2b.Sum512([]byte(seed)))
}

func testAccount(seed string) *AccountKey {
	return &AccountKey{
		ViewPrivate:  testScalar(seed + "-view"),
		SpendPrivate: testScalar(seed + "-spend"),
	}
}

func TestNewAccountKey(t *testing.T) {
	rng := bytes.NewReader(bytes.Repeat([]byte{9}, 128))
	key, err := NewAccountKey(rng)
	if err != nil {
		t.Fatalf("NewAccountKey: %v", err)
	}

	addr := key.PublicAddress()
	if !addr.ViewPublic.Equal(curve.BaseMul(key.ViewPrivate)) {
		t.Error("view public key does not match private key")
	}
	if !addr.SpendPublic.Equal(curve.BaseMul(key.SpendPrivate)) {
		t.Error("spend public key does not match private key")
	}
}

func TestSharedSecretSymmetry(t *testing.T) {
	recipient := testAccount("dh")
	addr := recipient.PublicAddress()
	txPrivate := testScalar("dh-tx")

	// Sender: r * V. Recipient: a * (r * G).
	senderSide := SharedSecret(addr.ViewPublic, txPrivate)
	receiverSide := SharedSecret(TxPublicKey(txPrivate), recipient.ViewPrivate)

	if !senderSide.Equal(receiverSide) {
		t.Error("Diffie-Hellman shared secrets disagree")
	}
}

func TestOnetimeKeyRecovery(t *testing.T) {
	recipient := testAccount("onetime")
	addr := recipient.PublicAddress()
	txPrivate := testScalar("onetime-tx")

	target := OnetimePublicKey(txPrivate, addr)

	sharedSecret := SharedSecret(addr.ViewPublic, txPrivate)
	onetimePrivate := OnetimePrivateKey(sharedSecret, recipient.SpendPrivate)

	if !curve.BaseMul(onetimePrivate).Equal(target) {
		t.Error("recovered one-time private key does not match the target key")
	}
}

func TestOnetimeKeysUnlinkable(t *testing.T) {
	recipient := testAccount("unlink")
	addr := recipient.PublicAddress()

	k1 := OnetimePublicKey(testScalar("unlink-tx-1"), addr)
	k2 := OnetimePublicKey(testScalar("unlink-tx-2"), addr)

	if k1.Equal(k2) {
		t.Error("two outputs to the same address share a target key")
	}
	if k1.Equal(addr.SpendPublic) {
		t.Error("target key equals the spend public key")
	}
}

func TestOutputPublicKey(t *testing.T) {
	recipient := testAccount("outkey")
	addr := recipient.PublicAddress()
	txPrivate := testScalar("outkey-tx")

	// r*B_spend computed both ways.
	got := OutputPublicKey(txPrivate, addr.SpendPublic)
	want := curve.BaseMul(txPrivate.Multiply(recipient.SpendPrivate))
	if !got.Equal(want) {
		t.Error("output public key is not r*B_spend")
	}
}
