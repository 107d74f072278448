package transaction

import (
	"github.com/veilcoin/core/pkg/account"
	"github.com/veilcoin/core/pkg/curve"
	"github.com/veilcoin/core/pkg/types"
)

// TxOut is a single transaction output. Once constructed it is immutable;
// callers may share it freely across goroutines.
type TxOut struct {
	// Amount is the committed, masked value of the output.
	Amount Amount

	// TargetKey is the one-time public address the output is sent to.
	TargetKey curve.CompressedPoint

	// PublicKey is the per-output public key r*B_spend.
	PublicKey curve.CompressedPoint

	// EFogHint is the encrypted fog hint, carried opaquely.
	EFogHint EncryptedFogHint

	// EMemo is the encrypted memo: exactly 34 bytes, or empty for outputs
	// that predate memos.
	EMemo []byte
}

// NewTxOut builds an output sending value to recipient.
//
// The transaction private key r binds the output to its recipient: the
// target key is the one-time address derived from r and the recipient's
// address, the public key is r*B_spend, and the shared secret r*V masks the
// amount and encrypts the memo.
func NewTxOut(
	value uint64,
	recipient account.PublicAddress,
	txPrivateKey curve.Scalar,
	hint EncryptedFogHint,
	memo MemoPayload,
) (TxOut, error) {
	targetKey := account.OnetimePublicKey(txPrivateKey, recipient)
	publicKey := account.OutputPublicKey(txPrivateKey, recipient.SpendPublic)
	sharedSecret := account.SharedSecret(recipient.ViewPublic, txPrivateKey)

	blinding := DeriveBlinding(sharedSecret)
	amount, err := NewAmount(value, blinding, sharedSecret)
	if err != nil {
		return TxOut{}, err
	}

	return TxOut{
		Amount:    amount,
		TargetKey: targetKey.Compress(),
		PublicKey: publicKey.Compress(),
		EFogHint:  hint,
		EMemo:     memo.Encrypt(sharedSecret),
	}, nil
}

// Hash returns the transcript hash of the output, binding every field.
func (t *TxOut) Hash() types.Hash {
	tr := newTranscript(txOutDomainTag)
	t.appendToTranscript(tr)
	return types.Hash(extractDigest(tr))
}

// TryDecryptMemo decrypts the output memo under the output shared secret.
// An empty e_memo yields the unused-memo payload, for compatibility with
// outputs that predate memos. The result is not authenticated; higher layers
// must check plausibility separately.
func (t *TxOut) TryDecryptMemo(sharedSecret curve.Point) (MemoPayload, error) {
	if len(t.EMemo) == 0 {
		return DefaultMemo(), nil
	}
	return TryDecryptMemo(t.EMemo, sharedSecret)
}
