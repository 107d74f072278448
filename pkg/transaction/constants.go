// Package transaction implements the confidential transaction data model:
// Pedersen-committed amounts with recoverable masked secrets, unlinkable
// one-time outputs, ring-structured inputs with Merkle membership proofs,
// and the domain-separated hashing that gives transactions their identity.
package transaction

const (
	// MaxMicroVeil is the network-wide ceiling on a single committed value,
	// in the smallest unit.
	MaxMicroVeil uint64 = 250_000_000 * 1_000_000_000

	// MinimumFee is the smallest fee a transaction may pay.
	MinimumFee uint64 = 10_000_000

	// RingSize is the number of outputs in a well-formed input ring. It is
	// advisory: nothing in this module checks ring sizes against it.
	RingSize = 11

	// EncryptedFogHintLen is the fixed length of an encrypted fog hint.
	EncryptedFogHintLen = 84

	// MemoPayloadLen is the fixed length of a memo payload and of its
	// ciphertext.
	MemoPayloadLen = 34
)

// Transcript domain tags. These appear in on-chain hashes; changing any of
// them changes every transaction identity.
const (
	txPrefixDomainTag = "tx-prefix"
	txDomainTag       = "tx"
	txOutDomainTag    = "txout"

	confirmationDomainTag = "veilcoin-confirmation-number"
	blindingDomainTag     = "veilcoin-amount-blinding"
	memoKeyDomainTag      = "veilcoin-memo-key"
)
