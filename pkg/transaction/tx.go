package transaction

import (
	"github.com/veilcoin/core/pkg/curve"
	"github.com/veilcoin/core/pkg/types"
)

// TxIn is one input: a ring of candidate outputs, one of which is truly being
// spent, and a membership proof for each ring member.
type TxIn struct {
	Ring   []TxOut
	Proofs []MembershipProof
}

// RingSignature is the signature over a transaction prefix. Its internal
// structure is opaque to this package: it is carried as a blob plus the key
// images it exposes for double-spend prevention.
type RingSignature struct {
	// Blob is the serialized signature, produced and consumed by the
	// ring-signature engine.
	Blob []byte

	// Images are the key images of the spent inputs.
	Images []types.KeyImage
}

// KeyImages returns the key images exposed by the signature.
func (s *RingSignature) KeyImages() []types.KeyImage {
	out := make([]types.KeyImage, len(s.Images))
	copy(out, s.Images)
	return out
}

// TxPrefix is a transaction without its signature. Its hash is the message
// the ring signature authenticates. Every field participates in the hash.
type TxPrefix struct {
	Inputs         []TxIn
	Outputs        []TxOut
	Fee            uint64
	TombstoneBlock uint64
}

// NewTxPrefix assembles a prefix.
func NewTxPrefix(inputs []TxIn, outputs []TxOut, fee, tombstoneBlock uint64) TxPrefix {
	return TxPrefix{
		Inputs:         inputs,
		Outputs:        outputs,
		Fee:            fee,
		TombstoneBlock: tombstoneBlock,
	}
}

// Hash returns the transcript hash of the prefix, the message to be signed.
func (p *TxPrefix) Hash() types.TxHash {
	tr := newTranscript(txPrefixDomainTag)
	p.appendToTranscript(tr)
	return types.TxHash(extractDigest(tr))
}

// MembershipProofHighestIndices returns, in encounter order, the highest
// index of every membership proof across every input.
func (p *TxPrefix) MembershipProofHighestIndices() []uint64 {
	var out []uint64
	for _, in := range p.Inputs {
		for _, proof := range in.Proofs {
			out = append(out, proof.HighestIndex)
		}
	}
	return out
}

// OutputCommitments returns the commitment of each output, in order.
func (p *TxPrefix) OutputCommitments() []curve.Commitment {
	out := make([]curve.Commitment, len(p.Outputs))
	for i, o := range p.Outputs {
		out[i] = o.Amount.Commitment
	}
	return out
}

// Tx is a complete transaction: a prefix and the ring signature over it.
type Tx struct {
	Prefix    TxPrefix
	Signature RingSignature
}

// Hash returns the transaction identity as seen by the ledger, covering the
// prefix and the signature.
func (t *Tx) Hash() types.TxHash {
	tr := newTranscript(txDomainTag)
	t.appendToTranscript(tr)
	return types.TxHash(extractDigest(tr))
}

// KeyImages returns the key images spent by the transaction.
func (t *Tx) KeyImages() []types.KeyImage {
	return t.Signature.KeyImages()
}

// OutputPublicKeys returns the per-output public key of each output.
func (t *Tx) OutputPublicKeys() []curve.CompressedPoint {
	out := make([]curve.CompressedPoint, len(t.Prefix.Outputs))
	for i, o := range t.Prefix.Outputs {
		out[i] = o.PublicKey
	}
	return out
}
