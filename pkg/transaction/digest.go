package transaction

import (
	"encoding/binary"

	"github.com/gtank/merlin"
)

// Canonical hashing of transaction objects.
//
// Every hashed type absorbs its fields into a Merlin transcript in
// declaration order, each under its own field label; the transcript's
// length-framed absorption plus the domain tag make the resulting 32-byte
// challenge stable and unambiguous. These bytes appear on-chain: the framing,
// labels, and field order must never change.

func newTranscript(domainTag string) *merlin.Transcript {
	return merlin.NewTranscript(domainTag)
}

func extractDigest(t *merlin.Transcript) [32]byte {
	var out [32]byte
	copy(out[:], t.ExtractBytes([]byte("digest32"), 32))
	return out
}

func appendBytes(t *merlin.Transcript, label string, b []byte) {
	t.AppendMessage([]byte(label), b)
}

func appendUint64(t *merlin.Transcript, label string, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	t.AppendMessage([]byte(label), buf[:])
}

func (a *Amount) appendToTranscript(t *merlin.Transcript) {
	appendBytes(t, "commitment", a.Commitment[:])
	mv := a.MaskedValue.Bytes()
	appendBytes(t, "masked_value", mv[:])
	mb := a.MaskedBlinding.Bytes()
	appendBytes(t, "masked_blinding", mb[:])
}

func (o *TxOut) appendToTranscript(t *merlin.Transcript) {
	o.Amount.appendToTranscript(t)
	appendBytes(t, "target_key", o.TargetKey[:])
	appendBytes(t, "public_key", o.PublicKey[:])
	appendBytes(t, "e_fog_hint", o.EFogHint[:])
	appendBytes(t, "e_memo", o.EMemo)
}

func (r Range) appendToTranscript(t *merlin.Transcript) {
	appendUint64(t, "from", r.From)
	appendUint64(t, "to", r.To)
}

func (e *MembershipElement) appendToTranscript(t *merlin.Transcript) {
	e.Range.appendToTranscript(t)
	appendBytes(t, "hash", e.Hash[:])
}

func (p *MembershipProof) appendToTranscript(t *merlin.Transcript) {
	appendUint64(t, "index", p.Index)
	appendUint64(t, "highest_index", p.HighestIndex)
	appendUint64(t, "elements", uint64(len(p.Elements)))
	for i := range p.Elements {
		p.Elements[i].appendToTranscript(t)
	}
}

func (in *TxIn) appendToTranscript(t *merlin.Transcript) {
	appendUint64(t, "ring", uint64(len(in.Ring)))
	for i := range in.Ring {
		in.Ring[i].appendToTranscript(t)
	}
	appendUint64(t, "proofs", uint64(len(in.Proofs)))
	for i := range in.Proofs {
		in.Proofs[i].appendToTranscript(t)
	}
}

func (p *TxPrefix) appendToTranscript(t *merlin.Transcript) {
	appendUint64(t, "inputs", uint64(len(p.Inputs)))
	for i := range p.Inputs {
		p.Inputs[i].appendToTranscript(t)
	}
	appendUint64(t, "outputs", uint64(len(p.Outputs)))
	for i := range p.Outputs {
		p.Outputs[i].appendToTranscript(t)
	}
	appendUint64(t, "fee", p.Fee)
	appendUint64(t, "tombstone_block", p.TombstoneBlock)
}

func (s *RingSignature) appendToTranscript(t *merlin.Transcript) {
	appendBytes(t, "blob", s.Blob)
	appendUint64(t, "key_images", uint64(len(s.Images)))
	for i := range s.Images {
		appendBytes(t, "key_image", s.Images[i][:])
	}
}

func (tx *Tx) appendToTranscript(t *merlin.Transcript) {
	tx.Prefix.appendToTranscript(t)
	tx.Signature.appendToTranscript(t)
}
