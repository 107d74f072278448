package transaction

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/veilcoin/core/pkg/curve"
	"github.com/veilcoin/core/pkg/types"
)

// Protobuf wire format.
//
// Persistable types serialize as protobuf messages with a fixed field
// numbering that is part of the on-chain format:
//
//	Amount            1=commitment  2=masked_value  3=masked_blinding
//	TxOut             1=amount 2=target_key 3=public_key 4=e_fog_hint 5=e_memo
//	TxIn              1=ring (repeated) 2=proofs (repeated)
//	TxPrefix          1=inputs 2=outputs 3=fee 4=tombstone_block
//	Tx                1=prefix 2=signature
//	RingSignature     1=blob 2=key_images (repeated bytes)
//	MembershipProof   1=index 2=highest_index 3=elements
//	MembershipElement 1=range 2=hash
//	Range             1=from 2=to
//
// 32-byte wrappers serialize transparently as their raw bytes. The codec does
// not enforce memo length; that is TryDecryptMemo's job. Zero varints and
// empty byte fields are omitted, per proto3. The codec is written directly on
// protowire because the wire format is fixed but code generation is not part
// of this library.

// MarshalBinary encodes the amount.
func (a *Amount) MarshalBinary() ([]byte, error) {
	return appendAmount(nil, a), nil
}

// UnmarshalBinary decodes the amount.
func (a *Amount) UnmarshalBinary(data []byte) error {
	parsed, err := parseAmount(data)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalBinary encodes the output.
func (t *TxOut) MarshalBinary() ([]byte, error) {
	return appendTxOut(nil, t), nil
}

// UnmarshalBinary decodes the output.
func (t *TxOut) UnmarshalBinary(data []byte) error {
	parsed, err := parseTxOut(data)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalBinary encodes the input.
func (in *TxIn) MarshalBinary() ([]byte, error) {
	return appendTxIn(nil, in), nil
}

// UnmarshalBinary decodes the input.
func (in *TxIn) UnmarshalBinary(data []byte) error {
	parsed, err := parseTxIn(data)
	if err != nil {
		return err
	}
	*in = parsed
	return nil
}

// MarshalBinary encodes the prefix.
func (p *TxPrefix) MarshalBinary() ([]byte, error) {
	return appendTxPrefix(nil, p), nil
}

// UnmarshalBinary decodes the prefix.
func (p *TxPrefix) UnmarshalBinary(data []byte) error {
	parsed, err := parseTxPrefix(data)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalBinary encodes the transaction.
func (t *Tx) MarshalBinary() ([]byte, error) {
	return appendTx(nil, t), nil
}

// UnmarshalBinary decodes the transaction.
func (t *Tx) UnmarshalBinary(data []byte) error {
	parsed, err := parseTx(data)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalBinary encodes the proof.
func (p *MembershipProof) MarshalBinary() ([]byte, error) {
	return appendMembershipProof(nil, p), nil
}

// UnmarshalBinary decodes the proof.
func (p *MembershipProof) UnmarshalBinary(data []byte) error {
	parsed, err := parseMembershipProof(data)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// --- encoding ---

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendMessageField(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func appendAmount(b []byte, a *Amount) []byte {
	b = appendBytesField(b, 1, a.Commitment[:])
	mv := a.MaskedValue.Bytes()
	b = appendBytesField(b, 2, mv[:])
	mb := a.MaskedBlinding.Bytes()
	return appendBytesField(b, 3, mb[:])
}

func appendTxOut(b []byte, t *TxOut) []byte {
	b = appendMessageField(b, 1, appendAmount(nil, &t.Amount))
	b = appendBytesField(b, 2, t.TargetKey[:])
	b = appendBytesField(b, 3, t.PublicKey[:])
	b = appendBytesField(b, 4, t.EFogHint[:])
	return appendBytesField(b, 5, t.EMemo)
}

func appendTxIn(b []byte, in *TxIn) []byte {
	for i := range in.Ring {
		b = appendMessageField(b, 1, appendTxOut(nil, &in.Ring[i]))
	}
	for i := range in.Proofs {
		b = appendMessageField(b, 2, appendMembershipProof(nil, &in.Proofs[i]))
	}
	return b
}

func appendTxPrefix(b []byte, p *TxPrefix) []byte {
	for i := range p.Inputs {
		b = appendMessageField(b, 1, appendTxIn(nil, &p.Inputs[i]))
	}
	for i := range p.Outputs {
		b = appendMessageField(b, 2, appendTxOut(nil, &p.Outputs[i]))
	}
	b = appendVarintField(b, 3, p.Fee)
	return appendVarintField(b, 4, p.TombstoneBlock)
}

func appendRingSignature(b []byte, s *RingSignature) []byte {
	b = appendBytesField(b, 1, s.Blob)
	for i := range s.Images {
		b = appendBytesField(b, 2, s.Images[i][:])
	}
	return b
}

func appendTx(b []byte, t *Tx) []byte {
	b = appendMessageField(b, 1, appendTxPrefix(nil, &t.Prefix))
	return appendMessageField(b, 2, appendRingSignature(nil, &t.Signature))
}

func appendRange(b []byte, r Range) []byte {
	b = appendVarintField(b, 1, r.From)
	return appendVarintField(b, 2, r.To)
}

func appendMembershipElement(b []byte, e *MembershipElement) []byte {
	b = appendMessageField(b, 1, appendRange(nil, e.Range))
	return appendBytesField(b, 2, e.Hash[:])
}

func appendMembershipProof(b []byte, p *MembershipProof) []byte {
	b = appendVarintField(b, 1, p.Index)
	b = appendVarintField(b, 2, p.HighestIndex)
	for i := range p.Elements {
		b = appendMessageField(b, 3, appendMembershipElement(nil, &p.Elements[i]))
	}
	return b
}

// --- decoding ---

// walkFields iterates the fields of a protobuf message, handing each to
// visit. Unknown field numbers are skipped, as protobuf requires.
func walkFields(data []byte, visit func(num protowire.Number, typ protowire.Type, payload []byte) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return ErrMalformedBytes
		}
		data = data[n:]

		var payload []byte
		switch typ {
		case protowire.VarintType:
			_, n = protowire.ConsumeVarint(data)
			payload = data[:max(n, 0)]
		case protowire.BytesType:
			payload, n = protowire.ConsumeBytes(data)
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
		}
		if n < 0 {
			return ErrMalformedBytes
		}
		if err := visit(num, typ, payload); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

func parseVarint(payload []byte) (uint64, error) {
	v, n := protowire.ConsumeVarint(payload)
	if n < 0 {
		return 0, ErrMalformedBytes
	}
	return v, nil
}

func parseAmount(data []byte) (Amount, error) {
	var a Amount
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, payload []byte) error {
		switch num {
		case 1:
			c, err := curve.CommitmentFromBytes(payload)
			if err != nil {
				return fmt.Errorf("amount commitment: %w", err)
			}
			a.Commitment = c
		case 2:
			s, err := curve.CurveScalarFromBytes(payload)
			if err != nil {
				return fmt.Errorf("amount masked value: %w", err)
			}
			a.MaskedValue = s
		case 3:
			b, err := curve.BlindingFromBytes(payload)
			if err != nil {
				return fmt.Errorf("amount masked blinding: %w", err)
			}
			a.MaskedBlinding = b
		}
		return nil
	})
	return a, err
}

func parseTxOut(data []byte) (TxOut, error) {
	var t TxOut
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, payload []byte) error {
		switch num {
		case 1:
			a, err := parseAmount(payload)
			if err != nil {
				return err
			}
			t.Amount = a
		case 2:
			k, err := curve.CompressedPointFromBytes(payload)
			if err != nil {
				return fmt.Errorf("txout target key: %w", err)
			}
			t.TargetKey = k
		case 3:
			k, err := curve.CompressedPointFromBytes(payload)
			if err != nil {
				return fmt.Errorf("txout public key: %w", err)
			}
			t.PublicKey = k
		case 4:
			h, err := FogHintFromBytes(payload)
			if err != nil {
				return err
			}
			t.EFogHint = h
		case 5:
			t.EMemo = append([]byte(nil), payload...)
		}
		return nil
	})
	return t, err
}

func parseTxIn(data []byte) (TxIn, error) {
	var in TxIn
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, payload []byte) error {
		switch num {
		case 1:
			o, err := parseTxOut(payload)
			if err != nil {
				return err
			}
			in.Ring = append(in.Ring, o)
		case 2:
			p, err := parseMembershipProof(payload)
			if err != nil {
				return err
			}
			in.Proofs = append(in.Proofs, p)
		}
		return nil
	})
	return in, err
}

func parseTxPrefix(data []byte) (TxPrefix, error) {
	var p TxPrefix
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, payload []byte) error {
		switch num {
		case 1:
			in, err := parseTxIn(payload)
			if err != nil {
				return err
			}
			p.Inputs = append(p.Inputs, in)
		case 2:
			o, err := parseTxOut(payload)
			if err != nil {
				return err
			}
			p.Outputs = append(p.Outputs, o)
		case 3:
			v, err := parseVarint(payload)
			if err != nil {
				return err
			}
			p.Fee = v
		case 4:
			v, err := parseVarint(payload)
			if err != nil {
				return err
			}
			p.TombstoneBlock = v
		}
		return nil
	})
	return p, err
}

func parseRingSignature(data []byte) (RingSignature, error) {
	var s RingSignature
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, payload []byte) error {
		switch num {
		case 1:
			s.Blob = append([]byte(nil), payload...)
		case 2:
			img, err := types.KeyImageFromBytes(payload)
			if err != nil {
				return fmt.Errorf("signature key image: %w", err)
			}
			s.Images = append(s.Images, img)
		}
		return nil
	})
	return s, err
}

func parseTx(data []byte) (Tx, error) {
	var t Tx
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, payload []byte) error {
		switch num {
		case 1:
			p, err := parseTxPrefix(payload)
			if err != nil {
				return err
			}
			t.Prefix = p
		case 2:
			s, err := parseRingSignature(payload)
			if err != nil {
				return err
			}
			t.Signature = s
		}
		return nil
	})
	return t, err
}

func parseRange(data []byte) (Range, error) {
	var r Range
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, payload []byte) error {
		switch num {
		case 1:
			v, err := parseVarint(payload)
			if err != nil {
				return err
			}
			r.From = v
		case 2:
			v, err := parseVarint(payload)
			if err != nil {
				return err
			}
			r.To = v
		}
		return nil
	})
	return r, err
}

func parseMembershipElement(data []byte) (MembershipElement, error) {
	var e MembershipElement
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, payload []byte) error {
		switch num {
		case 1:
			r, err := parseRange(payload)
			if err != nil {
				return err
			}
			e.Range = r
		case 2:
			h, err := types.MembershipHashFromBytes(payload)
			if err != nil {
				return fmt.Errorf("membership element hash: %w", err)
			}
			e.Hash = h
		}
		return nil
	})
	return e, err
}

func parseMembershipProof(data []byte) (MembershipProof, error) {
	var p MembershipProof
	err := walkFields(data, func(num protowire.Number, typ protowire.Type, payload []byte) error {
		switch num {
		case 1:
			v, err := parseVarint(payload)
			if err != nil {
				return err
			}
			p.Index = v
		case 2:
			v, err := parseVarint(payload)
			if err != nil {
				return err
			}
			p.HighestIndex = v
		case 3:
			e, err := parseMembershipElement(payload)
			if err != nil {
				return err
			}
			p.Elements = append(p.Elements, e)
		}
		return nil
	})
	return p, err
}
