// Package p2p provides message serialization for network communication.
package p2p

import (
	"encoding/binary"
	"errors"

	"github.com/veilcoin/core/pkg/transaction"
)

// Message types
const (
	MsgTypeTransaction uint8 = 0x01
	MsgTypePing        uint8 = 0x30
	MsgTypePong        uint8 = 0x31
)

// Message errors
var (
	ErrInvalidMessageType = errors.New("invalid message type")
	ErrMessageTooLarge    = errors.New("message too large")
	ErrTruncatedMessage   = errors.New("truncated message")
)

// MaxMessageSize is the maximum size of a network message.
const MaxMessageSize = 4 * 1024 * 1024 // 4 MB

// Message is a network envelope: a type byte, a length, and a payload.
type Message struct {
	Type    uint8
	Payload []byte
}

// Encode serializes a message for network transmission.
func (m *Message) Encode() ([]byte, error) {
	if len(m.Payload) > MaxMessageSize {
		return nil, ErrMessageTooLarge
	}
	buf := make([]byte, 5+len(m.Payload))
	buf[0] = m.Type
	binary.BigEndian.PutUint32(buf[1:5], uint32(len(m.Payload)))
	copy(buf[5:], m.Payload)
	return buf, nil
}

// DecodeMessage parses a message envelope.
func DecodeMessage(data []byte) (*Message, error) {
	if len(data) < 5 {
		return nil, ErrTruncatedMessage
	}
	length := binary.BigEndian.Uint32(data[1:5])
	if length > MaxMessageSize {
		return nil, ErrMessageTooLarge
	}
	if uint32(len(data)-5) != length {
		return nil, ErrTruncatedMessage
	}
	return &Message{
		Type:    data[0],
		Payload: data[5:],
	}, nil
}

// EncodeTxMessage wraps a transaction in an envelope.
func EncodeTxMessage(tx *transaction.Tx) ([]byte, error) {
	payload, err := tx.MarshalBinary()
	if err != nil {
		return nil, err
	}
	msg := &Message{Type: MsgTypeTransaction, Payload: payload}
	return msg.Encode()
}

// DecodeTxMessage unwraps and decodes a transaction message.
func DecodeTxMessage(data []byte) (*transaction.Tx, error) {
	msg, err := DecodeMessage(data)
	if err != nil {
		return nil, err
	}
	if msg.Type != MsgTypeTransaction {
		return nil, ErrInvalidMessageType
	}
	var tx transaction.Tx
	if err := tx.UnmarshalBinary(msg.Payload); err != nil {
		return nil, err
	}
	return &tx, nil
}
