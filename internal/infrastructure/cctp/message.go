package cctp

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
)

const (
	messageHeaderLen = 116
	burnMessageLen   = 132
)

// Message is a CCTP message carrying a burn of the bridged token.
type Message struct {
	Version           uint32
	SourceDomain      uint32
	DestinationDomain uint32
	Nonce             uint64
	Sender            domain.Address
	Recipient         domain.Address
	DestinationCaller domain.Address
	Body              BurnMessage
}

// BurnMessage is the body of a CCTP message minting Amount of BurnToken to
// MintRecipient on the destination domain.
type BurnMessage struct {
	Version       uint32
	BurnToken     domain.Address
	MintRecipient domain.Address
	Amount        uint64
	MessageSender domain.Address
}

// Serialize ...
func (m *Message) Serialize() []byte {
	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.BigEndian, m.Version)
	_ = binary.Write(buf, binary.BigEndian, m.SourceDomain)
	_ = binary.Write(buf, binary.BigEndian, m.DestinationDomain)
	_ = binary.Write(buf, binary.BigEndian, m.Nonce)
	buf.Write(m.Sender[:])
	buf.Write(m.Recipient[:])
	buf.Write(m.DestinationCaller[:])

	_ = binary.Write(buf, binary.BigEndian, m.Body.Version)
	buf.Write(m.Body.BurnToken[:])
	buf.Write(m.Body.MintRecipient[:])
	// amount is a uint256
	buf.Write(make([]byte, 24))
	_ = binary.Write(buf, binary.BigEndian, m.Body.Amount)
	buf.Write(m.Body.MessageSender[:])
	return buf.Bytes()
}

// ParseMessage ...
func ParseMessage(buf []byte) (*Message, error) {
	if len(buf) != messageHeaderLen+burnMessageLen {
		return nil, fmt.Errorf(
			"%w: expected %d bytes, got %d",
			ErrMalformedMessage, messageHeaderLen+burnMessageLen, len(buf),
		)
	}

	m := &Message{}
	m.Version = binary.BigEndian.Uint32(buf[0:4])
	m.SourceDomain = binary.BigEndian.Uint32(buf[4:8])
	m.DestinationDomain = binary.BigEndian.Uint32(buf[8:12])
	m.Nonce = binary.BigEndian.Uint64(buf[12:20])
	copy(m.Sender[:], buf[20:52])
	copy(m.Recipient[:], buf[52:84])
	copy(m.DestinationCaller[:], buf[84:116])

	body := buf[messageHeaderLen:]
	m.Body.Version = binary.BigEndian.Uint32(body[0:4])
	copy(m.Body.BurnToken[:], body[4:36])
	copy(m.Body.MintRecipient[:], body[36:68])
	if !bytes.Equal(body[68:92], make([]byte, 24)) {
		return nil, ErrAmountOverflow
	}
	m.Body.Amount = binary.BigEndian.Uint64(body[92:100])
	copy(m.Body.MessageSender[:], body[100:132])
	return m, nil
}
