// Package vaa implements the verified action approval (VAA) envelope used by
// the cross-chain messaging layer: encoding, decoding and digest computation.
// Guardian signature verification happens upstream; the engine only consumes
// envelopes whose signatures were already checked.
package vaa

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// SupportedVersion is the only envelope version accepted by Parse.
	SupportedVersion = uint8(1)

	signatureLen   = 66
	headerLen      = 6
	minBodyLen     = 51
	emitterAddrLen = 32
)

// ChainID identifies a chain in the messaging layer.
type ChainID uint16

// Address is a 32-byte universal address.
type Address [32]byte

// String returns the 0x-prefixed hex encoding of the address.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Hash is a 32-byte digest.
type Hash [32]byte

// String returns the 0x-prefixed hex encoding of the hash.
func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// Signature is a guardian signature over the envelope digest.
type Signature struct {
	Index     uint8
	Signature [65]byte
}

// VAA is a cross-chain message as attested by the guardian network.
type VAA struct {
	Version          uint8
	GuardianSetIndex uint32
	Signatures       []Signature
	Timestamp        uint32
	Nonce            uint32
	EmitterChain     ChainID
	EmitterAddress   Address
	Sequence         uint64
	ConsistencyLevel uint8
	Payload          []byte
}

// Body returns the signed part of the envelope.
func (v *VAA) Body() []byte {
	buf := new(bytes.Buffer)
	// bytes.Buffer writes never fail.
	_ = binary.Write(buf, binary.BigEndian, v.Timestamp)
	_ = binary.Write(buf, binary.BigEndian, v.Nonce)
	_ = binary.Write(buf, binary.BigEndian, uint16(v.EmitterChain))
	buf.Write(v.EmitterAddress[:])
	_ = binary.Write(buf, binary.BigEndian, v.Sequence)
	buf.WriteByte(v.ConsistencyLevel)
	buf.Write(v.Payload)
	return buf.Bytes()
}

// Digest returns keccak256(keccak256(body)). The digest uniquely identifies
// the message and keys every per-order record of the engine.
func (v *VAA) Digest() Hash {
	var h Hash
	copy(h[:], crypto.Keccak256(crypto.Keccak256(v.Body())))
	return h
}

// Serialize returns the wire encoding of the envelope.
func (v *VAA) Serialize() []byte {
	buf := new(bytes.Buffer)
	buf.WriteByte(v.Version)
	_ = binary.Write(buf, binary.BigEndian, v.GuardianSetIndex)
	buf.WriteByte(uint8(len(v.Signatures)))
	for _, sig := range v.Signatures {
		buf.WriteByte(sig.Index)
		buf.Write(sig.Signature[:])
	}
	buf.Write(v.Body())
	return buf.Bytes()
}

// Parse decodes a serialized envelope.
func Parse(data []byte) (*VAA, error) {
	if len(data) < headerLen+minBodyLen {
		return nil, ErrMalformedVaa
	}
	v := &VAA{
		Version:          data[0],
		GuardianSetIndex: binary.BigEndian.Uint32(data[1:5]),
	}
	if v.Version != SupportedVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v.Version)
	}

	numSigs := int(data[5])
	offset := headerLen
	if len(data) < offset+numSigs*signatureLen+minBodyLen {
		return nil, ErrMalformedVaa
	}
	v.Signatures = make([]Signature, 0, numSigs)
	for i := 0; i < numSigs; i++ {
		var sig Signature
		sig.Index = data[offset]
		copy(sig.Signature[:], data[offset+1:offset+signatureLen])
		v.Signatures = append(v.Signatures, sig)
		offset += signatureLen
	}

	body := data[offset:]
	v.Timestamp = binary.BigEndian.Uint32(body[0:4])
	v.Nonce = binary.BigEndian.Uint32(body[4:8])
	v.EmitterChain = ChainID(binary.BigEndian.Uint16(body[8:10]))
	copy(v.EmitterAddress[:], body[10:10+emitterAddrLen])
	v.Sequence = binary.BigEndian.Uint64(body[42:50])
	v.ConsistencyLevel = body[50]
	v.Payload = append([]byte{}, body[minBodyLen:]...)
	return v, nil
}
