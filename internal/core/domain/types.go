package domain

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fastfill-network/matching-engine/pkg/vaa"
)

type (
	// ChainID identifies a chain in the messaging layer.
	ChainID = vaa.ChainID
	// Address is a 32-byte universal address. It identifies signers, token
	// accounts, programs and router emitters alike.
	Address = vaa.Address
	// Hash is a 32-byte digest, mostly the digest of a fast order VAA.
	Hash = vaa.Hash
)

// Seeds of the addresses derived by the engine for the accounts it controls.
const (
	auctionCustodySeed    = "auction-custody"
	preparedCustodySeed   = "prepared-custody"
	localCustodySeed      = "custody"
	cctpMintRecipientSeed = "cctp-mint-recipient"
	emitterSeed           = "emitter"
	coreMessageSeed       = "core-msg"
)

// derivedAddressTag prefixes every address derived by the engine. Token
// accounts at tagged addresses can only be opened by the engine itself.
var derivedAddressTag = [4]byte{0xff, 0x6d, 0x65, 0x6e}

// DeriveAddress deterministically derives an address from a seed and a list
// of components: keccak256(seed || parts...) with the first bytes replaced by
// the derived address tag.
func DeriveAddress(seed string, parts ...[]byte) Address {
	var a Address
	data := append([][]byte{[]byte(seed)}, parts...)
	copy(a[:], crypto.Keccak256(data...))
	copy(a[:], derivedAddressTag[:])
	return a
}

// IsDerivedAddress returns whether the address was derived by the engine.
func IsDerivedAddress(a Address) bool {
	return bytes.HasPrefix(a[:], derivedAddressTag[:])
}

// AuctionCustodyToken returns the token account escrowing the stake of the
// auction identified by the given fast VAA hash.
func AuctionCustodyToken(vaaHash Hash) Address {
	return DeriveAddress(auctionCustodySeed, vaaHash[:])
}

// PreparedCustodyToken returns the token account holding the funds minted
// by the slow transfer of the given fast order until settlement.
func PreparedCustodyToken(vaaHash Hash) Address {
	return DeriveAddress(preparedCustodySeed, vaaHash[:])
}

// LocalCustodyToken returns the custody token account of the token router
// program deployed on the engine's chain.
func LocalCustodyToken(programID Address) Address {
	return DeriveAddress(localCustodySeed, programID[:])
}

// CctpMintRecipient returns the account receiving CCTP mints addressed to
// the engine program.
func CctpMintRecipient(programID Address) Address {
	return DeriveAddress(cctpMintRecipientSeed, programID[:])
}

// EmitterAddress returns the messaging emitter of the given program.
func EmitterAddress(programID Address) Address {
	return DeriveAddress(emitterSeed, programID[:])
}

// CoreMessageAddress returns the key of the outbound message published by
// payer with the given sequence.
func CoreMessageAddress(payer Address, sequence uint64) Address {
	seq := make([]byte, 8)
	binary.BigEndian.PutUint64(seq, sequence)
	return DeriveAddress(coreMessageSeed, payer[:], seq)
}

// IsZeroAddress returns whether the given address is the zero address.
func IsZeroAddress(a Address) bool {
	return a == Address{}
}

// ParseAddress decodes an optionally 0x-prefixed hex string into an address.
// Strings shorter than 32 bytes are left-padded with zeros.
func ParseAddress(str string) (Address, error) {
	var a Address
	b, err := decodeHex(str)
	if err != nil || len(b) > len(a) {
		return a, ErrMalformedAddress
	}
	copy(a[len(a)-len(b):], b)
	return a, nil
}

// ParseHash decodes an optionally 0x-prefixed 32-byte hex string.
func ParseHash(str string) (Hash, error) {
	var h Hash
	b, err := decodeHex(str)
	if err != nil || len(b) != len(h) {
		return h, ErrMalformedHash
	}
	copy(h[:], b)
	return h, nil
}

func decodeHex(str string) ([]byte, error) {
	str = strings.TrimPrefix(strings.TrimPrefix(str, "0x"), "0X")
	if len(str)%2 != 0 {
		str = "0" + str
	}
	return hex.DecodeString(str)
}
