package cctp

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"fmt"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/fastfill-network/matching-engine/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

const signatureLen = 65

// Burn is a burn sent by the engine towards another domain.
type Burn struct {
	Nonce uint64
	ports.CctpBurn
}

// Transmitter is the message transmitter of the local CCTP domain. It
// accepts messages attested by a threshold of known attesters and records
// the burns of the engine. Replay protection of received messages is left to
// the engine storage.
type Transmitter struct {
	lock *sync.Mutex

	localDomain uint32
	burnToken   domain.Address
	attesters   map[common.Address]struct{}
	threshold   int

	nextNonce uint64
	burns     []Burn
}

// NewTransmitter returns a transmitter for the given domain. Attestations
// must carry at least threshold signatures from the attesters.
func NewTransmitter(
	localDomain uint32, burnToken domain.Address,
	attesters []common.Address, threshold int,
) (*Transmitter, error) {
	if len(attesters) <= 0 {
		return nil, fmt.Errorf("missing attesters")
	}
	if threshold <= 0 || threshold > len(attesters) {
		return nil, fmt.Errorf(
			"threshold must be in range [1, %d], got %d", len(attesters), threshold,
		)
	}
	if domain.IsZeroAddress(burnToken) {
		return nil, fmt.Errorf("missing burn token")
	}

	attesterSet := make(map[common.Address]struct{}, len(attesters))
	for _, a := range attesters {
		attesterSet[a] = struct{}{}
	}
	return &Transmitter{
		lock:        &sync.Mutex{},
		localDomain: localDomain,
		burnToken:   burnToken,
		attesters:   attesterSet,
		threshold:   threshold,
	}, nil
}

func (t *Transmitter) LocalDomain() uint32 {
	return t.localDomain
}

func (t *Transmitter) BurnToken() domain.Address {
	return t.burnToken
}

func (t *Transmitter) VerifyMessage(
	_ context.Context, message, attestation []byte,
) (*ports.CctpMint, error) {
	msg, err := ParseMessage(message)
	if err != nil {
		return nil, err
	}
	if msg.DestinationDomain != t.localDomain {
		return nil, ErrInvalidDestinationDomain
	}
	if msg.Body.BurnToken != t.burnToken {
		return nil, ErrInvalidBurnToken
	}
	if err := t.verifyAttestation(message, attestation); err != nil {
		return nil, err
	}

	return &ports.CctpMint{
		SourceDomain:  msg.SourceDomain,
		Nonce:         msg.Nonce,
		BurnToken:     msg.Body.BurnToken,
		MintRecipient: msg.Body.MintRecipient,
		Amount:        msg.Body.Amount,
		Sender:        msg.Body.MessageSender,
	}, nil
}

func (t *Transmitter) DepositForBurn(
	_ context.Context, burn ports.CctpBurn,
) (uint64, error) {
	if burn.DestinationDomain == t.localDomain {
		return 0, fmt.Errorf("cannot burn towards the local domain")
	}
	if domain.IsZeroAddress(burn.MintRecipient) {
		return 0, fmt.Errorf("missing mint recipient")
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	nonce := t.nextNonce
	t.nextNonce++
	t.burns = append(t.burns, Burn{nonce, burn})

	log.Debugf(
		"burned %d towards domain %d with nonce %d",
		burn.Amount, burn.DestinationDomain, nonce,
	)
	return nonce, nil
}

// Burns returns the burns sent so far, oldest first.
func (t *Transmitter) Burns() []Burn {
	t.lock.Lock()
	defer t.lock.Unlock()

	burns := make([]Burn, len(t.burns))
	copy(burns, t.burns)
	return burns
}

// verifyAttestation checks that the attestation is made of at least
// threshold signatures over the message digest, by distinct attesters
// sorted by address.
func (t *Transmitter) verifyAttestation(message, attestation []byte) error {
	if len(attestation) <= 0 || len(attestation)%signatureLen != 0 {
		return fmt.Errorf("%w: bad length %d", ErrInvalidAttestation, len(attestation))
	}
	count := len(attestation) / signatureLen
	if count < t.threshold {
		return fmt.Errorf(
			"%w: got %d signatures, need %d", ErrInvalidAttestation, count, t.threshold,
		)
	}

	digest := crypto.Keccak256(message)
	var latest common.Address
	for i := 0; i < count; i++ {
		sig := make([]byte, signatureLen)
		copy(sig, attestation[i*signatureLen:(i+1)*signatureLen])
		if sig[64] >= 27 {
			sig[64] -= 27
		}
		pubkey, err := crypto.SigToPub(digest, sig)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidAttestation, err)
		}
		signer := crypto.PubkeyToAddress(*pubkey)
		if i > 0 && bytes.Compare(signer[:], latest[:]) <= 0 {
			return fmt.Errorf("%w: signers not in increasing order", ErrInvalidAttestation)
		}
		if _, ok := t.attesters[signer]; !ok {
			return fmt.Errorf("%w: unknown attester %s", ErrInvalidAttestation, signer)
		}
		latest = signer
	}
	return nil
}

// Attest signs the message with the given keys, ordering the signatures by
// signer address. Signatures use the 27/28 recovery id convention.
func Attest(message []byte, keys ...*ecdsa.PrivateKey) ([]byte, error) {
	sorted := make([]*ecdsa.PrivateKey, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool {
		a := crypto.PubkeyToAddress(sorted[i].PublicKey)
		b := crypto.PubkeyToAddress(sorted[j].PublicKey)
		return bytes.Compare(a[:], b[:]) < 0
	})

	digest := crypto.Keccak256(message)
	attestation := make([]byte, 0, len(keys)*signatureLen)
	for _, key := range sorted {
		sig, err := crypto.Sign(digest, key)
		if err != nil {
			return nil, err
		}
		sig[64] += 27
		attestation = append(attestation, sig...)
	}
	return attestation, nil
}
