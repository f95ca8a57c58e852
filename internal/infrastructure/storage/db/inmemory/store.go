package inmemory

import (
	"bytes"
	"context"
	"sync"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/google/btree"
)

type txKey struct{}

// activeAuction is an entry of the index of active auctions, ordered by start
// slot.
type activeAuction struct {
	startSlot uint64
	vaaHash   domain.Hash
}

func lessActiveAuction(a, b activeAuction) bool {
	if a.startSlot != b.startSlot {
		return a.startSlot < b.startSlot
	}
	return bytes.Compare(a.vaaHash[:], b.vaaHash[:]) < 0
}

// data holds every entity of the engine. Stored entities are never mutated
// in place, repositories always store and return copies, so a shallow copy of
// the maps is a consistent snapshot.
type data struct {
	custodian         *domain.Custodian
	auctionConfigs    map[uint32]*domain.AuctionConfig
	proposals         map[uint64]*domain.Proposal
	routerEndpoints   map[domain.ChainID]*domain.RouterEndpoint
	auctions          map[domain.Hash]*domain.Auction
	activeAuctions    *btree.BTreeG[activeAuction]
	preparedResponses map[domain.Hash]*domain.PreparedOrderResponse
	redeemedFills     map[domain.Hash]*domain.RedeemedFastFill
	payerSequences    map[domain.Address]*domain.PayerSequence
	tokenAccounts     map[domain.Address]*domain.TokenAccount
	usedCctpNonces    map[string]*domain.UsedCctpNonce
}

func newData() *data {
	return &data{
		auctionConfigs:    make(map[uint32]*domain.AuctionConfig),
		proposals:         make(map[uint64]*domain.Proposal),
		routerEndpoints:   make(map[domain.ChainID]*domain.RouterEndpoint),
		auctions:          make(map[domain.Hash]*domain.Auction),
		activeAuctions:    btree.NewG(32, lessActiveAuction),
		preparedResponses: make(map[domain.Hash]*domain.PreparedOrderResponse),
		redeemedFills:     make(map[domain.Hash]*domain.RedeemedFastFill),
		payerSequences:    make(map[domain.Address]*domain.PayerSequence),
		tokenAccounts:     make(map[domain.Address]*domain.TokenAccount),
		usedCctpNonces:    make(map[string]*domain.UsedCctpNonce),
	}
}

func (d *data) snapshot() *data {
	return &data{
		custodian:         d.custodian,
		auctionConfigs:    copyMap(d.auctionConfigs),
		proposals:         copyMap(d.proposals),
		routerEndpoints:   copyMap(d.routerEndpoints),
		auctions:          copyMap(d.auctions),
		activeAuctions:    d.activeAuctions.Clone(),
		preparedResponses: copyMap(d.preparedResponses),
		redeemedFills:     copyMap(d.redeemedFills),
		payerSequences:    copyMap(d.payerSequences),
		tokenAccounts:     copyMap(d.tokenAccounts),
		usedCctpNonces:    copyMap(d.usedCctpNonces),
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	c := make(map[K]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// store serializes every access to the data with a single lock. Calls made
// within a transaction already hold the lock.
type store struct {
	locker *sync.Mutex
	data   *data
}

func newStore() *store {
	return &store{
		locker: &sync.Mutex{},
		data:   newData(),
	}
}

func (s *store) lock(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		return func() {}
	}
	s.locker.Lock()
	return s.locker.Unlock
}
