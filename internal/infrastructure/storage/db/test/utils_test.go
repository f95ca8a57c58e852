package db_test

import (
	"crypto/rand"
	"testing"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/fastfill-network/matching-engine/internal/core/ports"
	dbbadger "github.com/fastfill-network/matching-engine/internal/infrastructure/storage/db/badger"
	"github.com/fastfill-network/matching-engine/internal/infrastructure/storage/db/inmemory"
	"github.com/stretchr/testify/require"
)

type repoManager struct {
	Name string
	ports.RepoManager
}

// createRepoManagers returns one repo manager per storage implementation.
// The badger one runs in memory.
func createRepoManagers(t *testing.T) []repoManager {
	badgerRepoManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)

	t.Cleanup(badgerRepoManager.Close)

	return []repoManager{
		{
			Name:        "inmemory",
			RepoManager: inmemory.NewRepoManager(),
		},
		{
			Name:        "badger",
			RepoManager: badgerRepoManager,
		},
	}
}

func randomAddress() domain.Address {
	var a domain.Address
	_, _ = rand.Read(a[:])
	return a
}

func randomHash() domain.Hash {
	var h domain.Hash
	_, _ = rand.Read(h[:])
	return h
}

func newActiveAuction(startSlot uint64) *domain.Auction {
	auction := domain.NewAuction(randomHash())
	auction.Status = domain.AuctionStatus{Code: domain.AuctionStatusActive}
	auction.TargetProtocol = domain.CctpProtocol(3)
	auction.Info = &domain.AuctionInfo{
		ConfigID:          1,
		CustodyToken:      domain.AuctionCustodyToken(auction.VaaHash),
		VaaSequence:       4,
		SourceChain:       6,
		BestOfferToken:    randomAddress(),
		InitialOfferToken: randomAddress(),
		StartSlot:         startSlot,
		AmountIn:          1_000_000,
		SecurityDeposit:   10_000,
		OfferPrice:        500,
		AmountOut:         1_000_000,
	}
	return auction
}
