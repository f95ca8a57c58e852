package inmemory

import (
	"context"
	"sort"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
)

type auctionRepositoryImpl struct {
	store *store
}

func newAuctionRepositoryImpl(store *store) domain.AuctionRepository {
	return &auctionRepositoryImpl{store}
}

func (r *auctionRepositoryImpl) AddAuction(
	ctx context.Context, auction *domain.Auction,
) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	if _, ok := r.store.data.auctions[auction.VaaHash]; ok {
		return domain.ErrAuctionAlreadyStarted
	}
	r.put(auction)
	return nil
}

func (r *auctionRepositoryImpl) GetAuction(
	ctx context.Context, vaaHash domain.Hash,
) (*domain.Auction, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	auction, ok := r.store.data.auctions[vaaHash]
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	return cloneAuction(auction), nil
}

func (r *auctionRepositoryImpl) UpdateAuction(
	ctx context.Context, vaaHash domain.Hash,
	updateFn func(a *domain.Auction) (*domain.Auction, error),
) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	current, ok := r.store.data.auctions[vaaHash]
	if !ok {
		return domain.ErrAuctionNotFound
	}
	updated, err := updateFn(cloneAuction(current))
	if err != nil {
		return err
	}

	r.unindex(current)
	r.put(updated)
	return nil
}

func (r *auctionRepositoryImpl) GetActiveAuctions(
	ctx context.Context, maxStartSlot uint64,
) ([]*domain.Auction, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	auctions := make([]*domain.Auction, 0)
	r.store.data.activeAuctions.Ascend(func(item activeAuction) bool {
		if item.startSlot > maxStartSlot {
			return false
		}
		auctions = append(auctions, cloneAuction(r.store.data.auctions[item.vaaHash]))
		return true
	})
	return auctions, nil
}

func (r *auctionRepositoryImpl) GetAuctionsByStatus(
	ctx context.Context, status domain.AuctionStatusCode,
) ([]*domain.Auction, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	auctions := make([]*domain.Auction, 0)
	for _, a := range r.store.data.auctions {
		if a.Status.Code == status {
			auctions = append(auctions, cloneAuction(a))
		}
	}
	sort.SliceStable(auctions, func(i, j int) bool {
		return auctions[i].VaaHash.String() < auctions[j].VaaHash.String()
	})
	return auctions, nil
}

func (r *auctionRepositoryImpl) put(auction *domain.Auction) {
	stored := cloneAuction(auction)
	r.store.data.auctions[stored.VaaHash] = stored
	if stored.IsActive() && stored.Info != nil {
		r.store.data.activeAuctions.ReplaceOrInsert(activeAuction{
			startSlot: stored.Info.StartSlot,
			vaaHash:   stored.VaaHash,
		})
	}
}

func (r *auctionRepositoryImpl) unindex(auction *domain.Auction) {
	if auction.IsActive() && auction.Info != nil {
		r.store.data.activeAuctions.Delete(activeAuction{
			startSlot: auction.Info.StartSlot,
			vaaHash:   auction.VaaHash,
		})
	}
}
