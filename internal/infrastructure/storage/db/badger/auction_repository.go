package dbbadger

import (
	"bytes"
	"context"
	"errors"
	"sort"

	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
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
	if err := r.store.insert(ctx, auction.VaaHash.String(), *auction); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrAuctionAlreadyStarted
		}
		return err
	}
	return nil
}

func (r *auctionRepositoryImpl) GetAuction(
	ctx context.Context, vaaHash domain.Hash,
) (*domain.Auction, error) {
	var auction domain.Auction
	if err := r.store.get(ctx, vaaHash.String(), &auction); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrAuctionNotFound
		}
		return nil, err
	}
	return &auction, nil
}

func (r *auctionRepositoryImpl) UpdateAuction(
	ctx context.Context, vaaHash domain.Hash,
	updateFn func(a *domain.Auction) (*domain.Auction, error),
) error {
	auction, err := r.GetAuction(ctx, vaaHash)
	if err != nil {
		return err
	}
	updated, err := updateFn(auction)
	if err != nil {
		return err
	}
	return r.store.update(ctx, vaaHash.String(), *updated)
}

func (r *auctionRepositoryImpl) GetActiveAuctions(
	ctx context.Context, maxStartSlot uint64,
) ([]*domain.Auction, error) {
	auctions, err := r.findByStatus(ctx, domain.AuctionStatusActive)
	if err != nil {
		return nil, err
	}

	res := make([]*domain.Auction, 0, len(auctions))
	for _, a := range auctions {
		if a.Info != nil && a.Info.StartSlot <= maxStartSlot {
			res = append(res, a)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Info.StartSlot != res[j].Info.StartSlot {
			return res[i].Info.StartSlot < res[j].Info.StartSlot
		}
		return bytes.Compare(res[i].VaaHash[:], res[j].VaaHash[:]) < 0
	})
	return res, nil
}

func (r *auctionRepositoryImpl) GetAuctionsByStatus(
	ctx context.Context, status domain.AuctionStatusCode,
) ([]*domain.Auction, error) {
	auctions, err := r.findByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(auctions, func(i, j int) bool {
		return bytes.Compare(auctions[i].VaaHash[:], auctions[j].VaaHash[:]) < 0
	})
	return auctions, nil
}

func (r *auctionRepositoryImpl) findByStatus(
	ctx context.Context, status domain.AuctionStatusCode,
) ([]*domain.Auction, error) {
	query := badgerhold.Where("Status").MatchFunc(
		func(ra *badgerhold.RecordAccess) (bool, error) {
			s, ok := ra.Field().(domain.AuctionStatus)
			return ok && s.Code == status, nil
		},
	)

	var auctions []domain.Auction
	if err := r.store.find(ctx, &auctions, query); err != nil {
		return nil, err
	}

	res := make([]*domain.Auction, 0, len(auctions))
	for i := range auctions {
		res = append(res, &auctions[i])
	}
	return res, nil
}
