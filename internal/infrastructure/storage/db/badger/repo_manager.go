package dbbadger

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/fastfill-network/matching-engine/internal/core/domain"
	"github.com/fastfill-network/matching-engine/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

const engineDbDir = "engine"

type repoManager struct {
	store *store

	custodianRepository             domain.CustodianRepository
	auctionConfigRepository         domain.AuctionConfigRepository
	proposalRepository              domain.ProposalRepository
	routerEndpointRepository        domain.RouterEndpointRepository
	auctionRepository               domain.AuctionRepository
	preparedOrderResponseRepository domain.PreparedOrderResponseRepository
	redeemedFastFillRepository      domain.RedeemedFastFillRepository
	payerSequenceRepository         domain.PayerSequenceRepository
	tokenAccountRepository          domain.TokenAccountRepository
	usedCctpNonceRepository         domain.UsedCctpNonceRepository
}

// NewRepoManager opens (or creates if not exists) the badger store on disk.
// If no base directory is given the store is kept in memory.
func NewRepoManager(
	baseDbDir string, logger badger.Logger,
) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, engineDbDir)
	}

	db, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening engine db: %w", err)
	}
	store := &store{db}

	return &repoManager{
		store:                           store,
		custodianRepository:             newCustodianRepositoryImpl(store),
		auctionConfigRepository:         newAuctionConfigRepositoryImpl(store),
		proposalRepository:              newProposalRepositoryImpl(store),
		routerEndpointRepository:        newRouterEndpointRepositoryImpl(store),
		auctionRepository:               newAuctionRepositoryImpl(store),
		preparedOrderResponseRepository: newPreparedOrderResponseRepositoryImpl(store),
		redeemedFastFillRepository:      newRedeemedFastFillRepositoryImpl(store),
		payerSequenceRepository:         newPayerSequenceRepositoryImpl(store),
		tokenAccountRepository:          newTokenAccountRepositoryImpl(store),
		usedCctpNonceRepository:         newUsedCctpNonceRepositoryImpl(store),
	}, nil
}

func (m *repoManager) CustodianRepository() domain.CustodianRepository {
	return m.custodianRepository
}

func (m *repoManager) AuctionConfigRepository() domain.AuctionConfigRepository {
	return m.auctionConfigRepository
}

func (m *repoManager) ProposalRepository() domain.ProposalRepository {
	return m.proposalRepository
}

func (m *repoManager) RouterEndpointRepository() domain.RouterEndpointRepository {
	return m.routerEndpointRepository
}

func (m *repoManager) AuctionRepository() domain.AuctionRepository {
	return m.auctionRepository
}

func (m *repoManager) PreparedOrderResponseRepository() domain.PreparedOrderResponseRepository {
	return m.preparedOrderResponseRepository
}

func (m *repoManager) RedeemedFastFillRepository() domain.RedeemedFastFillRepository {
	return m.redeemedFastFillRepository
}

func (m *repoManager) PayerSequenceRepository() domain.PayerSequenceRepository {
	return m.payerSequenceRepository
}

func (m *repoManager) TokenAccountRepository() domain.TokenAccountRepository {
	return m.tokenAccountRepository
}

func (m *repoManager) UsedCctpNonceRepository() domain.UsedCctpNonceRepository {
	return m.usedCctpNonceRepository
}

// RunTransaction runs the handler within a badger transaction. Conflicting
// concurrent transactions make the commit fail with badger.ErrConflict, the
// handler is never retried. Nested calls join the outer transaction.
func (m *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	if _, ok := ctx.Value(txKey{}).(*badger.Txn); ok {
		return handler(ctx)
	}

	tx := m.store.db.Badger().NewTransaction(!readOnly)
	defer tx.Discard()

	res, err := handler(context.WithValue(ctx, txKey{}, tx))
	if err != nil {
		return nil, err
	}
	if readOnly {
		return res, nil
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

func (m *repoManager) Close() {
	m.store.db.Close()
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
