package pubsub

import (
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/timshannon/badgerhold/v4"
)

const pubsubDbDir = "pubsub"

// store persists webhook subscriptions. Subscriptions are indexed by topic.
type store struct {
	db *badgerhold.Store
}

func newStore(baseDbDir string, logger badger.Logger) (*store, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, pubsubDbDir)
	}
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}
	return &store{db}, nil
}

func (s *store) add(sub *Subscription) error {
	err := s.db.Insert(sub.ID, *sub)
	if err == badgerhold.ErrKeyExists {
		return nil
	}
	return err
}

func (s *store) get(id string) (*Subscription, error) {
	var sub Subscription
	if err := s.db.Get(id, &sub); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *store) remove(id string) error {
	err := s.db.Delete(id, Subscription{})
	if err == badgerhold.ErrNotFound {
		return ErrSubscriptionNotFound
	}
	return err
}

func (s *store) listByTopic(topic string) (subscriptions, error) {
	var subs subscriptions
	query := badgerhold.Where("EventTopic").Eq(topic).Index("EventTopic").SortBy("ID")
	if err := s.db.Find(&subs, query); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *store) close() error {
	return s.db.Close()
}
