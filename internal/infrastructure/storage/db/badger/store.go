package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
)

type txKey struct{}

// store wraps badgerhold so that every access joins the transaction carried
// by the context, if any.
type store struct {
	db *badgerhold.Store
}

func txFromContext(ctx context.Context) *badger.Txn {
	if tx, ok := ctx.Value(txKey{}).(*badger.Txn); ok {
		return tx
	}
	return nil
}

func (s *store) get(ctx context.Context, key, result interface{}) error {
	if tx := txFromContext(ctx); tx != nil {
		return s.db.TxGet(tx, key, result)
	}
	return s.db.Get(key, result)
}

func (s *store) find(
	ctx context.Context, result interface{}, query *badgerhold.Query,
) error {
	if tx := txFromContext(ctx); tx != nil {
		return s.db.TxFind(tx, result, query)
	}
	return s.db.Find(result, query)
}

func (s *store) insert(ctx context.Context, key, data interface{}) error {
	if tx := txFromContext(ctx); tx != nil {
		return s.db.TxInsert(tx, key, data)
	}
	return s.db.Insert(key, data)
}

func (s *store) update(ctx context.Context, key, data interface{}) error {
	if tx := txFromContext(ctx); tx != nil {
		return s.db.TxUpdate(tx, key, data)
	}
	return s.db.Update(key, data)
}

func (s *store) upsert(ctx context.Context, key, data interface{}) error {
	if tx := txFromContext(ctx); tx != nil {
		return s.db.TxUpsert(tx, key, data)
	}
	return s.db.Upsert(key, data)
}

func (s *store) delete(ctx context.Context, key, dataType interface{}) error {
	if tx := txFromContext(ctx); tx != nil {
		return s.db.TxDelete(tx, key, dataType)
	}
	return s.db.Delete(key, dataType)
}
