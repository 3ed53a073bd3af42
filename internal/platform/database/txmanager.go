package database

import (
	"context"

	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jmoiron/sqlx"
)

// DB hands repositories either the ambient transaction from ctx or the
// plain connection, so the same repository code runs inside and outside
// of a TxManager.Do block.
type DB struct {
	db     *sqlx.DB
	getter *trmsqlx.CtxGetter
}

func NewDB(db *sqlx.DB) *DB {
	return &DB{
		db:     db,
		getter: trmsqlx.DefaultCtxGetter,
	}
}

func (d *DB) Conn(ctx context.Context) trmsqlx.Tr {
	return d.getter.DefaultTrOrDB(ctx, d.db)
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// TxManager runs a function within one database transaction.
type TxManager struct {
	manager *manager.Manager
}

func NewTxManager(db *sqlx.DB) (*TxManager, error) {
	m, err := manager.New(trmsqlx.NewDefaultFactory(db))
	if err != nil {
		return nil, err
	}

	return &TxManager{manager: m}, nil
}

func (tm *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return tm.manager.Do(ctx, fn)
}
