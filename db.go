package pgviews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-nacelle/nacelle/v2"
)

// DB is the connection handle the catalog reader queries through. Connections are
// owned by the caller; nothing in this package retries or reconnects.
type DB interface {
	Query(ctx context.Context, query Q) (*sql.Rows, error)
	Exec(ctx context.Context, query Q) error
	WithTransaction(ctx context.Context, f func(tx DB) error) error

	IsInTransaction() bool
}

type loggingDB struct {
	*queryWrapper
	db *sql.DB
}

// NewDB wraps an already-open connection pool.
func NewDB(db *sql.DB, logger nacelle.Logger) DB {
	return newLoggingDB(db, logger)
}

func newLoggingDB(db *sql.DB, logger nacelle.Logger) *loggingDB {
	return &loggingDB{
		queryWrapper: newDBWrapper(db, logger),
		db:           db,
	}
}

func (db *loggingDB) WithTransaction(ctx context.Context, f func(tx DB) error) (err error) {
	start := time.Now()

	rawTx, err := db.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return err
	}

	tx := &loggingTx{
		queryWrapper: newTxWrapper(rawTx, db.logger),
		tx:           rawTx,
		start:        start,
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.done(ErrPanicDuringTransaction)
			panic(r)
		}

		err = tx.done(err)
	}()

	return f(tx)
}

func (db *loggingDB) IsInTransaction() bool {
	return false
}

var (
	ErrNestedTransaction      = fmt.Errorf("transaction already open")
	ErrPanicDuringTransaction = fmt.Errorf("encountered panic during transaction")
)

type loggingTx struct {
	*queryWrapper
	tx    *sql.Tx
	start time.Time
}

func (tx *loggingTx) WithTransaction(ctx context.Context, f func(tx DB) error) error {
	return ErrNestedTransaction
}

func (tx *loggingTx) IsInTransaction() bool {
	return true
}

func (tx *loggingTx) done(err error) (combinedErr error) {
	defer func() { logDone(tx.logger, time.Since(tx.start), combinedErr) }()

	if err != nil {
		return errors.Join(err, tx.tx.Rollback())
	}

	return tx.tx.Commit()
}

func logDone(logger nacelle.Logger, duration time.Duration, err error) {
	fields := nacelle.LogFields{
		"err":      err,
		"duration": duration,
	}

	logger.DebugWithFields(fields, "transaction closed")
}
