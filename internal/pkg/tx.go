package pkg

import (
	"database/sql"

	"gorm.io/gorm"
)

// WithTx executes fn within a database transaction.
// It commits on success, rolls back on error or panic.
// opts, when given, sets the isolation level and read-only flag.
func WithTx(db *gorm.DB, fn func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	tx := db.Begin(opts...)
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// SnapshotTxOptions returns options for a read-only transaction that sees a
// single snapshot, or nil for dialects where the default already does
// (sqlite serialises every transaction).
func SnapshotTxOptions(db *gorm.DB) *sql.TxOptions {
	switch db.Dialector.Name() {
	case "postgres", "mysql":
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	default:
		return nil
	}
}
