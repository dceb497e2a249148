package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/snowoball/statusrota/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewSQLiteUnitOfWork(database)
}

func insertDoc(ctx context.Context, tx db.DBTX, resource, body string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO documents (resource, body, updated_at) VALUES (?, ?, '2026-01-01T00:00:00Z')`,
		resource, body)
	return err
}

func docExists(t *testing.T, database *sql.DB, resource string) bool {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM documents WHERE resource = ?`, resource).Scan(&n))
	return n > 0
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	database, uow := openTestDB(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertDoc(ctx, tx, "presets", "[]")
	})
	require.NoError(t, err)
	assert.True(t, docExists(t, database, "presets"))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database, uow := openTestDB(t)
	failure := errors.New("deliberate failure")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertDoc(ctx, tx, "statuses", "[]"); err != nil {
			return err
		}
		return failure
	})
	assert.ErrorIs(t, err, failure)
	assert.False(t, docExists(t, database, "statuses"))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := openTestDB(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertDoc(ctx, tx, "settings", "[]")
			panic("boom")
		})
	})
	assert.False(t, docExists(t, database, "settings"))
}

func TestDocuments_RejectUnknownResource(t *testing.T) {
	_, uow := openTestDB(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertDoc(ctx, tx, "active", "[]")
	})
	assert.Error(t, err)
}
