package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/snowoball/statusrota/internal/configapi"
	"github.com/snowoball/statusrota/internal/db"
)

// SQLiteStore keeps documents in the documents table and appends every
// write to document_revisions.
type SQLiteStore struct {
	db       *sql.DB
	uow      db.UnitOfWork
	now      func() time.Time
	notifier notifier
	owned    bool
}

// NewSQLiteStore wraps an already migrated database. Closing the store does
// not close database.
func NewSQLiteStore(database *sql.DB) *SQLiteStore {
	return &SQLiteStore{
		db:  database,
		uow: db.NewSQLiteUnitOfWork(database),
		now: time.Now,
	}
}

// OpenSQLiteStore opens (and migrates) the database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	database, err := db.OpenDB(path)
	if err != nil {
		return nil, err
	}
	s := NewSQLiteStore(database)
	s.owned = true
	return s, nil
}

func (s *SQLiteStore) Read(ctx context.Context, resource configapi.Resource) ([]byte, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE resource = ?`, string(resource)).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return emptyList, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrRead, resource, err)
	}
	return []byte(body), nil
}

func (s *SQLiteStore) Write(ctx context.Context, resource configapi.Resource, body []byte) error {
	ts := s.now().UTC().Format(time.RFC3339)
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO documents (resource, body, revision, updated_at) VALUES (?, ?, 1, ?)
			ON CONFLICT(resource) DO UPDATE SET
				body = excluded.body,
				revision = documents.revision + 1,
				updated_at = excluded.updated_at`,
			string(resource), string(body), ts); err != nil {
			return err
		}

		var revision int
		if err := tx.QueryRowContext(ctx, `SELECT revision FROM documents WHERE resource = ?`, string(resource)).Scan(&revision); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO document_revisions (resource, revision, body, written_at) VALUES (?, ?, ?, ?)`,
			string(resource), revision, string(body), ts)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w %s: %v", ErrWrite, resource, err)
	}

	s.notifier.publish(resource)
	return nil
}

// Revision is one historical write of a document.
type Revision struct {
	Number    int
	Body      []byte
	WrittenAt time.Time
}

// History returns every stored revision of resource, newest first.
func (s *SQLiteStore) History(ctx context.Context, resource configapi.Resource) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT revision, body, written_at FROM document_revisions WHERE resource = ? ORDER BY revision DESC`,
		string(resource))
	if err != nil {
		return nil, fmt.Errorf("%w %s history: %v", ErrRead, resource, err)
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		var (
			rev  Revision
			body string
			ts   string
		)
		if err := rows.Scan(&rev.Number, &body, &ts); err != nil {
			return nil, fmt.Errorf("%w %s history: %v", ErrRead, resource, err)
		}
		rev.Body = []byte(body)
		rev.WrittenAt, _ = time.Parse(time.RFC3339, ts)
		out = append(out, rev)
	}
	return out, rows.Err()
}

// Changes reports writes made through this store.
func (s *SQLiteStore) Changes(ctx context.Context) (<-chan configapi.Resource, error) {
	return s.notifier.subscribe(ctx), nil
}

func (s *SQLiteStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}
