package authority

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/agentstation/taxsync/pkg/constants"
	"github.com/agentstation/taxsync/pkg/errors"
)

// countQuery counts nodes rows with an exact tax_id match.
var countQuery = fmt.Sprintf("SELECT COUNT(tax_id) FROM %s WHERE tax_id = ?", constants.NodesTable)

// SQLite is an Authority backed by a taxonomy database's nodes table.
// The database is opened read-only and never written.
type SQLite struct {
	path  string
	db    *sql.DB
	count *sql.Stmt
}

// Open opens the taxonomy database at path in read-only mode and verifies
// that it holds a nodes relation. Every failure is an AuthorityError.
func Open(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.NewAuthorityError("open", path, errors.New("database path is empty"))
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, errors.NewAuthorityError("open", path, errors.NewNotFoundError("database", path))
	}
	if err != nil {
		return nil, errors.WrapAuthority("open", path, err)
	}
	if info.IsDir() {
		return nil, errors.NewAuthorityError("open", path, errors.New("path is a directory"))
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, errors.WrapAuthority("open", path, err)
	}
	// One reader for the whole run.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.WrapAuthority("ping", path, err)
	}

	var tableCount int
	err = db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type IN ('table', 'view') AND name = ?",
		constants.NodesTable,
	).Scan(&tableCount)
	if err != nil {
		_ = db.Close()
		return nil, errors.WrapAuthority("inspect", path, err)
	}
	if tableCount == 0 {
		_ = db.Close()
		return nil, errors.NewAuthorityError("inspect", path,
			errors.NewNotFoundError("relation", constants.NodesTable))
	}

	stmt, err := db.PrepareContext(ctx, countQuery)
	if err != nil {
		_ = db.Close()
		return nil, errors.WrapAuthority("prepare", path, err)
	}

	return &SQLite{path: path, db: db, count: stmt}, nil
}

// dsn builds a read-only URI filename for path.
func dsn(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	q := url.Values{}
	q.Set("mode", "ro")
	u.RawQuery = q.Encode()
	return u.String()
}

// Count implements Authority.
func (s *SQLite) Count(ctx context.Context, id string) (int, error) {
	var n int
	if err := s.count.QueryRowContext(ctx, id).Scan(&n); err != nil {
		return 0, errors.WrapAuthority("query", s.path, err)
	}
	return n, nil
}

// Path returns the database location.
func (s *SQLite) Path() string {
	return s.path
}

// Close releases the prepared statement and the database handle.
func (s *SQLite) Close() error {
	stmtErr := s.count.Close()
	if err := s.db.Close(); err != nil {
		return errors.WrapAuthority("close", s.path, err)
	}
	return errors.WrapAuthority("close", s.path, stmtErr)
}
