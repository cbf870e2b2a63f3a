// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// DRIVER:
// modernc.org/sqlite is a pure Go build of SQLite, registered as "sqlite".
// ":memory:" gives every test its own throwaway database.
//
// LAYOUT:
// DB owns the connection pool and the schema. Each table gets a small
// repository type (UserDB, ItemDB, ...) that borrows the DB's query handle, so
// the same repository code runs against the pool or inside a transaction.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	sqlitedriver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/shareit/internal/repository"
)

// compile-time check that *DB implements repository.Store
var _ repository.Store = (*DB)(nil)

// SQLite's built-in LOWER() and LIKE fold ASCII only, so "Дрель" never
// matches "дрель". fold_lower lowercases with Go's Unicode tables; search
// applies it to both the column and the pattern.
func init() {
	if err := sqlitedriver.RegisterDeterministicScalarFunction("fold_lower", 1, foldLower); err != nil {
		panic(fmt.Sprintf("sqlite: registering fold_lower: %v", err))
	}
}

func foldLower(_ *sqlitedriver.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// queryer is the part of *sql.DB and *sql.Tx the repositories use.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB is the SQLite-backed Store.
//
// A DB returned by New talks to the pool. Inside Atomic, fn receives a copy
// whose q is the open transaction.
type DB struct {
	conn *sql.DB
	q    queryer
	tx   *sql.Tx
}

// New opens the database at dbPath, applies pragmas and runs migrations.
//
// dbPath examples:
//   - "data/shareit.db" → file-based database (persistent)
//   - ":memory:"        → in-memory database (tests)
//
// ONE CONNECTION:
// The pool is capped at a single connection. SQLite allows one writer at a
// time anyway, and with one connection every transaction runs to completion
// before the next begins, which keeps read-check-write sequences such as
// "approve only if still WAITING" race-free. It also keeps a ":memory:"
// database alive for the lifetime of the pool.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets readers proceed while a write is in flight.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. Deleting a user cascades
	// through items, requests, bookings and comments, so we need them on.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn, q: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks the database is reachable; used by the health endpoint.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func (db *DB) Users() repository.UserRepository       { return &UserDB{db: db} }
func (db *DB) Items() repository.ItemRepository       { return &ItemDB{db: db} }
func (db *DB) Requests() repository.RequestRepository { return &RequestDB{db: db} }
func (db *DB) Bookings() repository.BookingRepository { return &BookingDB{db: db} }
func (db *DB) Comments() repository.CommentRepository { return &CommentDB{db: db} }

// Atomic runs fn inside a transaction.
//
// Nested calls join the outer transaction: a DB that already holds a tx just
// runs fn against itself. The transaction is rolled back if fn returns an
// error or panics.
func (db *DB) Atomic(ctx context.Context, fn func(repository.Store) error) (err error) {
	if db.tx != nil {
		return fn(db)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(&DB{conn: db.conn, q: tx, tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing transaction: %w", err)
	}
	return nil
}

// migrate runs all database migrations.
//
// CREATE TABLE IF NOT EXISTS is idempotent, so this runs on every start.
// Columns added after the first release go through addColumnIfNotExists.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id    INTEGER PRIMARY KEY AUTOINCREMENT,
			name  TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL UNIQUE
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS requests (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			description  TEXT NOT NULL,
			requester_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created      TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_requests_requester_id ON requests(requester_id);
	`)
	if err != nil {
		return fmt.Errorf("creating requests table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name        TEXT NOT NULL,
			description TEXT NOT NULL,
			available   INTEGER NOT NULL DEFAULT 1
		);
		CREATE INDEX IF NOT EXISTS idx_items_owner_id ON items(owner_id);
	`)
	if err != nil {
		return fmt.Errorf("creating items table: %w", err)
	}

	// Items answering a request came later than items themselves.
	if err := db.addColumnIfNotExists("items", "request_id",
		"INTEGER REFERENCES requests(id) ON DELETE SET NULL"); err != nil {
		return fmt.Errorf("adding request_id to items: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE INDEX IF NOT EXISTS idx_items_request_id ON items(request_id);
	`)
	if err != nil {
		return fmt.Errorf("creating items request_id index: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS bookings (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			item_id   INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
			booker_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			start_at  TEXT NOT NULL,
			end_at    TEXT NOT NULL,
			status    TEXT NOT NULL CHECK (status IN ('WAITING', 'APPROVED', 'REJECTED'))
		);
		CREATE INDEX IF NOT EXISTS idx_bookings_booker_id ON bookings(booker_id, start_at);
		CREATE INDEX IF NOT EXISTS idx_bookings_item_id ON bookings(item_id, start_at);
	`)
	if err != nil {
		return fmt.Errorf("creating bookings table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS comments (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			item_id   INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
			author_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			text      TEXT NOT NULL,
			created   TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_comments_item_id ON comments(item_id);
	`)
	if err != nil {
		return fmt.Errorf("creating comments table: %w", err)
	}

	return nil
}

// addColumnIfNotExists adds a column to a table only if it doesn't already exist.
// Makes ALTER TABLE migrations idempotent: safe to run multiple times.
func (db *DB) addColumnIfNotExists(table, column, definition string) error {
	var count int
	err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
		table, column,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking column %s.%s: %w", table, column, err)
	}
	if count > 0 {
		return nil
	}
	_, err = db.conn.Exec(fmt.Sprintf(
		`ALTER TABLE %s ADD COLUMN %s %s`, table, column, definition,
	))
	return err
}

// TIME STORAGE:
// Timestamps are stored as fixed-width UTC text. Every value has the same
// length and zone, so SQL string comparison (start_at > ?) orders them the
// same way time.Time does.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func encodeTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func decodeTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parsing time %q: %w", s, err)
	}
	return t, nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqlErr *sqlitedriver.Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

// inClause returns "?,?,?" and the matching args for an IN (...) list.
func inClause(ids []int64) (string, []any) {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return strings.TrimSuffix(strings.Repeat("?,", len(ids)), ","), args
}

// nullableID converts an optional id to a value database/sql accepts.
func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func idPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
