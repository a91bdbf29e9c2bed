package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"library-desk/internal/domain"
	"library-desk/internal/repository"
)

const createSnapshotTables = `
CREATE TABLE IF NOT EXISTS users (
	seq INTEGER NOT NULL,
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	active_loans INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS books (
	seq INTEGER NOT NULL,
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	author TEXT NOT NULL,
	available INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS loans (
	seq INTEGER NOT NULL,
	id INTEGER PRIMARY KEY,
	user_id TEXT NOT NULL,
	user_name TEXT NOT NULL,
	book_id TEXT NOT NULL,
	book_title TEXT NOT NULL,
	date TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS snapshot_meta (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	saved_at DATETIME NOT NULL
);
`

// userRow flattens the user type to a plain string for the driver.
type userRow struct {
	Seq         int64  `db:"seq"`
	ID          string `db:"id"`
	Name        string `db:"name"`
	Type        string `db:"type"`
	ActiveLoans int64  `db:"active_loans"`
}

type bookRow struct {
	Seq int64 `db:"seq"`
	domain.Book
}

type loanRow struct {
	Seq int64 `db:"seq"`
	domain.Loan
}

// SnapshotRepository stores the circulation snapshot as three ordered tables.
type SnapshotRepository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sql.DB) repository.SnapshotRepository {
	return &SnapshotRepository{db: sqlx.NewDb(db, "sqlite")}
}

func (r *SnapshotRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSnapshotTables); err != nil {
		return fmt.Errorf("create snapshot tables: %w", err)
	}
	return nil
}

func (r *SnapshotRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	var saved int
	if err := r.db.GetContext(ctx, &saved, `SELECT COUNT(*) FROM snapshot_meta`); err != nil {
		return nil, fmt.Errorf("read snapshot meta: %w", err)
	}
	if saved == 0 {
		return nil, nil
	}

	snap := domain.Snapshot{
		Users: []domain.User{},
		Books: []domain.Book{},
		Loans: []domain.Loan{},
	}
	if err := r.db.SelectContext(ctx, &snap.Users, `
SELECT id, name, type, active_loans
FROM users
ORDER BY seq ASC`); err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	if err := r.db.SelectContext(ctx, &snap.Books, `
SELECT id, title, author, available
FROM books
ORDER BY seq ASC`); err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	if err := r.db.SelectContext(ctx, &snap.Loans, `
SELECT id, user_id, user_name, book_id, book_title, date
FROM loans
ORDER BY seq ASC`); err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}

	return &snap, nil
}

// Save replaces the stored snapshot in a single transaction.
func (r *SnapshotRepository) Save(ctx context.Context, snapshot domain.Snapshot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	for _, table := range []string{"loans", "books", "users"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, user := range snapshot.Users {
		if _, err := tx.NamedExecContext(ctx, `
INSERT INTO users (seq, id, name, type, active_loans)
VALUES (:seq, :id, :name, :type, :active_loans)`, userRow{Seq: int64(i), ID: user.ID, Name: user.Name, Type: string(user.Type), ActiveLoans: int64(user.ActiveLoans)}); err != nil {
			return fmt.Errorf("insert user %s: %w", user.ID, err)
		}
	}
	for i, book := range snapshot.Books {
		if _, err := tx.NamedExecContext(ctx, `
INSERT INTO books (seq, id, title, author, available)
VALUES (:seq, :id, :title, :author, :available)`, bookRow{Seq: int64(i), Book: book}); err != nil {
			return fmt.Errorf("insert book %s: %w", book.ID, err)
		}
	}
	for i, loan := range snapshot.Loans {
		if _, err := tx.NamedExecContext(ctx, `
INSERT INTO loans (seq, id, user_id, user_name, book_id, book_title, date)
VALUES (:seq, :id, :user_id, :user_name, :book_id, :book_title, :date)`, loanRow{Seq: int64(i), Loan: loan}); err != nil {
			return fmt.Errorf("insert loan %d: %w", loan.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO snapshot_meta (id, saved_at)
VALUES (1, ?)
ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at`, time.Now().UTC()); err != nil {
		return fmt.Errorf("write snapshot meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}
