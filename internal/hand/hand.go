// Package hand stores the transient "in hand" book list, the staging
// area between a catalog search and shelving.
package hand

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound reports that an ISBN is not in the hand list.
var ErrNotFound = errors.New("book not in hand")

// Book is one staged entry. Authors holds a comma-joined list.
type Book struct {
	ID      int64  `json:"id"`
	ISBN    string `json:"isbn"`
	Title   string `json:"title"`
	Authors string `json:"authors"`
	Cover   string `json:"cover"`
}

// Store persists the hand list in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates the table if needed and returns the store.
func NewStore(db *sql.DB) (*Store, error) {
	const schema = `
CREATE TABLE IF NOT EXISTS my_hand (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	isbn    TEXT NOT NULL UNIQUE,
	title   TEXT NOT NULL DEFAULT '',
	authors TEXT NOT NULL DEFAULT '',
	cover   TEXT NOT NULL DEFAULT ''
)`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("creating hand table: %w", err)
	}
	return &Store{db: db}, nil
}

// List returns all staged books in insertion order.
func (s *Store) List(ctx context.Context) ([]Book, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, isbn, title, authors, cover FROM my_hand ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing hand: %w", err)
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.ISBN, &b.Title, &b.Authors, &b.Cover); err != nil {
			return nil, fmt.Errorf("scanning hand row: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// Add stages a book. If the ISBN is already staged the existing row is
// left untouched and existed is true.
func (s *Store) Add(ctx context.Context, b Book) (id int64, existed bool, err error) {
	err = s.db.QueryRowContext(ctx,
		"SELECT id FROM my_hand WHERE isbn = ?", b.ISBN).Scan(&id)
	switch {
	case err == nil:
		return id, true, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, false, fmt.Errorf("checking hand for %s: %w", b.ISBN, err)
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO my_hand (isbn, title, authors, cover) VALUES (?, ?, ?, ?)",
		b.ISBN, b.Title, b.Authors, b.Cover)
	if err != nil {
		return 0, false, fmt.Errorf("adding %s to hand: %w", b.ISBN, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("reading inserted id: %w", err)
	}
	return id, false, nil
}

// Remove deletes a staged book by ISBN. Returns ErrNotFound when the
// ISBN was not staged.
func (s *Store) Remove(ctx context.Context, isbn string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM my_hand WHERE isbn = ?", isbn)
	if err != nil {
		return fmt.Errorf("removing %s from hand: %w", isbn, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, isbn)
	}
	return nil
}
