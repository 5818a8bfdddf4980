package layout

import (
	"context"
	"database/sql"
	"fmt"
)

// Store persists the computed layout in SQLite. The table always holds
// exactly one full layout; rebuilds replace it wholesale.
type Store struct {
	db *sql.DB
}

// NewStore creates the layout table if needed and returns the store.
func NewStore(db *sql.DB) (*Store, error) {
	const schema = `
CREATE TABLE IF NOT EXISTS shelf_layout (
	isbn            TEXT PRIMARY KEY,
	row             INTEGER NOT NULL,
	col             INTEGER NOT NULL,
	books_per_shelf INTEGER NOT NULL,
	total_shelves   INTEGER NOT NULL
)`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("creating layout table: %w", err)
	}
	return &Store{db: db}, nil
}

// Replace swaps the stored layout for the given positions in a single
// transaction, so readers never observe a half-written layout.
func (s *Store) Replace(ctx context.Context, positions []Position, booksPerShelf, totalShelves int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting layout transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM shelf_layout"); err != nil {
		return fmt.Errorf("clearing layout: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO shelf_layout (isbn, row, col, books_per_shelf, total_shelves) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing layout insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range positions {
		if _, err := stmt.ExecContext(ctx, p.ISBN, p.Row, p.Col, booksPerShelf, totalShelves); err != nil {
			return fmt.Errorf("inserting position for %s: %w", p.ISBN, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing layout: %w", err)
	}
	return nil
}

// Positions returns the stored layout ordered by row then column.
func (s *Store) Positions(ctx context.Context) ([]Position, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT isbn, row, col FROM shelf_layout ORDER BY row, col")
	if err != nil {
		return nil, fmt.Errorf("reading layout: %w", err)
	}
	defer rows.Close()

	var positions []Position
	for rows.Next() {
		var p Position
		if err := rows.Scan(&p.ISBN, &p.Row, &p.Col); err != nil {
			return nil, fmt.Errorf("scanning layout row: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}
