package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/layout"
)

const cypherGroups = `
MATCH (b:Book)
OPTIONAL MATCH (b)-[:CLASSIFIED_AS]->(n:NDC)
WITH coalesce(n.code, $unclassified) AS ndc, b
ORDER BY ndc, b.title
RETURN ndc, collect({isbn: b.isbn, title: b.title, cover: b.cover}) AS books`

const cypherShelfCells = `
MATCH (b:Book)
RETURN b.isbn AS id, b.title AS title, b.cover AS cover,
       coalesce(b.shelfRow, 0) AS row, coalesce(b.shelfCol, 0) AS col
ORDER BY row, col`

const (
	cypherClearChain = `
MATCH (:Book)-[r:NEXT]->(:Book)
DELETE r`

	cypherLinkNext = `
MATCH (a:Book {isbn: $left})
MATCH (b:Book {isbn: $right})
MERGE (a)-[:NEXT]->(b)`

	cypherSyncPosition = `
MATCH (b:Book {isbn: $isbn})
SET b.shelfRow = $row, b.shelfCol = $col`
)

// Cell is one occupied spot on the shelf grid.
type Cell struct {
	Row  int      `json:"row"`
	Col  int      `json:"col"`
	Book CellBook `json:"book"`
}

// CellBook is the book payload of a cell. ID is the ISBN.
type CellBook struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Cover string `json:"cover"`
}

// Groups returns all books bucketed by their leaf NDC code, ordered by
// code then title. Books without a classification land in the
// Unclassified bucket.
func (s *Store) Groups(ctx context.Context) ([]layout.Group, error) {
	records, err := s.read(ctx, cypherGroups, map[string]any{"unclassified": Unclassified})
	if err != nil {
		return nil, fmt.Errorf("loading groups: %w", err)
	}

	groups := make([]layout.Group, 0, len(records))
	for _, rec := range records {
		group := layout.Group{NDC: stringValue(rec, "ndc")}
		raw, _ := rec.Get("books")
		entries, _ := raw.([]any)
		for _, e := range entries {
			m, ok := e.(map[string]any)
			if !ok {
				continue
			}
			group.Books = append(group.Books, layout.Book{
				ISBN:  asString(m["isbn"]),
				Title: asString(m["title"]),
				Cover: asString(m["cover"]),
			})
		}
		if len(group.Books) > 0 {
			groups = append(groups, group)
		}
	}
	return groups, nil
}

// ShelfCells returns every book with its synced grid position.
func (s *Store) ShelfCells(ctx context.Context) ([]Cell, error) {
	records, err := s.read(ctx, cypherShelfCells, nil)
	if err != nil {
		return nil, fmt.Errorf("loading shelf cells: %w", err)
	}

	cells := make([]Cell, 0, len(records))
	for _, rec := range records {
		cells = append(cells, Cell{
			Row: intValue(rec, "row"),
			Col: intValue(rec, "col"),
			Book: CellBook{
				ID:    stringValue(rec, "id"),
				Title: stringValue(rec, "title"),
				Cover: stringValue(rec, "cover"),
			},
		})
	}
	return cells, nil
}

// ApplyLayout syncs the packed layout into the graph: it drops the old
// NEXT chain, links row neighbors left to right, and writes each book's
// row/col onto its node. Runs in one transaction.
func (s *Store) ApplyLayout(ctx context.Context, positions []layout.Position) error {
	err := s.write(ctx, func(r runner) error {
		return applySteps(ctx, r, positions)
	})
	if err != nil {
		return fmt.Errorf("applying layout: %w", err)
	}
	return nil
}

func applySteps(ctx context.Context, r runner, positions []layout.Position) error {
	if err := r.run(ctx, cypherClearChain, nil); err != nil {
		return err
	}

	rows := make(map[int][]layout.Position)
	for _, p := range positions {
		rows[p.Row] = append(rows[p.Row], p)
	}
	rowKeys := make([]int, 0, len(rows))
	for k := range rows {
		rowKeys = append(rowKeys, k)
	}
	sort.Ints(rowKeys)

	for _, row := range rowKeys {
		shelf := rows[row]
		sort.Slice(shelf, func(i, j int) bool { return shelf[i].Col < shelf[j].Col })
		for i := 0; i+1 < len(shelf); i++ {
			if err := r.run(ctx, cypherLinkNext, map[string]any{
				"left":  shelf[i].ISBN,
				"right": shelf[i+1].ISBN,
			}); err != nil {
				return err
			}
		}
	}

	for _, p := range positions {
		if err := r.run(ctx, cypherSyncPosition, map[string]any{
			"isbn": p.ISBN,
			"row":  p.Row,
			"col":  p.Col,
		}); err != nil {
			return err
		}
	}
	return nil
}

// read runs one query in a managed read transaction and collects all
// records.
func (s *Store) read(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]*neo4j.Record), nil
}

func stringValue(rec *neo4j.Record, key string) string {
	v, _ := rec.Get(key)
	return asString(v)
}

func intValue(rec *neo4j.Record, key string) int {
	v, _ := rec.Get(key)
	if n, ok := v.(int64); ok {
		return int(n)
	}
	return 0
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
