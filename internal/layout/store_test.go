package layout

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/db"
)

func testLayoutStore(t *testing.T) *Store {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	s, err := NewStore(conn)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	return s
}

func TestReplaceAndPositions(t *testing.T) {
	s := testLayoutStore(t)
	ctx := context.Background()

	first := []Position{
		{ISBN: "a", Row: 0, Col: 0},
		{ISBN: "b", Row: 0, Col: 1},
	}
	if err := s.Replace(ctx, first, 5, 3); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	second := []Position{
		{ISBN: "c", Row: 1, Col: 0},
		{ISBN: "a", Row: 0, Col: 0},
	}
	if err := s.Replace(ctx, second, 5, 3); err != nil {
		t.Fatalf("second Replace: %v", err)
	}

	got, err := s.Positions(ctx)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	want := []Position{
		{ISBN: "a", Row: 0, Col: 0},
		{ISBN: "c", Row: 1, Col: 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Positions = %+v, want %+v (old layout must be gone)", got, want)
	}
}

func TestReplaceEmptyClearsLayout(t *testing.T) {
	s := testLayoutStore(t)
	ctx := context.Background()

	if err := s.Replace(ctx, []Position{{ISBN: "a"}}, 5, 3); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := s.Replace(ctx, nil, 5, 3); err != nil {
		t.Fatalf("empty Replace: %v", err)
	}

	got, err := s.Positions(ctx)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Positions = %+v, want empty", got)
	}
}

// fakeGraph implements GraphStore for rebuild tests.
type fakeGraph struct {
	groups  []Group
	applied []Position
	err     error
}

func (f *fakeGraph) Groups(context.Context) ([]Group, error) { return f.groups, f.err }
func (f *fakeGraph) ApplyLayout(_ context.Context, positions []Position) error {
	f.applied = positions
	return nil
}

func TestRebuild(t *testing.T) {
	s := testLayoutStore(t)
	graph := &fakeGraph{groups: []Group{
		{NDC: "400", Books: books("a", "b", "c")},
		{NDC: "913", Books: books("d", "e")},
	}}

	r := NewRebuilder(graph, s, 3, 2, nil)
	if err := r.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	stored, err := s.Positions(context.Background())
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	if len(stored) != 5 {
		t.Errorf("stored %d positions, want 5", len(stored))
	}
	if !reflect.DeepEqual(graph.applied, stored) {
		t.Errorf("graph layout %+v differs from stored %+v", graph.applied, stored)
	}
}

func TestRebuildNoGroupsKeepsLayout(t *testing.T) {
	s := testLayoutStore(t)
	ctx := context.Background()

	if err := s.Replace(ctx, []Position{{ISBN: "a"}}, 3, 2); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	graph := &fakeGraph{}
	r := NewRebuilder(graph, s, 3, 2, nil)
	if err := r.Rebuild(ctx); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	stored, err := s.Positions(ctx)
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	if len(stored) != 1 {
		t.Errorf("layout was changed despite empty groups: %+v", stored)
	}
	if graph.applied != nil {
		t.Errorf("ApplyLayout must not run for empty groups")
	}
}

func TestRebuildGroupsError(t *testing.T) {
	s := testLayoutStore(t)
	graph := &fakeGraph{err: errors.New("boom")}
	r := NewRebuilder(graph, s, 3, 2, nil)
	if err := r.Rebuild(context.Background()); err == nil {
		t.Error("Rebuild must propagate graph errors")
	}
}
