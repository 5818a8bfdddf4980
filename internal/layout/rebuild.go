package layout

import (
	"context"
	"fmt"
	"log/slog"
)

// GraphStore is the slice of the graph the rebuilder needs: the
// classification groups to pack, and a way to push the resulting
// positions back so the graph's adjacency chain matches the shelf.
type GraphStore interface {
	Groups(ctx context.Context) ([]Group, error)
	ApplyLayout(ctx context.Context, positions []Position) error
}

// Rebuilder recomputes the whole shelf from the graph's current state.
type Rebuilder struct {
	graph         GraphStore
	store         *Store
	booksPerShelf int
	totalShelves  int
	logger        *slog.Logger
}

// NewRebuilder wires a rebuilder.
func NewRebuilder(graph GraphStore, store *Store, booksPerShelf, totalShelves int, logger *slog.Logger) *Rebuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rebuilder{
		graph:         graph,
		store:         store,
		booksPerShelf: booksPerShelf,
		totalShelves:  totalShelves,
		logger:        logger.With("component", "layout"),
	}
}

// Rebuild fetches the classification groups, packs them, replaces the
// stored layout, and syncs positions back into the graph. When the
// graph holds no books the current layout is kept and a warning logged.
func (r *Rebuilder) Rebuild(ctx context.Context) error {
	groups, err := r.graph.Groups(ctx)
	if err != nil {
		return fmt.Errorf("loading classification groups: %w", err)
	}
	if len(groups) == 0 {
		r.logger.Warn("no classification groups, keeping existing layout")
		return nil
	}

	positions := Pack(groups, r.booksPerShelf)

	if err := r.store.Replace(ctx, positions, r.booksPerShelf, r.totalShelves); err != nil {
		return fmt.Errorf("persisting layout: %w", err)
	}
	if err := r.graph.ApplyLayout(ctx, positions); err != nil {
		return fmt.Errorf("syncing layout to graph: %w", err)
	}

	r.logger.Info("shelf layout rebuilt", "books", len(positions))
	return nil
}
