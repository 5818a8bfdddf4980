// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/catalog"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/config"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/graph"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/hand"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/home"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/layout"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Config    *config.Manager
	Catalog   *catalog.Resolver
	Graph     *graph.Store
	Hand      *hand.Store
	Layout    *layout.Store
	Rebuilder *layout.Rebuilder
	Docker    *graph.DockerManager
	Logger    *slog.Logger
	Home      *home.Dir
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// ConfigFrom extracts the config manager from context.
func ConfigFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.Config
	}
	return nil
}

// CatalogFrom extracts the catalog resolver from context.
func CatalogFrom(ctx context.Context) *catalog.Resolver {
	if s := ServicesFrom(ctx); s != nil {
		return s.Catalog
	}
	return nil
}

// GraphFrom extracts the graph store from context.
func GraphFrom(ctx context.Context) *graph.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Graph
	}
	return nil
}

// HandFrom extracts the hand store from context.
func HandFrom(ctx context.Context) *hand.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Hand
	}
	return nil
}

// LayoutFrom extracts the layout store from context.
func LayoutFrom(ctx context.Context) *layout.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Layout
	}
	return nil
}

// RebuilderFrom extracts the layout rebuilder from context.
func RebuilderFrom(ctx context.Context) *layout.Rebuilder {
	if s := ServicesFrom(ctx); s != nil {
		return s.Rebuilder
	}
	return nil
}

// DockerFrom extracts the Neo4j container manager from context.
// Returns nil when the container is not managed by this process.
func DockerFrom(ctx context.Context) *graph.DockerManager {
	if s := ServicesFrom(ctx); s != nil {
		return s.Docker
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}
