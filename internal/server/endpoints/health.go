package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/api"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/svcctx"
)

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status string `json:"status"`
	Neo4j  string `json:"neo4j,omitempty"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresInit() bool { return false }

func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			return nil
		},
	}
}

// ReadyEndpoint handles GET /ready.
type ReadyEndpoint struct{}

func (e *ReadyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/ready", e.handler
}

func (e *ReadyEndpoint) RequiresInit() bool { return false }

func (e *ReadyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Neo4j: "ok"}

	store := svcctx.GraphFrom(r.Context())
	if store != nil {
		if err := store.Ping(r.Context()); err != nil {
			resp.Status = "degraded"
			resp.Neo4j = "unhealthy"
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	} else {
		resp.Status = "degraded"
		resp.Neo4j = "not_initialized"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *ReadyEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "ready",
		Short: "Check server readiness (includes Neo4j)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/ready", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			if resp.Neo4j != "" {
				fmt.Printf("Neo4j:  %s\n", resp.Neo4j)
			}
			return nil
		},
	}
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server string      `json:"server"`
	Neo4j  Neo4jStatus `json:"neo4j"`
	Shelf  ShelfStatus `json:"shelf"`
}

// Neo4jStatus shows Neo4j container and health status.
type Neo4jStatus struct {
	Container string `json:"container"`
	Health    string `json:"health"`
	URI       string `json:"uri,omitempty"`
}

// ShelfStatus shows the configured shelf dimensions.
type ShelfStatus struct {
	BooksPerShelf int `json:"books_per_shelf"`
	TotalShelves  int `json:"total_shelves"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct{}

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) RequiresInit() bool { return false }

func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Server: "running",
	}

	// Neo4j container status, only meaningful when managed by us
	if mgr := svcctx.DockerFrom(r.Context()); mgr != nil {
		status, err := mgr.Status(r.Context())
		if err != nil {
			resp.Neo4j.Container = "error"
		} else {
			resp.Neo4j.Container = string(status)
		}
		resp.Neo4j.URI = mgr.BoltURL()
	} else {
		resp.Neo4j.Container = "unmanaged"
	}

	if store := svcctx.GraphFrom(r.Context()); store != nil {
		if err := store.Ping(r.Context()); err != nil {
			resp.Neo4j.Health = "unhealthy"
		} else {
			resp.Neo4j.Health = "healthy"
		}
	} else {
		resp.Neo4j.Health = "not_initialized"
	}

	if cm := svcctx.ConfigFrom(r.Context()); cm != nil {
		cfg := cm.Get()
		resp.Shelf.BooksPerShelf = cfg.Shelf.BooksPerShelf
		resp.Shelf.TotalShelves = cfg.Shelf.TotalShelves
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			fmt.Printf("Server: %s\n", resp.Server)
			fmt.Printf("Neo4j:\n")
			fmt.Printf("  Container: %s\n", resp.Neo4j.Container)
			fmt.Printf("  Health:    %s\n", resp.Neo4j.Health)
			if resp.Neo4j.URI != "" {
				fmt.Printf("  URI:       %s\n", resp.Neo4j.URI)
			}
			fmt.Printf("Shelf:\n")
			fmt.Printf("  Books per shelf: %d\n", resp.Shelf.BooksPerShelf)
			fmt.Printf("  Total shelves:   %d\n", resp.Shelf.TotalShelves)
			return nil
		},
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
