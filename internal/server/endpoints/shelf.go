package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/api"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/graph"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/svcctx"
)

// ShelfResponse is the rendered shelf grid. Rows grows past the
// configured shelf count when the books overflow it.
type ShelfResponse struct {
	Rows  int          `json:"rows"`
	Cols  int          `json:"cols"`
	Cells []graph.Cell `json:"cells"`
}

// ShelfEndpoint handles GET /shelf.
type ShelfEndpoint struct{}

func (e *ShelfEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/shelf", e.handler
}

func (e *ShelfEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get the shelf grid
//	@Description	Return every shelved book with its grid position
//	@Tags			shelf
//	@Produce		json
//	@Success		200	{object}	ShelfResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/shelf [get]
func (e *ShelfEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.GraphFrom(r.Context())
	cm := svcctx.ConfigFrom(r.Context())
	if store == nil || cm == nil {
		writeError(w, http.StatusServiceUnavailable, "services not initialized")
		return
	}

	cells, err := store.ShelfCells(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load shelf")
		return
	}

	cfg := cm.Get()
	rows := cfg.Shelf.TotalShelves
	for _, c := range cells {
		if c.Row+1 > rows {
			rows = c.Row + 1
		}
	}

	writeJSON(w, http.StatusOK, ShelfResponse{
		Rows:  rows,
		Cols:  cfg.Shelf.BooksPerShelf,
		Cells: cells,
	})
}

func (e *ShelfEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "shelf",
		Short: "Show the shelf grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ShelfResponse
			if err := client.Get(cmd.Context(), "/shelf", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
