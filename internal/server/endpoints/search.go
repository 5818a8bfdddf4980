package endpoints

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/api"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/catalog"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/svcctx"
)

// SearchEndpoint handles GET /search.
type SearchEndpoint struct{}

func (e *SearchEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/search", e.handler
}

func (e *SearchEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Search the catalog
//	@Description	Search the NDL catalog and return one page of hits with covers
//	@Tags			search
//	@Produce		json
//	@Param			q			query		string	true	"Search query"
//	@Param			page		query		int		false	"Page number (default 1)"
//	@Param			per_page	query		int		false	"Page size (default 20, max 100)"
//	@Success		200	{object}	catalog.SearchResult
//	@Failure		400	{object}	ErrorResponse
//	@Failure		502	{object}	ErrorResponse
//	@Failure		504	{object}	ErrorResponse
//	@Router			/search [get]
func (e *SearchEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resolver := svcctx.CatalogFrom(r.Context())
	if resolver == nil {
		writeError(w, http.StatusServiceUnavailable, "catalog not initialized")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	page := intParam(r, "page", 1)
	perPage := intParam(r, "per_page", 20)

	result, err := resolver.Search(r.Context(), query, page, perPage)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrUpstreamTimeout):
			writeError(w, http.StatusGatewayTimeout, "catalog search timed out")
		case errors.Is(err, catalog.ErrUpstreamStatus):
			writeError(w, http.StatusBadGateway, "catalog returned an error")
		default:
			writeError(w, http.StatusInternalServerError, "search failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (e *SearchEndpoint) Command(getServerURL func() string) *cobra.Command {
	var page, perPage int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			path := "/search?q=" + url.QueryEscape(args[0]) +
				"&page=" + strconv.Itoa(page) +
				"&per_page=" + strconv.Itoa(perPage)

			var resp catalog.SearchResult
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&perPage, "per-page", 20, "Results per page (max 100)")
	return cmd
}

// intParam reads an integer query parameter, falling back to def on
// absence or garbage.
func intParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
