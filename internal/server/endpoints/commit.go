package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/api"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/hand"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/svcctx"
)

// AddFromHandRequest is the body for POST /books/add_from_hand.
// Meanings maps ISBN to a free-text note recorded alongside the book.
type AddFromHandRequest struct {
	ISBNs    []string          `json:"isbns"`
	Meanings map[string]string `json:"meanings,omitempty"`
}

// AddFromHandResponse reports what was shelved.
type AddFromHandResponse struct {
	Message string   `json:"message"`
	Shelved []string `json:"shelved"`
	Skipped []string `json:"skipped,omitempty"`
}

// AddFromHandEndpoint handles POST /books/add_from_hand. It commits
// staged books to the shelf: re-fetches metadata, ingests each book
// into the graph, clears it from the hand list, and rebuilds the
// layout once at the end.
type AddFromHandEndpoint struct{}

func (e *AddFromHandEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/books/add_from_hand", e.handler
}

func (e *AddFromHandEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Shelve staged books
//	@Description	Commit staged books to the shelf and rebuild the layout
//	@Tags			hand
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AddFromHandRequest	true	"ISBNs to shelve with optional notes"
//	@Success		200		{object}	AddFromHandResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/books/add_from_hand [post]
func (e *AddFromHandEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	svcs := svcctx.ServicesFrom(r.Context())
	if svcs == nil || svcs.Catalog == nil || svcs.Graph == nil ||
		svcs.Hand == nil || svcs.Rebuilder == nil {
		writeError(w, http.StatusServiceUnavailable, "services not initialized")
		return
	}
	logger := svcs.Logger

	var req AddFromHandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.ISBNs) == 0 {
		writeError(w, http.StatusBadRequest, "isbns is required")
		return
	}

	var shelved, skipped []string
	for _, isbn := range req.ISBNs {
		meta, err := svcs.Catalog.FetchMetadata(r.Context(), isbn)
		if err != nil {
			logger.Warn("skipping book, metadata fetch failed", "isbn", isbn, "error", err)
			skipped = append(skipped, isbn)
			continue
		}

		if err := svcs.Graph.Ingest(r.Context(), meta, req.Meanings[isbn]); err != nil {
			logger.Error("graph ingest failed", "isbn", isbn, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to shelve "+isbn)
			return
		}

		if err := svcs.Hand.Remove(r.Context(), isbn); err != nil && !errors.Is(err, hand.ErrNotFound) {
			logger.Warn("failed to clear book from hand", "isbn", isbn, "error", err)
		}
		shelved = append(shelved, isbn)
	}

	if len(shelved) > 0 {
		if err := svcs.Rebuilder.Rebuild(r.Context()); err != nil {
			logger.Error("layout rebuild failed", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to rebuild shelf layout")
			return
		}
	}

	writeJSON(w, http.StatusOK, AddFromHandResponse{
		Message: fmt.Sprintf("shelved %d of %d books", len(shelved), len(req.ISBNs)),
		Shelved: shelved,
		Skipped: skipped,
	})
}

func (e *AddFromHandEndpoint) Command(getServerURL func() string) *cobra.Command {
	var meanings []string

	cmd := &cobra.Command{
		Use:   "shelve <isbn> [isbn...]",
		Short: "Shelve staged books and rebuild the layout",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := AddFromHandRequest{ISBNs: args}
			for _, m := range meanings {
				isbn, text, ok := splitPair(m)
				if !ok {
					return fmt.Errorf("invalid --meaning %q, want isbn=text", m)
				}
				if req.Meanings == nil {
					req.Meanings = make(map[string]string)
				}
				req.Meanings[isbn] = text
			}

			client := api.NewClient(getServerURL())
			var resp AddFromHandResponse
			if err := client.Post(cmd.Context(), "/books/add_from_hand", req, &resp); err != nil {
				return err
			}
			fmt.Println(resp.Message)
			for _, isbn := range resp.Skipped {
				fmt.Printf("skipped: %s\n", isbn)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&meanings, "meaning", nil,
		"Note to attach, as isbn=text (repeatable)")
	return cmd
}

func splitPair(s string) (key, value string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			if i == 0 {
				return "", "", false
			}
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}
