package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/api"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/catalog"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/hand"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/svcctx"
)

// HandListEndpoint handles GET /books/myhand.
type HandListEndpoint struct{}

func (e *HandListEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/books/myhand", e.handler
}

func (e *HandListEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List books in hand
//	@Description	List the staged books waiting to be shelved
//	@Tags			hand
//	@Produce		json
//	@Success		200	{array}		hand.Book
//	@Failure		500	{object}	ErrorResponse
//	@Router			/books/myhand [get]
func (e *HandListEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.HandFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "hand store not initialized")
		return
	}

	books, err := store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list hand")
		return
	}
	if books == nil {
		books = []hand.Book{}
	}
	writeJSON(w, http.StatusOK, books)
}

func (e *HandListEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "hand-list",
		Short: "List books in hand",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp []hand.Book
			if err := client.Get(cmd.Context(), "/books/myhand", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// AddToHandRequest is the body for POST /books/add_to_hand.
type AddToHandRequest struct {
	ISBN string `json:"isbn"`
}

// AddToHandResponse reports the staged book.
type AddToHandResponse struct {
	Message string `json:"message"`
	ISBN    string `json:"isbn"`
	ID      int64  `json:"id"`
}

// AddToHandEndpoint handles POST /books/add_to_hand.
type AddToHandEndpoint struct{}

func (e *AddToHandEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/books/add_to_hand", e.handler
}

func (e *AddToHandEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Stage a book
//	@Description	Fetch a book's metadata by ISBN and stage it in the hand list
//	@Tags			hand
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AddToHandRequest	true	"ISBN to stage"
//	@Success		200		{object}	AddToHandResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/books/add_to_hand [post]
func (e *AddToHandEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.HandFrom(r.Context())
	resolver := svcctx.CatalogFrom(r.Context())
	if store == nil || resolver == nil {
		writeError(w, http.StatusServiceUnavailable, "services not initialized")
		return
	}

	var req AddToHandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ISBN == "" {
		writeError(w, http.StatusBadRequest, "isbn is required")
		return
	}

	meta, err := resolver.FetchMetadata(r.Context(), req.ISBN)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			writeError(w, http.StatusNotFound, "book not found in catalog")
		case errors.Is(err, catalog.ErrUpstreamTimeout):
			writeError(w, http.StatusGatewayTimeout, "catalog lookup timed out")
		default:
			writeError(w, http.StatusInternalServerError, "catalog lookup failed")
		}
		return
	}

	id, existed, err := store.Add(r.Context(), hand.Book{
		ISBN:    meta.ISBN,
		Title:   meta.Title,
		Authors: strings.Join(meta.Authors, ", "),
		Cover:   meta.Cover,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to stage book")
		return
	}

	msg := "added"
	if existed {
		msg = "already exists"
	}
	writeJSON(w, http.StatusOK, AddToHandResponse{Message: msg, ISBN: meta.ISBN, ID: id})
}

func (e *AddToHandEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "hand-add <isbn>",
		Short: "Stage a book in hand by ISBN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp AddToHandResponse
			err := client.Post(cmd.Context(), "/books/add_to_hand",
				AddToHandRequest{ISBN: args[0]}, &resp)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s (id %d)\n", resp.Message, resp.ISBN, resp.ID)
			return nil
		},
	}
}

// RemoveFromHandResponse reports the removed book.
type RemoveFromHandResponse struct {
	Status        string `json:"status"`
	DeletedBookID string `json:"deleted_book_id"`
}

// RemoveFromHandEndpoint handles DELETE /books/remove_from_hand/{isbn}.
type RemoveFromHandEndpoint struct{}

func (e *RemoveFromHandEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/books/remove_from_hand/{isbn}", e.handler
}

func (e *RemoveFromHandEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Unstage a book
//	@Description	Remove a staged book from the hand list by ISBN
//	@Tags			hand
//	@Produce		json
//	@Param			isbn	path		string	true	"ISBN to remove"
//	@Success		200		{object}	RemoveFromHandResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/books/remove_from_hand/{isbn} [delete]
func (e *RemoveFromHandEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.HandFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "hand store not initialized")
		return
	}

	isbn := r.PathValue("isbn")
	if err := store.Remove(r.Context(), isbn); err != nil {
		if errors.Is(err, hand.ErrNotFound) {
			writeError(w, http.StatusNotFound, "book not in hand")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to remove book")
		return
	}

	writeJSON(w, http.StatusOK, RemoveFromHandResponse{Status: "success", DeletedBookID: isbn})
}

func (e *RemoveFromHandEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "hand-remove <isbn>",
		Short: "Remove a staged book from hand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp RemoveFromHandResponse
			path := "/books/remove_from_hand/" + url.PathEscape(args[0])
			if err := client.Delete(cmd.Context(), path, &resp); err != nil {
				return err
			}
			fmt.Printf("Removed %s\n", resp.DeletedBookID)
			return nil
		},
	}
}
