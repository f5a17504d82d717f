package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/devsnippet/internal/apperror"
	"github.com/sakif/devsnippet/internal/auth"
	"github.com/sakif/devsnippet/internal/repository"
	"github.com/sakif/devsnippet/internal/service"
)

// SnippetHandler serves the snippet CRUD endpoints. Every route here sits
// behind auth.RequireAuth, so the acting user is always in the context.
type SnippetHandler struct {
	snippets *service.SnippetService
	logger   *slog.Logger
}

func NewSnippetHandler(snippets *service.SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{snippets: snippets, logger: logger}
}

// actingUser pulls the authenticated userID from the context. On a
// protected route it is always present; the guard is for a misconfigured
// route table, which should fail closed.
func actingUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("valid authentication required"))
		return "", false
	}
	return userID, true
}

// decodeInput parses a snippet request body.
func decodeInput(w http.ResponseWriter, r *http.Request) (service.SnippetInput, bool) {
	var input service.SnippetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return input, false
	}
	return input, true
}

// HandleCreate saves a new snippet for the acting user.
//
// HTTP: POST /api/snippets
// Body: {"title", "language", "code", "description"?, "tags"?, "isFavorite"?}
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}
	input, ok := decodeInput(w, r)
	if !ok {
		return
	}

	snippet, err := h.snippets.Create(r.Context(), userID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleList returns the acting user's snippets, newest first.
//
// HTTP: GET /api/snippets?q=&language=&tag=
//   - q: case-insensitive substring over title/description/code/language/tags
//   - language: exact match
//   - tag: exact element match
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := repository.SnippetFilter{
		Query:    query.Get("q"),
		Language: query.Get("language"),
		Tag:      query.Get("tag"),
	}

	snippets, err := h.snippets.List(r.Context(), userID, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippets)
}

// HandleUpdate replaces a snippet's editable fields wholesale.
//
// HTTP: PUT /api/snippets/{id}
// Body: same as create. 404 when the id doesn't exist or isn't yours.
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}
	input, ok := decodeInput(w, r)
	if !ok {
		return
	}

	snippet, err := h.snippets.Update(r.Context(), userID, r.PathValue("id"), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleToggleFavorite flips the favorite flag.
//
// HTTP: PATCH /api/snippets/{id}/favorite
func (h *SnippetHandler) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}

	snippet, err := h.snippets.ToggleFavorite(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleDelete removes a snippet.
//
// HTTP: DELETE /api/snippets/{id}
// 200:  {"message": "deleted"}
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}

	if err := h.snippets.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
