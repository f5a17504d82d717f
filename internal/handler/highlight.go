package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/devsnippet/internal/highlight"
)

// HighlightHandler renders snippet code as highlighted HTML for the
// dashboard. Highlighting happens server-side so the client ships no
// grammar bundles — it just injects the returned fragment.
type HighlightHandler struct {
	renderer *highlight.Renderer
	logger   *slog.Logger
}

func NewHighlightHandler(renderer *highlight.Renderer, logger *slog.Logger) *HighlightHandler {
	return &HighlightHandler{renderer: renderer, logger: logger}
}

// highlightRequest mirrors the two snippet fields highlighting needs.
type highlightRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// HandleHighlight returns an HTML fragment for the given code.
//
// HTTP: POST /api/highlight
// Body: {"code": "...", "language": "py"}
// 200:  {"html": "<pre ...>...</pre>", "recognized": true}
//
// The fragment is built from escaped tokens, so snippet content can't
// smuggle markup into the dashboard.
func (h *HighlightHandler) HandleHighlight(w http.ResponseWriter, r *http.Request) {
	var req highlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	html, err := h.renderer.RenderString(req.Code, req.Language)
	if err != nil {
		h.logger.Error("highlighting failed",
			slog.String("language", req.Language),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"html":       html,
		"recognized": highlight.Supported(req.Language),
	})
}
