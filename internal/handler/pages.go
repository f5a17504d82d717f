package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
)

// PageHandler serves the three HTML views: login, register, and the
// dashboard. Each page is parsed together with base.html into its own
// template set (they all define a "content" block, so they can't share
// one set), once at startup.
type PageHandler struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// NewPageHandler parses the page templates from templateDir.
func NewPageHandler(templateDir string, logger *slog.Logger) (*PageHandler, error) {
	base := filepath.Join(templateDir, "base.html")

	pages := make(map[string]*template.Template)
	for _, name := range []string{"login.html", "register.html", "dashboard.html"} {
		tmpl, err := template.ParseFiles(base, filepath.Join(templateDir, name))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &PageHandler{pages: pages, logger: logger}, nil
}

func (h *PageHandler) render(w http.ResponseWriter, page, title string) {
	tmpl, ok := h.pages[page]
	if !ok {
		h.logger.Error("unknown page template", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := map[string]any{"Title": title}
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		h.logger.Error("rendering page",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// HandleLogin serves the login view. GET /login
func (h *PageHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", "DevSnippet — Log in")
}

// HandleRegister serves the registration view. GET /register
func (h *PageHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	h.render(w, "register.html", "DevSnippet — Register")
}

// HandleDashboard serves the dashboard shell. GET /
//
// The page is a static shell: the client-side app checks its session for
// a token and redirects to /login itself when there is none, so this
// handler does no auth.
func (h *PageHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, "dashboard.html", "DevSnippet — Dashboard")
}
