// Package site serves the HTML pages of the catalogue front end.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
)

// Error constants
var (
	ErrParse  = errors.New("page template parse failed")
	ErrRender = errors.New("page render failed")
)

// Page binds a URL path to the template that renders it.
type Page struct {
	Path     string
	Template string
	Title    string
}

// Pages lists every page route in navigation order.
var Pages = []Page{ //nolint:gochecknoglobals // static route table
	{Path: "/", Template: "index", Title: "Home"},
	{Path: "/renew", Template: "renew", Title: "Renew Subscription"},
	{Path: "/content", Template: "content", Title: "Content"},
	{Path: "/watchlist", Template: "watchlist", Title: "Watchlist"},
	{Path: "/recommendations", Template: "recommendations", Title: "Recommendations"},
	{Path: "/search", Template: "search", Title: "Search"},
	{Path: "/users", Template: "users", Title: "Users"},
	{Path: "/analytics", Template: "analytics", Title: "Analytics"},
}

// pageData is passed to every template.
type pageData struct {
	Title string
	Nav   []Page
}

// Renderer renders the embedded page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the layout together with each page template.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(Pages))}
	for _, p := range Pages {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+p.Template+".html")
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrParse, p.Template, err)
		}
		r.pages[p.Template] = t
	}
	return r, nil
}

// Render writes the named page. The page is buffered so a template error
// never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, name, title string) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("%w: unknown page %q", ErrRender, name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", pageData{Title: title, Nav: Pages}); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRender, name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
	return nil
}

// Handler returns the handler for one page.
func (r *Renderer) Handler(p Page) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if err := r.Render(w, p.Template, p.Title); err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}

// Register attaches the page routes and the /static/ assets to router.
func Register(_ context.Context, router *mux.Router) error {
	if router == nil {
		panic("router is nil")
	}

	r, err := NewRenderer()
	if err != nil {
		return err
	}
	for _, p := range Pages {
		router.HandleFunc(p.Path, r.Handler(p)).Methods(http.MethodGet)
	}
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(FS()))).Methods(http.MethodGet)
	return nil
}
