package dashboard

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/vilaca/issue-archive/internal/domain"
	"github.com/vilaca/issue-archive/internal/issues"
	"github.com/vilaca/issue-archive/internal/router"
)

// Handler handles HTTP requests for the issue browser.
// Each request is rendered from scratch from the current snapshot and the
// view state carried by the URL.
type Handler struct {
	renderer Renderer
	logger   Logger
	source   IssueSource
}

// Logger interface for logging operations (Interface Segregation Principle).
// *zap.SugaredLogger satisfies it.
type Logger interface {
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
}

// IssueSource provides the current issue snapshot (Dependency Inversion Principle).
type IssueSource interface {
	Issues() []domain.Issue
}

// NewHandler creates a new Handler with injected dependencies.
func NewHandler(renderer Renderer, logger Logger, source IssueSource) *Handler {
	return &Handler{
		renderer: renderer,
		logger:   logger,
		source:   source,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.handleBrowser)
	mux.HandleFunc(PathList, h.handleList)
	mux.HandleFunc(PathGrouped, h.handleGrouped)
	mux.HandleFunc("/api/health", h.handleHealth)
	mux.HandleFunc("/api/issues", h.handleIssuesAPI)
}

// handleHealth serves the health check endpoint.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.renderer.RenderHealth(w); err != nil {
		h.logger.Errorf("failed to render health: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// handleBrowser serves home, repo and issue views. The request path plays
// the role of the URL fragment; unrecognized paths render home.
func (h *Handler) handleBrowser(w http.ResponseWriter, r *http.Request) {
	state := issues.FromValues(r.URL.Query()).WithRoute(router.Parse(r.URL.EscapedPath()))
	h.renderPage(w, "browser", state, h.renderer.RenderBrowser)
}

// handleList serves the flat issue list.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, "list", issues.FromValues(r.URL.Query()), h.renderer.RenderList)
}

// handleGrouped serves the issues grouped by repository.
func (h *Handler) handleGrouped(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, "grouped", issues.FromValues(r.URL.Query()), h.renderer.RenderGrouped)
}

// renderPage renders into a buffer first so a failed render can still be
// answered with a 500.
func (h *Handler) renderPage(w http.ResponseWriter, name string, state issues.ViewState, render func(w io.Writer, page Page) error) {
	var buf bytes.Buffer
	page := Page{Issues: h.source.Issues(), State: state}
	if err := render(&buf, page); err != nil {
		h.logger.Errorf("failed to render %s: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warnf("failed to write %s response: %v", name, err)
	}
}

// handleIssuesAPI serves the filtered issues as JSON.
// Query params: state=all|open|closed, q=term, scope=repo to also search owner/name.
func (h *Handler) handleIssuesAPI(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	state := issues.FromValues(values)

	scope := issues.ScopeIssue
	if strings.EqualFold(values.Get("scope"), "repo") {
		scope = issues.ScopeWithRepo
	}
	filtered := issues.Filter(h.source.Issues(), state.Query(scope))

	var buf bytes.Buffer
	if err := h.renderer.RenderIssuesJSON(&buf, filtered); err != nil {
		h.logger.Errorf("failed to encode issues: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warnf("failed to write issues response: %v", err)
	}
}
