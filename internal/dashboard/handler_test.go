package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilaca/issue-archive/internal/domain"
	"github.com/vilaca/issue-archive/internal/router"
)

// mockRenderer is a test double for Renderer (follows FIRST - Independent).
// It records the page each render received.
type mockRenderer struct {
	renderErr error
	healthErr error
	lastPage  Page
}

func (m *mockRenderer) page(w io.Writer, name string, page Page) error {
	m.lastPage = page
	if m.renderErr != nil {
		return m.renderErr
	}
	_, err := fmt.Fprintf(w, "mock %s", name)
	return err
}

func (m *mockRenderer) RenderList(w io.Writer, page Page) error    { return m.page(w, "list", page) }
func (m *mockRenderer) RenderGrouped(w io.Writer, page Page) error { return m.page(w, "grouped", page) }
func (m *mockRenderer) RenderBrowser(w io.Writer, page Page) error { return m.page(w, "browser", page) }

func (m *mockRenderer) RenderHealth(w io.Writer) error {
	if m.healthErr != nil {
		return m.healthErr
	}
	_, err := w.Write([]byte(`{"status":"ok"}`))
	return err
}

func (m *mockRenderer) RenderIssuesJSON(w io.Writer, list []domain.Issue) error {
	return NewHTMLRenderer().RenderIssuesJSON(w, list)
}

// mockLogger is a test double for Logger.
type mockLogger struct {
	messages []string
}

func (m *mockLogger) Infof(format string, v ...interface{})  { m.messages = append(m.messages, format) }
func (m *mockLogger) Warnf(format string, v ...interface{})  { m.messages = append(m.messages, format) }
func (m *mockLogger) Errorf(format string, v ...interface{}) { m.messages = append(m.messages, format) }

// staticSource is a fixed IssueSource.
type staticSource []domain.Issue

func (s staticSource) Issues() []domain.Issue { return s }

func newTestMux(renderer Renderer, logger Logger) *http.ServeMux {
	handler := NewHandler(renderer, logger, staticSource(testIssues()))
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return mux
}

func serve(mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

// TestHandleHealth tests the health check endpoint.
// Follows AAA (Arrange, Act, Assert) and FIRST principles.
func TestHandleHealth(t *testing.T) {
	// Arrange
	mux := newTestMux(&mockRenderer{}, &mockLogger{})

	// Act
	w := serve(mux, "/api/health")

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"status":"ok"}`, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

// TestHandleHealth_RenderError tests error handling in health endpoint.
func TestHandleHealth_RenderError(t *testing.T) {
	// Arrange
	logger := &mockLogger{}
	mux := newTestMux(&mockRenderer{healthErr: errors.New("render error")}, logger)

	// Act
	w := serve(mux, "/api/health")

	// Assert
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, logger.messages, "expected error to be logged")
}

func TestHandleBrowser_Routes(t *testing.T) {
	tests := []struct {
		target string
		want   router.Route
	}{
		{"/", router.Home()},
		{"/repo/acme/widgets", router.Repo("acme", "widgets")},
		{"/issue/acme/widgets/42", router.Issue("acme", "widgets", 42)},
		{"/repo/acme", router.Home()},
		{"/bogus/x/y", router.Home()},
		{"/repo/a%20b/c", router.Repo("a b", "c")},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			// Arrange
			renderer := &mockRenderer{}
			mux := newTestMux(renderer, &mockLogger{})

			// Act
			w := serve(mux, tt.target)

			// Assert
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "mock browser", w.Body.String())
			assert.Equal(t, tt.want, renderer.lastPage.State.Route)
			assert.Len(t, renderer.lastPage.Issues, 2)
		})
	}
}

func TestHandleBrowser_StateFromQuery(t *testing.T) {
	renderer := &mockRenderer{}
	mux := newTestMux(renderer, &mockLogger{})

	serve(mux, "/repo/acme/widgets?state=closed&q=Leak&collapsed=acme%2Fwidgets")

	state := renderer.lastPage.State
	assert.Equal(t, domain.FilterClosed, state.Filter)
	assert.Equal(t, "leak", state.Search)
	assert.True(t, state.Collapsed.Contains("acme/widgets"))
}

func TestHandleList_And_Grouped(t *testing.T) {
	mux := newTestMux(&mockRenderer{}, &mockLogger{})

	assert.Equal(t, "mock list", serve(mux, "/list/").Body.String())
	assert.Equal(t, "mock grouped", serve(mux, "/grouped/?state=open").Body.String())
	assert.Equal(t, http.StatusMovedPermanently, serve(mux, "/list").Code)
}

func TestHandlePage_RenderError(t *testing.T) {
	// Arrange
	logger := &mockLogger{}
	mux := newTestMux(&mockRenderer{renderErr: errors.New("render error")}, logger)

	// Act
	w := serve(mux, "/grouped/")

	// Assert
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "mock")
	assert.NotEmpty(t, logger.messages)
}

func TestHandleIssuesAPI(t *testing.T) {
	mux := newTestMux(&mockRenderer{}, &mockLogger{})

	decode := func(target string) []domain.Issue {
		w := serve(mux, target)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		var body struct {
			Issues []domain.Issue `json:"issues"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body.Issues
	}

	assert.Len(t, decode("/api/issues"), 2)
	assert.Len(t, decode("/api/issues?state=open"), 1)
	assert.Len(t, decode("/api/issues?q=gadgets"), 0)
	assert.Len(t, decode("/api/issues?q=gadgets&scope=repo"), 1)
}

// TestHandler_EndToEnd wires the real renderer to check the served markup.
func TestHandler_EndToEnd(t *testing.T) {
	mux := newTestMux(newTestRenderer(), &mockLogger{})

	w := serve(mux, "/issue/acme/widgets/42")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, w.Body.String(), `id="issueDetail"`)
}
