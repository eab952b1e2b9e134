package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilaca/issue-archive/internal/api"
	"github.com/vilaca/issue-archive/internal/domain"
)

// newTestServer serves the given pages of /repos/acme/widgets/issues.
// Pages past the end are empty.
func newTestServer(t *testing.T, pages []string) (*httptest.Server, *[]string) {
	t.Helper()
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.RequestURI())

		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		assert.Equal(t, "/repos/acme/widgets/issues", r.URL.Path)
		assert.Equal(t, "all", r.URL.Query().Get("state"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))

		var page int
		fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)
		w.Header().Set("Content-Type", "application/json")
		if page >= 1 && page <= len(pages) {
			fmt.Fprint(w, pages[page-1])
			return
		}
		fmt.Fprint(w, "[]")
	}))
	t.Cleanup(server.Close)
	return server, &seen
}

// TestGetIssues tests pagination, conversion and pull request skipping.
// Follows AAA (Arrange, Act, Assert) pattern.
func TestGetIssues(t *testing.T) {
	// Arrange
	pages := []string{
		`[
			{"number": 2, "title": "Crash", "body": "boom", "state": "open",
			 "html_url": "https://github.com/acme/widgets/issues/2",
			 "created_at": "2024-03-01T10:00:00Z", "updated_at": "2024-03-02T10:00:00Z",
			 "user": {"login": "alice"},
			 "labels": [{"name": "bug", "color": "d73a4a"}]},
			{"number": 3, "title": "A PR", "state": "open", "user": {"login": "bob"},
			 "pull_request": {"url": "https://api.github.com/repos/acme/widgets/pulls/3"}}
		]`,
		`[
			{"number": 1, "title": "Old", "body": null, "state": "closed", "pull_request": null,
			 "user": {"login": "carol"}, "labels": []}
		]`,
	}
	server, seen := newTestServer(t, pages)
	client := NewClient(api.ClientConfig{BaseURL: server.URL + "/", Token: "test-token"}, server.Client())

	// Act
	issues, err := client.GetIssues(context.Background(), "acme", "widgets")

	// Assert
	require.NoError(t, err)
	assert.Len(t, *seen, 3, "two pages plus the empty terminator")
	require.Len(t, issues, 2)

	first := issues[0]
	assert.Equal(t, 2, first.Number)
	assert.Equal(t, "alice", first.Author)
	assert.Equal(t, domain.StateOpen, first.State)
	require.NotNil(t, first.Body)
	assert.Equal(t, "boom", *first.Body)
	assert.Equal(t, []domain.Label{{Name: "bug", Color: "d73a4a"}}, first.Labels)
	assert.Equal(t, "acme", first.RepoOwner)
	assert.Equal(t, "widgets", first.RepoName)
	assert.Equal(t, time.Date(2024, time.March, 2, 10, 0, 0, 0, time.UTC), first.UpdatedAt.UTC())

	second := issues[1]
	assert.Equal(t, 1, second.Number)
	assert.Equal(t, domain.StateClosed, second.State)
	assert.Nil(t, second.Body)
}

func TestGetIssues_EmptyRepository(t *testing.T) {
	server, seen := newTestServer(t, nil)
	client := NewClient(api.ClientConfig{BaseURL: server.URL, Token: "test-token"}, server.Client())

	issues, err := client.GetIssues(context.Background(), "acme", "widgets")

	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Len(t, *seen, 1)
}

// TestGetIssues_APIError tests error handling when API returns error.
func TestGetIssues_APIError(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found", "documentation_url": "https://docs.github.com"}`)
	}))
	defer server.Close()
	client := NewClient(api.ClientConfig{BaseURL: server.URL, Token: "test-token"}, server.Client())

	// Act
	_, err := client.GetIssues(context.Background(), "acme", "missing")

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "Not Found")
	assert.Contains(t, err.Error(), "acme/missing")
}

func TestGetIssues_CancelledContext(t *testing.T) {
	server, _ := newTestServer(t, nil)
	client := NewClient(api.ClientConfig{BaseURL: server.URL, Token: "test-token"}, server.Client())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetIssues(ctx, "acme", "widgets")

	assert.Error(t, err)
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	client := NewClient(api.ClientConfig{Token: "t"}, http.DefaultClient)

	assert.Equal(t, DefaultBaseURL, client.BaseURL)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Bad credentials", errorMessage([]byte(`{"message":"Bad credentials"}`)))
	assert.Equal(t, "oops", errorMessage([]byte("oops")))
	assert.Equal(t, "Unknown error", errorMessage(nil))
}
