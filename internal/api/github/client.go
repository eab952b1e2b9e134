package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vilaca/issue-archive/internal/api"
	"github.com/vilaca/issue-archive/internal/domain"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

// Client implements api.IssueClient for GitHub.
// Follows Single Responsibility Principle - only handles GitHub API communication.
type Client struct {
	*api.BaseClient
}

// NewClient creates a new GitHub client.
// Uses dependency injection for HTTPClient (IoC).
func NewClient(config api.ClientConfig, httpClient api.HTTPClient) *Client {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		BaseClient: api.NewBaseClient(baseURL, config.Token, httpClient),
	}
}

// GetIssues retrieves all issues of a repository, following pages until
// GitHub returns an empty one.
func (c *Client) GetIssues(ctx context.Context, owner, name string) ([]domain.Issue, error) {
	var issues []domain.Issue

	for page := 1; ; page++ {
		endpoint := fmt.Sprintf("%s/repos/%s/%s/issues?state=all&per_page=%d&page=%d",
			c.BaseURL, url.PathEscape(owner), url.PathEscape(name), api.DefaultPageSize, page)

		var ghIssues []githubIssue
		if err := c.doRequest(ctx, endpoint, &ghIssues); err != nil {
			return nil, fmt.Errorf("failed to get issues of %s/%s (page %d): %w", owner, name, page, err)
		}
		if len(ghIssues) == 0 {
			break
		}

		for _, ghIssue := range ghIssues {
			if ghIssue.PullRequest != nil {
				continue
			}
			issues = append(issues, convertIssue(ghIssue, owner, name))
		}
	}

	return issues, nil
}

// doRequest performs an HTTP request to GitHub API.
// Follows Single Level of Abstraction Principle (SLAP).
func (c *Client) doRequest(ctx context.Context, endpoint string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.Token))
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, errorMessage(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// errorMessage extracts GitHub's "message" field, falling back to the raw body.
func errorMessage(body []byte) string {
	var apiErr struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return "Unknown error"
}

// convertIssue converts a GitHub issue to the domain model.
func convertIssue(gh githubIssue, owner, name string) domain.Issue {
	labels := make([]domain.Label, 0, len(gh.Labels))
	for _, l := range gh.Labels {
		labels = append(labels, domain.Label{Name: l.Name, Color: l.Color})
	}

	return domain.Issue{
		Number:    gh.Number,
		Title:     gh.Title,
		Body:      gh.Body,
		Author:    gh.User.Login,
		State:     convertState(gh.State),
		URL:       gh.HTMLURL,
		CreatedAt: gh.CreatedAt,
		UpdatedAt: gh.UpdatedAt,
		RepoOwner: owner,
		RepoName:  name,
		Labels:    labels,
	}
}

func convertState(state string) domain.State {
	if strings.EqualFold(state, string(domain.StateClosed)) {
		return domain.StateClosed
	}
	return domain.StateOpen
}

// GitHub API response types (internal to this package)

type githubIssue struct {
	Number      int            `json:"number"`
	Title       string         `json:"title"`
	Body        *string        `json:"body"`
	State       string         `json:"state"`
	HTMLURL     string         `json:"html_url"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	User        githubUser     `json:"user"`
	Labels      []githubLabel  `json:"labels"`
	PullRequest *githubPullRef `json:"pull_request"`
}

// githubPullRef is present only on pull requests listed by the issues endpoint.
type githubPullRef struct {
	URL string `json:"url"`
}

type githubUser struct {
	Login string `json:"login"`
}

type githubLabel struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}
