package api

import (
	"context"

	"github.com/vilaca/issue-archive/internal/domain"
)

// IssueClient defines the interface for issue tracker clients.
// This follows Interface Segregation Principle - small, focused interface.
// Consumers depend on this interface, not concrete implementations.
type IssueClient interface {
	// GetIssues returns every issue (open and closed) of a repository.
	// Pull requests are not issues and are left out.
	GetIssues(ctx context.Context, owner, name string) ([]domain.Issue, error)
}

// ClientConfig holds common configuration for API clients.
type ClientConfig struct {
	BaseURL string
	Token   string
}
