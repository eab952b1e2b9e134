package api

import (
	"context"
	"sync"
	"time"

	"github.com/vilaca/issue-archive/internal/domain"
)

// Logger is the logging surface the API decorators need.
// *zap.SugaredLogger satisfies it.
type Logger interface {
	Warnf(template string, args ...interface{})
}

// CachingClient wraps an IssueClient with a per-repository cache.
// Follows Decorator pattern to add caching without modifying the underlying client.
//
// Fresh entries (younger than ttl) are served without calling the API.
// When a fetch fails, an entry younger than staleTTL is served instead of
// the error, so a flaky API does not empty a repository.
type CachingClient struct {
	client   IssueClient
	logger   Logger
	ttl      time.Duration
	staleTTL time.Duration
	now      func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	issues   []domain.Issue
	cachedAt time.Time
}

// NewCachingClient creates a new caching client wrapper.
func NewCachingClient(client IssueClient, logger Logger, ttl, staleTTL time.Duration) *CachingClient {
	if staleTTL < ttl {
		staleTTL = ttl
	}
	return &CachingClient{
		client:   client,
		logger:   logger,
		ttl:      ttl,
		staleTTL: staleTTL,
		now:      time.Now,
		entries:  make(map[string]cacheEntry),
	}
}

// GetIssues retrieves issues with caching.
func (c *CachingClient) GetIssues(ctx context.Context, owner, name string) ([]domain.Issue, error) {
	key := domain.RepoKey(owner, name)

	entry, found := c.get(key)
	if found && c.now().Sub(entry.cachedAt) < c.ttl {
		return entry.issues, nil
	}

	issues, err := c.client.GetIssues(ctx, owner, name)
	if err != nil {
		if found && c.now().Sub(entry.cachedAt) < c.staleTTL {
			c.logger.Warnf("fetching %s failed, serving cached issues from %s: %v",
				key, entry.cachedAt.Format(time.RFC3339), err)
			return entry.issues, nil
		}
		return nil, err
	}

	c.set(key, issues)
	return issues, nil
}

// Invalidate drops the cached issues of a repository.
func (c *CachingClient) Invalidate(owner, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, domain.RepoKey(owner, name))
}

// Len returns the number of cached repositories.
func (c *CachingClient) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *CachingClient) get(key string) (cacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	return entry, ok
}

func (c *CachingClient) set(key string, issues []domain.Issue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{issues: issues, cachedAt: c.now()}
}
