package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vilaca/issue-archive/internal/api"
	"github.com/vilaca/issue-archive/internal/domain"
)

// maxConcurrentRepos bounds the repositories fetched at once.
const maxConcurrentRepos = 4

// Logger interface for logging operations.
// *zap.SugaredLogger satisfies it.
type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
}

// IssueStore is the persistence SyncService writes to.
type IssueStore interface {
	UpsertRepo(ctx context.Context, repo domain.Repository) (int64, error)
	UpsertIssues(ctx context.Context, repoID int64, issues []domain.Issue) error
}

// RepoResult is the outcome of syncing one repository.
type RepoResult struct {
	Repo  domain.Repository
	Count int
	Err   error
}

// SyncResult summarizes a sync run.
type SyncResult struct {
	Repos    []RepoResult
	Duration time.Duration
}

// Total returns the number of issues written.
func (r *SyncResult) Total() int {
	total := 0
	for _, repo := range r.Repos {
		total += repo.Count
	}
	return total
}

// Failed returns the repositories that could not be synced.
func (r *SyncResult) Failed() []RepoResult {
	var failed []RepoResult
	for _, repo := range r.Repos {
		if repo.Err != nil {
			failed = append(failed, repo)
		}
	}
	return failed
}

// SyncService copies issues of the configured repositories into the store.
// Follows Single Responsibility Principle - orchestrates fetch and persist.
type SyncService struct {
	client api.IssueClient
	store  IssueStore
	repos  []domain.Repository
	logger Logger
}

// NewSyncService creates a new sync service.
func NewSyncService(client api.IssueClient, store IssueStore, repos []domain.Repository, logger Logger) *SyncService {
	return &SyncService{
		client: client,
		store:  store,
		repos:  repos,
		logger: logger,
	}
}

// SyncAll fetches every repository concurrently, then writes the results
// in configuration order. A failing repository is recorded in the result
// and does not stop the others. The error is non-nil only when ctx ends.
func (s *SyncService) SyncAll(ctx context.Context) (*SyncResult, error) {
	start := time.Now()
	fetched := make([][]domain.Issue, len(s.repos))
	results := make([]RepoResult, len(s.repos))

	var g errgroup.Group
	g.SetLimit(maxConcurrentRepos)
	for i, repo := range s.repos {
		i, repo := i, repo
		results[i].Repo = repo
		g.Go(func() error {
			s.logger.Infof("Syncing %s...", repo)
			issues, err := s.client.GetIssues(ctx, repo.Owner, repo.Name)
			if err != nil {
				results[i].Err = fmt.Errorf("fetch: %w", err)
				return nil
			}
			fetched[i] = issues
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i := range results {
		if results[i].Err != nil {
			s.logger.Errorf("Failed to sync %s: %v", results[i].Repo, results[i].Err)
			continue
		}
		if err := s.persist(ctx, results[i].Repo, fetched[i]); err != nil {
			results[i].Err = err
			s.logger.Errorf("Failed to sync %s: %v", results[i].Repo, err)
			continue
		}
		results[i].Count = len(fetched[i])
		s.logger.Infof("Synced %d issues from %s", results[i].Count, results[i].Repo)
	}

	return &SyncResult{Repos: results, Duration: time.Since(start)}, nil
}

func (s *SyncService) persist(ctx context.Context, repo domain.Repository, issues []domain.Issue) error {
	repoID, err := s.store.UpsertRepo(ctx, repo)
	if err != nil {
		return fmt.Errorf("store repo: %w", err)
	}
	if err := s.store.UpsertIssues(ctx, repoID, issues); err != nil {
		return fmt.Errorf("store issues: %w", err)
	}
	return nil
}
