package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vilaca/issue-archive/internal/domain"
)

func testLogger() Logger {
	return zap.NewNop().Sugar()
}

// mockClient is a test double for api.IssueClient.
// Follows FIRST principles - Independent tests.
type mockClient struct {
	getIssuesFunc func(ctx context.Context, owner, name string) ([]domain.Issue, error)
}

func (m *mockClient) GetIssues(ctx context.Context, owner, name string) ([]domain.Issue, error) {
	if m.getIssuesFunc != nil {
		return m.getIssuesFunc(ctx, owner, name)
	}
	return nil, nil
}

// mockStore records what SyncService writes.
type mockStore struct {
	mu       sync.Mutex
	repos    []domain.Repository
	written  map[int64][]domain.Issue
	repoErr  error
	issueErr error
}

func newMockStore() *mockStore {
	return &mockStore{written: make(map[int64][]domain.Issue)}
}

func (m *mockStore) UpsertRepo(ctx context.Context, repo domain.Repository) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.repoErr != nil {
		return 0, m.repoErr
	}
	m.repos = append(m.repos, repo)
	return int64(len(m.repos)), nil
}

func (m *mockStore) UpsertIssues(ctx context.Context, repoID int64, issues []domain.Issue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.issueErr != nil {
		return m.issueErr
	}
	m.written[repoID] = issues
	return nil
}

var (
	repoWidgets = domain.Repository{Owner: "acme", Name: "widgets"}
	repoGadgets = domain.Repository{Owner: "globex", Name: "gadgets"}
	repoBroken  = domain.Repository{Owner: "acme", Name: "broken"}
)

// TestSyncAll tests that every repository is fetched and stored in order.
// Follows AAA pattern.
func TestSyncAll(t *testing.T) {
	// Arrange
	client := &mockClient{
		getIssuesFunc: func(ctx context.Context, owner, name string) ([]domain.Issue, error) {
			if name == "widgets" {
				return []domain.Issue{{Number: 1}, {Number: 2}}, nil
			}
			return []domain.Issue{{Number: 3}}, nil
		},
	}
	store := newMockStore()
	svc := NewSyncService(client, store, []domain.Repository{repoWidgets, repoGadgets}, testLogger())

	// Act
	result, err := svc.SyncAll(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total())
	assert.Empty(t, result.Failed())
	assert.Equal(t, []domain.Repository{repoWidgets, repoGadgets}, store.repos)
	assert.Len(t, store.written[1], 2)
	assert.Len(t, store.written[2], 1)
}

// TestSyncAll_PartialFailure tests that one failing repository does not stop the rest.
func TestSyncAll_PartialFailure(t *testing.T) {
	// Arrange
	client := &mockClient{
		getIssuesFunc: func(ctx context.Context, owner, name string) ([]domain.Issue, error) {
			if name == "broken" {
				return nil, errors.New("API returned status 404: Not Found")
			}
			return []domain.Issue{{Number: 1}}, nil
		},
	}
	store := newMockStore()
	svc := NewSyncService(client, store, []domain.Repository{repoWidgets, repoBroken, repoGadgets}, testLogger())

	// Act
	result, err := svc.SyncAll(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, result.Failed(), 1)
	assert.Equal(t, repoBroken, result.Failed()[0].Repo)
	assert.ErrorContains(t, result.Failed()[0].Err, "Not Found")
	assert.Equal(t, 2, result.Total())
	assert.Equal(t, []domain.Repository{repoWidgets, repoGadgets}, store.repos)
}

func TestSyncAll_StoreFailure(t *testing.T) {
	client := &mockClient{
		getIssuesFunc: func(ctx context.Context, owner, name string) ([]domain.Issue, error) {
			return []domain.Issue{{Number: 1}}, nil
		},
	}
	store := newMockStore()
	store.issueErr = errors.New("disk full")
	svc := NewSyncService(client, store, []domain.Repository{repoWidgets}, testLogger())

	result, err := svc.SyncAll(context.Background())

	require.NoError(t, err)
	require.Len(t, result.Failed(), 1)
	assert.ErrorContains(t, result.Failed()[0].Err, "disk full")
	assert.Equal(t, 0, result.Total())
}

func TestSyncAll_CancelledContext(t *testing.T) {
	client := &mockClient{
		getIssuesFunc: func(ctx context.Context, owner, name string) ([]domain.Issue, error) {
			return nil, ctx.Err()
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := NewSyncService(client, newMockStore(), []domain.Repository{repoWidgets}, testLogger())

	_, err := svc.SyncAll(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}
