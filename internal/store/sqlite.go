// Package store persists synced issues in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vilaca/issue-archive/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS repos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	owner TEXT NOT NULL,
	name TEXT NOT NULL,
	UNIQUE (owner, name)
);

CREATE TABLE IF NOT EXISTS issues (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	repo_id INTEGER NOT NULL,
	number INTEGER NOT NULL,
	title TEXT,
	body TEXT,
	state TEXT,
	created_at TEXT,
	updated_at TEXT,
	url TEXT,
	author TEXT,
	FOREIGN KEY (repo_id) REFERENCES repos(id),
	UNIQUE (repo_id, number)
);

CREATE TABLE IF NOT EXISTS labels (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	issue_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	color TEXT,
	FOREIGN KEY (issue_id) REFERENCES issues(id)
);

CREATE INDEX IF NOT EXISTS idx_labels_issue ON labels(issue_id);
`

// Store manages the issue database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open creates or opens the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time keeps SQLite from returning SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, dbPath: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	if _, err := s.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return err
	}
	_, err := s.db.Exec(schema)
	return err
}

// UpsertRepo inserts the repository if needed and returns its id.
func (s *Store) UpsertRepo(ctx context.Context, repo domain.Repository) (int64, error) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO repos (owner, name) VALUES (?, ?) ON CONFLICT (owner, name) DO NOTHING`,
		repo.Owner, repo.Name); err != nil {
		return 0, fmt.Errorf("upsert repo %s: %w", repo, err)
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM repos WHERE owner = ? AND name = ?`, repo.Owner, repo.Name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("lookup repo %s: %w", repo, err)
	}
	return id, nil
}

// UpsertIssues writes the issues of one repository in a single transaction.
// Each issue's labels are replaced by the ones given.
func (s *Store) UpsertIssues(ctx context.Context, repoID int64, list []domain.Issue) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, issue := range list {
		if err := upsertIssue(ctx, tx, repoID, issue); err != nil {
			return fmt.Errorf("upsert issue #%d: %w", issue.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func upsertIssue(ctx context.Context, tx *sql.Tx, repoID int64, issue domain.Issue) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO issues (repo_id, number, title, body, state, created_at, updated_at, url, author)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (repo_id, number) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			state = excluded.state,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			url = excluded.url,
			author = excluded.author`,
		repoID, issue.Number, issue.Title, nullString(issue.Body), string(issue.State),
		formatTime(issue.CreatedAt), formatTime(issue.UpdatedAt), issue.URL, issue.Author)
	if err != nil {
		return err
	}

	var issueID int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM issues WHERE repo_id = ? AND number = ?`, repoID, issue.Number).Scan(&issueID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM labels WHERE issue_id = ?`, issueID); err != nil {
		return err
	}
	for _, label := range issue.Labels {
		if _, err := tx.ExecContext(ctx, `INSERT INTO labels (issue_id, name, color) VALUES (?, ?, ?)`,
			issueID, label.Name, label.Color); err != nil {
			return err
		}
	}
	return nil
}

// ListIssues returns every stored issue with its repository and labels,
// most recently updated first.
func (s *Store) ListIssues(ctx context.Context) ([]domain.Issue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT issues.id, issues.number, issues.title, issues.body, issues.state,
			issues.created_at, issues.updated_at, issues.url, issues.author,
			repos.owner, repos.name
		FROM issues
		JOIN repos ON issues.repo_id = repos.id
		ORDER BY issues.updated_at DESC, issues.id`)
	if err != nil {
		return nil, fmt.Errorf("query issues: %w", err)
	}
	defer rows.Close()

	var (
		list  []domain.Issue
		index = make(map[int64]int)
	)
	for rows.Next() {
		var (
			id                        int64
			issue                     domain.Issue
			title, state, url, author sql.NullString
			body                      sql.NullString
			createdAt, updatedAt      sql.NullString
		)
		if err := rows.Scan(&id, &issue.Number, &title, &body, &state, &createdAt, &updatedAt,
			&url, &author, &issue.RepoOwner, &issue.RepoName); err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		issue.Title = title.String
		issue.State = domain.State(state.String)
		issue.URL = url.String
		issue.Author = author.String
		issue.CreatedAt = parseTime(createdAt.String)
		issue.UpdatedAt = parseTime(updatedAt.String)
		if body.Valid {
			b := body.String
			issue.Body = &b
		}

		index[id] = len(list)
		list = append(list, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issues: %w", err)
	}

	if err := s.attachLabels(ctx, list, index); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) attachLabels(ctx context.Context, list []domain.Issue, index map[int64]int) error {
	rows, err := s.db.QueryContext(ctx, `SELECT issue_id, name, color FROM labels ORDER BY id`)
	if err != nil {
		return fmt.Errorf("query labels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			issueID int64
			label   domain.Label
			color   sql.NullString
		)
		if err := rows.Scan(&issueID, &label.Name, &color); err != nil {
			return fmt.Errorf("scan label: %w", err)
		}
		label.Color = color.String
		if i, ok := index[issueID]; ok {
			list[i].Labels = append(list[i].Labels, label)
		}
	}
	return rows.Err()
}

// ListRepos returns the stored repositories ordered by owner and name.
func (s *Store) ListRepos(ctx context.Context) ([]domain.Repository, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT owner, name FROM repos ORDER BY owner, name`)
	if err != nil {
		return nil, fmt.Errorf("query repos: %w", err)
	}
	defer rows.Close()

	var repos []domain.Repository
	for rows.Next() {
		var repo domain.Repository
		if err := rows.Scan(&repo.Owner, &repo.Name); err != nil {
			return nil, fmt.Errorf("scan repo: %w", err)
		}
		repos = append(repos, repo)
	}
	return repos, rows.Err()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// Timestamps are stored as UTC RFC 3339 text so they sort lexically.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
