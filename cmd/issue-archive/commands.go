package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/vilaca/issue-archive/internal/api"
	"github.com/vilaca/issue-archive/internal/api/github"
	"github.com/vilaca/issue-archive/internal/config"
	"github.com/vilaca/issue-archive/internal/dashboard"
	"github.com/vilaca/issue-archive/internal/service"
	"github.com/vilaca/issue-archive/internal/store"
)

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	return syncAll(cmd.Context(), cfg, newIssueClient(cfg), db)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var loader service.IssueLoader
	if dataPath != "" {
		loader = service.NewSnapshotFile(dataPath, logger)
	} else {
		db, err := store.Open(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer db.Close()
		loader = db
	}

	return render(cmd.Context(), cfg, loader)
}

func runAuto(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Infof("Syncing issues...")
	if err := syncAll(cmd.Context(), cfg, newIssueClient(cfg), db); err != nil {
		return err
	}

	logger.Infof("Generating archive...")
	if err := render(cmd.Context(), cfg, db); err != nil {
		return err
	}
	logger.Infof("Done!")
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	srv, err := buildServer(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer srv.Close()

	return srv.ListenAndServe(cmd.Context())
}

// loadConfig loads the config for render and serve. Issues read from a
// --data file need neither GitHub credentials nor repositories.
func loadConfig() (*config.Config, error) {
	if dataPath != "" {
		return config.LoadOffline(configPath)
	}
	return config.Load(configPath)
}

// syncAll runs one sync and fails only when no repository could be synced.
func syncAll(ctx context.Context, cfg *config.Config, client api.IssueClient, db *store.Store) error {
	syncService := service.NewSyncService(client, db, cfg.Repositories(), logger)

	result, err := syncService.SyncAll(ctx)
	if err != nil {
		return err
	}

	failed := result.Failed()
	logger.Infof("Sync finished: %d issues from %d repositories in %v (%d failed)",
		result.Total(), len(result.Repos)-len(failed), result.Duration.Round(time.Millisecond), len(failed))
	if len(failed) > 0 && len(failed) == len(result.Repos) {
		return fmt.Errorf("sync failed for all %d repositories: %w", len(failed), failed[0].Err)
	}
	return nil
}

func render(ctx context.Context, cfg *config.Config, loader service.IssueLoader) error {
	issues, err := loader.ListIssues(ctx)
	if err != nil {
		return fmt.Errorf("loading issues: %w", err)
	}

	out := cfg.Output.Dir
	if outputDir != "" {
		out = outputDir
	}

	writer := service.NewArchiveWriter(dashboard.NewStaticRenderer(), out, logger)
	result, err := writer.Write(ctx, issues)
	if err != nil {
		return err
	}
	if result.Skipped > 0 {
		logger.Warnf("%d pages skipped", result.Skipped)
	}
	return nil
}

func newIssueClient(cfg *config.Config) *github.Client {
	httpClient := &http.Client{
		Timeout: 30 * time.Second, // Set reasonable timeout for API requests
	}
	return github.NewClient(api.ClientConfig{
		BaseURL: cfg.GitHub.URL,
		Token:   cfg.GitHub.Token,
	}, httpClient)
}
