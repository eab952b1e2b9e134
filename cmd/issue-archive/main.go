package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// render / serve flags
	dataPath  string
	outputDir string
	noSync    bool

	logger *zap.SugaredLogger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "issue-archive",
	Short: "Archive GitHub issues into a browsable site",
	Long: `issue-archive copies the issues of a set of GitHub repositories into a
local SQLite database and renders them as a static, searchable archive.

The archive has three presentations: a flat list, issues grouped by
repository, and a browser with repository and issue detail views.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Encoding = "console"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		base, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = base.Sugar()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch issues from GitHub into the database",
	Args:  cobra.NoArgs,
	RunE:  runSync,
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the static archive from the database",
	Long: `Render writes index.html, list/, grouped/, one page per repository and
issue, and issues.json into the output directory.

With --data the issues are read from an issues.json file instead of the
database.`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

var autoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Sync, then render",
	Args:  cobra.NoArgs,
	RunE:  runAuto,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the archive over HTTP with server-side filtering",
	Long: `Serve renders every request from the current snapshot. The snapshot is
reloaded when the database (or --data file) changes, and issues are
re-synced from GitHub every server.refresh_minutes unless --no-sync is set.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "Config file (.toml, .yaml or .yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	renderCmd.Flags().StringVar(&dataPath, "data", "", "Read issues from this issues.json instead of the database")
	renderCmd.Flags().StringVarP(&outputDir, "out", "o", "", "Output directory (overrides output.dir)")
	autoCmd.Flags().StringVarP(&outputDir, "out", "o", "", "Output directory (overrides output.dir)")
	serveCmd.Flags().StringVar(&dataPath, "data", "", "Serve issues from this issues.json instead of the database")
	serveCmd.Flags().BoolVar(&noSync, "no-sync", false, "Do not re-sync from GitHub while serving")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(autoCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
