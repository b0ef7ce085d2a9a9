package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gitward/gitward/internal/config"
	"github.com/gitward/gitward/internal/persist"
	"github.com/gitward/gitward/internal/provider"
	"github.com/gitward/gitward/internal/resolve"
	"github.com/gitward/gitward/internal/secrets"
	"github.com/gitward/gitward/internal/store"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "gitward",
	Short: "Resolve which account and git identity apply to a repository",
	Long: `Gitward manages multiple accounts per git hosting provider (GitHub,
GitLab, Azure DevOps, Bitbucket) and multiple identity profiles, and
resolves which of them apply to a repository from explicit assignments,
URL patterns, and per-provider defaults. Tokens are kept in the OS
keyring under per-account keys.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", fmt.Sprintf("config file (default %s)", defaultConfigPath()))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gitward/config.yaml"
	}
	return home + "/.gitward/config.yaml"
}

func setupLogger(format string) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = defaultConfigPath()
	}
	return config.Load(path)
}

// components holds initialized collaborators for use by subcommands.
type components struct {
	Config   *config.Config
	DB       *persist.DB
	Accounts *store.Accounts
	Profiles *store.Profiles
	Secrets  secrets.Store
	Engine   *resolve.Engine
	Fetcher  provider.UserFetcher
	Logger   *slog.Logger
}

// initComponents opens the persistence layer, loads both snapshots into
// fresh stores, and wires the cascade and the resolution engine.
func initComponents(cfg *config.Config, logger *slog.Logger) (*components, error) {
	dbPath, err := config.ExpandHome(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := persist.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	accounts := store.NewAccounts()
	profiles := store.NewProfiles()
	accounts.BindProfiles(profiles)

	accountsSnap, err := db.LoadAccounts()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	accounts.Restore(accountsSnap)

	profilesSnap, err := db.LoadProfiles()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("loading profiles: %w", err)
	}
	profiles.Restore(profilesSnap)

	return &components{
		Config:   cfg,
		DB:       db,
		Accounts: accounts,
		Profiles: profiles,
		Secrets:  secrets.NewKeyring(cfg.Secrets.Service),
		Engine:   resolve.New(accounts, profiles),
		Fetcher:  &provider.GitHubFetcher{},
		Logger:   logger,
	}, nil
}

// setup is the common preamble for subcommands that need components.
func setup() (*components, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := setupLogger(cfg.Log.Format)
	return initComponents(cfg, logger)
}

// saveAccounts persists the current account store state.
func (c *components) saveAccounts() error {
	if err := c.DB.SaveAccounts(c.Accounts.Snapshot()); err != nil {
		return fmt.Errorf("saving accounts: %w", err)
	}
	return nil
}

// saveProfiles persists the current profile store state.
func (c *components) saveProfiles() error {
	if err := c.DB.SaveProfiles(c.Profiles.Snapshot()); err != nil {
		return fmt.Errorf("saving profiles: %w", err)
	}
	return nil
}

// Close releases the persistence layer.
func (c *components) Close() error {
	return c.DB.Close()
}
