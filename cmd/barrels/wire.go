package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/millesime/barrels/internal/browser"
	"github.com/millesime/barrels/internal/cart"
	"github.com/millesime/barrels/internal/config"
	"github.com/millesime/barrels/internal/logger"
	"github.com/millesime/barrels/internal/session"
	"github.com/millesime/barrels/internal/storage"
	"github.com/millesime/barrels/pkg/client"
)

const logFileName = "barrels.log"

// shop holds everything a command needs, built from configuration.
type shop struct {
	cfg     *config.Config
	log     *logger.Logger
	store   storage.Store
	api     *client.Client
	nav     *browser.Navigator
	session *session.Manager
	cart    *cart.Manager
	closers []func() error
}

// setupOptions tune how a shop is assembled for a command.
type setupOptions struct {
	// logWriter overrides where logs go. Nil means stderr.
	logWriter io.Writer
	// fallback receives URLs the browser could not open.
	fallback io.Writer
	// sessionOpts are appended to the session manager options.
	sessionOpts []session.Option
}

// loadConfig reads configuration and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file") //nolint:errcheck // flag is always registered
	cfg, err := config.NewConfig(envFile)
	if err != nil {
		return nil, err
	}
	if f := cmd.Flags().Lookup("store"); f != nil && f.Changed {
		cfg.Store = f.Value.String()
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetInt("log-level") //nolint:errcheck
	}
	return cfg, nil
}

// openStore builds the persistence backend selected by cfg.Store.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, func() error, error) {
	switch cfg.Store {
	case config.StoreFile:
		s, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	case config.StoreRedis:
		s := storage.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			storage.WithPrefix(cfg.Redis.Prefix),
			storage.WithTTL(cfg.Redis.TTL),
		)
		if err := s.Ping(ctx); err != nil {
			s.Close() //nolint:errcheck
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return s, s.Close, nil
	case config.StoreMemory:
		return storage.NewMemory(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q: want file, redis or memory", cfg.Store)
	}
}

// openLogFile opens the log file used while the TUI owns the terminal.
func openLogFile(cfg *config.Config) (*os.File, error) {
	path := cfg.LogFile
	if path == "" {
		path = filepath.Join(cfg.DataDir, logFileName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// newShop wires configuration, storage, the API client and both managers,
// then restores the persisted session and cart.
func newShop(ctx context.Context, cfg *config.Config, opts setupOptions) (*shop, error) {
	w := opts.logWriter
	if w == nil {
		w = os.Stderr
	}
	s := &shop{cfg: cfg, log: logger.New(cfg.LogLevel, w)}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if closeStore != nil {
		s.closers = append(s.closers, closeStore)
	}
	s.store = store

	s.api = client.New(cfg.APIBaseURL, "", client.WithTimeout(cfg.HTTPTimeout))
	s.nav = browser.NewNavigator(cfg.SiteURL, opts.fallback)

	sessOpts := append([]session.Option{
		session.WithStore(store),
		session.WithLogger(s.log),
		session.WithCheckInterval(cfg.TokenCheckInterval),
	}, opts.sessionOpts...)
	s.session = session.NewManager(s.api, sessOpts...)
	s.session.Restore(ctx)

	s.cart = cart.NewManager(
		cart.WithStore(store),
		cart.WithNavigator(s.nav),
		cart.WithDownloader(cart.DirDownloader{Dir: cfg.ExportDir}),
		cart.WithLogger(s.log),
	)
	s.cart.Load(ctx)

	s.log.Debug("shop ready", "store", cfg.Store, "api", cfg.APIBaseURL, "session", s.session.String())
	return s, nil
}

// Close stops the session watcher and releases the store.
func (s *shop) Close() {
	s.session.Close()
	for _, c := range s.closers {
		if err := c(); err != nil {
			s.log.Warn("close", "error", err)
		}
	}
}

// withShop adapts a command body that needs a wired shop. Logs go to stderr
// and unopenable URLs are printed there.
func withShop(fn func(cmd *cobra.Command, args []string, s *shop) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := newShop(cmd.Context(), cfg, setupOptions{
			logWriter: cmd.ErrOrStderr(),
			fallback:  cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(cmd, args, s)
	}
}
