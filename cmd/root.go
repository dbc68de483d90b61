package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mm15146-Mahad/summit/internal/cli"
	"github.com/mm15146-Mahad/summit/internal/config"
	"github.com/mm15146-Mahad/summit/internal/daemon"
	"github.com/mm15146-Mahad/summit/internal/engine"
	"github.com/mm15146-Mahad/summit/internal/logger"
	"github.com/mm15146-Mahad/summit/internal/model"
	"github.com/mm15146-Mahad/summit/internal/store"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagDataDir  string
	flagLogLevel string
	flagQuiet    bool
	flagNoDaemon bool
)

var rootCmd = &cobra.Command{
	Use:   "summit",
	Short: "Climb the mountain by keeping your budget",
	Long:  "Track spending and income, earn points and streaks, and climb ten levels toward the summit.",
	RunE:  runStatus,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		config.LoadEnv()
	},
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Data directory (default from config or XDG data home)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&flagNoDaemon, "no-daemon", false, "Never route changes through a running daemon")
}

// session is everything a command needs to read or change the state.
type session struct {
	cfg     config.Config
	store   *store.Store
	tracker *engine.Tracker
	log     zerolog.Logger
}

func (s *session) Close() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

// openSession is the shared load path used by all commands: config, store,
// and a tracker seeded from the last snapshot. Every commit is recorded.
func openSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return openSessionWith(cfg, logger.New(flagLogLevel))
}

func openSessionWith(cfg config.Config, log zerolog.Logger) (*session, error) {
	dir := dataDir(cfg)
	st, err := store.Open(store.Path(dir))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	fallback := engine.NewState(cfg.Goals.ModelGoals())
	if cfg.General.SeedDemo {
		fallback = engine.DemoState()
	}
	seed, err := st.Seed(fallback)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	tracker := engine.NewTracker(seed)
	tracker.Observe(st.Recorder(log))

	log.Debug().Str("data_dir", dir).Int("level", seed.Level).Int64("points", seed.Points).Msg("session opened")
	return &session{cfg: cfg, store: st, tracker: tracker, log: log}, nil
}

// openLogFile opens the append-only log used while a full-screen or detached
// process owns the terminal.
func openLogFile(cfg config.Config, name string) (*os.File, error) {
	dir := dataDir(cfg)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	path := filepath.Join(dir, name)
	//nolint:gosec // log path is inside the user's own data directory
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// errDaemonRunning stops local writes while a daemon owns the store.
var errDaemonRunning = errors.New("a summit daemon is running and owns the data; stop it with `summit daemon stop` first")

// runningDaemon returns a client when a daemon answers at the configured
// address.
func runningDaemon(cfg config.Config) (*daemon.Client, bool) {
	if flagNoDaemon {
		return nil, false
	}
	client := daemon.NewClient(cfg.Daemon.Addr)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := client.Health(ctx); err != nil {
		return nil, false
	}
	return client, true
}

// ensureNoDaemon refuses a local write while a daemon is serving.
func ensureNoDaemon(cfg config.Config) error {
	if _, ok := runningDaemon(cfg); ok {
		return errDaemonRunning
	}
	return nil
}

// dataDir prefers the --data-dir flag over SUMMIT_DATA_DIR and the config.
func dataDir(cfg config.Config) string {
	if flagDataDir != "" {
		return flagDataDir
	}
	return config.DataDir(cfg)
}

func money(cfg config.Config, d decimal.Decimal) string {
	return cli.FormatMoney(cfg.General.CurrencySymbol, d)
}

func parseMoney(s string) (decimal.Decimal, error) {
	d, err := model.ParseAmount(s)
	if err != nil {
		return d, fmt.Errorf("%q: %w", s, err)
	}
	return d, nil
}

func progressf(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
