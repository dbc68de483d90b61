package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mm15146-Mahad/summit/internal/cli"
	"github.com/mm15146-Mahad/summit/internal/config"
	"github.com/mm15146-Mahad/summit/internal/daemon"
	"github.com/mm15146-Mahad/summit/internal/engine"
	"github.com/mm15146-Mahad/summit/internal/logger"

	"github.com/spf13/cobra"
)

// daemonRecord is what a running daemon writes to its pid file.
type daemonRecord struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	DataDir   string    `json:"data_dir"`
	Interval  string    `json:"interval"`
	StartedAt time.Time `json:"started_at"`
}

var (
	flagDaemonAddr         string
	flagDaemonInterval     time.Duration
	flagDaemonDetach       bool
	flagDaemonPIDFile      string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonNoSimulate   bool
	flagDaemonChild        bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the background climber with HTTP/SSE endpoints",
	Long: "Owns the financial state, draws trail bonuses every interval and serves " +
		"the state over HTTP. While it runs, `summit add` goes through it.",
	RunE: runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the daemon runs and what it has done",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	daemonCmd.PersistentFlags().StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config)")
	daemonCmd.PersistentFlags().DurationVar(&flagDaemonInterval, "interval", 0, "Bonus tick interval (default from config)")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonPIDFile, "pid-file", "", "PID file path (default in the data directory)")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonLogFile, "log-file", "", "Where a detached daemon writes its log (default in the data directory)")
	daemonCmd.PersistentFlags().IntVar(&flagDaemonEventsBuffer, "events-buffer", 200, "Events kept in memory for /v1/events")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Start in the background and return")
	daemonCmd.Flags().BoolVar(&flagDaemonNoSimulate, "no-simulate", false, "Serve the state without drawing trail bonuses")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Set on the process started by --detach")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// daemonPaths fills the flag defaults that depend on the config.
func daemonPaths(cfg config.Config) (addr, pidFile, logFile string) {
	addr = flagDaemonAddr
	if addr == "" {
		addr = cfg.Daemon.Addr
	}
	pidFile = flagDaemonPIDFile
	if pidFile == "" {
		pidFile = filepath.Join(dataDir(cfg), "summitd.pid")
	}
	logFile = flagDaemonLogFile
	if logFile == "" {
		logFile = filepath.Join(dataDir(cfg), "summitd.log")
	}
	return addr, pidFile, logFile
}

func runDaemon(_ *cobra.Command, _ []string) error {
	if flagDaemonDetach && flagDaemonChild {
		return errors.New("--detach and --child cannot be combined")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagDaemonDetach {
		return detachDaemon(cfg)
	}
	return serveDaemon(cfg)
}

// detachDaemon re-executes the current command line as a child that keeps
// running after this process exits.
func detachDaemon(cfg config.Config) error {
	addr, pidFile, logFile := daemonPaths(cfg)
	if rec, ok := liveDaemon(pidFile); ok {
		return fmt.Errorf("daemon already running (pid %d on %s)", rec.PID, rec.Addr)
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	args := append(withoutFlag(os.Args[1:], "--detach"), "--child")

	for _, dir := range []string{filepath.Dir(pidFile), filepath.Dir(logFile)} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	//nolint:gosec // log path is chosen by the local user
	logf, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, args...) //nolint:gosec // re-runs our own binary
	child.Stdout, child.Stderr = logf, logf
	child.Env = os.Environ()
	if err := child.Start(); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Daemon started",
		Headers: []string{"", ""},
		Rows: [][]string{
			{"PID", strconv.Itoa(child.Process.Pid)},
			{"API", "http://" + addr + "/v1/status"},
			{"Log", logFile},
			{"PID file", pidFile},
		},
	}))
	return nil
}

func serveDaemon(cfg config.Config) error {
	addr, pidFile, _ := daemonPaths(cfg)
	if rec, ok := liveDaemon(pidFile); ok {
		return fmt.Errorf("daemon already running (pid %d on %s)", rec.PID, rec.Addr)
	}

	interval := flagDaemonInterval
	if interval == 0 {
		interval = cfg.Simulation.Interval()
	}
	dir := dataDir(cfg)

	if err := os.MkdirAll(filepath.Dir(pidFile), 0o750); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(pidFile), err)
	}
	rec := daemonRecord{
		PID:       os.Getpid(),
		Addr:      addr,
		DataDir:   dir,
		Interval:  interval.String(),
		StartedAt: time.Now(),
	}
	if err := writeRecord(pidFile, rec); err != nil {
		return err
	}
	defer func() { _ = os.Remove(pidFile) }()

	// Lifecycle lines are logged at info.
	level := flagLogLevel
	if !rootCmd.PersistentFlags().Changed("log-level") {
		level = "info"
	}
	log := logger.NewJSON(os.Stdout, level)

	sess, err := openSessionWith(cfg, log)
	if err != nil {
		return err
	}
	defer sess.Close()

	var sim *engine.Simulation
	if !flagDaemonNoSimulate {
		sc := cfg.Simulation
		sim = engine.NewSimulation(sc.PointChance, sc.StreakChance, sc.MaxPoints, nil)
	}

	svc := daemon.New(daemon.Config{
		DataDir:      dir,
		Interval:     interval,
		Addr:         addr,
		EventsBuffer: flagDaemonEventsBuffer,
	}, sess.tracker, sim, log)

	if !flagDaemonChild {
		progressf("  summit daemon on http://%s, ticking every %s\n", addr, interval)
		progressf("  Ctrl+C or `summit daemon stop` to end it\n")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	addr, pidFile, _ := daemonPaths(cfg)

	rec, ok := liveDaemon(pidFile)
	if !ok {
		fmt.Println("\n  Daemon is not running.")
		fmt.Println()
		return nil
	}
	if rec.Addr != "" {
		addr = rec.Addr
	}

	rows := [][]string{
		{"PID", strconv.Itoa(rec.PID)},
		{"Address", "http://" + addr},
		{"Data", rec.DataDir},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := daemon.NewClient(addr).Status(ctx)
	if err != nil {
		rows = append(rows, []string{"API", cli.Bad(err.Error())})
	} else {
		lastTick := "pending"
		if !st.LastTickAt.IsZero() {
			lastTick = st.LastTickAt.Local().Format(time.Kitchen)
		}
		bonuses := fmt.Sprintf("%d of %d ticks", st.BonusCount, st.TickCount)
		if !st.SimulationEnabled {
			bonuses = cli.Muted("off")
		}
		rows = append(rows,
			[]string{"Uptime", cli.FormatDuration(int64(time.Since(st.StartedAt).Seconds()))},
			[]string{"Last tick", lastTick},
			[]string{"Bonuses", bonuses},
			[]string{"---"},
			[]string{"Level", strconv.Itoa(st.Summary.Level)},
			[]string{"Points", cli.FormatNumber(st.Summary.Points)},
			[]string{"Streak", fmt.Sprintf("%d days", st.Summary.Streak)},
			[]string{"Savings rate", cli.FormatRate(st.Summary.SavingsRate)},
			[]string{"---"},
			[]string{"Events", fmt.Sprintf("%d kept, %d listening", st.EventCount, st.SubscriberCount)},
		)
		if st.LastError != "" {
			rows = append(rows, []string{"Last error", cli.Warn(st.LastError)})
		}
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{Title: "Daemon", Headers: []string{"", ""}, Rows: rows}))
	fmt.Println()
	return nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	_, pidFile, _ := daemonPaths(cfg)

	rec, ok := liveDaemon(pidFile)
	if !ok {
		return errors.New("daemon is not running")
	}
	proc, err := os.FindProcess(rec.PID)
	if err != nil {
		return fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon: %w", err)
	}

	for deadline := time.Now().Add(8 * time.Second); time.Now().Before(deadline); time.Sleep(150 * time.Millisecond) {
		if !processAlive(rec.PID) {
			_ = os.Remove(pidFile)
			fmt.Printf("  Stopped daemon (pid %d)\n", rec.PID)
			return nil
		}
	}
	return fmt.Errorf("daemon (pid %d) did not exit in time", rec.PID)
}

func withoutFlag(args []string, name string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == name || strings.HasPrefix(a, name+"=") {
			continue
		}
		out = append(out, a)
	}
	return out
}

// liveDaemon reads the pid file and reports whether its process is alive.
// A stale file is removed.
func liveDaemon(pidFile string) (daemonRecord, bool) {
	rec, err := readRecord(pidFile)
	if err != nil {
		return rec, false
	}
	if !processAlive(rec.PID) {
		_ = os.Remove(pidFile)
		return rec, false
	}
	return rec, true
}

func writeRecord(path string, rec daemonRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	return nil
}

func readRecord(path string) (daemonRecord, error) {
	var rec daemonRecord
	//nolint:gosec // pid path is chosen by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("parse %s: %w", path, err)
	}
	if rec.PID <= 0 {
		return rec, fmt.Errorf("no pid in %s", path)
	}
	return rec, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
