package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mm15146-Mahad/summit/internal/model"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all summit configuration. Everything here survives a data
// reset; only the financial state is cleared.
type Config struct {
	General       GeneralConfig       `toml:"general"`
	Goals         GoalsConfig         `toml:"goals"`
	Profile       ProfileConfig       `toml:"profile"`
	Notifications NotificationsConfig `toml:"notifications"`
	Privacy       PrivacyConfig       `toml:"privacy"`
	Appearance    AppearanceConfig    `toml:"appearance"`
	Budget        BudgetConfig        `toml:"budget"`
	Simulation    SimulationConfig    `toml:"simulation"`
	Daemon        DaemonConfig        `toml:"daemon"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataDir        string `toml:"data_dir,omitempty"`
	CurrencySymbol string `toml:"currency_symbol"`
	// SeedDemo starts an empty store from the sample climber instead of zero.
	SeedDemo bool `toml:"seed_demo"`
}

// GoalsConfig holds the goals a fresh state starts with.
type GoalsConfig struct {
	MonthlySavings float64 `toml:"monthly_savings"`
	DailyLimit     float64 `toml:"daily_limit"`
	EmergencyFund  float64 `toml:"emergency_fund"`
}

// ProfileConfig is how the climber is shown.
type ProfileConfig struct {
	DisplayName string `toml:"display_name"`
	Avatar      string `toml:"avatar"`
}

// NotificationsConfig toggles in-app notifications.
type NotificationsConfig struct {
	DailyReminders bool `toml:"daily_reminders"`
	BudgetAlerts   bool `toml:"budget_alerts"`
	WeeklyReports  bool `toml:"weekly_reports"`
	Achievements   bool `toml:"achievements"`
}

// PrivacyConfig controls what the dashboards reveal.
type PrivacyConfig struct {
	ShareProgress bool `toml:"share_progress"`
	ShowBalance   bool `toml:"show_balance"`
	AllowData     bool `toml:"allow_data"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme    string `toml:"theme"`
	Mountain string `toml:"mountain"`
	Hiker    string `toml:"hiker"`
	CardSize string `toml:"card_size"`
}

// BudgetConfig holds the monthly budget used for disposable-income feedback.
type BudgetConfig struct {
	MonthlyTotal float64 `toml:"monthly_total"`
	// Disposable is the share of the budget set aside for free spending.
	Disposable float64 `toml:"disposable"`
}

// SimulationConfig drives the optional background activity.
type SimulationConfig struct {
	Enabled      bool    `toml:"enabled"`
	IntervalSec  int     `toml:"interval_sec"`
	PointChance  float64 `toml:"point_chance"`
	StreakChance float64 `toml:"streak_chance"`
	MaxPoints    int64   `toml:"max_points"`
}

// DaemonConfig holds the background service settings.
type DaemonConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			CurrencySymbol: "$",
		},
		Goals: GoalsConfig{
			MonthlySavings: 1000,
			DailyLimit:     50,
			EmergencyFund:  5000,
		},
		Profile: ProfileConfig{
			DisplayName: "Budget Hiker",
			Avatar:      "hiking",
		},
		Notifications: NotificationsConfig{
			DailyReminders: true,
			BudgetAlerts:   true,
			Achievements:   true,
		},
		Privacy: PrivacyConfig{
			ShareProgress: true,
			AllowData:     true,
		},
		Appearance: AppearanceConfig{
			Theme:    "alpine",
			Mountain: "classic",
			Hiker:    "hiker",
			CardSize: "medium",
		},
		Budget: BudgetConfig{
			MonthlyTotal: 3000,
			Disposable:   500,
		},
		Simulation: SimulationConfig{
			Enabled:      false,
			IntervalSec:  5,
			PointChance:  0.10,
			StreakChance: 0.05,
			MaxPoints:    10,
		},
		Daemon: DaemonConfig{
			Addr: "127.0.0.1:8787",
		},
	}
}

// ModelGoals converts the configured defaults to engine goals.
func (g GoalsConfig) ModelGoals() model.Goals {
	return model.Goals{
		MonthlySavings: decimal.NewFromFloat(g.MonthlySavings),
		DailyLimit:     decimal.NewFromFloat(g.DailyLimit),
		EmergencyFund:  decimal.NewFromFloat(g.EmergencyFund),
	}
}

// GoalsFromModel is the inverse of ModelGoals.
func GoalsFromModel(g model.Goals) GoalsConfig {
	return GoalsConfig{
		MonthlySavings: g.MonthlySavings.InexactFloat64(),
		DailyLimit:     g.DailyLimit.InexactFloat64(),
		EmergencyFund:  g.EmergencyFund.InexactFloat64(),
	}
}

// Interval is the simulation tick, never shorter than one second.
func (s SimulationConfig) Interval() time.Duration {
	if s.IntervalSec < 1 {
		return time.Second
	}
	return time.Duration(s.IntervalSec) * time.Second
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "summit")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "summit")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir resolves where the store lives: SUMMIT_DATA_DIR, then the config
// file, then the XDG data directory.
func DataDir(cfg Config) string {
	if dir := os.Getenv("SUMMIT_DATA_DIR"); dir != "" {
		return dir
	}
	if cfg.General.DataDir != "" {
		return cfg.General.DataDir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "summit")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "summit")
}

// LoadEnv sources a .env file from the working directory when present.
// Variables already set in the environment win.
func LoadEnv() {
	_ = godotenv.Load()
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied last.
func Load() (Config, error) {
	cfg, err := LoadFile(ConfigPath())
	if err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	return cfg, nil
}

// LoadFile reads the config at path on top of the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config file
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if theme := os.Getenv("SUMMIT_THEME"); theme != "" {
		cfg.Appearance.Theme = theme
	}
	if addr := os.Getenv("SUMMIT_DAEMON_ADDR"); addr != "" {
		cfg.Daemon.Addr = addr
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveFile(ConfigPath(), cfg)
}

// SaveFile writes cfg to path, creating the parent directory.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // path is the user's own config file
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
