/*
Package config loads batterydb settings from the environment. A .env file in
the working directory is read first; real environment variables win over it
and command-line overrides win over both.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/shanehull/batterydb/internal/ai"
	"github.com/shanehull/batterydb/internal/notify"
)

const (
	defaultDataDir       = "data"
	defaultListenAddr    = ":8080"
	defaultOracleTimeout = 2 * time.Minute
	defaultSMTPServer    = "smtp.gmail.com"
	defaultSMTPPort      = 587

	BrandsSeedFile    = "brands_seed.csv"
	BatteriesSeedFile = "batteries_seed.csv"
)

type Config struct {
	DSN         string
	DataDir     string
	ReportDir   string
	HistoryFile string
	FeedsFile   string
	ListenAddr  string

	OracleProvider ai.Provider
	OracleModel    string
	OracleKey      string
	OracleTimeout  time.Duration

	// ScanInterval runs the scan job periodically inside serve. Zero disables it.
	ScanInterval time.Duration

	Email notify.EmailConfig
}

// Overrides carries command-line flag values; empty fields are ignored.
type Overrides struct {
	DSN        string
	DataDir    string
	FeedsFile  string
	ListenAddr string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

func pick(override, value string) string {
	if override != "" {
		return override
	}
	return value
}

func Load(o Overrides) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DataDir:     pick(o.DataDir, getenv("BATTERYDB_DATA_DIR", defaultDataDir)),
		DSN:         pick(o.DSN, os.Getenv("BATTERYDB_DSN")),
		ReportDir:   os.Getenv("BATTERYDB_REPORT_DIR"),
		HistoryFile: os.Getenv("BATTERYDB_HISTORY_FILE"),
		FeedsFile:   pick(o.FeedsFile, os.Getenv("BATTERYDB_FEEDS_FILE")),
		ListenAddr:  pick(o.ListenAddr, getenv("LISTEN_ADDR", defaultListenAddr)),
		OracleModel: os.Getenv("ORACLE_MODEL"),
	}

	if cfg.DSN == "" {
		cfg.DSN = filepath.Join(cfg.DataDir, "batteries.db")
	}
	if cfg.ReportDir == "" {
		cfg.ReportDir = cfg.DataDir
	}
	if cfg.HistoryFile == "" {
		cfg.HistoryFile = filepath.Join(cfg.DataDir, "scan_history.json")
	}
	if cfg.FeedsFile == "" {
		cfg.FeedsFile = filepath.Join(cfg.DataDir, "feeds.yaml")
	}

	var err error
	if cfg.OracleProvider, err = ai.ParseProvider(os.Getenv("ORACLE_PROVIDER")); err != nil {
		return cfg, err
	}
	cfg.OracleKey = os.Getenv(cfg.OracleProvider.KeyEnv())

	if cfg.OracleTimeout, err = getenvDuration("ORACLE_TIMEOUT", defaultOracleTimeout); err != nil {
		return cfg, err
	}
	if cfg.ScanInterval, err = getenvDuration("SCAN_INTERVAL", 0); err != nil {
		return cfg, err
	}

	if cfg.Email, err = loadEmail(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadEmail() (notify.EmailConfig, error) {
	port, err := getenvInt("SMTP_PORT", defaultSMTPPort)
	if err != nil {
		return notify.EmailConfig{}, err
	}

	email := notify.EmailConfig{
		SMTPServer: getenv("SMTP_SERVER", defaultSMTPServer),
		SMTPPort:   port,
		SMTPUser:   os.Getenv("SMTP_USER"),
		SMTPPass:   os.Getenv("SMTP_PASS"),
		ToEmail:    os.Getenv("REPORT_TO_EMAIL"),
		FromEmail:  os.Getenv("REPORT_FROM_EMAIL"),
		SendEmpty:  os.Getenv("REPORT_EMAIL_EMPTY") == "true",
	}
	email.Enabled = email.SMTPServer != "" && email.SMTPUser != "" && email.SMTPPass != "" && email.ToEmail != ""

	if email.FromEmail == "" && email.SMTPUser != "" {
		email.FromEmail = email.SMTPUser
	}
	return email, nil
}

func (c Config) BrandsSeedPath() string {
	return filepath.Join(c.DataDir, BrandsSeedFile)
}

func (c Config) BatteriesSeedPath() string {
	return filepath.Join(c.DataDir, BatteriesSeedFile)
}

// RequireOracleKey fails with instructions for setting the selected
// provider's key.
func (c Config) RequireOracleKey() error {
	if c.OracleKey != "" {
		return nil
	}
	env := c.OracleProvider.KeyEnv()
	return fmt.Errorf("%s is not set; set it with: export %s=<your %s API key> (or add it to .env)",
		env, env, c.OracleProvider)
}
