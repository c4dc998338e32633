// Load envs from .env
// Load YAML config
// Override with env vars
// Validate config

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go-jobscout-automation/internal/errors"
	"go-jobscout-automation/internal/filter"
	"go-jobscout-automation/internal/models"
	"go-jobscout-automation/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	Sources  []string          `yaml:"sources"`
	Roles    []string          `yaml:"roles"`
	Denylist []filter.Category `yaml:"denylist"`

	Browser  BrowserConfig  `yaml:"browser"`
	Scrape   ScrapeConfig   `yaml:"scrape"`
	Airtable AirtableConfig `yaml:"airtable"`
	// Field IDs of the run-log table
	RunSchema store.RunSchema `yaml:"run_schema"`

	//Optional mirrors
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`
	SQLitePath  string `yaml:"sqlite_path"`

	Telegram TelegramConfig `yaml:"telegram"`
	Log      LogConfig      `yaml:"log"`
}

type BrowserConfig struct {
	Headless      bool   `yaml:"headless"`
	CookiesDir    string `yaml:"cookies_dir"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

type ScrapeConfig struct {
	MaxPages    int           `yaml:"max_pages"`
	RoleDelay   time.Duration `yaml:"role_delay"`
	LoadTimeout time.Duration `yaml:"load_timeout"`
	// Random pause between browser actions
	ActionDelayMin time.Duration `yaml:"action_delay_min"`
	ActionDelayMax time.Duration `yaml:"action_delay_max"`
}

type AirtableConfig struct {
	APIKey            string  `yaml:"api_key" env:"AIRTABLE_API_KEY"`
	BaseID            string  `yaml:"base_id" env:"AIRTABLE_BASE_ID"`
	Table             string  `yaml:"table" env:"AIRTABLE_TABLE_NAME"`
	RunsTable         string  `yaml:"runs_table" env:"AIRTABLE_SCRIPT_RUNS_TABLE_ID"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	// Also write description, salary and career level when present
	ExtendedFields bool `yaml:"extended_fields"`
}

type TelegramConfig struct {
	Token  string `yaml:"token" env:"TELEGRAM_BOT_TOKEN"`
	ChatID int64  `yaml:"chat_id" env:"TELEGRAM_CHAT_ID"`
}

type LogConfig struct {
	JSON  bool   `yaml:"json"`
	Level string `yaml:"level"`
}

// Default is the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Sources:  []string{"linkedin", "bayt"},
		Roles:    append([]string(nil), filter.DefaultRoles...),
		Denylist: append([]filter.Category(nil), filter.DefaultDenylist...),
		Browser: BrowserConfig{
			Headless:      true,
			CookiesDir:    ".cookies",
			ScreenshotDir: ".cache/screenshots",
		},
		Scrape: ScrapeConfig{
			MaxPages:       10,
			RoleDelay:      2 * time.Second,
			LoadTimeout:    10 * time.Second,
			ActionDelayMin: 3 * time.Second,
			ActionDelayMax: 7 * time.Second,
		},
		Airtable: AirtableConfig{
			Table:             "Jobs",
			RequestsPerSecond: 5,
		},
		RunSchema: store.DefaultRunSchema,
		Log:       LogConfig{Level: "info"},
	}
}

// Load reads .env, then the YAML file at path on top of the defaults, then
// environment overrides. A missing file only logs a warning.
func Load(path string, log *zap.Logger) (*Config, error) {
	if log == nil {
		log = zap.NewNop()
	}
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("Could not read config file, using defaults", zap.String("path", path), zap.Error(err))
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	override := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	override(&c.Airtable.APIKey, "AIRTABLE_API_KEY")
	override(&c.Airtable.BaseID, "AIRTABLE_BASE_ID")
	override(&c.Airtable.Table, "AIRTABLE_TABLE_NAME")
	override(&c.Airtable.RunsTable, "AIRTABLE_SCRIPT_RUNS_TABLE_ID")
	override(&c.DatabaseURL, "DATABASE_URL")
	override(&c.Telegram.Token, "TELEGRAM_BOT_TOKEN")

	if chatID := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return errors.New(errors.KindConfig, "invalid TELEGRAM_CHAT_ID", err)
		}
		c.Telegram.ChatID = id
	}
	return nil
}

// Validate checks what every run needs, dry or live.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return errors.Config("at least one source is required")
	}
	if _, err := c.SourceList(); err != nil {
		return err
	}
	if len(c.Roles) == 0 {
		return errors.Config("at least one target role is required")
	}
	if c.Scrape.MaxPages <= 0 {
		return errors.Config(fmt.Sprintf("scrape.max_pages must be positive, got %d", c.Scrape.MaxPages))
	}
	if c.Scrape.ActionDelayMax < c.Scrape.ActionDelayMin {
		return errors.Config("scrape.action_delay_max must not be below action_delay_min")
	}
	if c.Airtable.Table == "" {
		return errors.Config("airtable.table is required")
	}
	if err := c.RunSchema.Validate(); err != nil {
		return errors.New(errors.KindConfig, "invalid run_schema", err)
	}
	return nil
}

// RequireAirtable checks the credentials a live run writes with.
func (c *Config) RequireAirtable() error {
	if c.Airtable.APIKey == "" {
		return errors.Config("AIRTABLE_API_KEY is required")
	}
	if c.Airtable.BaseID == "" {
		return errors.Config("AIRTABLE_BASE_ID is required")
	}
	if c.Airtable.RunsTable == "" {
		return errors.Config("AIRTABLE_SCRIPT_RUNS_TABLE_ID is required")
	}
	return nil
}

// SourceList resolves the configured source names, case-insensitively and
// without duplicates.
func (c *Config) SourceList() ([]models.Source, error) {
	var out []models.Source
	seen := make(map[models.Source]bool)
	for _, name := range c.Sources {
		src, ok := ParseSource(name)
		if !ok {
			return nil, errors.Config(fmt.Sprintf("unknown source %q", name))
		}
		if !seen[src] {
			seen[src] = true
			out = append(out, src)
		}
	}
	return out, nil
}

func ParseSource(name string) (models.Source, bool) {
	name = strings.TrimSpace(name)
	for _, src := range models.Sources {
		if strings.EqualFold(string(src), name) {
			return src, true
		}
	}
	return "", false
}
