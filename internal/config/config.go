package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Mapper   MapperConfig
	Server   ServerConfig
	UI       UIConfig
	Log      LogConfig
}

// DatabaseConfig selects the record store.
type DatabaseConfig struct {
	Driver    string
	Path      string
	DSN       string
	ChunkSize int `mapstructure:"chunk_size"`
}

// MapperConfig selects how rows are mapped between tables.
type MapperConfig struct {
	Provider   string
	Endpoint   string
	Model      string
	ServiceURL string `mapstructure:"service_url"`
	Timeout    time.Duration
}

// ServerConfig holds mapping service settings.
type ServerConfig struct {
	Addr  string
	Rate  float64
	Burst int
}

// UIConfig holds presentation settings.
type UIConfig struct {
	PageSize int `mapstructure:"page_size"`
	Timezone string
}

// LogConfig controls the zap logger. An empty File discards logs.
type LogConfig struct {
	Level string
	File  string
}

const (
	ProviderOllama    = "ollama"
	ProviderHTTP      = "http"
	ProviderHeuristic = "heuristic"
)

// Path returns the config file location, honouring FORMDESK_CONFIG.
func Path() string {
	if p := os.Getenv("FORMDESK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "formdesk", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix FORMDESK_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "formdesk", "formdesk.db"))
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.chunk_size", 1000)
	v.SetDefault("mapper.provider", ProviderOllama)
	v.SetDefault("mapper.endpoint", "http://localhost:11434")
	v.SetDefault("mapper.model", "llama2")
	v.SetDefault("mapper.service_url", "http://localhost:8080")
	v.SetDefault("mapper.timeout", 60*time.Second)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.rate", 2.0)
	v.SetDefault("server.burst", 5)
	v.SetDefault("ui.page_size", 100)
	v.SetDefault("ui.timezone", "Local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetConfigType("toml")

	if cfgPath := os.Getenv("FORMDESK_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "formdesk"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("FORMDESK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings no component can act on.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Database.Driver == "postgres" && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn required for postgres")
	}
	switch c.Mapper.Provider {
	case ProviderOllama, ProviderHTTP, ProviderHeuristic:
	default:
		return fmt.Errorf("unknown mapper provider %q", c.Mapper.Provider)
	}
	if c.Database.ChunkSize <= 0 {
		return fmt.Errorf("database.chunk_size must be positive")
	}
	if c.UI.PageSize <= 0 {
		return fmt.Errorf("ui.page_size must be positive")
	}
	return nil
}

// Location resolves UI.Timezone, falling back to the local zone.
func (c Config) Location() *time.Location {
	if c.UI.Timezone == "" || c.UI.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.UI.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Target is the driver-specific connection target: a file path for sqlite3,
// a DSN for postgres.
func (c Config) Target() string {
	if c.Database.Driver == "postgres" {
		return c.Database.DSN
	}
	return c.Database.Path
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.driver", cfg.Database.Driver)
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.dsn", cfg.Database.DSN)
	v.Set("database.chunk_size", cfg.Database.ChunkSize)
	v.Set("mapper.provider", cfg.Mapper.Provider)
	v.Set("mapper.endpoint", cfg.Mapper.Endpoint)
	v.Set("mapper.model", cfg.Mapper.Model)
	v.Set("mapper.service_url", cfg.Mapper.ServiceURL)
	v.Set("mapper.timeout", cfg.Mapper.Timeout.String())
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("server.rate", cfg.Server.Rate)
	v.Set("server.burst", cfg.Server.Burst)
	v.Set("ui.page_size", cfg.UI.PageSize)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
