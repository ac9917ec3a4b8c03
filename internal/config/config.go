package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Veraticus/wallet/internal/common"
	"github.com/Veraticus/wallet/internal/model"
)

// EnvPrefix namespaces every environment override, e.g. WALLET_API_URL.
const EnvPrefix = "WALLET"

// Cache backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Config is the resolved runtime configuration.
type Config struct {
	APIURL        string
	CacheBackend  string
	CachePath     string
	Period        string
	LogLevel      string
	LogFormat     string
	Currency      string
	APITimeout    time.Duration
	Notifications bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.url", "http://localhost:8000")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("cache.backend", BackendSQLite)
	v.SetDefault("cache.path", DefaultCachePath())
	v.SetDefault("dashboard.period", model.DefaultPeriod)
	v.SetDefault("display.currency", model.DefaultCurrency)
	v.SetDefault("display.notifications", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// LoadDotEnv reads .env files into the process environment. Missing files
// are ignored; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
		slog.Debug("Loaded environment file", "path", f)
	}
	return nil
}

// Init wires environment lookup and reads the config file, if any, into v.
// An explicit cfgFile must exist; the default location may be absent.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(ExpandPath(cfgFile))
	} else {
		v.AddConfigPath(DefaultConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		slog.Debug("Using config file", "path", v.ConfigFileUsed())
	}
	return nil
}

// FromViper resolves and validates the configuration held by v.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		APIURL:        strings.TrimRight(v.GetString("api.url"), "/"),
		APITimeout:    v.GetDuration("api.timeout"),
		CacheBackend:  strings.ToLower(v.GetString("cache.backend")),
		CachePath:     ExpandPath(v.GetString("cache.path")),
		Period:        v.GetString("dashboard.period"),
		LogLevel:      v.GetString("logging.level"),
		LogFormat:     v.GetString("logging.format"),
		Currency:      strings.ToUpper(strings.TrimSpace(v.GetString("display.currency"))),
		Notifications: v.GetBool("display.notifications"),
	}

	if cfg.APIURL == "" {
		return cfg, fmt.Errorf("%w: api.url", common.ErrMissingConfig)
	}
	u, err := url.Parse(cfg.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return cfg, fmt.Errorf("%w: api.url %q is not an absolute URL", common.ErrInvalidConfig, cfg.APIURL)
	}
	if cfg.APITimeout <= 0 {
		return cfg, fmt.Errorf("%w: api.timeout must be positive", common.ErrInvalidConfig)
	}
	switch cfg.CacheBackend {
	case BackendSQLite, BackendFile:
	default:
		return cfg, fmt.Errorf("%w: cache.backend %q (want sqlite or file)", common.ErrInvalidConfig, cfg.CacheBackend)
	}
	if cfg.CachePath == "" {
		return cfg, fmt.Errorf("%w: cache.path", common.ErrMissingConfig)
	}
	if cfg.Currency == "" {
		return cfg, fmt.Errorf("%w: display.currency", common.ErrMissingConfig)
	}
	return cfg, nil
}
