package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Wiki      WikiConfig      `yaml:"wiki" mapstructure:"wiki"`
	Market    MarketConfig    `yaml:"market" mapstructure:"market"`
	HTTP      HTTPConfig      `yaml:"http" mapstructure:"http"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Offerings OfferingsConfig `yaml:"offerings" mapstructure:"offerings"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// WikiConfig points at the wiki that lists syndicate offerings.
type WikiConfig struct {
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Syndicate string `yaml:"syndicate" mapstructure:"syndicate"`
}

// MarketConfig holds marketplace API settings.
type MarketConfig struct {
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	ThrottleMs int    `yaml:"throttle_ms" mapstructure:"throttle_ms"`
}

// Throttle returns the fixed pause taken before each marketplace request.
func (m MarketConfig) Throttle() time.Duration {
	return time.Duration(m.ThrottleMs) * time.Millisecond
}

// HTTPConfig configures the shared HTTP fetcher.
type HTTPConfig struct {
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// CacheConfig configures where the price cache is persisted.
type CacheConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	TTLMs       int64  `yaml:"ttl_ms" mapstructure:"ttl_ms"`
}

// TTL returns the freshness window for cached prices.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMs) * time.Millisecond
}

// OfferingsConfig overrides the built-in offering rules. Empty keywords keep
// the built-in list; aliases are merged over the built-in table.
type OfferingsConfig struct {
	Keywords  []string `yaml:"keywords" mapstructure:"keywords"`
	Aliases   []Alias  `yaml:"aliases" mapstructure:"aliases"`
	Dedupe    bool     `yaml:"dedupe" mapstructure:"dedupe"`
	RulesFile string   `yaml:"rules_file" mapstructure:"rules_file"`
}

// Alias maps a wiki item name to its marketplace name. Kept as a list rather
// than a map because viper lowercases map keys.
type Alias struct {
	From string `yaml:"from" mapstructure:"from"`
	To   string `yaml:"to" mapstructure:"to"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SYNDICATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("wiki.base_url", "https://wiki.warframe.com/w")
	v.SetDefault("wiki.syndicate", "Arbiters_of_Hexis")
	v.SetDefault("market.base_url", "https://api.warframe.market/v1")
	v.SetDefault("market.throttle_ms", 400)
	v.SetDefault("http.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:135.0) Gecko/20100101 Firefox/135.0")
	v.SetDefault("http.timeout_secs", 30)
	v.SetDefault("http.max_retries", 1)
	v.SetDefault("cache.driver", "file")
	v.SetDefault("cache.path", "prices.json")
	v.SetDefault("cache.ttl_ms", 300000)
	v.SetDefault("offerings.dedupe", false)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a price run depends on and reports every
// problem at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Wiki.BaseURL == "" {
		problems = append(problems, "wiki.base_url is required")
	}
	if c.Market.BaseURL == "" {
		problems = append(problems, "market.base_url is required")
	}
	if c.Market.ThrottleMs < 0 {
		problems = append(problems, "market.throttle_ms must be >= 0")
	}
	if c.HTTP.TimeoutSecs < 0 {
		problems = append(problems, "http.timeout_secs must be >= 0")
	}
	if c.Cache.TTLMs <= 0 {
		problems = append(problems, "cache.ttl_ms must be > 0")
	}

	switch c.Cache.Driver {
	case "file", "sqlite":
		if c.Cache.Path == "" {
			problems = append(problems, "cache.path is required for the "+c.Cache.Driver+" driver")
		}
	case "postgres":
		if c.Cache.DatabaseURL == "" {
			problems = append(problems, "cache.database_url is required for the postgres driver")
		}
	default:
		problems = append(problems, "cache.driver must be one of file, sqlite, postgres")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
