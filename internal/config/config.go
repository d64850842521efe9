// Package config loads and validates wikitrail configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/JakeFAU/wikitrail/internal/extract"
	collyfetcher "github.com/JakeFAU/wikitrail/internal/fetcher/colly"
	"github.com/JakeFAU/wikitrail/internal/logging"
	"github.com/JakeFAU/wikitrail/internal/trail"
)

// EnvPrefix prefixes every environment override, e.g. WIKITRAIL_FETCH_TIMEOUT.
const EnvPrefix = "WIKITRAIL"

// Config captures all knobs loaded via Viper.
type Config struct {
	Destination string         `mapstructure:"destination"`
	Fetch       FetchConfig    `mapstructure:"fetch"`
	Extract     ExtractConfig  `mapstructure:"extract"`
	Logging     logging.Config `mapstructure:"logging"`
	Metrics     MetricsConfig  `mapstructure:"metrics"`
}

// FetchConfig controls how article markup is downloaded.
type FetchConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	UserAgent     string        `mapstructure:"user_agent"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RespectRobots bool          `mapstructure:"respect_robots"`
}

// ExtractConfig controls where links are looked for.
type ExtractConfig struct {
	RegionSelector string `mapstructure:"region_selector"`
	AllParagraphs  bool   `mapstructure:"all_paragraphs"`
}

// MetricsConfig controls the Prometheus textfile dump.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"dest": "destination",
}

// Load builds a Config from defaults, an optional file, the environment and
// any changed flags in fs, in increasing order of precedence. fs may be nil.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if fs != nil {
		for flagName, key := range flagKeys {
			flag := fs.Lookup(flagName)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, fmt.Errorf("bind flag %q: %w", flagName, err)
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("destination", trail.DefaultDestination)
	v.SetDefault("fetch.base_url", collyfetcher.DefaultBaseURL)
	v.SetDefault("fetch.user_agent", "wikitrail/0.1 (+https://github.com/JakeFAU/wikitrail)")
	v.SetDefault("fetch.timeout", 15*time.Second)
	v.SetDefault("fetch.respect_robots", false)
	v.SetDefault("extract.region_selector", extract.DefaultRegionSelector)
	v.SetDefault("extract.all_paragraphs", false)
	v.SetDefault("logging.development", false)
	v.SetDefault("logging.level", "warn")
	v.SetDefault("metrics.textfile", "")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Destination) == "" {
		return fmt.Errorf("destination must be set")
	}
	u, err := url.Parse(c.Fetch.BaseURL)
	if err != nil {
		return fmt.Errorf("fetch.base_url is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("fetch.base_url must be an absolute http(s) URL, got %q", c.Fetch.BaseURL)
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be > 0")
	}
	if strings.TrimSpace(c.Extract.RegionSelector) == "" {
		return fmt.Errorf("extract.region_selector must be set")
	}
	return nil
}
