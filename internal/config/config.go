package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const DefaultSourceBaseURL = "https://github.com/hsjobeki/nixpkgs/tree/migrate-doc-comments"

// SourceRootConfig locates the repository root inside position file paths.
// Prefix wins when it matches; otherwise StripComponents leading path
// components are dropped.
type SourceRootConfig struct {
	Prefix          string `mapstructure:"prefix"`
	StripComponents int    `mapstructure:"strip_components"`
}

type SourceConfig struct {
	BaseURL string           `mapstructure:"base_url"`
	Root    SourceRootConfig `mapstructure:"root"`
}

type DataConfig struct {
	Path string `mapstructure:"path"`
	URL  string `mapstructure:"url"`
}

type SiteConfig struct {
	OutDir  string `mapstructure:"out_dir"`
	Theme   string `mapstructure:"theme"`
	Workers int    `mapstructure:"workers"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type Config struct {
	Data   DataConfig   `mapstructure:"data"`
	Source SourceConfig `mapstructure:"source"`
	Site   SiteConfig   `mapstructure:"site"`
	Server ServerConfig `mapstructure:"server"`
}

// cacheBase returns the base cache directory for noogle.
// Checks XDG_CACHE_HOME, then ~/.cache, then /tmp/noogle as fallback.
func cacheBase() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "noogle")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "noogle")
	}
	return filepath.Join(os.TempDir(), "noogle")
}

// DBPath returns the path to the DuckDB search index.
func DBPath() string {
	return filepath.Join(cacheBase(), "index.db")
}

// CASDir returns the path to the rendered-body cache.
func CASDir() string {
	return filepath.Join(cacheBase(), "cas")
}

// CorpusCachePath returns where `noogle fetch` stores the downloaded corpus.
func CorpusCachePath() string {
	return filepath.Join(cacheBase(), "data.json.zst")
}

func InitializeViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		viper.AddConfigPath(filepath.Join(xdg, "noogle"))
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "noogle"))
	}

	viper.SetDefault("data.path", "data.json")
	viper.SetDefault("source.base_url", DefaultSourceBaseURL)
	viper.SetDefault("source.root.strip_components", 4)
	viper.SetDefault("site.out_dir", "out")
	viper.SetDefault("site.theme", "dark")
	viper.SetDefault("site.workers", 8)
	viper.SetDefault("server.addr", ":3000")

	viper.SetEnvPrefix("NOOGLE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

// stringToSourceRootHookFunc lets `source.root` be written as a plain prefix
// string instead of a table.
func stringToSourceRootHookFunc() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if t != reflect.TypeOf(SourceRootConfig{}) {
			return data, nil
		}
		if f.Kind() == reflect.String {
			return SourceRootConfig{Prefix: data.(string)}, nil
		}
		return data, nil
	}
}

func Load() (*Config, error) {
	if err := InitializeViper(); err != nil {
		return nil, err
	}
	return decode(viper.AllSettings())
}

func decode(settings map[string]interface{}) (*Config, error) {
	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToSourceRootHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
		),
		WeaklyTypedInput: true,
		Result:           &config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.Source.BaseURL = strings.TrimSuffix(config.Source.BaseURL, "/")
	if config.Source.BaseURL == "" {
		config.Source.BaseURL = DefaultSourceBaseURL
	}
	if config.Source.Root.StripComponents < 0 {
		return nil, fmt.Errorf("source.root.strip_components must not be negative, got %d", config.Source.Root.StripComponents)
	}
	if config.Site.Workers <= 0 {
		config.Site.Workers = 1
	}
	config.Data.Path = expandHome(config.Data.Path)

	return &config, nil
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
