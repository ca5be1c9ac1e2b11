// Package config loads the CLI settings from defaults, an optional YAML
// file, a .env file and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultStrapiURL = "http://localhost:1337"
	envPrefix        = "THEBLOG"
)

type Config struct {
	StrapiURL   string    `mapstructure:"strapiURL"`
	APIToken    string    `mapstructure:"apiToken"`
	SessionFile string    `mapstructure:"sessionFile"`
	ContentDir  string    `mapstructure:"contentDir"`
	CMS         CMSConfig `mapstructure:"cms"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// CMSConfig configures the local content server.
type CMSConfig struct {
	Addr   string `mapstructure:"addr"`
	DBPath string `mapstructure:"dbPath"`
	Token  string `mapstructure:"token"`
}

// Load reads the configuration. cfgFile may be empty, in which case
// ./theblog.yaml is used when it exists.
func Load(cfgFile string) (Config, error) {
	var cfg Config
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}

	v, err := newViper(cfgFile)
	if err != nil {
		return cfg, err
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return decode(v)
}

// Watch calls onChange with the new configuration whenever the config file
// changes. It needs a config file to exist.
func Watch(cfgFile string, onChange func(Config, error)) error {
	v, err := newViper(cfgFile)
	if err != nil {
		return err
	}
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("no config file to watch: %w", err)
	}
	v.OnConfigChange(func(fsnotify.Event) {
		onChange(decode(v))
	})
	v.WatchConfig()
	return nil
}

func newViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("strapiURL", DefaultStrapiURL)
	v.SetDefault("apiToken", "")
	v.SetDefault("sessionFile", defaultSessionFile())
	v.SetDefault("contentDir", "content")
	v.SetDefault("cms.addr", ":1337")
	v.SetDefault("cms.dbPath", "theblog-cms.db")
	v.SetDefault("cms.token", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("theblog")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// The site's own variable names take precedence over prefixed ones.
	if err := v.BindEnv("strapiURL", "PUBLIC_STRAPI_URL", envPrefix+"_STRAPIURL"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("apiToken", "STRAPI_API_TOKEN", envPrefix+"_APITOKEN"); err != nil {
		return nil, err
	}
	return v, nil
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	cfg.StrapiURL = strings.TrimRight(cfg.StrapiURL, "/")
	cfg.File = v.ConfigFileUsed()
	return cfg, nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "theblog", "storage.yaml")
}
