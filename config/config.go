// Package config loads forcealign settings from forcealign.yaml, a .env file
// and FORCEALIGN_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FORCEALIGN_STORE_PATH.
const EnvPrefix = "FORCEALIGN"

type Log struct {
	Level string `mapstructure:"level"`
}

type Corpus struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Query  string `mapstructure:"query"`
}

type Audio struct {
	Root    string `mapstructure:"root"`
	Pattern string `mapstructure:"pattern"`
	FFmpeg  string `mapstructure:"ffmpeg"`
	Padding int    `mapstructure:"padding"`
}

type Model struct {
	Kind    string        `mapstructure:"kind"` // "dnn" or "remote"
	Path    string        `mapstructure:"path"`
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Vocabulary struct {
	Path string `mapstructure:"path"` // empty selects the built-in vocabulary
}

type Store struct {
	Path string `mapstructure:"path"`
}

type Runner struct {
	SkipLogEvery int `mapstructure:"skip_log_every"`
}

// Config is the full set of settings.
type Config struct {
	Log        Log        `mapstructure:"log"`
	Corpus     Corpus     `mapstructure:"corpus"`
	Audio      Audio      `mapstructure:"audio"`
	Model      Model      `mapstructure:"model"`
	Vocabulary Vocabulary `mapstructure:"vocabulary"`
	Store      Store      `mapstructure:"store"`
	Runner     Runner     `mapstructure:"runner"`
}

// SetDefaults registers every key, which also makes each one overridable from the environment.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("corpus.driver", "sqlite")
	v.SetDefault("corpus.dsn", "gita.db")
	v.SetDefault("corpus.query", "")
	v.SetDefault("audio.root", ".")
	v.SetDefault("audio.pattern", "Chapter%[1]d_audio/ch%02[1]d_sh%02[2]d.m4a")
	v.SetDefault("audio.ffmpeg", "ffmpeg")
	v.SetDefault("audio.padding", 32000)
	v.SetDefault("model.kind", "dnn")
	v.SetDefault("model.path", "model.gob")
	v.SetDefault("model.url", "")
	v.SetDefault("model.timeout", 2*time.Minute)
	v.SetDefault("vocabulary.path", "")
	v.SetDefault("store.path", "word_timings.json")
	v.SetDefault("runner.skip_log_every", 50)
}

// LoadEnv reads .env files into the process environment. Missing files are
// ignored and variables that are already set win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads configuration into v and decodes it. An empty file searches for
// forcealign.yaml in the working directory; a missing search result is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("forcealign")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that have no usable fallback.
func (c *Config) Validate() error {
	switch c.Model.Kind {
	case "dnn":
		if c.Model.Path == "" {
			return fmt.Errorf("model.path is required for the dnn model")
		}
	case "remote":
		if c.Model.URL == "" {
			return fmt.Errorf("model.url is required for the remote model")
		}
	default:
		return fmt.Errorf("unknown model.kind %q (want dnn or remote)", c.Model.Kind)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Audio.Padding < 0 {
		return fmt.Errorf("audio.padding must not be negative")
	}
	return nil
}
