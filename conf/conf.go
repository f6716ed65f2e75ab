// Package conf loads the process configuration from an optional YAML
// file plus MEDIAHUB_-prefixed environment variables. Defaults apply
// for everything left unset, so an empty environment still yields a
// runnable local configuration.
package conf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/looplj/mediahub/internal/autosave"
	"github.com/looplj/mediahub/internal/gen/normalizer"
	"github.com/looplj/mediahub/internal/log"
	"github.com/looplj/mediahub/internal/prefs"
	"github.com/looplj/mediahub/internal/server"
)

// Config is the full process configuration.
type Config struct {
	Server   server.Config     `conf:"server"    yaml:"server"    json:"server"`
	Log      log.Config        `conf:"log"       yaml:"log"       json:"log"`
	Upstream normalizer.Config `conf:"upstream"  yaml:"upstream"  json:"upstream"`
	AutoSave autosave.Config   `conf:"auto_save" yaml:"auto_save" json:"auto_save"`
	Prefs    prefs.Config      `conf:"prefs"     yaml:"prefs"     json:"prefs"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server:   server.DefaultConfig(),
		Log:      log.DefaultConfig(),
		Upstream: normalizer.Config{BaseURL: "https://fal.run"},
		AutoSave: autosave.DefaultConfig(),
		Prefs:    prefs.DefaultConfig(),
	}
}

// Load reads config.yml from the working directory or /etc/mediahub,
// overlays MEDIAHUB_ environment variables, and fills the rest with
// defaults. A missing config file is not an error.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/mediahub")

	v.SetEnvPrefix("MEDIAHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindKnownKeys(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := Default()

	if err := v.Unmarshal(&config, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "conf"
	}); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return config, nil
}

// Module loads the configuration and exposes each section as its own
// dependency.
var Module = fx.Options(
	fx.Provide(Load),
	fx.Provide(func(c Config) server.Config { return c.Server }),
	fx.Provide(func(c Config) log.Config { return c.Log }),
	fx.Provide(func(c Config) normalizer.Config { return c.Upstream }),
	fx.Provide(func(c Config) autosave.Config { return c.AutoSave }),
	fx.Provide(func(c Config) prefs.Config { return c.Prefs }),
)

// bindKnownKeys registers the scalar keys so AutomaticEnv can see them
// even when no config file mentions them.
func bindKnownKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.name",
		"server.host",
		"server.port",
		"server.debug",
		"server.api_key",
		"log.level",
		"log.format",
		"upstream.base_url",
		"upstream.api_key",
		"auto_save.enabled",
		"auto_save.type",
		"auto_save.directory",
		"auto_save.directory_name",
		"prefs.path",
	} {
		_ = v.BindEnv(key)
	}
}
