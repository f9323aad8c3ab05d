package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphpos/pkg/api"
	"github.com/matzehuels/graphpos/pkg/errors"
	"github.com/matzehuels/graphpos/pkg/pipeline"
)

// Config is the on-disk configuration. Command-line flags override it.
//
//	[layout]
//	direction = "LR"
//	node_spacing = 60
//
//	[simulation]
//	max_ticks = 1000
//
//	[simulation.force]
//	link_distance = 80
//	charge_strength = -8000
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "72h"
//
//	[server]
//	addr = ":9090"
//
//	[log]
//	format = "json"
type Config struct {
	Layout     pipeline.LayoutOptions   `toml:"layout"`
	Simulation pipeline.SimulateOptions `toml:"simulation"`
	Cache      CacheConfig              `toml:"cache"`
	Server     ServerConfig             `toml:"server"`
	Log        LogConfig                `toml:"log"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	// Backend is "file", "redis" or "none".
	Backend     string        `toml:"backend"`
	Dir         string        `toml:"dir,omitempty"`
	RedisAddr   string        `toml:"redis_addr,omitempty"`
	RedisURL    string        `toml:"redis_url,omitempty"`
	RedisPrefix string        `toml:"redis_prefix,omitempty"`
	TTL         time.Duration `toml:"ttl,omitempty"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr    string        `toml:"addr"`
	Timeout time.Duration `toml:"timeout,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Cache:  CacheConfig{Backend: BackendFile, RedisPrefix: appName + ":"},
		Server: ServerConfig{Addr: api.DefaultAddr},
	}
}

// configPath returns the default config file location.
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadConfig reads the config at path over DefaultConfig. An empty path
// selects the default location, where a missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, cfg)
	if os.IsNotExist(err) {
		if explicit {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s not found", path)
		}
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s: %v", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if err := c.Simulation.Validate(); err != nil {
		return err
	}
	if err := errors.ValidateOneOf(errors.ErrCodeInvalidOptions, "cache.backend", c.Cache.Backend,
		BackendFile, BackendRedis, BackendNone); err != nil {
		return err
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" && c.Cache.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidOptions, "cache.backend is redis but neither redis_addr nor redis_url is set")
	}
	if c.Cache.TTL < 0 || c.Server.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "durations must not be negative")
	}
	return c.Log.Validate()
}

// Write encodes the configuration as TOML.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// =============================================================================
// config command
// =============================================================================

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the default config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return fmt.Errorf("get config dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Config.Write(cmd.OutOrStdout())
		},
	})

	return cmd
}
