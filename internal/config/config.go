// Package config provides configuration management for the kvs-server
// binary. It layers built-in defaults under an optional YAML file with an
// optional .env overlay. The file is optional by design: a missing config
// file falls back to the defaults instead of failing, since the CLI must
// work with zero configuration.
package config

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Config holds the kvs-server process configuration. The compaction
// interval is expressed in whole seconds because yaml.v2 has no native
// duration decoding.
type Config struct {
	Addr                   string `yaml:"addr"`
	Engine                 string `yaml:"engine"`
	DataDir                string `yaml:"data_dir"`
	CompactionThreshold    int64  `yaml:"compaction_threshold_bytes"`
	CompactionIntervalSecs int    `yaml:"compaction_interval_secs"`
	PoolSize               int    `yaml:"pool_size"`
}

// CompactionInterval returns the configured interval as a duration.
func (c Config) CompactionInterval() time.Duration {
	return time.Duration(c.CompactionIntervalSecs) * time.Second
}

// Default returns the nominal configuration used when no file is present.
func Default() Config {
	return Config{
		Addr:                   "127.0.0.1:4000",
		Engine:                 "kvs",
		DataDir:                "./kvs-data",
		CompactionThreshold:    1 << 20,
		CompactionIntervalSecs: 5,
		PoolSize:               6,
	}
}

var (
	loaded  Config
	once    sync.Once
	loadErr error
)

// Load reads defaults, then overlays an optional YAML file at path (if it
// exists), expanding environment variables from an optional .env file the
// same way godotenv.Load + os.ExpandEnv do. A missing path is not an error.
// Safe to call concurrently; only the first call's path takes effect.
func Load(path string) (Config, error) {
	once.Do(func() {
		loaded = Default()

		if err := godotenv.Load(); err != nil {
			slog.Debug("config: no .env file found or error loading it", "error", err)
		}

		if path == "" {
			return
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				slog.Debug("config: no config file found, using defaults", "path", path)
				return
			}
			loadErr = err
			return
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), &loaded); err != nil {
			loadErr = err
			return
		}
		slog.Debug("config: loaded file", "path", path)
	})
	return loaded, loadErr
}
