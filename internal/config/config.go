// Package config handles project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/matsen/costar/internal/loader"
)

const (
	CostarDir  = ".costar"
	ConfigFile = "config.yml"
	CacheDir   = "cache"
	DBFile     = "relations.db"
)

// Environment variables that override the config file.
const (
	EnvCenter   = "COSTAR_CENTER"
	EnvLogLevel = "COSTAR_LOG_LEVEL"
	EnvListen   = "COSTAR_LISTEN"
	EnvWorkers  = "COSTAR_WORKERS"
)

// MaxWorkers bounds the number of concurrent searches used for ranking.
const MaxWorkers = 64

// ValidLogFormats lists the supported log_format values.
var ValidLogFormats = []string{"text", "json"}

var (
	// ErrNotProject is returned when no .costar directory is found.
	ErrNotProject = errors.New("not in a costar project (no .costar directory found)")

	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config represents project configuration stored in .costar/config.yml.
type Config struct {
	Actors      string  `yaml:"actors" json:"actors"`
	Movies      string  `yaml:"movies" json:"movies"`
	MovieActors string  `yaml:"movie_actors" json:"movie_actors"`
	Center      string  `yaml:"center" json:"center"`
	Workers     int     `yaml:"workers" json:"workers"`
	LogLevel    string  `yaml:"log_level" json:"log_level"`
	LogFormat   string  `yaml:"log_format" json:"log_format"`
	Listen      string  `yaml:"listen" json:"listen"`
	RateLimit   float64 `yaml:"rate_limit" json:"rate_limit"`
	RateBurst   int     `yaml:"rate_burst" json:"rate_burst"`
	MetricsFile string  `yaml:"metrics_file,omitempty" json:"metrics_file,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Actors:      filepath.Join("inputs", "actors.txt"),
		Movies:      filepath.Join("inputs", "movies.txt"),
		MovieActors: filepath.Join("inputs", "movie-actors.txt"),
		Center:      "Kevin Bacon",
		Workers:     4,
		LogLevel:    "info",
		LogFormat:   "text",
		Listen:      "127.0.0.1:8080",
		RateLimit:   20,
		RateBurst:   40,
	}
}

// CostarPath returns the path to the .costar directory from a root path.
func CostarPath(root string) string {
	return filepath.Join(root, CostarDir)
}

// ConfigPath returns the path to config.yml from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, CostarDir, ConfigFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, CostarDir, CacheDir)
}

// DBPath returns the path to relations.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, CostarDir, CacheDir, DBFile)
}

// IsProject checks if the given path contains a .costar directory.
func IsProject(root string) bool {
	info, err := os.Stat(CostarPath(root))
	return err == nil && info.IsDir()
}

// FindProject walks up from the given path to find a costar project.
func FindProject(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsProject(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNotProject
		}
		abs = parent
	}
}

// Load reads configuration from the project at root. A missing config file
// yields the defaults.
func Load(root string) (*Config, error) {
	return LoadFile(ConfigPath(root))
}

// LoadFile reads configuration from path. Keys absent from the file keep
// their default values; a missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes configuration to the project at root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(CostarPath(root), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", CostarDir, err)
	}
	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from COSTAR_* variables returned by lookup
// (normally os.LookupEnv).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvCenter); ok && v != "" {
		c.Center = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvListen); ok && v != "" {
		c.Listen = v
	}
	if v, ok := lookup(EnvWorkers); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, EnvWorkers, v)
		}
		c.Workers = n
	}
	return nil
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if c.Workers < 1 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be between 1 and %d, got %d", ErrInvalidConfig, MaxWorkers, c.Workers)
	}
	if c.Center == "" {
		return fmt.Errorf("%w: center must not be empty", ErrInvalidConfig)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalidConfig, err)
	}
	if !validFormat(c.LogFormat) {
		return fmt.Errorf("%w: log_format %q (valid: %v)", ErrInvalidConfig, c.LogFormat, ValidLogFormats)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("%w: rate_limit must be positive, got %v", ErrInvalidConfig, c.RateLimit)
	}
	if c.RateBurst < 1 {
		return fmt.Errorf("%w: rate_burst must be at least 1, got %d", ErrInvalidConfig, c.RateBurst)
	}
	return nil
}

func validFormat(format string) bool {
	for _, f := range ValidLogFormats {
		if format == f {
			return true
		}
	}
	return false
}

// InputPaths resolves the relation file paths against root.
func (c *Config) InputPaths(root string) loader.Paths {
	return loader.Paths{
		Actors:      Resolve(root, c.Actors),
		Movies:      Resolve(root, c.Movies),
		MovieActors: Resolve(root, c.MovieActors),
	}
}

// Resolve expands ~ in path and makes relative paths relative to root.
func Resolve(root, path string) string {
	path = ExpandPath(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
