package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Spawner holds all configuration for the spawn pattern generator.
type Spawner struct {
	Enabled  bool   `yaml:"enabled"`
	LogLevel string `yaml:"log_level"`

	// Seed feeds the per-map RNG streams. Zero picks a random seed on every pass.
	Seed uint64 `yaml:"seed"`

	// Patterns
	PatternDir        string         `yaml:"pattern_dir"`
	DefaultPattern    string         `yaml:"default_pattern"`
	UseRandomPatterns bool           `yaml:"use_random_patterns"`
	RandomPatterns    map[string]int `yaml:"random_patterns"`

	// Toggles passed into every generation pass
	UsePatternSpawns PatternSpawns `yaml:"use_pattern_spawns"`
	UseDefaultSpawns DefaultSpawns `yaml:"use_default_spawns"`

	// Bot type/difficulty catalog file; empty uses the bundled one
	BotCatalog string `yaml:"bot_catalog"`

	Storage Storage `yaml:"storage"`
	Metrics Metrics `yaml:"metrics"`

	GenerateOnStart bool `yaml:"generate_on_start"`
}

// PatternSpawns enables each generation category independently.
type PatternSpawns struct {
	Bosses         bool `yaml:"bosses"`
	Waves          bool `yaml:"waves"`
	TriggeredWaves bool `yaml:"triggered_waves"`
}

// DefaultSpawns retains the corresponding native map content instead of clearing it.
type DefaultSpawns struct {
	Waves          bool `yaml:"waves"`
	Bosses         bool `yaml:"bosses"`
	TriggeredWaves bool `yaml:"triggered_waves"`
}

// Toggles is the toggle subset a generation pass needs.
type Toggles struct {
	UsePatternSpawns PatternSpawns
	UseDefaultSpawns DefaultSpawns
}

// Toggles returns the toggles of this configuration.
func (s Spawner) Toggles() Toggles {
	return Toggles{
		UsePatternSpawns: s.UsePatternSpawns,
		UseDefaultSpawns: s.UseDefaultSpawns,
	}
}

// Storage selects where map-state records live.
type Storage struct {
	Driver       string         `yaml:"driver"` // file | postgres
	LocationsDir string         `yaml:"locations_dir"`
	OutputDir    string         `yaml:"output_dir"`
	Database     DatabaseConfig `yaml:"database"`
}

// Metrics configures the Prometheus endpoint.
type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// DefaultSpawner returns Spawner config with sensible defaults.
func DefaultSpawner() Spawner {
	return Spawner{
		Enabled:        true,
		LogLevel:       "info",
		PatternDir:     "config/patterns",
		DefaultPattern: "default",
		UsePatternSpawns: PatternSpawns{
			Bosses:         true,
			Waves:          true,
			TriggeredWaves: true,
		},
		UseDefaultSpawns: DefaultSpawns{
			TriggeredWaves: true,
		},
		Storage: Storage{
			Driver:       StorageFile,
			LocationsDir: "data/locations",
			OutputDir:    "data/generated",
			Database: DatabaseConfig{
				Host:     "127.0.0.1",
				Port:     5432,
				User:     "spawnpattern",
				Password: "spawnpattern",
				DBName:   "spawnpattern",
				SSLMode:  "disable",
			},
		},
		Metrics: Metrics{
			Address: ":9090",
		},
	}
}

// LoadSpawner loads generator config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSpawner(path string) (Spawner, error) {
	cfg := DefaultSpawner()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

func (s Spawner) validate() error {
	switch s.Storage.Driver {
	case StorageFile, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", s.Storage.Driver)
	}
	if s.DefaultPattern == "" && (!s.UseRandomPatterns || len(s.RandomPatterns) == 0) {
		return fmt.Errorf("no default_pattern and no random_patterns configured")
	}
	for name, weight := range s.RandomPatterns {
		if weight < 0 {
			return fmt.Errorf("random pattern %q has negative weight %d", name, weight)
		}
	}
	return nil
}
