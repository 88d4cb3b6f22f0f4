// Package config loads and persists the JSON configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Version is the config schema version written by Save.
const Version = "1.0.0"

// versionConstraint accepts every schema this build can read.
const versionConstraint = "^1.0.0"

// EnvPrefix prefixes environment overrides, e.g. MEMTALLY_LOG_LEVEL.
const EnvPrefix = "MEMTALLY"

// DefaultPath is the config file used when none is given.
const DefaultPath = "config.json"

// Units accepted by Log.Unit.
const (
	UnitDecimal = "decimal"
	UnitBinary  = "binary"
)

// ErrIncompatibleVersion is returned for config files written by a newer
// or older schema.
var ErrIncompatibleVersion = errors.New("incompatible config version")

// Log holds the logging settings.
type Log struct {
	Level string `json:"level" mapstructure:"level"`
	Unit  string `json:"unit"  mapstructure:"unit"`
	Color bool   `json:"color" mapstructure:"color"`
}

// Config is the persisted configuration.
type Config struct {
	Version string `json:"version" mapstructure:"version"`
	Log     Log    `json:"log"     mapstructure:"log"`
}

// Default returns the configuration written for a new file.
func Default() Config {
	return Config{
		Version: Version,
		Log: Log{
			Level: "info",
			Unit:  UnitDecimal,
			Color: true,
		},
	}
}

// Binary reports whether memory figures use powers of 1024.
func (c Config) Binary() bool {
	return c.Log.Unit == UnitBinary
}

// Validate checks the schema version and the enumerated fields.
func (c Config) Validate() error {
	v, err := semver.NewVersion(c.Version)
	if err != nil {
		return fmt.Errorf("invalid config version %q: %w", c.Version, err)
	}

	constraint, err := semver.NewConstraint(versionConstraint)
	if err != nil {
		return err
	}

	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s (supported: %s)", ErrIncompatibleVersion, v, versionConstraint)
	}

	switch c.Log.Unit {
	case UnitDecimal, UnitBinary:
	default:
		return fmt.Errorf("invalid log unit %q (valid: %s|%s)", c.Log.Unit, UnitDecimal, UnitBinary)
	}

	return nil
}

// Store reads and writes config files on a filesystem.
type Store struct {
	helper *fsHelper
}

// NewStore returns a store on fs. A nil fs means the OS filesystem.
func NewStore(fs afero.Fs) *Store {
	return &Store{helper: newFSHelper(fs)}
}

// Load reads the config file at path. Environment variables prefixed with
// EnvPrefix override file values. A missing file yields an error matching
// fs.ErrNotExist.
func (s *Store) Load(path string) (Config, error) {
	v := viper.New()
	v.SetFs(s.helper.fs)
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("version", def.Version)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.unit", def.Log.Unit)
	v.SetDefault("log.color", def.Log.Color)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("could not open config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("could not decode config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadOrInit loads path, first writing the default config there if the
// file does not exist.
func (s *Store) LoadOrInit(path string) (Config, error) {
	cfg, err := s.Load(path)
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return cfg, err
	}

	if err := s.Save(path, Default()); err != nil {
		return Config{}, err
	}

	return s.Load(path)
}

// Save writes cfg to path as indented JSON.
func (s *Store) Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode config: %w", err)
	}

	if err := s.helper.writeFile(path, append(data, '\n')); err != nil {
		return fmt.Errorf("could not create config file: %w", err)
	}

	return nil
}
