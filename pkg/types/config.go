package types

import (
	"errors"
	"fmt"
)

// Config describes one store. Path is a file path or MemoryPath.
type Config struct {
	Path          string `json:"path" yaml:"path" mapstructure:"path"`
	Driver        string `json:"driver" yaml:"driver" mapstructure:"driver"`
	BusyTimeout   int    `json:"busy_timeout" yaml:"busy_timeout" mapstructure:"busy_timeout"`
	LogLevel      string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	RegistryTable string `json:"registry_table" yaml:"registry_table" mapstructure:"registry_table"`
}

// MemoryPath selects a private in-memory store.
const MemoryPath = ":memory:"

// Engine driver names. DriverSQLite is the pure-Go engine; DriverCGO is
// only registered when built with the cgo_sqlite tag.
const (
	DriverSQLite = "sqlite"
	DriverCGO    = "sqlite3"
)

// Defaults applied by WithDefaults.
const (
	DefaultBusyTimeout   = 5000
	DefaultLogLevel      = "info"
	DefaultRegistryTable = "registry"
)

// Config validation errors.
var (
	ErrPathEmpty       = fmt.Errorf("%w: path must not be empty", ErrConfiguration)
	ErrDriverUnknown   = fmt.Errorf("%w: unknown driver", ErrConfiguration)
	ErrLogLevelUnknown = fmt.Errorf("%w: unknown log level", ErrConfiguration)
	ErrBusyTimeout     = errors.New("busy timeout must not be negative")
)

var knownDrivers = map[string]bool{
	DriverSQLite: true,
	DriverCGO:    true,
}

var knownLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// WithDefaults returns a copy of c with empty fields filled in.
func (c Config) WithDefaults() Config {
	if c.Driver == "" {
		c.Driver = DriverSQLite
	}
	if c.BusyTimeout == 0 {
		c.BusyTimeout = DefaultBusyTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.RegistryTable == "" {
		c.RegistryTable = DefaultRegistryTable
	}
	return c
}

// Validate checks that the Config is well-formed. Empty optional fields are
// accepted; WithDefaults fills them.
func (c Config) Validate() error {
	if c.Path == "" {
		return ErrPathEmpty
	}
	if c.Driver != "" && !knownDrivers[c.Driver] {
		return fmt.Errorf("%w: %s", ErrDriverUnknown, c.Driver)
	}
	if c.LogLevel != "" && !knownLevels[c.LogLevel] {
		return fmt.Errorf("%w: %s", ErrLogLevelUnknown, c.LogLevel)
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("%w: %w", ErrConfiguration, ErrBusyTimeout)
	}
	return nil
}
