package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/jeeves/internal/paths"
	"github.com/mesh-intelligence/jeeves/internal/sqlite"
	"github.com/mesh-intelligence/jeeves/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyPath          = "path"
	cfgKeyDataDir       = "data_dir"
	cfgKeyDriver        = "driver"
	cfgKeyBusyTimeout   = "busy_timeout"
	cfgKeyLogLevel      = "log_level"
	cfgKeyRegistryTable = "registry_table"
)

// configFile is the shape written to config.yaml by init.
type configFile struct {
	DataDir       string `yaml:"data_dir,omitempty"`
	Path          string `yaml:"path,omitempty"`
	Driver        string `yaml:"driver"`
	BusyTimeout   int    `yaml:"busy_timeout"`
	LogLevel      string `yaml:"log_level"`
	RegistryTable string `yaml:"registry_table"`
}

// newViper reads config.yaml from configDir with JEEVES_* environment
// overrides. A missing config.yaml is not an error.
func newViper(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyDriver, sqlite.DriverName())
	v.SetDefault(cfgKeyBusyTimeout, types.DefaultBusyTimeout)
	v.SetDefault(cfgKeyLogLevel, types.DefaultLogLevel)
	v.SetDefault(cfgKeyRegistryTable, types.DefaultRegistryTable)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("JEEVES")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// loadConfig resolves the store configuration: flags first, then
// config.yaml and environment, then defaults.
func loadConfig(f *rootFlags) (types.Config, error) {
	configDir, err := paths.ResolveConfigDir(f.configDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := newViper(configDir)
	if err != nil {
		return types.Config{}, err
	}
	dataDir, err := paths.ResolveDataDir(f.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	path, err := paths.ResolveStorePath(f.dbPath, v.GetString(cfgKeyPath), dataDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve store path: %w", err)
	}

	cfg := types.Config{
		Path:          path,
		Driver:        v.GetString(cfgKeyDriver),
		BusyTimeout:   v.GetInt(cfgKeyBusyTimeout),
		LogLevel:      v.GetString(cfgKeyLogLevel),
		RegistryTable: v.GetString(cfgKeyRegistryTable),
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg.WithDefaults(), nil
}

// writeConfigIfMissing creates config.yaml with defaults. An existing file
// is left untouched.
func writeConfigIfMissing(configDir, dataDir string) (string, bool, error) {
	path := filepath.Join(configDir, configFileExt)
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	} else if !os.IsNotExist(err) {
		return "", false, fmt.Errorf("stat config file: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", false, fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(&configFile{
		DataDir:       dataDir,
		Driver:        sqlite.DriverName(),
		BusyTimeout:   types.DefaultBusyTimeout,
		LogLevel:      types.DefaultLogLevel,
		RegistryTable: types.DefaultRegistryTable,
	})
	if err != nil {
		return "", false, fmt.Errorf("marshal config: %w", err)
	}
	return path, true, os.WriteFile(path, data, 0o644)
}
