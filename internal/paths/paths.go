// Package paths resolves where jeeves keeps its configuration and stores.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "jeeves"

// DefaultDataDirName is the CWD-relative data directory used when nothing
// else is configured.
const DefaultDataDirName = ".jeeves"

// DefaultStoreFile is the store file name inside the data directory.
const DefaultStoreFile = "jeeves.db"

// Environment variable overrides.
const (
	EnvConfigDir = "JEEVES_CONFIG_DIR"
	EnvDataDir   = "JEEVES_DATA_DIR"
)

// memoryPath is passed through untouched by ResolveStorePath.
const memoryPath = ":memory:"

// platformDir is swapped in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// xdgDir returns $env/jeeves on Linux, falling back to ~/<fallback...>/jeeves.
// Other platforms use os.UserConfigDir.
func xdgDir(env string, fallback ...string) (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
	if v := os.Getenv(env); v != "" {
		return filepath.Join(v, appName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, fallback...), appName)...), nil
}

// DefaultConfigDir returns the platform configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/jeeves (fallback ~/.config/jeeves)
// macOS:   ~/Library/Application Support/jeeves
// Windows: %APPDATA%/jeeves
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory.
//
// Linux:   $XDG_DATA_HOME/jeeves (fallback ~/.local/share/jeeves)
// macOS and Windows: same as DefaultConfigDir.
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// firstAbs returns the absolute form of the first non-empty candidate.
func firstAbs(candidates ...string) (string, bool, error) {
	for _, c := range candidates {
		if c != "" {
			p, err := filepath.Abs(c)
			return p, true, err
		}
	}
	return "", false, nil
}

// ResolveConfigDir applies flag > JEEVES_CONFIG_DIR > DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	if p, ok, err := firstAbs(flag, os.Getenv(EnvConfigDir)); ok {
		return p, err
	}
	return DefaultConfigDir()
}

// ResolveDataDir applies flag > config value > JEEVES_DATA_DIR > ./.jeeves.
func ResolveDataDir(flag, configValue string) (string, error) {
	if p, ok, err := firstAbs(flag, configValue, os.Getenv(EnvDataDir)); ok {
		return p, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ResolveStorePath applies flag > config value > dataDir/jeeves.db. The
// in-memory location is returned unchanged.
func ResolveStorePath(flag, configValue, dataDir string) (string, error) {
	for _, p := range []string{flag, configValue} {
		switch p {
		case "":
			continue
		case memoryPath:
			return p, nil
		}
		return filepath.Abs(p)
	}
	return filepath.Join(dataDir, DefaultStoreFile), nil
}
