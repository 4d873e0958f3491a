package paths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlatform points the platform lookups at fixed directories for the
// duration of a test.
func fakePlatform(t *testing.T, home, config string) {
	t.Helper()
	saved := platformDir
	platformDir.homeDir = func() (string, error) { return home, nil }
	platformDir.userConfigDir = func() (string, error) { return config, nil }
	t.Cleanup(func() { platformDir = saved })
}

func TestXDGDir(t *testing.T) {
	fakePlatform(t, "/home/ann", "/cfg")

	if runtime.GOOS != "linux" {
		got, err := xdgDir("XDG_CONFIG_HOME", ".config")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/cfg", appName), got)
		return
	}

	tests := []struct {
		name     string
		env      string
		fallback []string
		want     string
	}{
		{"env set", "/xdg", []string{".config"}, "/xdg/jeeves"},
		{"home fallback", "", []string{".config"}, "/home/ann/.config/jeeves"},
		{"nested fallback", "", []string{".local", "share"}, "/home/ann/.local/share/jeeves"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JEEVES_TEST_XDG", tt.env)
			got, err := xdgDir("JEEVES_TEST_XDG", tt.fallback...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestXDGDir_HomeError(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("home fallback is linux only")
	}
	saved := platformDir
	platformDir.homeDir = func() (string, error) { return "", errors.New("no home") }
	t.Cleanup(func() { platformDir = saved })
	t.Setenv("XDG_DATA_HOME", "")

	_, err := DefaultDataDir()
	assert.EqualError(t, err, "no home")
}

func TestDefaultDirs(t *testing.T) {
	fakePlatform(t, "/home/ann", "/cfg")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")

	cfg, err := DefaultConfigDir()
	require.NoError(t, err)
	data, err := DefaultDataDir()
	require.NoError(t, err)

	if runtime.GOOS == "linux" {
		assert.Equal(t, "/home/ann/.config/jeeves", cfg)
		assert.Equal(t, "/home/ann/.local/share/jeeves", data)
		return
	}
	assert.Equal(t, filepath.Join("/cfg", appName), cfg)
	assert.Equal(t, cfg, data)
}

func TestFirstAbs(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name       string
		candidates []string
		want       string
		wantOK     bool
	}{
		{"none", nil, "", false},
		{"all empty", []string{"", ""}, "", false},
		{"first non-empty wins", []string{"", "/a", "/b"}, "/a", true},
		{"relative made absolute", []string{"rel"}, filepath.Join(cwd, "rel"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := firstAbs(tt.candidates...)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveConfigDir(t *testing.T) {
	fakePlatform(t, "/home/ann", "/cfg")
	t.Setenv("XDG_CONFIG_HOME", "")
	def, err := DefaultConfigDir()
	require.NoError(t, err)

	tests := []struct {
		name string
		flag string
		env  string
		want string
	}{
		{"flag over env", "/flag", "/env", "/flag"},
		{"env when no flag", "", "/env", "/env"},
		{"platform default", "", "", def},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigDir, tt.env)
			got, err := ResolveConfigDir(tt.flag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDataDir(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name   string
		flag   string
		config string
		env    string
		want   string
	}{
		{"flag over everything", "/flag", "/cfg", "/env", "/flag"},
		{"config over env", "", "/cfg", "/env", "/cfg"},
		{"env next", "", "", "/env", "/env"},
		{"relative config made absolute", "", "data", "", filepath.Join(cwd, "data")},
		{"working directory default", "", "", "", filepath.Join(cwd, DefaultDataDirName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvDataDir, tt.env)
			got, err := ResolveDataDir(tt.flag, tt.config)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveStorePath(t *testing.T) {
	dataDir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name   string
		flag   string
		config string
		want   string
	}{
		{name: "flag wins", flag: "/flag/s.db", config: "/cfg/s.db", want: "/flag/s.db"},
		{name: "config value next", config: "/cfg/s.db", want: "/cfg/s.db"},
		{name: "relative flag made absolute", flag: "s.db", want: filepath.Join(cwd, "s.db")},
		{name: "data dir default", want: filepath.Join(dataDir, DefaultStoreFile)},
		{name: "memory flag passes through", flag: memoryPath, config: "/cfg/s.db", want: memoryPath},
		{name: "memory config passes through", config: memoryPath, want: memoryPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveStorePath(tt.flag, tt.config, dataDir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
