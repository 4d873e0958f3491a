package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty path returns ErrPathEmpty",
			config:  Config{Path: ""},
			wantErr: ErrPathEmpty,
		},
		{
			name:    "unknown driver returns ErrDriverUnknown",
			config:  Config{Path: "/tmp/s.db", Driver: "postgres"},
			wantErr: ErrDriverUnknown,
		},
		{
			name:    "unknown log level returns ErrLogLevelUnknown",
			config:  Config{Path: "/tmp/s.db", LogLevel: "chatty"},
			wantErr: ErrLogLevelUnknown,
		},
		{
			name:    "negative busy timeout returns ErrBusyTimeout",
			config:  Config{Path: "/tmp/s.db", BusyTimeout: -1},
			wantErr: ErrBusyTimeout,
		},
		{
			name:    "memory store is valid",
			config:  Config{Path: MemoryPath},
			wantErr: nil,
		},
		{
			name:    "cgo driver is valid at config level",
			config:  Config{Path: "/tmp/s.db", Driver: DriverCGO, LogLevel: "debug"},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("expected %v to be a configuration error", err)
			}
		})
	}
}

func TestConfigWithDefaults(t *testing.T) {
	got := Config{Path: "/tmp/s.db"}.WithDefaults()
	want := Config{
		Path:          "/tmp/s.db",
		Driver:        DriverSQLite,
		BusyTimeout:   DefaultBusyTimeout,
		LogLevel:      DefaultLogLevel,
		RegistryTable: DefaultRegistryTable,
	}
	if got != want {
		t.Fatalf("WithDefaults() = %+v, want %+v", got, want)
	}

	set := Config{Path: "x", Driver: DriverCGO, BusyTimeout: 10, LogLevel: "warn", RegistryTable: "files"}
	if got := set.WithDefaults(); got != set {
		t.Fatalf("WithDefaults() overwrote set fields: %+v", got)
	}
}
