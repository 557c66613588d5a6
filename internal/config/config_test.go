package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != "cli" {
		t.Errorf("Expected default mode to be 'cli', got '%s'", cfg.Mode)
	}

	if cfg.Host != "127.0.0.1" {
		t.Errorf("Expected default host to be '127.0.0.1', got '%s'", cfg.Host)
	}

	if cfg.Port != 8080 {
		t.Errorf("Expected default port to be 8080, got %d", cfg.Port)
	}

	if cfg.Version != "2.0" {
		t.Errorf("Expected default version to be '2.0', got '%s'", cfg.Version)
	}

	if cfg.ServerName != "project-alpha" {
		t.Errorf("Expected default server name to be 'project-alpha', got '%s'", cfg.ServerName)
	}

	if cfg.FileType != FileTypePDF {
		t.Errorf("Expected default file type to be 'pdf', got '%s'", cfg.FileType)
	}

	if cfg.Scan != ScanAuto || cfg.Format != FormatAuto {
		t.Errorf("Expected auto scan and format, got '%s' and '%s'", cfg.Scan, cfg.Format)
	}

	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}

	currentDir, _ := os.Getwd()
	if cfg.Directory != currentDir {
		t.Errorf("Expected default directory to be '%s', got '%s'", currentDir, cfg.Directory)
	}
}

func TestConfigValidate(t *testing.T) {
	withText := func(mutate func(*Config)) *Config {
		cfg := DefaultConfig()
		cfg.Text = "1-Jan a 2-Jan"
		if mutate != nil {
			mutate(cfg)
		}
		return cfg
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr string
	}{
		{
			name:   "valid cli config with text",
			config: withText(nil),
		},
		{
			name:   "valid cli config with positional document",
			config: withText(func(c *Config) { c.Text = ""; c.InputPath = "doc.pdf" }),
		},
		{
			name:    "cli mode without input",
			config:  DefaultConfig(),
			wantErr: "no input",
		},
		{
			name:   "stdio mode needs no input",
			config: withText(func(c *Config) { c.Text = ""; c.Mode = ModeStdio }),
		},
		{
			name:    "invalid mode",
			config:  withText(func(c *Config) { c.Mode = "grpc" }),
			wantErr: "mode must be",
		},
		{
			name:    "server mode with invalid port",
			config:  withText(func(c *Config) { c.Mode = ModeServer; c.Port = 0 }),
			wantErr: "port must be",
		},
		{
			name:   "cli mode ignores port",
			config: withText(func(c *Config) { c.Port = 0 }),
		},
		{
			name:    "non-positive max file size",
			config:  withText(func(c *Config) { c.MaxFileSize = 0 }),
			wantErr: "maximum file size",
		},
		{
			name:    "invalid scan",
			config:  withText(func(c *Config) { c.Scan = "weeks" }),
			wantErr: "invalid scan",
		},
		{
			name:    "invalid format",
			config:  withText(func(c *Config) { c.Format = "xml" }),
			wantErr: "invalid format",
		},
		{
			name:    "invalid file type",
			config:  withText(func(c *Config) { c.FileType = "odt" }),
			wantErr: "invalid file type",
		},
		{
			name:    "stdio mode with missing directory",
			config:  withText(func(c *Config) { c.Mode = ModeStdio; c.Directory = "/nonexistent/alpha/dir" }),
			wantErr: "cannot access directory",
		},
		{
			name:    "stdio mode with empty directory",
			config:  withText(func(c *Config) { c.Mode = ModeStdio; c.Directory = "" }),
			wantErr: "directory cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfigValidate_DirectoryIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Mode = ModeServer
	cfg.Directory = file

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "not a directory") {
		t.Errorf("Validate() error = %v, want not a directory", err)
	}
}

func TestConfigValidateLogLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := DefaultConfig()
		cfg.Text = "x"
		cfg.LogLevel = level
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() log level %q: unexpected error %v", level, err)
		}
	}

	for _, level := range []string{"trace", "INFO", ""} {
		cfg := DefaultConfig()
		cfg.Text = "x"
		cfg.LogLevel = level
		if err := cfg.Validate(); err == nil {
			t.Errorf("Validate() log level %q: expected error", level)
		}
	}
}

func TestConfigAddress(t *testing.T) {
	cfg := &Config{Host: "localhost", Port: 9000}
	if got := cfg.Address(); got != "localhost:9000" {
		t.Errorf("Address() = %s, want localhost:9000", got)
	}
}

func TestConfigModes(t *testing.T) {
	tests := []struct {
		mode                   string
		wantCLI, wantStdio, wantServer bool
	}{
		{mode: ModeCLI, wantCLI: true},
		{mode: ModeStdio, wantStdio: true},
		{mode: ModeServer, wantServer: true},
		{mode: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg := &Config{Mode: tt.mode}
			if cfg.IsCLIMode() != tt.wantCLI {
				t.Errorf("IsCLIMode() = %v, want %v", cfg.IsCLIMode(), tt.wantCLI)
			}
			if cfg.IsStdioMode() != tt.wantStdio {
				t.Errorf("IsStdioMode() = %v, want %v", cfg.IsStdioMode(), tt.wantStdio)
			}
			if cfg.IsServerMode() != tt.wantServer {
				t.Errorf("IsServerMode() = %v, want %v", cfg.IsServerMode(), tt.wantServer)
			}
		})
	}
}

func TestConfigIsDebug(t *testing.T) {
	if !(&Config{LogLevel: "debug"}).IsDebug() {
		t.Error("IsDebug() = false for debug level")
	}
	if (&Config{LogLevel: "info"}).IsDebug() {
		t.Error("IsDebug() = true for info level")
	}
}

func TestConfigString(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scan = ScanTimes
	s := cfg.String()

	for _, want := range []string{"Mode: cli", "Scan: times", "Format: auto", "FileType: pdf"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %s, want it to contain %q", s, want)
		}
	}
}

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "single dash long flags",
			args: []string{"-file", "notes.txt", "-pretty"},
			want: []string{"--file", "notes.txt", "--pretty"},
		},
		{
			name: "single dash with value",
			args: []string{"-text=1-Jan a 2-Jan", "-txt"},
			want: []string{"--text=1-Jan a 2-Jan", "--txt"},
		},
		{
			name: "double dash untouched",
			args: []string{"--file", "a", "--scan=times"},
			want: []string{"--file", "a", "--scan=times"},
		},
		{
			name: "unknown single dash untouched",
			args: []string{"-x", "-scan"},
			want: []string{"-x", "-scan"},
		},
		{
			name: "values that look like flags are kept after terminator",
			args: []string{"-pdf", "--", "-file"},
			want: []string{"--pdf", "--", "-file"},
		},
		{
			name: "flag values are never rewritten",
			args: []string{"-text", "-pretty", "--file", "-txt", "-pdf"},
			want: []string{"--text", "-pretty", "--file", "-txt", "--pdf"},
		},
		{
			name: "positional document",
			args: []string{"schedule.pdf"},
			want: []string{"schedule.pdf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeArgs(tt.args)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	for _, args := range [][]string{{"-v"}, {"--version"}, {"-version"}, {"a.pdf", "-v"}} {
		if !IsVersionRequested(args) {
			t.Errorf("IsVersionRequested(%v) = false", args)
		}
	}
	for _, args := range [][]string{
		{"-file", "v"},
		{"-text", "-v"},
		{"--text", "--version"},
		{"--file", "-version", "a.pdf"},
		{"a.pdf", "--", "-v"},
		{"--text=-v"},
	} {
		if IsVersionRequested(args) {
			t.Errorf("IsVersionRequested(%q) = true without a version flag", args)
		}
	}
	if !IsVersionRequested([]string{"--text=x", "-v"}) {
		t.Error("IsVersionRequested() = false after an inline flag value")
	}

	if got := VersionString(""); got != "Project Alpha 2.0" {
		t.Errorf("VersionString() = %q", got)
	}
}
