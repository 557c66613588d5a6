package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeCLI    = "cli"
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Scan kinds
	ScanAuto  = "auto"
	ScanDates = "dates"
	ScanTimes = "times"
	ScanPages = "pages"

	// Output formats
	FormatAuto = "auto"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"

	// Document file types
	FileTypePDF  = "pdf"
	FileTypeTxt  = "txt"
	FileTypeDocx = "docx"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// ProgramName is printed by the version flag
	ProgramName = "Project Alpha"
	// DefaultVersion is the fixed version string
	DefaultVersion = "2.0"

	envPrefix = "ALPHA"
)

// singleDashFlags are long flags that may be written with one dash (-file, -pretty)
var singleDashFlags = []string{"file", "text", "pretty", "pairs", "trim", "pdf", "txt", "docx"}

// Config holds all configuration for one run
type Config struct {
	// Run mode: "cli", or an MCP transport ("stdio", "server")
	Mode string
	Host string
	Port int

	// Directory MCP tools may read from
	Directory string

	// Input
	InputPath string // positional document
	File      string
	Text      string
	FileType  string
	Trim      bool

	// Scanning and output
	Scan            string
	Format          string
	Pretty          bool
	Pairs           bool
	IncludeLastPage bool
	NoColor         bool

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum input file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:        ModeCLI,
		Host:        DefaultHost,
		Port:        DefaultPort,
		Directory:   currentDir,
		FileType:    FileTypePDF,
		Scan:        ScanAuto,
		Format:      FormatAuto,
		Version:     DefaultVersion,
		ServerName:  "project-alpha",
		LogLevel:    DefaultLogLevel,
		MaxFileSize: DefaultMaxFileSize,
	}
}

// LoadFromFlags parses the process arguments and returns a configuration
func LoadFromFlags() (*Config, error) {
	return LoadFromArgs(os.Args[1:])
}

// LoadFromArgs parses args (without the program name) on pflag.CommandLine
func LoadFromArgs(args []string) (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	if err := pflag.CommandLine.Parse(NormalizeArgs(args)); err != nil {
		return nil, err
	}

	populateConfigFromViper(cfg)

	if pflag.NArg() > 0 {
		cfg.InputPath = pflag.Arg(0)
	}

	fileType, err := selectFileType()
	if err != nil {
		return nil, err
	}
	if fileType != "" {
		cfg.FileType = fileType
	}

	if cfg.Directory != "" {
		if expandedPath, err := filepath.Abs(cfg.Directory); err == nil {
			cfg.Directory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// NormalizeArgs rewrites single-dash long flags (-file x, -pretty) into the
// double-dash form pflag expects. Other arguments pass through untouched.
func NormalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		valueNext := takesValue(arg)
		if isSingleDashLong(arg) {
			arg = "-" + arg
		}
		out = append(out, arg)
		if valueNext && i+1 < len(args) {
			i++
			out = append(out, args[i])
		}
	}
	return out
}

func isSingleDashLong(arg string) bool {
	if len(arg) < 3 || arg[0] != '-' || arg[1] == '-' {
		return false
	}
	name := arg[1:]
	if i := strings.IndexByte(name, '='); i >= 0 {
		name = name[:i]
	}
	for _, flag := range singleDashFlags {
		if name == flag {
			return true
		}
	}
	return false
}

// valueFlags take a separate argument unless written as --name=value
var valueFlags = []string{"mode", "host", "port", "dir", "loglevel", "maxfilesize", "file", "text", "scan", "format"}

// IsVersionRequested reports whether args ask for the version string. The value
// of a flag such as -text and anything after "--" are never treated as flags.
func IsVersionRequested(args []string) bool {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return false
		case arg == "-version" || arg == "--version" || arg == "-v":
			return true
		case takesValue(arg):
			i++
		}
	}
	return false
}

func takesValue(arg string) bool {
	name := strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")
	if name == arg || strings.Contains(name, "=") {
		return false
	}
	for _, flag := range valueFlags {
		if name == flag {
			return true
		}
	}
	return false
}

// VersionString returns the fixed version line
func VersionString(version string) string {
	if version == "" {
		version = DefaultVersion
	}
	return fmt.Sprintf("%s %s", ProgramName, version)
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.Directory)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("scan", cfg.Scan)
	viper.SetDefault("format", cfg.Format)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'cli' scans once, 'stdio' or 'server' serve MCP tools")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.Directory, "Directory MCP tools may read files from")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum input file size in bytes")

	pflag.String("file", "", "Read plain text from this file")
	pflag.String("text", "", "Use this string as the input text")
	pflag.Bool("pdf", false, "Treat the document as PDF (default)")
	pflag.Bool("txt", false, "Treat the document as plain text")
	pflag.Bool("docx", false, "Treat the document as DOCX (read through the PDF path)")
	pflag.Bool("trim", false, "Trim leading and trailing whitespace from the input")

	pflag.String("scan", cfg.Scan, "What to scan for: auto, dates, times or pages")
	pflag.String("format", cfg.Format, "Output format: auto, json, yaml or text")
	pflag.Bool("pretty", false, "Indent JSON and YAML output by 4 spaces")
	pflag.Bool("pairs", false, "Print dates as an ordered pair list, keeping duplicates")
	pflag.Bool("include-last-page", false, "Extract the last PDF page too")
	pflag.Bool("no-color", false, "Disable colored text output")
}

var boundFlags = []string{
	"mode", "host", "port", "dir", "loglevel", "maxfilesize",
	"file", "text", "trim", "scan", "format", "pretty", "pairs", "include-last-page", "no-color",
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range boundFlags {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n%s - finds dates and times in PDF or plain text\n\n", ProgramName)
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s schedule.pdf                    # times on the first page\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -file notes.txt -pretty         # dates as indented JSON\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -text \"1-Jan a 2-Jan\"           # dates from a string\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --scan=pages report.pdf         # extracted page text\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio --dir=/path/to/docs # MCP server on stdio\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  ALPHA_MODE          Run mode\n")
		fmt.Fprintf(os.Stderr, "  ALPHA_DIR           MCP document directory\n")
		fmt.Fprintf(os.Stderr, "  ALPHA_LOGLEVEL      Log level\n")
		fmt.Fprintf(os.Stderr, "  ALPHA_MAXFILESIZE   Maximum file size\n")
		fmt.Fprintf(os.Stderr, "  ALPHA_FORMAT        Output format\n")
	}
}

// selectFileType enforces that at most one of -pdf, -txt and -docx is set
func selectFileType() (string, error) {
	selected := ""
	for _, name := range []string{FileTypePDF, FileTypeTxt, FileTypeDocx} {
		set, err := pflag.CommandLine.GetBool(name)
		if err != nil {
			return "", err
		}
		if !set {
			continue
		}
		if selected != "" {
			return "", fmt.Errorf("flags -%s and -%s are mutually exclusive", selected, name)
		}
		selected = name
	}
	return selected, nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.Directory = viper.GetString("dir")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.File = viper.GetString("file")
	cfg.Text = viper.GetString("text")
	cfg.Trim = viper.GetBool("trim")
	cfg.Scan = viper.GetString("scan")
	cfg.Format = viper.GetString("format")
	cfg.Pretty = viper.GetBool("pretty")
	cfg.Pairs = viper.GetBool("pairs")
	cfg.IncludeLastPage = viper.GetBool("include-last-page")
	cfg.NoColor = viper.GetBool("no-color")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeCLI && c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be one of 'cli', 'stdio' or 'server'")
	}

	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	switch c.Scan {
	case ScanAuto, ScanDates, ScanTimes, ScanPages:
	default:
		return fmt.Errorf("invalid scan: %s (must be one of: auto, dates, times, pages)", c.Scan)
	}

	switch c.Format {
	case FormatAuto, FormatJSON, FormatYAML, FormatText:
	default:
		return fmt.Errorf("invalid format: %s (must be one of: auto, json, yaml, text)", c.Format)
	}

	switch c.FileType {
	case FileTypePDF, FileTypeTxt, FileTypeDocx:
	default:
		return fmt.Errorf("invalid file type: %s", c.FileType)
	}

	if c.IsCLIMode() {
		if !c.HasInput() {
			return errors.New("no input: provide a document path, -file or -text")
		}
		return nil
	}

	if c.Directory == "" {
		return errors.New("directory cannot be empty")
	}
	if info, err := os.Stat(c.Directory); err != nil {
		return fmt.Errorf("cannot access directory %s: %w", c.Directory, err)
	} else if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", c.Directory)
	}

	return nil
}

// HasInput reports whether any input source was given
func (c *Config) HasInput() bool {
	return c.File != "" || c.Text != "" || c.InputPath != ""
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Scan: %s, Format: %s, FileType: %s, Directory: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Scan, c.Format, c.FileType, c.Directory, c.LogLevel, c.MaxFileSize)
}

// IsCLIMode returns true for a single command-line scan
func (c *Config) IsCLIMode() bool {
	return c.Mode == ModeCLI
}

// IsServerMode returns true if MCP is served over HTTP
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if MCP is served over standard I/O
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
