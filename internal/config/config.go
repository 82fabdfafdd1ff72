package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/iancoleman/strcase"
	"github.com/lestrrat-go/strftime"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsonsheet/internal/recordset"
)

// Header case styles
const (
	CaseNone       = "none"
	CaseSnake      = "snake"
	CaseCamel      = "camel"
	CaseLowerCamel = "lower_camel"
)

// maxSheetNameLen is the longest sheet name a workbook accepts.
const maxSheetNameLen = 31

// localConfigName is read from the working directory only.
const localConfigName = "config.ini"

// Config represents the complete configuration for jsonsheet
type Config struct {
	Files    FilesConfig    `yaml:"files"`
	Excel    ExcelConfig    `yaml:"excel"`
	Output   OutputConfig   `yaml:"output"`
	Headers  HeadersConfig  `yaml:"headers"`
	Logging  LoggingConfig  `yaml:"logging"`
	Progress ProgressConfig `yaml:"progress"`
}

// FilesConfig controls where input is read from and output written to
type FilesConfig struct {
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`
	Chunk     int    `yaml:"chunk"`
}

// ExcelConfig controls the generated workbook
type ExcelConfig struct {
	SheetName string `yaml:"sheet_name"`
}

// OutputConfig controls output file naming
type OutputConfig struct {
	Timezone        string `yaml:"timezone"`
	TimestampFormat string `yaml:"timestamp_format"`
}

// HeadersConfig controls column derivation and header naming
type HeadersConfig struct {
	Policy  string            `yaml:"policy"`
	Case    string            `yaml:"case"`
	Renames map[string]string `yaml:"renames"`
}

// LoggingConfig controls the log file
type LoggingConfig struct {
	Dir   string `yaml:"dir"`
	Debug bool   `yaml:"debug"`
}

// ProgressConfig controls progress reporting
type ProgressConfig struct {
	Enabled bool          `yaml:"enabled"`
	Delay   time.Duration `yaml:"delay"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Files: FilesConfig{
			InputDir:  "input",
			OutputDir: "output",
			Chunk:     10,
		},
		Excel: ExcelConfig{
			SheetName: "Sheet1",
		},
		Output: OutputConfig{
			Timezone:        "Asia/Kolkata",
			TimestampFormat: "%Y%m%d%H%M%S",
		},
		Headers: HeadersConfig{
			Policy:  "first",
			Case:    CaseNone,
			Renames: make(map[string]string),
		},
		Logging: LoggingConfig{
			Dir: "logs",
		},
		Progress: ProgressConfig{
			Enabled: true,
		},
	}
}

// LoadConfig loads configuration from a YAML or INI file, chosen by extension
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".cfg", ".conf":
		err = cfg.loadINI(data)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Headers.Renames == nil {
		cfg.Headers.Renames = make(map[string]string)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadINI reads the [Files] / [Excel] layout, plus the optional
// [Output], [Headers], [Renames], [Logging] and [Progress] sections.
func (c *Config) loadINI(data []byte) error {
	f, err := ini.Load(data)
	if err != nil {
		return err
	}

	str := func(section, key string, dst *string) {
		if s := f.Section(section); s.HasKey(key) {
			*dst = strings.TrimSpace(s.Key(key).String())
		}
	}

	str("Files", "input_dir", &c.Files.InputDir)
	str("Files", "output_dir", &c.Files.OutputDir)
	if s := f.Section("Files"); s.HasKey("chunk") {
		chunk, err := s.Key("chunk").Int()
		if err != nil {
			return fmt.Errorf("invalid chunk: %w", err)
		}
		c.Files.Chunk = chunk
	}
	str("Excel", "sheet_name", &c.Excel.SheetName)
	str("Output", "timezone", &c.Output.Timezone)
	str("Output", "timestamp_format", &c.Output.TimestampFormat)
	str("Headers", "policy", &c.Headers.Policy)
	str("Headers", "case", &c.Headers.Case)
	str("Logging", "dir", &c.Logging.Dir)
	if s := f.Section("Logging"); s.HasKey("debug") {
		debug, err := s.Key("debug").Bool()
		if err != nil {
			return fmt.Errorf("invalid debug flag: %w", err)
		}
		c.Logging.Debug = debug
	}
	if s := f.Section("Progress"); s.HasKey("enabled") {
		enabled, err := s.Key("enabled").Bool()
		if err != nil {
			return fmt.Errorf("invalid progress flag: %w", err)
		}
		c.Progress.Enabled = enabled
	}
	if s := f.Section("Progress"); s.HasKey("delay") {
		delay, err := s.Key("delay").Duration()
		if err != nil {
			return fmt.Errorf("invalid progress delay: %w", err)
		}
		c.Progress.Delay = delay
	}
	for _, k := range f.Section("Renames").Keys() {
		c.Headers.Renames[k.Name()] = k.String()
	}

	return nil
}

// Validate checks the configuration for values the converter cannot use
func (c *Config) Validate() error {
	if c.Files.Chunk < 1 {
		return fmt.Errorf("invalid chunk %d: must be at least 1", c.Files.Chunk)
	}
	if err := validateSheetName(c.Excel.SheetName); err != nil {
		return err
	}
	if _, err := recordset.ParseHeaderPolicy(c.Headers.Policy); err != nil {
		return err
	}
	switch c.Headers.Case {
	case "", CaseNone, CaseSnake, CaseCamel, CaseLowerCamel:
	default:
		return fmt.Errorf("unknown header case %q (must be none, snake, camel or lower_camel)", c.Headers.Case)
	}
	if _, err := time.LoadLocation(c.Output.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Output.Timezone, err)
	}
	if err := validateTimestampFormat(c.Output.TimestampFormat); err != nil {
		return err
	}
	if c.Progress.Delay < 0 {
		return fmt.Errorf("invalid progress delay %s: must not be negative", c.Progress.Delay)
	}
	return nil
}

func validateSheetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("sheet name must not be empty")
	}
	if len([]rune(name)) > maxSheetNameLen {
		return fmt.Errorf("sheet name %q is longer than %d characters", name, maxSheetNameLen)
	}
	if strings.ContainsAny(name, `[]:*?/\`) {
		return fmt.Errorf("sheet name %q contains one of the characters []:*?/\\", name)
	}
	return nil
}

// validateTimestampFormat rejects formats strftime cannot compile and
// formats whose output would put a path separator into file names.
// An empty format falls back to the namer's default.
func validateTimestampFormat(format string) error {
	if format == "" {
		return nil
	}
	pattern, err := strftime.New(format)
	if err != nil {
		return fmt.Errorf("invalid timestamp format %q: %w", format, err)
	}
	sample := pattern.FormatString(time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC))
	if strings.ContainsAny(sample, `/\`) {
		return fmt.Errorf("invalid timestamp format %q: renders %q, which contains a path separator", format, sample)
	}
	return nil
}

// HeaderPolicy returns the parsed column policy
func (c *Config) HeaderPolicy() recordset.HeaderPolicy {
	policy, _ := recordset.ParseHeaderPolicy(c.Headers.Policy)
	return policy
}

// FindConfigFile searches for a jsonsheet config file in the current directory
// and its parents. The generic config.ini is only used from the current directory.
func FindConfigFile() string {
	configNames := []string{".jsonsheet.yml", ".jsonsheet.yaml", "jsonsheet.yml", "jsonsheet.yaml", "jsonsheet.ini"}

	// Start from current directory
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for dir := currentDir; ; {
		for _, name := range configNames {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}
		if dir == currentDir {
			configPath := filepath.Join(dir, localConfigName)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		// Move up one directory
		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			// Reached root directory
			break
		}
		dir = parentDir
	}

	return ""
}

// HeaderName returns the spreadsheet header for a flat key, applying renames
// first and then the configured case style
func (c *Config) HeaderName(key string) string {
	if renamed, exists := c.Headers.Renames[key]; exists {
		return renamed
	}

	switch c.Headers.Case {
	case CaseSnake:
		return strcase.ToSnake(key)
	case CaseCamel:
		return strcase.ToCamel(key)
	case CaseLowerCamel:
		return strcase.ToLowerCamel(key)
	default:
		return key
	}
}

// HeaderNames maps HeaderName over keys. When two keys end up with the same
// header, the later one keeps its raw key instead (with a _N suffix if that
// is taken too). The indexes of those columns are returned as collisions.
func (c *Config) HeaderNames(keys []string) (names []string, collisions []int) {
	names = make([]string, len(keys))
	used := make(map[string]struct{}, len(keys))
	for i, k := range keys {
		name := c.HeaderName(k)
		if _, taken := used[name]; taken {
			collisions = append(collisions, i)
			name = k
			for n := 2; ; n++ {
				if _, taken := used[name]; !taken {
					break
				}
				name = fmt.Sprintf("%s_%d", k, n)
			}
		}
		used[name] = struct{}{}
		names[i] = name
	}
	return names, collisions
}

// Overrides holds values set on the command line. Zero values are not applied.
type Overrides struct {
	InputDir   string
	OutputDir  string
	Chunk      int
	SheetName  string
	Timezone   string
	Policy     string
	Case       string
	LogDir     string
	Debug      bool
	NoProgress bool
}

// ApplyOverrides merges CLI overrides into the config and re-validates it
func (c *Config) ApplyOverrides(o Overrides) error {
	if o.InputDir != "" {
		c.Files.InputDir = o.InputDir
	}
	if o.OutputDir != "" {
		c.Files.OutputDir = o.OutputDir
	}
	if o.Chunk != 0 {
		c.Files.Chunk = o.Chunk
	}
	if o.SheetName != "" {
		c.Excel.SheetName = o.SheetName
	}
	if o.Timezone != "" {
		c.Output.Timezone = o.Timezone
	}
	if o.Policy != "" {
		c.Headers.Policy = o.Policy
	}
	if o.Case != "" {
		c.Headers.Case = o.Case
	}
	if o.LogDir != "" {
		c.Logging.Dir = o.LogDir
	}
	// Boolean flags can only switch behavior on
	if o.Debug {
		c.Logging.Debug = true
	}
	if o.NoProgress {
		c.Progress.Enabled = false
	}

	return c.Validate()
}

// LoadConfigWithCLI loads config with CLI argument precedence:
// CLI > config file > defaults
func LoadConfigWithCLI(configPath string, o Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if err := cfg.ApplyOverrides(o); err != nil {
		return nil, err
	}
	return cfg, nil
}
