// Package config loads pdfmerge CLI configuration files and merge manifests.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-pdfmerge/internal/fileutil"
	"github.com/alnah/go-pdfmerge/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// Limits for config values.
const (
	MaxPathLength     = 4096
	MaxFilenameLength = 255
	MaxWorkers        = 64
)

// configDirName is the directory searched under os.UserConfigDir.
const configDirName = "go-pdfmerge"

// DefaultOutputFilename is used when neither flags nor config name the output.
const DefaultOutputFilename = "merged.pdf"

// Config holds CLI defaults. Zero values mean "use the library default".
type Config struct {
	Office  OfficeConfig `yaml:"office"`
	Timeout string       `yaml:"timeout"` // Go duration, e.g. "90s"
	TempDir string       `yaml:"tempDir"`
	Output  OutputConfig `yaml:"output"`
	Workers int          `yaml:"workers"` // batch concurrency (0 = auto)
}

// OfficeConfig locates the office suite used for word documents.
type OfficeConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig sets where merged files land.
type OutputConfig struct {
	Filename string `yaml:"filename"`
	Dir      string `yaml:"dir"`
}

// DefaultConfig returns a config that defers everything to library defaults.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Filename: DefaultOutputFilename},
	}
}

// Validate checks field formats and limits.
func (c *Config) Validate() error {
	if err := validateFieldLength("office.path", c.Office.Path, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("tempDir", c.TempDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.filename", c.Output.Filename, MaxFilenameLength); err != nil {
		return err
	}
	if strings.ContainsAny(c.Output.Filename, `/\`) {
		return fmt.Errorf("%w: output.filename must not contain path separators, got %q", ErrInvalidConfig, c.Output.Filename)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be between 0 and %d, got %d", ErrInvalidConfig, MaxWorkers, c.Workers)
	}
	return nil
}

// TimeoutDuration parses Timeout. An empty value returns 0.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: timeout: %v", ErrInvalidConfig, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidConfig, c.Timeout)
	}
	return d, nil
}

// OutputPath joins Output.Dir and Output.Filename, defaulting the filename.
func (c *Config) OutputPath() string {
	name := c.Output.Filename
	if name == "" {
		name = DefaultOutputFilename
	}
	if c.Output.Dir == "" {
		return name
	}
	return filepath.Join(c.Output.Dir, name)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's searched in the current directory, then in
// <user config dir>/go-pdfmerge/.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := yamlutil.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if cfg.Output.Filename == "" {
		cfg.Output.Filename = DefaultOutputFilename
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	candidates := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		candidates = append(candidates, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			candidates = append(candidates, filepath.Join(userConfigDir, configDirName, name+ext))
		}
	}

	for _, path := range candidates {
		if fileutil.FileExists(path) {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(candidates, ", "))
}
