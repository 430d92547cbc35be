package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-pdfmerge"
	"github.com/alnah/go-pdfmerge/internal/config"
)

// Sentinel errors for settings resolution.
var (
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// settings is the resolved configuration for one command run.
// Precedence: flags > env > config file > defaults.
type settings struct {
	timeout    time.Duration // 0 = library default
	officePath string
	tempDir    string
	output     string // output path from flags, env or config
	workers    int    // 0 = auto
}

// loadConfig loads the config named by the flag, then PDFMERGE_CONFIG.
// With neither set, the defaults apply.
func loadConfig(flagConfig string, env *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = env.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// resolveSettings layers flags over env over config.
func resolveSettings(engine engineFlags, flagOutput string, flagWorkers int, env *envConfig, cfg *config.Config) (*settings, error) {
	timeout, err := resolveTimeout(engine.timeout, env, cfg)
	if err != nil {
		return nil, err
	}
	if err := validateWorkers(flagWorkers); err != nil {
		return nil, err
	}

	s := &settings{
		timeout:    timeout,
		officePath: firstNonEmpty(engine.officePath, env.OfficePath, cfg.Office.Path),
		tempDir:    firstNonEmpty(engine.tempDir, env.TempDir, cfg.TempDir),
		output:     firstNonEmpty(flagOutput, env.Output, cfg.OutputPath()),
		workers:    firstPositive(flagWorkers, env.Workers, cfg.Workers),
	}
	return s, nil
}

// resolveTimeout parses the flag value, falling back to env and config.
func resolveTimeout(flagTimeout string, env *envConfig, cfg *config.Config) (time.Duration, error) {
	if flagTimeout != "" {
		d, err := time.ParseDuration(flagTimeout)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidTimeout, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("%w: must be positive, got %s", ErrInvalidTimeout, flagTimeout)
		}
		return d, nil
	}
	if env.Timeout > 0 {
		return env.Timeout, nil
	}
	return cfg.TimeoutDuration()
}

// validateWorkers checks the --workers flag range.
func validateWorkers(n int) error {
	if n < 0 || n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}

// mergerOptions builds library options from settings.
func (s *settings) mergerOptions(logger *logrus.Logger, extra []pdfmerge.Option) []pdfmerge.Option {
	opts := []pdfmerge.Option{pdfmerge.WithLogger(logger)}
	if s.timeout > 0 {
		opts = append(opts, pdfmerge.WithTimeout(s.timeout))
	}
	if s.officePath != "" {
		opts = append(opts, pdfmerge.WithOfficePath(s.officePath))
	}
	if s.tempDir != "" {
		opts = append(opts, pdfmerge.WithTempDir(s.tempDir))
	}
	return append(opts, extra...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
