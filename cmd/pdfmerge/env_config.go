package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

const envPrefix = "PDFMERGE_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // PDFMERGE_CONFIG: config file name or path
	Timeout    time.Duration // PDFMERGE_TIMEOUT: per-conversion timeout
	Output     string        // PDFMERGE_OUTPUT: output file or directory
	Workers    int           // PDFMERGE_WORKERS: batch concurrency
	TempDir    string        // PDFMERGE_TEMP_DIR: scratch space parent
	OfficePath string        // PDFMERGE_OFFICE_PATH: office suite executable
}

// knownEnvVars lists valid PDFMERGE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"PDFMERGE_CONFIG":      true,
	"PDFMERGE_TIMEOUT":     true,
	"PDFMERGE_OUTPUT":      true,
	"PDFMERGE_WORKERS":     true,
	"PDFMERGE_TEMP_DIR":    true,
	"PDFMERGE_OFFICE_PATH": true,
	"PDFMERGE_CONTAINER":   true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable or non-positive numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("PDFMERGE_CONFIG"),
		Output:     os.Getenv("PDFMERGE_OUTPUT"),
		TempDir:    os.Getenv("PDFMERGE_TEMP_DIR"),
		OfficePath: os.Getenv("PDFMERGE_OFFICE_PATH"),
	}

	if timeout := os.Getenv("PDFMERGE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("PDFMERGE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints a warning for each unrecognized PDFMERGE_* variable.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}
