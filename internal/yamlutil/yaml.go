// Package yamlutil decodes the YAML documents pdfmerge reads from disk:
// configuration files and merge manifests.
package yamlutil

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// Unmarshal decodes data into v, ignoring fields v does not declare.
func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// ReadFile reads at most MaxInputSize bytes from path.
// Larger files fail with ErrInputTooLarge without being read in full.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path) // #nosec G304 -- path is user-provided
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, int64(MaxInputSize)+1))
	if err != nil {
		return nil, fmt.Errorf("yamlutil: reading %s: %w", path, err)
	}
	if len(data) > MaxInputSize {
		return nil, fmt.Errorf("%w: %s (max %d bytes)", ErrInputTooLarge, path, MaxInputSize)
	}
	return data, nil
}

// DecodeFileStrict reads path and decodes it with UnmarshalStrict.
func DecodeFileStrict(path string, v any) error {
	data, err := ReadFile(path)
	if err != nil {
		return err
	}
	return UnmarshalStrict(data, v)
}
