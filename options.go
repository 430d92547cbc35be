package pdfmerge

import (
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/sirupsen/logrus"
)

// Option configures a Merger.
type Option func(*Merger)

// mergerConfig holds internal configuration for Merger.
type mergerConfig struct {
	timeout    time.Duration
	officePath string
	tempDir    string
	pdfConfig  *model.Configuration
	strategies []Strategy
}

// defaultTimeout bounds each external invocation (office suite run,
// browser load and print) when no timeout is specified.
const defaultTimeout = 2 * time.Minute

// WithTimeout sets the timeout applied to each external conversion.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("pdfmerge: WithTimeout duration must be positive")
	}
	return func(m *Merger) {
		m.cfg.timeout = d
	}
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l logrus.FieldLogger) Option {
	return func(m *Merger) {
		if l == nil {
			l = discardLogger()
		}
		m.logger = l
	}
}

// WithOfficePath sets the office suite executable used by the default
// strategies. An empty path keeps DefaultOfficePath().
func WithOfficePath(path string) Option {
	return func(m *Merger) {
		m.cfg.officePath = path
	}
}

// WithTempDir sets the parent directory for conversion scratch space.
// The directory must exist; NewMerger rejects it otherwise.
func WithTempDir(dir string) Option {
	return func(m *Merger) {
		m.cfg.tempDir = dir
	}
}

// WithStrategies replaces the default office-then-browser strategy list.
func WithStrategies(strategies ...Strategy) Option {
	return func(m *Merger) {
		m.cfg.strategies = strategies
	}
}

// WithWordConverter replaces word document conversion entirely.
// Takes precedence over WithStrategies.
func WithWordConverter(c DocumentConverter) Option {
	return func(m *Merger) {
		m.words = c
	}
}

// WithPDFConfig sets the pdfcpu configuration used to read and merge PDFs.
func WithPDFConfig(conf *model.Configuration) Option {
	return func(m *Merger) {
		m.cfg.pdfConfig = conf
	}
}
