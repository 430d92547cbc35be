package pdfmerge

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// DocumentConverter converts a word-processing document to PDF bytes.
type DocumentConverter interface {
	Convert(ctx context.Context, content []byte, filename string) ([]byte, error)
}

// Strategy is one self-contained method of converting a document to PDF.
type Strategy interface {
	DocumentConverter
	Name() string
}

// Compile-time interface checks.
var (
	_ DocumentConverter = (*WordConverter)(nil)
	_ Strategy          = (*OfficeStrategy)(nil)
	_ Strategy          = (*BrowserStrategy)(nil)
)

// WordConverter tries its strategies in order and returns the first success.
// A failing strategy is logged and the next one is tried; the conversion
// fails only when every strategy has failed, with the last strategy's error.
type WordConverter struct {
	strategies []Strategy
	logger     logrus.FieldLogger
}

// NewWordConverter creates a converter trying strategies in the given order.
func NewWordConverter(logger logrus.FieldLogger, strategies ...Strategy) *WordConverter {
	if logger == nil {
		logger = discardLogger()
	}
	return &WordConverter{strategies: strategies, logger: logger}
}

// Strategies returns the strategy names in priority order.
func (c *WordConverter) Strategies() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

// Convert runs the strategy list against one document.
func (c *WordConverter) Convert(ctx context.Context, content []byte, filename string) ([]byte, error) {
	if len(c.strategies) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrConversion, ErrNoStrategies)
	}

	var lastErr error
	for i, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		pdf, err := s.Convert(ctx, content, filename)
		log := c.logger.WithFields(logrus.Fields{
			"strategy": s.Name(),
			"file":     filename,
			"duration": time.Since(start).Round(time.Millisecond),
		})
		if err == nil {
			log.Debug("word document converted")
			return pdf, nil
		}

		lastErr = err
		if i < len(c.strategies)-1 {
			log.WithError(err).Warn("conversion strategy failed, trying next")
		}
	}

	return nil, fmt.Errorf("%w: %w", ErrConversion, lastErr)
}
