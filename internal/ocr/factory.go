package ocr

import (
	"fmt"

	"spesen/internal/config"
	"spesen/internal/port"
)

// EngineFactory is a function that creates a TextExtractor from the OCR config.
type EngineFactory func(cfg *config.OCRConfig) (port.TextExtractor, error)

// registry of extraction engine factories, populated by init() in each engine
// package or explicitly via RegisterEngine.
var engines = map[string]EngineFactory{}

// RegisterEngine registers an extraction engine factory by name.
func RegisterEngine(name string, factory EngineFactory) {
	engines[name] = factory
}

// NewExtractor creates a TextExtractor from the OCR config using the
// registered factory.
func NewExtractor(cfg *config.OCRConfig) (port.TextExtractor, error) {
	factory, ok := engines[cfg.Engine]
	if !ok {
		return nil, fmt.Errorf("unknown ocr engine: %s", cfg.Engine)
	}
	return factory(cfg)
}
