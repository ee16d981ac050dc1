package convert

import (
	"context"
	"fmt"
)

// Converter is the engine contract: turn one source into a structured
// document or fail with an error. Implementations must be safe for
// concurrent use; one instance is shared across workers and requests.
type Converter interface {
	Convert(ctx context.Context, source string, opts Options) (*Document, error)
}

// Gateway is the fault boundary in front of the conversion engine. Whatever
// the engine does — typed error, wrapped error, panic — callers only ever see
// an Outcome. The engine's native error representation stops here.
type Gateway struct {
	converter Converter
}

// NewGateway wraps a converter in the fault boundary.
func NewGateway(converter Converter) *Gateway {
	return &Gateway{converter: converter}
}

// Convert runs one conversion and always returns an outcome for the source.
// It never panics and never returns a Go error.
func (g *Gateway) Convert(ctx context.Context, source string, opts Options) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = FailureOutcome(source, ConversionError(fmt.Sprintf("engine panic: %v", r), nil))
		}
	}()

	doc, err := g.converter.Convert(ctx, source, opts)
	if err != nil {
		return FailureOutcome(source, err)
	}
	if doc == nil {
		return FailureOutcome(source, ConversionError("engine returned no document", nil))
	}
	return SuccessOutcome(source, doc)
}
