package driving

import (
	"context"

	"github.com/JeanYan3D/tinatools/internal/core/domain"
)

// Normalizer extracts a NormalizedCall from a raw webhook body.
type Normalizer interface {
	// Normalize fails with domain.ErrMalformedPayload when no operation
	// can be found. The returned call then still carries any correlation
	// id that was present.
	Normalize(ctx context.Context, raw []byte) (*domain.NormalizedCall, error)
}

// Dispatcher runs a NormalizedCall against its handler.
type Dispatcher interface {
	// Dispatch never returns an error: failures are carried in the envelope.
	Dispatch(ctx context.Context, call domain.NormalizedCall) domain.ResponseEnvelope

	// Operations lists the known operation names.
	Operations() []string
}
