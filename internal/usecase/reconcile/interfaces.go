package reconcile

import (
	"context"

	"github.com/futig/structure-engine/internal/entity"
)

// Codec converts between text and Document trees. Decode failures should be
// *document.SyntaxError so the parse offset reaches the caller.
type Codec interface {
	Decode(text string) (any, error)
	Encode(doc any) ([]byte, error)
}

// Storage persists audit records. Implementations must not overwrite an existing key.
type Storage interface {
	Write(ctx context.Context, category, key string, payload []byte) error
}

type Normalizer interface {
	NormalizeForPages(ctx context.Context, content any) (*entity.CanonicalDoc, []entity.NormalizationWarning)
}
