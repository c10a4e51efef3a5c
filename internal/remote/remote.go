// Package remote mirrors vocabulary records into a hosted relational table.
package remote

import (
	"context"
	"errors"

	"github.com/abhisek/vocabz/internal/vocab"
)

// Reasons reported by CheckConnectivity when Connected is false.
const (
	ReasonSchemaMissing = "schema_missing"
	ReasonUnreachable   = "unreachable"
)

// ErrSchemaMissing is returned when the vocabulary table does not exist.
var ErrSchemaMissing = errors.New("remote: vocabulary table missing")

// Status is the result of a connectivity check.
type Status struct {
	Connected bool
	Reason    string
	Err       error
}

// Gateway is the CRUD surface the progress store needs from the mirror.
// Records are keyed by lowercase word.
type Gateway interface {
	List(ctx context.Context) ([]vocab.Record, error)
	UpsertMany(ctx context.Context, records []vocab.Record) error
	Delete(ctx context.Context, word string) error
	UpdateProgress(ctx context.Context, record vocab.Record) error
	CheckConnectivity(ctx context.Context) Status
}

// StatusFromError classifies a connectivity check error.
func StatusFromError(err error) Status {
	switch {
	case err == nil:
		return Status{Connected: true}
	case errors.Is(err, ErrSchemaMissing):
		return Status{Reason: ReasonSchemaMissing, Err: err}
	default:
		return Status{Reason: ReasonUnreachable, Err: err}
	}
}
