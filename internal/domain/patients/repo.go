package patients

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a patient id does not exist.
	ErrNotFound = errors.New("patient not found")

	// ErrInvalidInput marks a registration rejected by validation rather
	// than storage. Handlers map it to 400.
	ErrInvalidInput = errors.New("invalid input")
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	// List returns patients most-recently-registered first.
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
}
