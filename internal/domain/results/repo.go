package results

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter narrows a result listing. Zero values mean "no constraint".
type Filter struct {
	PatientID uuid.UUID
	TestName  string
}

type Repository interface {
	Create(ctx context.Context, r *Result) error
	GetByID(ctx context.Context, id uuid.UUID) (*Result, error)
	// List returns results most-recent-first by performed_at.
	List(ctx context.Context, f Filter, limit, offset int) ([]*Result, int, error)
	// Latest returns the most recent result for a patient+test pair, or
	// ErrNotFound if none exists. Used for delta checks at entry time.
	Latest(ctx context.Context, patientID uuid.UUID, testName string) (*Result, error)
	MarkVerified(ctx context.Context, id uuid.UUID, verifiedBy string, at time.Time) error
	MarkReleased(ctx context.Context, id uuid.UUID, releasedBy string, at time.Time) error
}
