package results

import (
	"time"

	"github.com/google/uuid"

	"github.com/lims/lims/internal/domain/qc"
)

// Result maps to the lab_result table. The QC flags and the critical
// verdict are computed once, when the result is entered, and frozen: a
// result is never re-validated. Only the verify and release transitions
// mutate the record, and neither reverses the other.
type Result struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	TestName    string    `db:"test_name" json:"test_name"`
	Value       float64   `db:"value" json:"value"`
	Units       string    `db:"units" json:"units"`
	PerformedAt time.Time `db:"performed_at" json:"performed_at"`
	PerformedBy string    `db:"performed_by" json:"performed_by"`

	QCFlags          []qc.Flag `db:"qc_flags" json:"qc_flags"`
	HasCriticalFlags bool      `db:"has_critical_flags" json:"has_critical_flags"`

	Verified   bool       `db:"verified" json:"verified"`
	VerifiedBy *string    `db:"verified_by" json:"verified_by,omitempty"`
	VerifiedAt *time.Time `db:"verified_at" json:"verified_at,omitempty"`

	Released   bool       `db:"released" json:"released"`
	ReleasedBy *string    `db:"released_by" json:"released_by,omitempty"`
	ReleasedAt *time.Time `db:"released_at" json:"released_at,omitempty"`

	Notes *string `db:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
