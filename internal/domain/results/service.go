package results

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lims/lims/internal/domain/qc"
)

type Service struct {
	repo   Repository
	engine *qc.Engine
}

func NewService(repo Repository, engine *qc.Engine) *Service {
	return &Service{repo: repo, engine: engine}
}

// CreateInput is a new measurement as entered by a technician.
type CreateInput struct {
	PatientID   uuid.UUID `json:"patient_id"`
	TestName    string    `json:"test_name"`
	Value       float64   `json:"value"`
	Units       string    `json:"units"`
	PerformedBy string    `json:"performed_by"`
	Notes       *string   `json:"notes,omitempty"`
	// CheckPrevious enables the delta check against the most recent prior
	// result for the same patient+test. Defaults to true at the transport
	// layer, matching lab practice.
	CheckPrevious bool `json:"check_previous"`
}

// Create validates the measurement and persists it with its QC flags and
// critical verdict frozen in. The previous-value lookup happens here, at
// entry time; concurrent entries for the same patient+test may each observe
// a different prior value, which is accepted.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Result, error) {
	if in.PatientID == uuid.Nil {
		return nil, fmt.Errorf("%w: patient_id is required", ErrInvalidInput)
	}
	if in.TestName == "" {
		return nil, fmt.Errorf("%w: test_name is required", ErrInvalidInput)
	}
	if in.Units == "" {
		return nil, fmt.Errorf("%w: units is required", ErrInvalidInput)
	}
	if in.PerformedBy == "" {
		return nil, fmt.Errorf("%w: performed_by is required", ErrInvalidInput)
	}

	var previous *float64
	if in.CheckPrevious {
		prior, err := s.repo.Latest(ctx, in.PatientID, in.TestName)
		switch {
		case err == nil:
			previous = &prior.Value
		case errors.Is(err, ErrNotFound):
			// First result for this patient+test; no delta check.
		default:
			return nil, fmt.Errorf("lookup previous result: %w", err)
		}
	}

	flags := s.engine.Validate(in.TestName, in.Value, previous)

	r := &Result{
		PatientID:        in.PatientID,
		TestName:         in.TestName,
		Value:            in.Value,
		Units:            in.Units,
		PerformedAt:      time.Now().UTC(),
		PerformedBy:      in.PerformedBy,
		Notes:            in.Notes,
		QCFlags:          flags,
		HasCriticalFlags: qc.HasUnresolvedCritical(flags),
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Result, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Result, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}

// Verify marks a result as checked by a technician. Verification attests
// the data entry, not clinical safety: a result with unresolved critical
// flags can still be verified. Re-verifying re-stamps the verifier.
func (s *Service) Verify(ctx context.Context, id uuid.UUID, verifiedBy string) (*Result, error) {
	if verifiedBy == "" {
		return nil, fmt.Errorf("%w: verified_by is required", ErrInvalidInput)
	}
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.repo.MarkVerified(ctx, id, verifiedBy, now); err != nil {
		return nil, err
	}
	r.Verified = true
	r.VerifiedBy = &verifiedBy
	r.VerifiedAt = &now
	return r, nil
}

// Release makes a result eligible for clinical reporting. The critical-flag
// gate is checked before the verification gate, so callers always learn
// about standing critical flags first.
func (s *Service) Release(ctx context.Context, id uuid.UUID, releasedBy string) (*Result, error) {
	if releasedBy == "" {
		return nil, fmt.Errorf("%w: released_by is required", ErrInvalidInput)
	}
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.HasCriticalFlags {
		return nil, ErrUnresolvedCritical
	}
	if !r.Verified {
		return nil, ErrNotVerified
	}

	now := time.Now().UTC()
	if err := s.repo.MarkReleased(ctx, id, releasedBy, now); err != nil {
		return nil, err
	}
	r.Released = true
	r.ReleasedBy = &releasedBy
	r.ReleasedAt = &now
	return r, nil
}
