package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const resultCols = `id, patient_id, test_name, value, units, performed_at, performed_by,
	qc_flags, has_critical_flags,
	verified, verified_by, verified_at,
	released, released_by, released_at,
	notes, created_at, updated_at`

func scanResult(row pgx.Row) (*Result, error) {
	var r Result
	var flagsJSON []byte
	err := row.Scan(&r.ID, &r.PatientID, &r.TestName, &r.Value, &r.Units, &r.PerformedAt, &r.PerformedBy,
		&flagsJSON, &r.HasCriticalFlags,
		&r.Verified, &r.VerifiedBy, &r.VerifiedAt,
		&r.Released, &r.ReleasedBy, &r.ReleasedAt,
		&r.Notes, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(flagsJSON) > 0 {
		if err := json.Unmarshal(flagsJSON, &r.QCFlags); err != nil {
			return nil, fmt.Errorf("decode qc_flags for %s: %w", r.ID, err)
		}
	}
	return &r, nil
}

func (p *repoPG) Create(ctx context.Context, r *Result) error {
	r.ID = uuid.New()
	flagsJSON, err := json.Marshal(r.QCFlags)
	if err != nil {
		return fmt.Errorf("encode qc_flags: %w", err)
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO lab_result (id, patient_id, test_name, value, units, performed_at, performed_by,
			qc_flags, has_critical_flags, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		r.ID, r.PatientID, r.TestName, r.Value, r.Units, r.PerformedAt, r.PerformedBy,
		flagsJSON, r.HasCriticalFlags, r.Notes)
	return err
}

func (p *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Result, error) {
	return scanResult(p.pool.QueryRow(ctx, `SELECT `+resultCols+` FROM lab_result WHERE id = $1`, id))
}

func (p *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Result, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1
	if f.PatientID != uuid.Nil {
		where += fmt.Sprintf(` AND patient_id = $%d`, idx)
		args = append(args, f.PatientID)
		idx++
	}
	if f.TestName != "" {
		where += fmt.Sprintf(` AND test_name = $%d`, idx)
		args = append(args, f.TestName)
		idx++
	}

	var total int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM lab_result`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + resultCols + ` FROM lab_result` + where +
		fmt.Sprintf(` ORDER BY performed_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, r)
	}
	return items, total, rows.Err()
}

func (p *repoPG) Latest(ctx context.Context, patientID uuid.UUID, testName string) (*Result, error) {
	return scanResult(p.pool.QueryRow(ctx, `
		SELECT `+resultCols+` FROM lab_result
		WHERE patient_id = $1 AND test_name = $2
		ORDER BY performed_at DESC LIMIT 1`, patientID, testName))
}

func (p *repoPG) MarkVerified(ctx context.Context, id uuid.UUID, verifiedBy string, at time.Time) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE lab_result SET verified = TRUE, verified_by = $2, verified_at = $3, updated_at = NOW()
		WHERE id = $1`, id, verifiedBy, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *repoPG) MarkReleased(ctx context.Context, id uuid.UUID, releasedBy string, at time.Time) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE lab_result SET released = TRUE, released_by = $2, released_at = $3, updated_at = NOW()
		WHERE id = $1`, id, releasedBy, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
