package voice

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) Create(ctx context.Context, e *Event) error {
	e.ID = uuid.New()
	mappingJSON, err := json.Marshal(e.Mapping)
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}
	confJSON, err := json.Marshal(e.Confidences)
	if err != nil {
		return fmt.Errorf("encode confidences: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO voice_event (id, username, transcript, mapping, confidences, occurred_at, action_type)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.ID, e.User, e.Transcript, mappingJSON, confJSON, e.Timestamp, e.ActionType)
	return err
}

func (r *repoPG) ListRecent(ctx context.Context, limit int) ([]*Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, username, transcript, mapping, confidences, occurred_at, action_type
		FROM voice_event
		ORDER BY occurred_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Event
	for rows.Next() {
		var e Event
		var mappingJSON, confJSON []byte
		if err := rows.Scan(&e.ID, &e.User, &e.Transcript, &mappingJSON, &confJSON, &e.Timestamp, &e.ActionType); err != nil {
			return nil, err
		}
		if len(mappingJSON) > 0 {
			if err := json.Unmarshal(mappingJSON, &e.Mapping); err != nil {
				return nil, fmt.Errorf("decode mapping for %s: %w", e.ID, err)
			}
		}
		if len(confJSON) > 0 {
			if err := json.Unmarshal(confJSON, &e.Confidences); err != nil {
				return nil, fmt.Errorf("decode confidences for %s: %w", e.ID, err)
			}
		}
		items = append(items, &e)
	}
	return items, rows.Err()
}
