package voice

import (
	"time"

	"github.com/google/uuid"
)

// Event is one audited voice-mapping interaction: who dictated what and
// which fields the mapper recognized.
type Event struct {
	ID          uuid.UUID              `db:"id" json:"id"`
	User        string                 `db:"username" json:"user"`
	Transcript  string                 `db:"transcript" json:"transcript"`
	Mapping     map[string]interface{} `db:"mapping" json:"mapping"`
	Confidences map[string]float64     `db:"confidences" json:"confidences"`
	Timestamp   time.Time              `db:"occurred_at" json:"timestamp"`
	ActionType  string                 `db:"action_type" json:"action_type"`
}
