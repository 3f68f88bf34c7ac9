package voice

import (
	"context"
	"fmt"
	"time"

	"github.com/lims/lims/pkg/pagination"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// MapResult is the mapping outcome plus the routing decision derived from the
// overall confidence: at or above 0.9 the fields can be auto-accepted,
// between 0.6 and 0.9 a human must confirm them, and below 0.6 the form
// falls back to manual entry.
type MapResult struct {
	Fields               map[string]interface{} `json:"fields"`
	Confidences          map[string]float64     `json:"confidences"`
	OverallConfidence    float64                `json:"overall_confidence"`
	RequiresConfirmation bool                   `json:"requires_confirmation"`
	RequiresManual       bool                   `json:"requires_manual"`
}

// Map extracts fields from a transcript, records the audit event, and
// returns the mapping with its routing decision.
func (s *Service) Map(ctx context.Context, transcript, user, actionType string) (*MapResult, error) {
	if transcript == "" {
		return nil, fmt.Errorf("transcript is required")
	}
	if user == "" {
		user = "anonymous"
	}
	if actionType == "" {
		actionType = "registration"
	}

	ex := MapTranscript(transcript)

	event := &Event{
		User:        user,
		Transcript:  transcript,
		Mapping:     ex.Fields,
		Confidences: ex.Confidences,
		Timestamp:   time.Now().UTC(),
		ActionType:  actionType,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("record voice event: %w", err)
	}

	return &MapResult{
		Fields:               ex.Fields,
		Confidences:          ex.Confidences,
		OverallConfidence:    ex.OverallConfidence,
		RequiresConfirmation: ex.OverallConfidence >= 0.6 && ex.OverallConfidence < 0.9,
		RequiresManual:       ex.OverallConfidence < 0.6,
	}, nil
}

func (s *Service) Events(ctx context.Context, limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > pagination.MaxLimit {
		limit = pagination.MaxLimit
	}
	return s.repo.ListRecent(ctx, limit)
}
