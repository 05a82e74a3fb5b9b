package store

import (
	"context"
	"time"

	"bridge-voice-backend/internal/call"
)

// CallRecord is what is kept about a call once the platform reports it ended.
type CallRecord struct {
	CallID     string           `json:"call_id"`
	Step       string           `json:"step"`
	Language   string           `json:"language"`
	NeedType   string           `json:"need_type,omitempty"`
	Profile    call.Profile     `json:"profile"`
	History    []call.Utterance `json:"history"`
	Reason     string           `json:"reason,omitempty"`
	StartedAt  time.Time        `json:"started_at"`
	ArchivedAt time.Time        `json:"archived_at"`
}

// NewCallRecord builds a record from a session copy.
func NewCallRecord(s call.Session, reason string, at time.Time) CallRecord {
	snap := s.Snapshot(true)
	return CallRecord{
		CallID:     snap.CallID,
		Step:       snap.Step,
		Language:   string(snap.Language),
		NeedType:   string(snap.NeedType),
		Profile:    snap.Profile,
		History:    snap.History,
		Reason:     reason,
		StartedAt:  snap.CreatedAt,
		ArchivedAt: at,
	}
}

// Archive stores records of finished calls. Records are for operators and are
// never loaded back into a MemoryStore.
type Archive interface {
	SaveCall(ctx context.Context, rec CallRecord) error
	// GetCall returns nil, nil when no record exists.
	GetCall(ctx context.Context, callID string) (*CallRecord, error)
}
