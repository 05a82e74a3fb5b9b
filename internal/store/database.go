package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"bridge-voice-backend/internal/db"
)

// DatabaseStore archives finished calls in PostgreSQL
type DatabaseStore struct {
	db *db.DB
}

// NewDatabaseStore creates a new database store
func NewDatabaseStore(database *db.DB) *DatabaseStore {
	return &DatabaseStore{db: database}
}

// SaveCall inserts or replaces the record for a call
func (ds *DatabaseStore) SaveCall(ctx context.Context, rec CallRecord) error {
	if rec.CallID == "" {
		return fmt.Errorf("call_id is required")
	}
	history, err := json.Marshal(rec.History)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	query := `
		INSERT INTO call_records (call_id, step, language, need_type, location, name, age, income, history, reason, started_at, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (call_id)
		DO UPDATE SET
			step = EXCLUDED.step,
			language = EXCLUDED.language,
			need_type = EXCLUDED.need_type,
			location = EXCLUDED.location,
			name = EXCLUDED.name,
			age = EXCLUDED.age,
			income = EXCLUDED.income,
			history = EXCLUDED.history,
			reason = EXCLUDED.reason,
			archived_at = EXCLUDED.archived_at
	`

	_, err = ds.db.ExecContext(ctx, query,
		rec.CallID,
		rec.Step,
		rec.Language,
		nullString(rec.NeedType),
		nullStringPtr(rec.Profile.Location),
		nullStringPtr(rec.Profile.Name),
		nullIntPtr(rec.Profile.Age),
		nullIntPtr(rec.Profile.Income),
		history,
		rec.Reason,
		rec.StartedAt,
		rec.ArchivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save call record: %w", err)
	}
	return nil
}

// GetCall loads an archived record, for operators. Returns nil when absent.
func (ds *DatabaseStore) GetCall(ctx context.Context, callID string) (*CallRecord, error) {
	if callID == "" {
		return nil, fmt.Errorf("call_id is required")
	}

	var (
		rec                      CallRecord
		needType, location, name sql.NullString
		age, income              sql.NullInt64
		history                  []byte
	)
	query := `
		SELECT call_id, step, language, need_type, location, name, age, income, history, reason, started_at, archived_at
		FROM call_records
		WHERE call_id = $1
	`
	err := ds.db.QueryRowContext(ctx, query, callID).Scan(
		&rec.CallID,
		&rec.Step,
		&rec.Language,
		&needType,
		&location,
		&name,
		&age,
		&income,
		&history,
		&rec.Reason,
		&rec.StartedAt,
		&rec.ArchivedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get call record: %w", err)
	}

	rec.NeedType = needType.String
	if location.Valid {
		rec.Profile.Location = &location.String
	}
	if name.Valid {
		rec.Profile.Name = &name.String
	}
	if age.Valid {
		v := int(age.Int64)
		rec.Profile.Age = &v
	}
	if income.Valid {
		v := int(income.Int64)
		rec.Profile.Income = &v
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &rec.History); err != nil {
			return nil, fmt.Errorf("failed to decode history: %w", err)
		}
	}
	return &rec, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullIntPtr(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
