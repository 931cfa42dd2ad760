package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SequenceRepository hands out request-id sequence numbers. Next is
// exactly-once per (organization, scope): two concurrent calls can never
// observe the same value.
type SequenceRepository interface {
	Next(ctx context.Context, orgID uuid.UUID, scope string) (int64, error)
}

type sequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

// Next allocates the next sequence number for the scope with a single atomic
// UPSERT, so correctness holds across concurrent requests and across service
// instances. The first allocation for a scope seeds the counter from the
// greatest request id already stored under that prefix, which keeps numbering
// continuous for organizations that predate the counter table.
func (r *sequenceRepository) Next(ctx context.Context, orgID uuid.UUID, scope string) (int64, error) {
	var nextValue int64

	err := GetDB(ctx, r.db).Raw(`
		INSERT INTO requisition_counters (organization_id, scope, last_value, updated_at)
		VALUES (?, ?, COALESCE((
			SELECT MAX(CAST(RIGHT(request_id, 5) AS INTEGER))
			FROM requisitions
			WHERE organization_id = ? AND request_id LIKE ? || '%'
		), 0) + 1, now())
		ON CONFLICT (organization_id, scope) DO UPDATE
		SET last_value = requisition_counters.last_value + 1, updated_at = now()
		RETURNING last_value
	`, orgID, scope, orgID, scope).Scan(&nextValue).Error

	if err != nil {
		return 0, err
	}

	return nextValue, nil
}
