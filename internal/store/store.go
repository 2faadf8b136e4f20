// Package store persists per-idea output records incrementally, keyed by
// idea_id with upsert semantics, so an interrupted run never loses
// completed work and a restarted run can resume from what is on disk.
package store

import "alfredoptarigan/idea-evaluator/internal/models"

type ResultStore interface {
	// Upsert inserts or replaces the record keyed by its idea_id and makes
	// it durable before returning. Safe for concurrent use.
	Upsert(rec models.OutputRecord) error

	// Get returns the record for ideaID, if present.
	Get(ideaID string) (models.OutputRecord, bool)

	// CompletedIDs returns the idea_ids whose records reached the
	// completed status; resumption skips these.
	CompletedIDs() map[string]bool

	// Records returns all records ordered by idea_id.
	Records() []models.OutputRecord

	Len() int
}
