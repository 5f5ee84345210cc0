package database

import (
	"context"

	"github.com/google/uuid"
)

const getEvaluationByID = `
SELECT id, name, content_source, created_by, created_at,
       quota_first_round_start, quota_round_duration_ms,
       quota_number_of_rounds, quota_submission_limit
FROM evaluations
WHERE id = $1
`

func (q *Queries) GetEvaluationByID(ctx context.Context, id uuid.UUID) (Evaluation, error) {
	row := q.db.QueryRow(ctx, getEvaluationByID, id)
	var e Evaluation
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.ContentSource,
		&e.CreatedBy,
		&e.CreatedAt,
		&e.QuotaFirstRoundStart,
		&e.QuotaRoundDurationMs,
		&e.QuotaNumberOfRounds,
		&e.QuotaSubmissionLimit,
	)
	return e, err
}

// LockEvaluation takes a row-level lock on the evaluation, serializing
// concurrent round mutations and quota migration for the same evaluation.
const lockEvaluation = `
SELECT id
FROM evaluations
WHERE id = $1
FOR UPDATE
`

func (q *Queries) LockEvaluation(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, lockEvaluation, id)
	var lockedID uuid.UUID
	err := row.Scan(&lockedID)
	return lockedID, err
}

const clearSubmissionQuota = `
UPDATE evaluations
SET quota_first_round_start = NULL,
    quota_round_duration_ms = NULL,
    quota_number_of_rounds = NULL,
    quota_submission_limit = NULL
WHERE id = $1
`

func (q *Queries) ClearSubmissionQuota(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, clearSubmissionQuota, id)
	return err
}
