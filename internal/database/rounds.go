package database

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const createEvaluationRound = `
INSERT INTO evaluation_rounds (id, evaluation_id, round_start, round_end, limits)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, evaluation_id, round_start, round_end, limits, created_at
`

type CreateEvaluationRoundParams struct {
	ID           uuid.UUID
	EvaluationID uuid.UUID
	RoundStart   time.Time
	RoundEnd     time.Time
	Limits       []byte
}

func (q *Queries) CreateEvaluationRound(
	ctx context.Context,
	arg CreateEvaluationRoundParams,
) (EvaluationRound, error) {
	row := q.db.QueryRow(
		ctx,
		createEvaluationRound,
		arg.ID,
		arg.EvaluationID,
		arg.RoundStart,
		arg.RoundEnd,
		arg.Limits,
	)
	return scanEvaluationRound(row)
}

const updateEvaluationRound = `
UPDATE evaluation_rounds
SET round_start = $2, round_end = $3, limits = $4
WHERE id = $1
RETURNING id, evaluation_id, round_start, round_end, limits, created_at
`

type UpdateEvaluationRoundParams struct {
	ID         uuid.UUID
	RoundStart time.Time
	RoundEnd   time.Time
	Limits     []byte
}

func (q *Queries) UpdateEvaluationRound(
	ctx context.Context,
	arg UpdateEvaluationRoundParams,
) (EvaluationRound, error) {
	row := q.db.QueryRow(
		ctx,
		updateEvaluationRound,
		arg.ID,
		arg.RoundStart,
		arg.RoundEnd,
		arg.Limits,
	)
	return scanEvaluationRound(row)
}

const deleteEvaluationRound = `
DELETE FROM evaluation_rounds
WHERE id = $1
`

func (q *Queries) DeleteEvaluationRound(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteEvaluationRound, id)
	return err
}

const getEvaluationRoundByID = `
SELECT id, evaluation_id, round_start, round_end, limits, created_at
FROM evaluation_rounds
WHERE id = $1
`

func (q *Queries) GetEvaluationRoundByID(ctx context.Context, id uuid.UUID) (EvaluationRound, error) {
	row := q.db.QueryRow(ctx, getEvaluationRoundByID, id)
	return scanEvaluationRound(row)
}

const getEvaluationRoundForTimestamp = `
SELECT id, evaluation_id, round_start, round_end, limits, created_at
FROM evaluation_rounds
WHERE evaluation_id = $1
  AND round_start <= $2
  AND round_end > $2
`

type GetEvaluationRoundForTimestampParams struct {
	EvaluationID uuid.UUID
	Timestamp    time.Time
}

func (q *Queries) GetEvaluationRoundForTimestamp(
	ctx context.Context,
	arg GetEvaluationRoundForTimestampParams,
) (EvaluationRound, error) {
	row := q.db.QueryRow(ctx, getEvaluationRoundForTimestamp, arg.EvaluationID, arg.Timestamp)
	return scanEvaluationRound(row)
}

const hasEvaluationRounds = `
SELECT EXISTS (
	SELECT 1 FROM evaluation_rounds WHERE evaluation_id = $1
)
`

func (q *Queries) HasEvaluationRounds(ctx context.Context, evaluationID uuid.UUID) (bool, error) {
	row := q.db.QueryRow(ctx, hasEvaluationRounds, evaluationID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

// intervals are half-open [round_start, round_end), so two rounds
// intersect iff each starts before the other ends
const overlappingEvaluationRounds = `
SELECT id
FROM evaluation_rounds
WHERE evaluation_id = $1
  AND round_start < $3
  AND round_end > $2
  AND id != $4
ORDER BY round_start
`

type OverlappingEvaluationRoundsParams struct {
	EvaluationID uuid.UUID
	RoundStart   time.Time
	RoundEnd     time.Time
	ExcludeID    uuid.UUID
}

func (q *Queries) OverlappingEvaluationRounds(
	ctx context.Context,
	arg OverlappingEvaluationRoundsParams,
) ([]uuid.UUID, error) {
	rows, err := q.db.Query(
		ctx,
		overlappingEvaluationRounds,
		arg.EvaluationID,
		arg.RoundStart,
		arg.RoundEnd,
		arg.ExcludeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const listEvaluationRounds = `
SELECT id, evaluation_id, round_start, round_end, limits, created_at
FROM evaluation_rounds
WHERE evaluation_id = $1
ORDER BY round_start
LIMIT $2 OFFSET $3
`

type ListEvaluationRoundsParams struct {
	EvaluationID uuid.UUID
	Limit        int64
	Offset       int64
}

func (q *Queries) ListEvaluationRounds(
	ctx context.Context,
	arg ListEvaluationRoundsParams,
) ([]EvaluationRound, error) {
	rows, err := q.db.Query(ctx, listEvaluationRounds, arg.EvaluationID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var rounds []EvaluationRound
	for rows.Next() {
		var r EvaluationRound
		if err := rows.Scan(
			&r.ID,
			&r.EvaluationID,
			&r.RoundStart,
			&r.RoundEnd,
			&r.Limits,
			&r.CreatedAt,
		); err != nil {
			return nil, err
		}
		rounds = append(rounds, r)
	}
	return rounds, rows.Err()
}

const hasSubmissionForEvaluationRound = `
SELECT EXISTS (
	SELECT 1 FROM submissions WHERE round_id = $1
)
`

func (q *Queries) HasSubmissionForEvaluationRound(ctx context.Context, roundID uuid.UUID) (bool, error) {
	row := q.db.QueryRow(ctx, hasSubmissionForEvaluationRound, roundID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEvaluationRound(row scannable) (EvaluationRound, error) {
	var r EvaluationRound
	err := row.Scan(
		&r.ID,
		&r.EvaluationID,
		&r.RoundStart,
		&r.RoundEnd,
		&r.Limits,
		&r.CreatedAt,
	)
	return r, err
}
