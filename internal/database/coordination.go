package database

import (
	"context"

	"github.com/google/uuid"
)

// GetCoordinationForUpdate locks the evaluation's coordination row for
// the remainder of the transaction. Concurrent batch callers for the
// same evaluation block here until the holder commits.
const getCoordinationForUpdate = `
SELECT evaluation_id, token, updated_at
FROM evaluation_coordination
WHERE evaluation_id = $1
FOR UPDATE
`

func (q *Queries) GetCoordinationForUpdate(
	ctx context.Context,
	evaluationID uuid.UUID,
) (EvaluationCoordination, error) {
	row := q.db.QueryRow(ctx, getCoordinationForUpdate, evaluationID)
	var c EvaluationCoordination
	err := row.Scan(&c.EvaluationID, &c.Token, &c.UpdatedAt)
	return c, err
}

const createCoordination = `
INSERT INTO evaluation_coordination (evaluation_id, token)
VALUES ($1, $2)
RETURNING evaluation_id, token, updated_at
`

type CreateCoordinationParams struct {
	EvaluationID uuid.UUID
	Token        uuid.UUID
}

func (q *Queries) CreateCoordination(
	ctx context.Context,
	arg CreateCoordinationParams,
) (EvaluationCoordination, error) {
	row := q.db.QueryRow(ctx, createCoordination, arg.EvaluationID, arg.Token)
	var c EvaluationCoordination
	err := row.Scan(&c.EvaluationID, &c.Token, &c.UpdatedAt)
	return c, err
}

const updateCoordinationToken = `
UPDATE evaluation_coordination
SET token = $2, updated_at = NOW()
WHERE evaluation_id = $1
`

type UpdateCoordinationTokenParams struct {
	EvaluationID uuid.UUID
	Token        uuid.UUID
}

func (q *Queries) UpdateCoordinationToken(
	ctx context.Context,
	arg UpdateCoordinationTokenParams,
) error {
	_, err := q.db.Exec(ctx, updateCoordinationToken, arg.EvaluationID, arg.Token)
	return err
}
