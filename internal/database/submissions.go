package database

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const createSubmission = `
INSERT INTO submissions (id, evaluation_id, round_id, team_id, submitted_by, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, evaluation_id, round_id, team_id, submitted_by, status, created_at
`

type CreateSubmissionParams struct {
	ID           uuid.UUID
	EvaluationID uuid.UUID
	RoundID      *uuid.UUID
	TeamID       *uuid.UUID
	SubmittedBy  uuid.UUID
	Status       SubmissionStatus
}

func (q *Queries) CreateSubmission(ctx context.Context, arg CreateSubmissionParams) (Submission, error) {
	row := q.db.QueryRow(
		ctx,
		createSubmission,
		arg.ID,
		arg.EvaluationID,
		arg.RoundID,
		arg.TeamID,
		arg.SubmittedBy,
		arg.Status,
	)
	var s Submission
	err := row.Scan(
		&s.ID,
		&s.EvaluationID,
		&s.RoundID,
		&s.TeamID,
		&s.SubmittedBy,
		&s.Status,
		&s.CreatedAt,
	)
	return s, err
}

const createSubmissionContributor = `
INSERT INTO submission_contributors (submission_id, principal_id)
VALUES ($1, $2)
`

type CreateSubmissionContributorParams struct {
	SubmissionID uuid.UUID
	PrincipalID  uuid.UUID
}

func (q *Queries) CreateSubmissionContributor(
	ctx context.Context,
	arg CreateSubmissionContributorParams,
) error {
	_, err := q.db.Exec(ctx, createSubmissionContributor, arg.SubmissionID, arg.PrincipalID)
	return err
}

const countSubmissionsByContributor = `
SELECT COUNT(*)
FROM submissions s
JOIN submission_contributors sc ON sc.submission_id = s.id
WHERE s.evaluation_id = $1
  AND sc.principal_id = $2
  AND s.created_at >= $3
  AND s.created_at < $4
  AND s.status = ANY($5)
`

type CountSubmissionsByContributorParams struct {
	EvaluationID uuid.UUID
	PrincipalID  uuid.UUID
	WindowStart  time.Time
	WindowEnd    time.Time
	Statuses     []SubmissionStatus
}

func (q *Queries) CountSubmissionsByContributor(
	ctx context.Context,
	arg CountSubmissionsByContributorParams,
) (int64, error) {
	row := q.db.QueryRow(
		ctx,
		countSubmissionsByContributor,
		arg.EvaluationID,
		arg.PrincipalID,
		arg.WindowStart,
		arg.WindowEnd,
		statusStrings(arg.Statuses),
	)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countSubmissionsByTeam = `
SELECT COUNT(*)
FROM submissions
WHERE evaluation_id = $1
  AND team_id = $2
  AND created_at >= $3
  AND created_at < $4
  AND status = ANY($5)
`

type CountSubmissionsByTeamParams struct {
	EvaluationID uuid.UUID
	TeamID       uuid.UUID
	WindowStart  time.Time
	WindowEnd    time.Time
	Statuses     []SubmissionStatus
}

func (q *Queries) CountSubmissionsByTeam(
	ctx context.Context,
	arg CountSubmissionsByTeamParams,
) (int64, error) {
	row := q.db.QueryRow(
		ctx,
		countSubmissionsByTeam,
		arg.EvaluationID,
		arg.TeamID,
		arg.WindowStart,
		arg.WindowEnd,
		statusStrings(arg.Statuses),
	)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const hasContributedToTeamSubmission = `
SELECT EXISTS (
	SELECT 1
	FROM submissions s
	JOIN submission_contributors sc ON sc.submission_id = s.id
	WHERE s.evaluation_id = $1
	  AND sc.principal_id = $2
	  AND s.team_id IS NOT NULL
	  AND s.created_at >= $3
	  AND s.created_at < $4
	  AND s.status = ANY($5)
)
`

type HasContributedToTeamSubmissionParams struct {
	EvaluationID uuid.UUID
	PrincipalID  uuid.UUID
	WindowStart  time.Time
	WindowEnd    time.Time
	Statuses     []SubmissionStatus
}

func (q *Queries) HasContributedToTeamSubmission(
	ctx context.Context,
	arg HasContributedToTeamSubmissionParams,
) (bool, error) {
	row := q.db.QueryRow(
		ctx,
		hasContributedToTeamSubmission,
		arg.EvaluationID,
		arg.PrincipalID,
		arg.WindowStart,
		arg.WindowEnd,
		statusStrings(arg.Statuses),
	)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const getTeamMembersSubmittingElsewhere = `
SELECT DISTINCT sc.principal_id
FROM submissions s
JOIN submission_contributors sc ON sc.submission_id = s.id
WHERE s.evaluation_id = $1
  AND s.team_id IS NOT NULL
  AND s.team_id != $2
  AND sc.principal_id = ANY($3)
  AND s.created_at >= $4
  AND s.created_at < $5
  AND s.status = ANY($6)
`

type GetTeamMembersSubmittingElsewhereParams struct {
	EvaluationID uuid.UUID
	TeamID       uuid.UUID
	PrincipalIDs []uuid.UUID
	WindowStart  time.Time
	WindowEnd    time.Time
	Statuses     []SubmissionStatus
}

func (q *Queries) GetTeamMembersSubmittingElsewhere(
	ctx context.Context,
	arg GetTeamMembersSubmittingElsewhereParams,
) ([]uuid.UUID, error) {
	rows, err := q.db.Query(
		ctx,
		getTeamMembersSubmittingElsewhere,
		arg.EvaluationID,
		arg.TeamID,
		arg.PrincipalIDs,
		arg.WindowStart,
		arg.WindowEnd,
		statusStrings(arg.Statuses),
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

const updateSubmissionStatus = `
UPDATE submissions
SET status = $3
WHERE id = $1 AND evaluation_id = $2
`

type UpdateSubmissionStatusParams struct {
	ID           uuid.UUID
	EvaluationID uuid.UUID
	Status       SubmissionStatus
}

// UpdateSubmissionStatus returns the number of rows updated. Zero means
// the submission does not exist or belongs to another evaluation.
func (q *Queries) UpdateSubmissionStatus(
	ctx context.Context,
	arg UpdateSubmissionStatusParams,
) (int64, error) {
	tag, err := q.db.Exec(ctx, updateSubmissionStatus, arg.ID, arg.EvaluationID, arg.Status)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func statusStrings(statuses []SubmissionStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}
