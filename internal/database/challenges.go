package database

import (
	"context"

	"github.com/google/uuid"
)

const getChallengeByProjectID = `
SELECT id, project_id, participant_team_id
FROM challenges
WHERE project_id = $1
`

func (q *Queries) GetChallengeByProjectID(ctx context.Context, projectID uuid.UUID) (Challenge, error) {
	row := q.db.QueryRow(ctx, getChallengeByProjectID, projectID)
	var c Challenge
	err := row.Scan(&c.ID, &c.ProjectID, &c.ParticipantTeamID)
	return c, err
}

const isTeamRegisteredForChallenge = `
SELECT EXISTS (
	SELECT 1
	FROM challenge_registered_teams
	WHERE challenge_id = $1 AND team_id = $2
)
`

type IsTeamRegisteredForChallengeParams struct {
	ChallengeID uuid.UUID
	TeamID      uuid.UUID
}

func (q *Queries) IsTeamRegisteredForChallenge(
	ctx context.Context,
	arg IsTeamRegisteredForChallengeParams,
) (bool, error) {
	row := q.db.QueryRow(ctx, isTeamRegisteredForChallenge, arg.ChallengeID, arg.TeamID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const isUserOnTeam = `
SELECT EXISTS (
	SELECT 1
	FROM team_members
	WHERE team_id = $1 AND member_id = $2
)
`

type IsUserOnTeamParams struct {
	TeamID   uuid.UUID
	MemberID uuid.UUID
}

func (q *Queries) IsUserOnTeam(ctx context.Context, arg IsUserOnTeamParams) (bool, error) {
	row := q.db.QueryRow(ctx, isUserOnTeam, arg.TeamID, arg.MemberID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const getTeamMembers = `
SELECT member_id
FROM team_members
WHERE team_id = $1
ORDER BY member_id
`

func (q *Queries) GetTeamMembers(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := q.db.Query(ctx, getTeamMembers, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var members []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		members = append(members, id)
	}
	return members, rows.Err()
}
