package eligibility_service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tcp_snm/arena/internal/arena_errors"
	"github.com/tcp_snm/arena/internal/database"
	"github.com/tcp_snm/arena/internal/service/challenge_service"
	"github.com/tcp_snm/arena/internal/service/evaluation_service"
)

type fakeResolver struct {
	evaluations map[uuid.UUID]evaluation_service.Evaluation
	resolved    map[uuid.UUID]evaluation_service.ResolvedRound
}

func (f *fakeResolver) GetEvaluationByID(
	ctx context.Context,
	evaluationID uuid.UUID,
) (evaluation_service.Evaluation, error) {
	evaluation, ok := f.evaluations[evaluationID]
	if !ok {
		return evaluation_service.Evaluation{}, fmt.Errorf(
			"%w, no evaluation exist with the given id",
			arena_errors.ErrNotFound,
		)
	}
	return evaluation, nil
}

func (f *fakeResolver) ResolveRound(
	ctx context.Context,
	evaluation evaluation_service.Evaluation,
	now time.Time,
) (evaluation_service.ResolvedRound, error) {
	return f.resolved[evaluation.ID], nil
}

type fakeRegistry struct {
	// keyed by content source
	challenges      map[uuid.UUID]challenge_service.Challenge
	registeredTeams map[uuid.UUID]bool
	registeredUsers map[uuid.UUID]bool
	teams           map[uuid.UUID][]uuid.UUID
}

func (f *fakeRegistry) GetChallengeByContentSource(
	ctx context.Context,
	contentSource uuid.UUID,
) (challenge_service.Challenge, error) {
	challenge, ok := f.challenges[contentSource]
	if !ok {
		return challenge_service.Challenge{}, fmt.Errorf(
			"%w, no challenge exist for the given project",
			arena_errors.ErrNotFound,
		)
	}
	return challenge, nil
}

func (f *fakeRegistry) IsTeamRegistered(
	ctx context.Context,
	challengeID uuid.UUID,
	teamID uuid.UUID,
) (bool, error) {
	return f.registeredTeams[teamID], nil
}

func (f *fakeRegistry) IsUserRegistered(
	ctx context.Context,
	challenge challenge_service.Challenge,
	userID uuid.UUID,
) (bool, error) {
	return f.registeredUsers[userID], nil
}

func (f *fakeRegistry) GetTeamMembers(
	ctx context.Context,
	teamID uuid.UUID,
) ([]uuid.UUID, error) {
	return f.teams[teamID], nil
}

type fakeSubmissionStore struct {
	// submission timestamps per contributor and per team, filtered by
	// the window arguments the way the real count queries filter on
	// created_at
	contributions   map[uuid.UUID][]time.Time
	teamSubmissions map[uuid.UUID][]time.Time
	// users who already contributed to a team submission in the window
	teamContributors map[uuid.UUID]bool
	// users who contributed with some other team
	elsewhere map[uuid.UUID]bool
}

func newFakeSubmissionStore() *fakeSubmissionStore {
	return &fakeSubmissionStore{
		contributions:    make(map[uuid.UUID][]time.Time),
		teamSubmissions:  make(map[uuid.UUID][]time.Time),
		teamContributors: make(map[uuid.UUID]bool),
		elsewhere:        make(map[uuid.UUID]bool),
	}
}

func (f *fakeSubmissionStore) addContributions(principalID uuid.UUID, at time.Time, n int) {
	for i := 0; i < n; i++ {
		f.contributions[principalID] = append(f.contributions[principalID], at)
	}
}

func (f *fakeSubmissionStore) addTeamSubmissions(teamID uuid.UUID, at time.Time, n int) {
	for i := 0; i < n; i++ {
		f.teamSubmissions[teamID] = append(f.teamSubmissions[teamID], at)
	}
}

func countInWindow(stamps []time.Time, windowStart, windowEnd time.Time) int64 {
	var count int64
	for _, at := range stamps {
		if !at.Before(windowStart) && at.Before(windowEnd) {
			count++
		}
	}
	return count
}

func (f *fakeSubmissionStore) CountSubmissionsByContributor(
	ctx context.Context,
	arg database.CountSubmissionsByContributorParams,
) (int64, error) {
	return countInWindow(f.contributions[arg.PrincipalID], arg.WindowStart, arg.WindowEnd), nil
}

func (f *fakeSubmissionStore) CountSubmissionsByTeam(
	ctx context.Context,
	arg database.CountSubmissionsByTeamParams,
) (int64, error) {
	return countInWindow(f.teamSubmissions[arg.TeamID], arg.WindowStart, arg.WindowEnd), nil
}

func (f *fakeSubmissionStore) HasContributedToTeamSubmission(
	ctx context.Context,
	arg database.HasContributedToTeamSubmissionParams,
) (bool, error) {
	return f.teamContributors[arg.PrincipalID], nil
}

func (f *fakeSubmissionStore) GetTeamMembersSubmittingElsewhere(
	ctx context.Context,
	arg database.GetTeamMembersSubmittingElsewhereParams,
) ([]uuid.UUID, error) {
	var conflicting []uuid.UUID
	for _, id := range arg.PrincipalIDs {
		if f.elsewhere[id] {
			conflicting = append(conflicting, id)
		}
	}
	return conflicting, nil
}
