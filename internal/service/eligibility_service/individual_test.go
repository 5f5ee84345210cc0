package eligibility_service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tcp_snm/arena/internal/database"
	"github.com/tcp_snm/arena/internal/service/challenge_service"
	"github.com/tcp_snm/arena/internal/service/evaluation_service"
)

type eligibilityFixture struct {
	service      *EligibilityService
	resolver     *fakeResolver
	registry     *fakeRegistry
	store        *fakeSubmissionStore
	evaluationID uuid.UUID
	roundStart   time.Time
	now          time.Time
}

// newScopedFixture builds an evaluation resolving into a round limited
// to 3 TOTAL submissions, tied to a challenge through a content source.
func newScopedFixture() *eligibilityFixture {
	evaluationID := uuid.New()
	contentSource := uuid.New()
	roundStart := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

	resolver := &fakeResolver{
		evaluations: map[uuid.UUID]evaluation_service.Evaluation{
			evaluationID: {
				ID:            evaluationID,
				Name:          "spring qualifier",
				ContentSource: &contentSource,
			},
		},
		resolved: map[uuid.UUID]evaluation_service.ResolvedRound{
			evaluationID: {
				Scope: evaluation_service.RoundScoped,
				Round: evaluation_service.EvaluationRound{
					ID:           uuid.New(),
					EvaluationID: evaluationID,
					RoundStart:   roundStart,
					RoundEnd:     roundStart.Add(8 * time.Hour),
					Limits: []evaluation_service.EvaluationRoundLimit{
						{LimitType: database.LimitTypeTotal, MaximumSubmissions: 3},
					},
				},
			},
		},
	}

	registry := &fakeRegistry{
		challenges: map[uuid.UUID]challenge_service.Challenge{
			contentSource: {ID: uuid.New(), ProjectID: contentSource},
		},
		registeredTeams: make(map[uuid.UUID]bool),
		registeredUsers: make(map[uuid.UUID]bool),
		teams:           make(map[uuid.UUID][]uuid.UUID),
	}

	store := newFakeSubmissionStore()

	return &eligibilityFixture{
		service: &EligibilityService{
			Evaluations: resolver,
			Challenges:  registry,
			DB:          store,
		},
		resolver:     resolver,
		registry:     registry,
		store:        store,
		evaluationID: evaluationID,
		roundStart:   roundStart,
		now:          roundStart.Add(time.Hour),
	}
}

func TestIsIndividualEligible(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(f *eligibilityFixture, userID uuid.UUID)
		eligible   bool
		wantReason string
	}{
		{
			name: "registered_user_under_quota",
			setup: func(f *eligibilityFixture, userID uuid.UUID) {
				f.registry.registeredUsers[userID] = true
			},
			eligible: true,
		},
		{
			name:       "unregistered_user",
			setup:      func(f *eligibilityFixture, userID uuid.UUID) {},
			wantReason: ReasonNotRegistered,
		},
		{
			name: "quota_filled",
			setup: func(f *eligibilityFixture, userID uuid.UUID) {
				f.registry.registeredUsers[userID] = true
				f.store.addContributions(userID, f.now, 3)
			},
			wantReason: ReasonQuotaFilled,
		},
		{
			name: "already_contributed_with_a_team",
			setup: func(f *eligibilityFixture, userID uuid.UUID) {
				f.registry.registeredUsers[userID] = true
				f.store.teamContributors[userID] = true
			},
			wantReason: ReasonTeamConflict,
		},
		{
			name: "team_conflict_wins_over_quota",
			setup: func(f *eligibilityFixture, userID uuid.UUID) {
				f.registry.registeredUsers[userID] = true
				f.store.teamContributors[userID] = true
				f.store.addContributions(userID, f.now, 3)
			},
			wantReason: ReasonTeamConflict,
		},
		{
			name: "registration_wins_over_everything",
			setup: func(f *eligibilityFixture, userID uuid.UUID) {
				f.store.teamContributors[userID] = true
				f.store.addContributions(userID, f.now, 3)
			},
			wantReason: ReasonNotRegistered,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fixture := newScopedFixture()
			userID := uuid.New()
			test.setup(fixture, userID)

			result, err := fixture.service.IsIndividualEligible(
				context.Background(),
				fixture.evaluationID,
				userID,
				fixture.now,
			)
			require.NoError(t, err)
			require.Equal(t, test.eligible, result.IsEligible)
			require.Equal(t, test.wantReason, result.Reason)
			require.Equal(t, userID, result.PrincipalID)
		})
	}
}

func TestIsIndividualEligibleWeeklyWindowReset(t *testing.T) {
	fixture := newScopedFixture()
	// round spanning two weeks, Jan 1 2024 is a Monday
	roundStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fixture.resolver.resolved[fixture.evaluationID] = evaluation_service.ResolvedRound{
		Scope: evaluation_service.RoundScoped,
		Round: evaluation_service.EvaluationRound{
			ID:           uuid.New(),
			EvaluationID: fixture.evaluationID,
			RoundStart:   roundStart,
			RoundEnd:     roundStart.AddDate(0, 0, 14),
			Limits: []evaluation_service.EvaluationRoundLimit{
				{LimitType: database.LimitTypeWeekly, MaximumSubmissions: 2},
			},
		},
	}

	userID := uuid.New()
	fixture.registry.registeredUsers[userID] = true
	fixture.store.addContributions(userID, roundStart, 1)
	fixture.store.addContributions(userID, roundStart.AddDate(0, 0, 1), 1)

	// thursday of the first week, weekly quota is spent
	result, err := fixture.service.IsIndividualEligible(
		context.Background(),
		fixture.evaluationID,
		userID,
		roundStart.AddDate(0, 0, 3),
	)
	require.NoError(t, err)
	require.False(t, result.IsEligible)
	require.True(t, result.IsQuotaFilled)
	require.Equal(t, ReasonQuotaFilled, result.Reason)

	// tuesday of the second week, the monday boundary reset the count
	result, err = fixture.service.IsIndividualEligible(
		context.Background(),
		fixture.evaluationID,
		userID,
		roundStart.AddDate(0, 0, 8),
	)
	require.NoError(t, err)
	require.True(t, result.IsEligible)
	require.False(t, result.IsQuotaFilled)
}

func TestIsIndividualEligibleOutsideWindow(t *testing.T) {
	fixture := newScopedFixture()
	fixture.resolver.resolved[fixture.evaluationID] = evaluation_service.ResolvedRound{
		Scope: evaluation_service.RoundNone,
	}

	result, err := fixture.service.IsIndividualEligible(
		context.Background(),
		fixture.evaluationID,
		uuid.New(),
		fixture.now,
	)
	require.NoError(t, err)
	require.False(t, result.IsEligible)
	require.Equal(t, ReasonOutsideWindow, result.Reason)
}

func TestIsIndividualEligibleUnrestricted(t *testing.T) {
	fixture := newScopedFixture()
	fixture.resolver.resolved[fixture.evaluationID] = evaluation_service.ResolvedRound{
		Scope: evaluation_service.RoundUnrestricted,
	}

	userID := uuid.New()
	fixture.registry.registeredUsers[userID] = true
	// counts that would fail a scoped round must not matter here
	fixture.store.addContributions(userID, fixture.now, 100)

	result, err := fixture.service.IsIndividualEligible(
		context.Background(),
		fixture.evaluationID,
		userID,
		fixture.now,
	)
	require.NoError(t, err)
	require.True(t, result.IsEligible)
}

func TestIsIndividualEligibleWithoutChallenge(t *testing.T) {
	// an evaluation with no content source has no registration concept,
	// everyone counts as registered
	fixture := newScopedFixture()
	evaluation := fixture.resolver.evaluations[fixture.evaluationID]
	evaluation.ContentSource = nil
	fixture.resolver.evaluations[fixture.evaluationID] = evaluation

	result, err := fixture.service.IsIndividualEligible(
		context.Background(),
		fixture.evaluationID,
		uuid.New(),
		fixture.now,
	)
	require.NoError(t, err)
	require.True(t, result.IsEligible)
	require.True(t, result.IsRegistered)
}

func TestIsIndividualEligibleUnknownEvaluation(t *testing.T) {
	fixture := newScopedFixture()
	_, err := fixture.service.IsIndividualEligible(
		context.Background(),
		uuid.New(),
		uuid.New(),
		fixture.now,
	)
	require.Error(t, err)
}
