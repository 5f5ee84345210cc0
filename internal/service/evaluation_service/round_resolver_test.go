package evaluation_service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tcp_snm/arena/internal/database"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func mustMarshalLimits(t *testing.T, limits []EvaluationRoundLimit) []byte {
	t.Helper()
	raw, err := marshalLimits(limits)
	if err != nil {
		t.Fatalf("cannot marshal limits: %v", err)
	}
	return raw
}

func TestResolveRoundWithDiscreteRounds(t *testing.T) {
	store := newFakeRoundStore()
	evaluationID := uuid.New()
	store.evaluations[evaluationID] = database.Evaluation{ID: evaluationID, Name: "weekly contest"}

	dayOne := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	roundOne := uuid.New()
	roundTwo := uuid.New()
	store.rounds[roundOne] = database.EvaluationRound{
		ID:           roundOne,
		EvaluationID: evaluationID,
		RoundStart:   dayOne,
		RoundEnd:     dayOne.Add(2 * time.Hour),
		Limits: mustMarshalLimits(t, []EvaluationRoundLimit{
			{LimitType: database.LimitTypeTotal, MaximumSubmissions: 3},
		}),
	}
	store.rounds[roundTwo] = database.EvaluationRound{
		ID:           roundTwo,
		EvaluationID: evaluationID,
		RoundStart:   dayOne.Add(5 * time.Hour),
		RoundEnd:     dayOne.Add(7 * time.Hour),
	}

	evaluation := Evaluation{ID: evaluationID, Name: "weekly contest"}

	tests := []struct {
		name      string
		now       time.Time
		scope     RoundScope
		wantRound uuid.UUID
	}{
		{
			name:      "inside_first_round",
			now:       dayOne.Add(time.Hour),
			scope:     RoundScoped,
			wantRound: roundOne,
		},
		{
			name:      "round_start_is_inclusive",
			now:       dayOne,
			scope:     RoundScoped,
			wantRound: roundOne,
		},
		{
			name:  "round_end_is_exclusive",
			now:   dayOne.Add(2 * time.Hour),
			scope: RoundNone,
		},
		{
			name:  "gap_between_rounds",
			now:   dayOne.Add(3 * time.Hour),
			scope: RoundNone,
		},
		{
			name:      "inside_second_round",
			now:       dayOne.Add(6 * time.Hour),
			scope:     RoundScoped,
			wantRound: roundTwo,
		},
		{
			name:  "after_all_rounds",
			now:   dayOne.Add(24 * time.Hour),
			scope: RoundNone,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resolved, err := resolveRound(context.Background(), store, evaluation, test.now)
			if err != nil {
				t.Fatalf("resolveRound failed: %v", err)
			}
			if resolved.Scope != test.scope {
				t.Fatalf("expected scope %v, got %v", test.scope, resolved.Scope)
			}
			if test.scope == RoundScoped && resolved.Round.ID != test.wantRound {
				t.Errorf("expected round %v, got %v", test.wantRound, resolved.Round.ID)
			}
		})
	}
}

func TestResolveRoundFromQuota(t *testing.T) {
	firstStart := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	dayMillis := int64(24 * time.Hour / time.Millisecond)

	evaluationID := uuid.New()
	evaluation := Evaluation{
		ID: evaluationID,
		Quota: &SubmissionQuota{
			FirstRoundStart:     firstStart,
			RoundDurationMillis: dayMillis,
			NumberOfRounds:      int64Ptr(3),
			SubmissionLimit:     int64Ptr(5),
		},
	}

	store := newFakeRoundStore()
	store.evaluations[evaluationID] = database.Evaluation{ID: evaluationID}

	tests := []struct {
		name      string
		now       time.Time
		scope     RoundScope
		wantStart time.Time
	}{
		{
			name:  "before_first_round",
			now:   firstStart.Add(-time.Minute),
			scope: RoundNone,
		},
		{
			name:      "inside_first_round",
			now:       firstStart.Add(time.Hour),
			scope:     RoundScoped,
			wantStart: firstStart,
		},
		{
			name:      "inside_third_round",
			now:       firstStart.Add(49 * time.Hour),
			scope:     RoundScoped,
			wantStart: firstStart.Add(48 * time.Hour),
		},
		{
			name:  "schedule_exhausted",
			now:   firstStart.Add(73 * time.Hour),
			scope: RoundNone,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resolved, err := resolveRound(context.Background(), store, evaluation, test.now)
			if err != nil {
				t.Fatalf("resolveRound failed: %v", err)
			}
			if resolved.Scope != test.scope {
				t.Fatalf("expected scope %v, got %v", test.scope, resolved.Scope)
			}
			if test.scope != RoundScoped {
				return
			}
			round := resolved.Round
			if round.ID != uuid.Nil {
				t.Errorf("quota rounds must carry a nil id, got %v", round.ID)
			}
			if !round.RoundStart.Equal(test.wantStart) {
				t.Errorf("expected round start %v, got %v", test.wantStart, round.RoundStart)
			}
			if !round.RoundEnd.Equal(test.wantStart.Add(24 * time.Hour)) {
				t.Errorf("unexpected round end %v", round.RoundEnd)
			}
			if len(round.Limits) != 1 ||
				round.Limits[0].LimitType != database.LimitTypeTotal ||
				round.Limits[0].MaximumSubmissions != 5 {
				t.Errorf("expected a single TOTAL limit of 5, got %v", round.Limits)
			}
		})
	}
}

func TestResolveRoundQuotaWithoutBounds(t *testing.T) {
	firstStart := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	evaluation := Evaluation{
		ID: uuid.New(),
		Quota: &SubmissionQuota{
			FirstRoundStart:     firstStart,
			RoundDurationMillis: int64(time.Hour / time.Millisecond),
		},
	}

	store := newFakeRoundStore()
	store.evaluations[evaluation.ID] = database.Evaluation{ID: evaluation.ID}

	// an unbounded schedule keeps producing rounds arbitrarily far out
	resolved, err := resolveRound(
		context.Background(),
		store,
		evaluation,
		firstStart.Add(1000*time.Hour+30*time.Minute),
	)
	if err != nil {
		t.Fatalf("resolveRound failed: %v", err)
	}
	if resolved.Scope != RoundScoped {
		t.Fatalf("expected a scoped round, got %v", resolved.Scope)
	}
	if !resolved.Round.RoundStart.Equal(firstStart.Add(1000 * time.Hour)) {
		t.Errorf("unexpected round start %v", resolved.Round.RoundStart)
	}
	if len(resolved.Round.Limits) != 0 {
		t.Errorf("quota without submission limit must produce no limits, got %v", resolved.Round.Limits)
	}
}

func TestResolveRoundUnrestricted(t *testing.T) {
	store := newFakeRoundStore()
	evaluationID := uuid.New()
	store.evaluations[evaluationID] = database.Evaluation{ID: evaluationID}

	resolved, err := resolveRound(
		context.Background(),
		store,
		Evaluation{ID: evaluationID},
		time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("resolveRound failed: %v", err)
	}
	if resolved.Scope != RoundUnrestricted {
		t.Errorf("expected unrestricted scope, got %v", resolved.Scope)
	}
}

func TestResolveRoundPrefersDiscreteRounds(t *testing.T) {
	// once discrete rounds exist the quota is ignored even if still set
	store := newFakeRoundStore()
	evaluationID := uuid.New()
	store.evaluations[evaluationID] = database.Evaluation{ID: evaluationID}

	roundStart := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	roundID := uuid.New()
	store.rounds[roundID] = database.EvaluationRound{
		ID:           roundID,
		EvaluationID: evaluationID,
		RoundStart:   roundStart,
		RoundEnd:     roundStart.Add(time.Hour),
	}

	evaluation := Evaluation{
		ID: evaluationID,
		Quota: &SubmissionQuota{
			FirstRoundStart:     roundStart.Add(-24 * time.Hour),
			RoundDurationMillis: int64(time.Hour / time.Millisecond),
		},
	}

	resolved, err := resolveRound(context.Background(), store, evaluation, roundStart.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("resolveRound failed: %v", err)
	}
	if resolved.Scope != RoundScoped || resolved.Round.ID != roundID {
		t.Errorf("expected discrete round %v, got scope %v round %v", roundID, resolved.Scope, resolved.Round.ID)
	}
}
