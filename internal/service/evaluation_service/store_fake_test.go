package evaluation_service

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tcp_snm/arena/internal/database"
)

// fakeRoundStore is an in-memory roundStore with the same semantics as
// the real queries, minus locking.
type fakeRoundStore struct {
	evaluations map[uuid.UUID]database.Evaluation
	rounds      map[uuid.UUID]database.EvaluationRound
	// round ids that submissions already reference
	roundsWithSubmissions map[uuid.UUID]bool
}

func newFakeRoundStore() *fakeRoundStore {
	return &fakeRoundStore{
		evaluations:           make(map[uuid.UUID]database.Evaluation),
		rounds:                make(map[uuid.UUID]database.EvaluationRound),
		roundsWithSubmissions: make(map[uuid.UUID]bool),
	}
}

func (f *fakeRoundStore) GetEvaluationByID(
	ctx context.Context,
	id uuid.UUID,
) (database.Evaluation, error) {
	eval, ok := f.evaluations[id]
	if !ok {
		return database.Evaluation{}, pgx.ErrNoRows
	}
	return eval, nil
}

func (f *fakeRoundStore) LockEvaluation(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	if _, ok := f.evaluations[id]; !ok {
		return uuid.Nil, pgx.ErrNoRows
	}
	return id, nil
}

func (f *fakeRoundStore) ClearSubmissionQuota(ctx context.Context, id uuid.UUID) error {
	eval, ok := f.evaluations[id]
	if !ok {
		return pgx.ErrNoRows
	}
	eval.QuotaFirstRoundStart = nil
	eval.QuotaRoundDurationMs = nil
	eval.QuotaNumberOfRounds = nil
	eval.QuotaSubmissionLimit = nil
	f.evaluations[id] = eval
	return nil
}

func (f *fakeRoundStore) HasEvaluationRounds(
	ctx context.Context,
	evaluationID uuid.UUID,
) (bool, error) {
	for _, round := range f.rounds {
		if round.EvaluationID == evaluationID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRoundStore) GetEvaluationRoundByID(
	ctx context.Context,
	id uuid.UUID,
) (database.EvaluationRound, error) {
	round, ok := f.rounds[id]
	if !ok {
		return database.EvaluationRound{}, pgx.ErrNoRows
	}
	return round, nil
}

func (f *fakeRoundStore) GetEvaluationRoundForTimestamp(
	ctx context.Context,
	arg database.GetEvaluationRoundForTimestampParams,
) (database.EvaluationRound, error) {
	for _, round := range f.rounds {
		if round.EvaluationID != arg.EvaluationID {
			continue
		}
		if !round.RoundStart.After(arg.Timestamp) && round.RoundEnd.After(arg.Timestamp) {
			return round, nil
		}
	}
	return database.EvaluationRound{}, pgx.ErrNoRows
}

func (f *fakeRoundStore) OverlappingEvaluationRounds(
	ctx context.Context,
	arg database.OverlappingEvaluationRoundsParams,
) ([]uuid.UUID, error) {
	var overlapping []uuid.UUID
	for _, round := range f.rounds {
		if round.EvaluationID != arg.EvaluationID || round.ID == arg.ExcludeID {
			continue
		}
		if round.RoundStart.Before(arg.RoundEnd) && round.RoundEnd.After(arg.RoundStart) {
			overlapping = append(overlapping, round.ID)
		}
	}
	return overlapping, nil
}

func (f *fakeRoundStore) CreateEvaluationRound(
	ctx context.Context,
	arg database.CreateEvaluationRoundParams,
) (database.EvaluationRound, error) {
	round := database.EvaluationRound{
		ID:           arg.ID,
		EvaluationID: arg.EvaluationID,
		RoundStart:   arg.RoundStart,
		RoundEnd:     arg.RoundEnd,
		Limits:       arg.Limits,
	}
	f.rounds[round.ID] = round
	return round, nil
}

func (f *fakeRoundStore) UpdateEvaluationRound(
	ctx context.Context,
	arg database.UpdateEvaluationRoundParams,
) (database.EvaluationRound, error) {
	round, ok := f.rounds[arg.ID]
	if !ok {
		return database.EvaluationRound{}, pgx.ErrNoRows
	}
	round.RoundStart = arg.RoundStart
	round.RoundEnd = arg.RoundEnd
	round.Limits = arg.Limits
	f.rounds[arg.ID] = round
	return round, nil
}

func (f *fakeRoundStore) DeleteEvaluationRound(ctx context.Context, id uuid.UUID) error {
	delete(f.rounds, id)
	return nil
}

func (f *fakeRoundStore) HasSubmissionForEvaluationRound(
	ctx context.Context,
	roundID uuid.UUID,
) (bool, error) {
	return f.roundsWithSubmissions[roundID], nil
}

func (f *fakeRoundStore) ListEvaluationRounds(
	ctx context.Context,
	arg database.ListEvaluationRoundsParams,
) ([]database.EvaluationRound, error) {
	var all []database.EvaluationRound
	for _, round := range f.rounds {
		if round.EvaluationID == arg.EvaluationID {
			all = append(all, round)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].RoundStart.Before(all[j].RoundStart)
	})
	if arg.Offset >= int64(len(all)) {
		return nil, nil
	}
	all = all[arg.Offset:]
	if int64(len(all)) > arg.Limit {
		all = all[:arg.Limit]
	}
	return all, nil
}
