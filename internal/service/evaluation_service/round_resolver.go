package evaluation_service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
	"github.com/tcp_snm/arena/internal/arena_errors"
	"github.com/tcp_snm/arena/internal/database"
)

func (e *EvaluationService) GetEvaluationByID(
	ctx context.Context,
	evaluationID uuid.UUID,
) (Evaluation, error) {
	dbEval, err := e.DB.GetEvaluationByID(ctx, evaluationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Evaluation{}, fmt.Errorf(
				"%w, no evaluation exist with the given id",
				arena_errors.ErrNotFound,
			)
		}
		err = fmt.Errorf(
			"%w, cannot fetch evaluation with id %v, %w",
			arena_errors.ErrInternal,
			evaluationID,
			err,
		)
		log.Error(err)
		return Evaluation{}, err
	}
	return dbEvaluationToService(dbEval), nil
}

// ResolveRound returns the round in effect for the evaluation at the
// given instant. Callers must reuse the same `now` for every
// sub-computation of a single request so window boundaries stay
// consistent. ResolveRound never mutates state.
func (e *EvaluationService) ResolveRound(
	ctx context.Context,
	evaluation Evaluation,
	now time.Time,
) (ResolvedRound, error) {
	return resolveRound(ctx, e.DB, evaluation, now)
}

func resolveRound(
	ctx context.Context,
	store roundStore,
	evaluation Evaluation,
	now time.Time,
) (ResolvedRound, error) {
	hasRounds, err := store.HasEvaluationRounds(ctx, evaluation.ID)
	if err != nil {
		err = fmt.Errorf(
			"%w, cannot check rounds of evaluation %v, %w",
			arena_errors.ErrInternal,
			evaluation.ID,
			err,
		)
		log.Error(err)
		return ResolvedRound{}, err
	}

	if hasRounds {
		dbRound, err := store.GetEvaluationRoundForTimestamp(
			ctx,
			database.GetEvaluationRoundForTimestampParams{
				EvaluationID: evaluation.ID,
				Timestamp:    now,
			},
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				// no round covers the instant, submissions are closed
				return ResolvedRound{Scope: RoundNone}, nil
			}
			err = fmt.Errorf(
				"%w, cannot fetch round of evaluation %v for timestamp %v, %w",
				arena_errors.ErrInternal,
				evaluation.ID,
				now,
				err,
			)
			log.Error(err)
			return ResolvedRound{}, err
		}
		round, err := dbRoundToServiceRound(dbRound)
		if err != nil {
			return ResolvedRound{}, err
		}
		return ResolvedRound{Scope: RoundScoped, Round: round}, nil
	}

	if evaluation.Quota != nil {
		return synthesizeQuotaRound(evaluation.ID, *evaluation.Quota, now)
	}

	return ResolvedRound{Scope: RoundUnrestricted}, nil
}

// synthesizeQuotaRound projects the legacy periodic quota onto the
// instant, producing the ephemeral round that instant falls into.
// Ephemeral rounds carry a nil id.
func synthesizeQuotaRound(
	evaluationID uuid.UUID,
	quota SubmissionQuota,
	now time.Time,
) (ResolvedRound, error) {
	if quota.RoundDurationMillis <= 0 {
		err := fmt.Errorf(
			"%w, evaluation %v has submission quota with non-positive round duration %v",
			arena_errors.ErrInternal,
			evaluationID,
			quota.RoundDurationMillis,
		)
		log.Error(err)
		return ResolvedRound{}, err
	}

	// before the first round starts, submissions are closed
	if now.Before(quota.FirstRoundStart) {
		return ResolvedRound{Scope: RoundNone}, nil
	}

	index := now.Sub(quota.FirstRoundStart).Milliseconds() / quota.RoundDurationMillis
	if quota.NumberOfRounds != nil && index >= *quota.NumberOfRounds {
		// the schedule has run out of rounds
		return ResolvedRound{Scope: RoundNone}, nil
	}

	duration := time.Duration(quota.RoundDurationMillis) * time.Millisecond
	start := quota.FirstRoundStart.Add(time.Duration(index) * duration)

	var limits []EvaluationRoundLimit
	if quota.SubmissionLimit != nil {
		limits = []EvaluationRoundLimit{
			{
				LimitType:          database.LimitTypeTotal,
				MaximumSubmissions: *quota.SubmissionLimit,
			},
		}
	}

	return ResolvedRound{
		Scope: RoundScoped,
		Round: EvaluationRound{
			EvaluationID: evaluationID,
			RoundStart:   start,
			RoundEnd:     start.Add(duration),
			Limits:       limits,
		},
	}, nil
}
