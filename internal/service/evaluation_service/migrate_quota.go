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
	"github.com/tcp_snm/arena/internal/service"
	"github.com/tcp_snm/arena/internal/service/user_service"
)

// MigrateSubmissionQuota converts an evaluation's legacy submission
// quota into the equivalent set of discrete rounds and clears the
// quota. A second invocation fails because the quota is already gone.
func (e *EvaluationService) MigrateSubmissionQuota(
	ctx context.Context,
	evaluationID uuid.UUID,
) ([]EvaluationRound, error) {
	// fetch claims
	claims, err := service.GetClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	// migration rewrites the evaluation's schedule, manager only
	err = e.UserServiceConfig.AuthorizeUserRole(
		ctx,
		claims.UserId,
		user_service.RoleManager,
		fmt.Sprintf("user %s tried to migrate quota of evaluation %v", claims.UserName, evaluationID),
	)
	if err != nil {
		return nil, err
	}

	tx, err := e.Pool.Begin(ctx)
	if err != nil {
		err = fmt.Errorf("%w, cannot begin transaction, %w", arena_errors.ErrInternal, err)
		log.Error(err)
		return nil, err
	}
	defer tx.Rollback(ctx)

	rounds, err := migrateQuota(ctx, e.DB.WithTx(tx), evaluationID)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		err = fmt.Errorf("%w, cannot commit quota migration, %w", arena_errors.ErrInternal, err)
		log.Error(err)
		return nil, err
	}

	log.WithFields(log.Fields{
		"evaluation_id": evaluationID,
		"rounds":        len(rounds),
	}).Info("migrated submission quota to discrete rounds")

	return rounds, nil
}

func migrateQuota(
	ctx context.Context,
	store roundStore,
	evaluationID uuid.UUID,
) ([]EvaluationRound, error) {
	// lock the evaluation so migration and round writes serialize
	if _, err := store.LockEvaluation(ctx, evaluationID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf(
				"%w, no evaluation exist with the given id",
				arena_errors.ErrNotFound,
			)
		}
		err = fmt.Errorf(
			"%w, cannot lock evaluation %v, %w",
			arena_errors.ErrInternal,
			evaluationID,
			err,
		)
		log.Error(err)
		return nil, err
	}

	dbEval, err := store.GetEvaluationByID(ctx, evaluationID)
	if err != nil {
		err = arena_errors.HandleDBErrors(
			err,
			errMsgs,
			fmt.Sprintf("cannot fetch evaluation %v", evaluationID),
		)
		return nil, err
	}
	evaluation := dbEvaluationToService(dbEval)

	if evaluation.Quota == nil {
		return nil, fmt.Errorf(
			"%w, evaluation has no submission quota to migrate",
			arena_errors.ErrInvalidRequest,
		)
	}

	rounds, err := roundsFromQuota(evaluationID, *evaluation.Quota)
	if err != nil {
		return nil, err
	}

	created := make([]EvaluationRound, 0, len(rounds))
	for _, round := range rounds {
		limits, err := marshalLimits(round.Limits)
		if err != nil {
			return nil, err
		}
		dbRound, err := store.CreateEvaluationRound(
			ctx,
			database.CreateEvaluationRoundParams{
				ID:           uuid.New(),
				EvaluationID: round.EvaluationID,
				RoundStart:   round.RoundStart,
				RoundEnd:     round.RoundEnd,
				Limits:       limits,
			},
		)
		if err != nil {
			err = arena_errors.HandleDBErrors(
				err,
				errMsgs,
				fmt.Sprintf("cannot create migrated round for evaluation %v", evaluationID),
			)
			return nil, err
		}
		serviceRound, err := dbRoundToServiceRound(dbRound)
		if err != nil {
			return nil, err
		}
		created = append(created, serviceRound)
	}

	if err = store.ClearSubmissionQuota(ctx, evaluationID); err != nil {
		err = fmt.Errorf(
			"%w, cannot clear quota of evaluation %v, %w",
			arena_errors.ErrInternal,
			evaluationID,
			err,
		)
		log.Error(err)
		return nil, err
	}

	return created, nil
}

// roundsFromQuota tiles the legacy schedule into discrete rounds. The
// quota must define a finite number of rounds.
func roundsFromQuota(
	evaluationID uuid.UUID,
	quota SubmissionQuota,
) ([]EvaluationRound, error) {
	if quota.NumberOfRounds == nil {
		return nil, fmt.Errorf(
			"%w, quota with unbounded number of rounds cannot be migrated",
			arena_errors.ErrInvalidRequest,
		)
	}
	if quota.RoundDurationMillis <= 0 {
		return nil, fmt.Errorf(
			"%w, quota round duration must be positive",
			arena_errors.ErrInvalidRequest,
		)
	}

	var limits []EvaluationRoundLimit
	if quota.SubmissionLimit != nil {
		limits = []EvaluationRoundLimit{
			{
				LimitType:          database.LimitTypeTotal,
				MaximumSubmissions: *quota.SubmissionLimit,
			},
		}
		if err := validateRoundLimits(limits); err != nil {
			return nil, err
		}
	}

	duration := time.Duration(quota.RoundDurationMillis) * time.Millisecond
	rounds := make([]EvaluationRound, 0, *quota.NumberOfRounds)
	for i := int64(0); i < *quota.NumberOfRounds; i++ {
		start := quota.FirstRoundStart.Add(time.Duration(i) * duration)
		rounds = append(rounds, EvaluationRound{
			EvaluationID: evaluationID,
			RoundStart:   start,
			RoundEnd:     start.Add(duration),
			Limits:       limits,
		})
	}
	return rounds, nil
}
