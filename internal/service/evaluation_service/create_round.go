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

func (e *EvaluationService) CreateEvaluationRound(
	ctx context.Context,
	round EvaluationRound,
) (EvaluationRound, error) {
	// fetch claims
	claims, err := service.GetClaimsFromContext(ctx)
	if err != nil {
		return EvaluationRound{}, err
	}

	// authorize (only managers can define submission windows)
	err = e.UserServiceConfig.AuthorizeUserRole(
		ctx,
		claims.UserId,
		user_service.RoleManager,
		fmt.Sprintf("user %s tried to create an evaluation round", claims.UserName),
	)
	if err != nil {
		return EvaluationRound{}, err
	}

	// validate the round
	if err = service.ValidateInput(round); err != nil {
		return EvaluationRound{}, err
	}

	now := time.Now().UTC()

	// the overlap check and the insert must see the same round set, so
	// both run under the evaluation row lock
	tx, err := e.Pool.Begin(ctx)
	if err != nil {
		err = fmt.Errorf("%w, cannot begin transaction, %w", arena_errors.ErrInternal, err)
		log.Error(err)
		return EvaluationRound{}, err
	}
	defer tx.Rollback(ctx)

	created, err := createRound(ctx, e.DB.WithTx(tx), round, now)
	if err != nil {
		return EvaluationRound{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		err = fmt.Errorf("%w, cannot commit round creation, %w", arena_errors.ErrInternal, err)
		log.Error(err)
		return EvaluationRound{}, err
	}

	log.WithFields(log.Fields{
		"round_id":      created.ID,
		"evaluation_id": created.EvaluationID,
	}).Info("created evaluation round")

	return created, nil
}

func createRound(
	ctx context.Context,
	store roundStore,
	round EvaluationRound,
	now time.Time,
) (EvaluationRound, error) {
	// lock the evaluation's round set
	if _, err := store.LockEvaluation(ctx, round.EvaluationID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EvaluationRound{}, fmt.Errorf(
				"%w, no evaluation exist with the given id",
				arena_errors.ErrNotFound,
			)
		}
		err = fmt.Errorf(
			"%w, cannot lock evaluation %v, %w",
			arena_errors.ErrInternal,
			round.EvaluationID,
			err,
		)
		log.Error(err)
		return EvaluationRound{}, err
	}

	// quota and discrete rounds are mutually exclusive
	dbEval, err := store.GetEvaluationByID(ctx, round.EvaluationID)
	if err != nil {
		err = arena_errors.HandleDBErrors(
			err,
			errMsgs,
			fmt.Sprintf("cannot fetch evaluation %v", round.EvaluationID),
		)
		return EvaluationRound{}, err
	}
	if dbEvaluationToService(dbEval).Quota != nil {
		return EvaluationRound{}, fmt.Errorf(
			"%w, evaluation still has a legacy submission quota, migrate it before defining rounds",
			arena_errors.ErrInvalidRequest,
		)
	}

	if err = validateRoundLimits(round.Limits); err != nil {
		return EvaluationRound{}, err
	}
	if err = validateRoundInterval(round, nil, false, now); err != nil {
		return EvaluationRound{}, err
	}
	if err = validateNoOverlap(ctx, store, round, uuid.Nil); err != nil {
		return EvaluationRound{}, err
	}

	limits, err := marshalLimits(round.Limits)
	if err != nil {
		return EvaluationRound{}, err
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
			fmt.Sprintf("cannot create round for evaluation %v", round.EvaluationID),
		)
		return EvaluationRound{}, err
	}

	return dbRoundToServiceRound(dbRound)
}
