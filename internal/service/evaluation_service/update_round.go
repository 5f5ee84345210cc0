package evaluation_service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
	"github.com/tcp_snm/arena/internal/arena_errors"
	"github.com/tcp_snm/arena/internal/database"
	"github.com/tcp_snm/arena/internal/service"
	"github.com/tcp_snm/arena/internal/service/user_service"
)

func (e *EvaluationService) UpdateEvaluationRound(
	ctx context.Context,
	round EvaluationRound,
) (EvaluationRound, error) {
	// fetch claims
	claims, err := service.GetClaimsFromContext(ctx)
	if err != nil {
		return EvaluationRound{}, err
	}

	// authorize
	err = e.UserServiceConfig.AuthorizeUserRole(
		ctx,
		claims.UserId,
		user_service.RoleManager,
		fmt.Sprintf("user %s tried to update evaluation round %v", claims.UserName, round.ID),
	)
	if err != nil {
		return EvaluationRound{}, err
	}

	// validate the round
	if err = service.ValidateInput(round); err != nil {
		return EvaluationRound{}, err
	}

	now := time.Now().UTC()

	tx, err := e.Pool.Begin(ctx)
	if err != nil {
		err = fmt.Errorf("%w, cannot begin transaction, %w", arena_errors.ErrInternal, err)
		log.Error(err)
		return EvaluationRound{}, err
	}
	defer tx.Rollback(ctx)

	updated, err := updateRound(ctx, e.DB.WithTx(tx), round, now)
	if err != nil {
		return EvaluationRound{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		err = fmt.Errorf("%w, cannot commit round update, %w", arena_errors.ErrInternal, err)
		log.Error(err)
		return EvaluationRound{}, err
	}

	log.WithFields(log.Fields{
		"round_id":      updated.ID,
		"evaluation_id": updated.EvaluationID,
	}).Info("updated evaluation round")

	return updated, nil
}

func updateRound(
	ctx context.Context,
	store roundStore,
	round EvaluationRound,
	now time.Time,
) (EvaluationRound, error) {
	// fetch the existing round
	dbExisting, err := store.GetEvaluationRoundByID(ctx, round.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EvaluationRound{}, fmt.Errorf(
				"%w, no round exist with the given id",
				arena_errors.ErrNotFound,
			)
		}
		err = fmt.Errorf(
			"%w, cannot fetch round %v, %w",
			arena_errors.ErrInternal,
			round.ID,
			err,
		)
		log.Error(err)
		return EvaluationRound{}, err
	}
	existing, err := dbRoundToServiceRound(dbExisting)
	if err != nil {
		return EvaluationRound{}, err
	}

	// rounds never move between evaluations
	if round.EvaluationID != existing.EvaluationID {
		return EvaluationRound{}, fmt.Errorf(
			"%w, round %v does not belong to evaluation %v",
			arena_errors.ErrInvalidRequest,
			round.ID,
			round.EvaluationID,
		)
	}

	// lock the evaluation's round set
	if _, err = store.LockEvaluation(ctx, existing.EvaluationID); err != nil {
		err = fmt.Errorf(
			"%w, cannot lock evaluation %v, %w",
			arena_errors.ErrInternal,
			existing.EvaluationID,
			err,
		)
		log.Error(err)
		return EvaluationRound{}, err
	}

	hasSubmissions, err := store.HasSubmissionForEvaluationRound(ctx, round.ID)
	if err != nil {
		err = fmt.Errorf(
			"%w, cannot check submissions of round %v, %w",
			arena_errors.ErrInternal,
			round.ID,
			err,
		)
		log.Error(err)
		return EvaluationRound{}, err
	}

	if err = validateRoundLimits(round.Limits); err != nil {
		return EvaluationRound{}, err
	}
	if err = validateRoundInterval(round, &existing, hasSubmissions, now); err != nil {
		return EvaluationRound{}, err
	}
	if err = validateNoOverlap(ctx, store, round, round.ID); err != nil {
		return EvaluationRound{}, err
	}

	limits, err := marshalLimits(round.Limits)
	if err != nil {
		return EvaluationRound{}, err
	}

	dbRound, err := store.UpdateEvaluationRound(
		ctx,
		database.UpdateEvaluationRoundParams{
			ID:         round.ID,
			RoundStart: round.RoundStart,
			RoundEnd:   round.RoundEnd,
			Limits:     limits,
		},
	)
	if err != nil {
		err = arena_errors.HandleDBErrors(
			err,
			errMsgs,
			fmt.Sprintf("cannot update round %v", round.ID),
		)
		return EvaluationRound{}, err
	}

	return dbRoundToServiceRound(dbRound)
}
