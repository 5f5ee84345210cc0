package evaluation_service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
	"github.com/tcp_snm/arena/internal/arena_errors"
	"github.com/tcp_snm/arena/internal/service"
	"github.com/tcp_snm/arena/internal/service/user_service"
)

func (e *EvaluationService) DeleteEvaluationRound(
	ctx context.Context,
	roundID uuid.UUID,
) error {
	// fetch claims
	claims, err := service.GetClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	// authorize
	err = e.UserServiceConfig.AuthorizeUserRole(
		ctx,
		claims.UserId,
		user_service.RoleManager,
		fmt.Sprintf("user %s tried to delete evaluation round %v", claims.UserName, roundID),
	)
	if err != nil {
		return err
	}

	tx, err := e.Pool.Begin(ctx)
	if err != nil {
		err = fmt.Errorf("%w, cannot begin transaction, %w", arena_errors.ErrInternal, err)
		log.Error(err)
		return err
	}
	defer tx.Rollback(ctx)

	if err = deleteRound(ctx, e.DB.WithTx(tx), roundID); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		err = fmt.Errorf("%w, cannot commit round deletion, %w", arena_errors.ErrInternal, err)
		log.Error(err)
		return err
	}

	log.WithField("round_id", roundID).Info("deleted evaluation round")
	return nil
}

func deleteRound(
	ctx context.Context,
	store roundStore,
	roundID uuid.UUID,
) error {
	// fetch the round
	dbRound, err := store.GetEvaluationRoundByID(ctx, roundID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf(
				"%w, no round exist with the given id",
				arena_errors.ErrNotFound,
			)
		}
		err = fmt.Errorf(
			"%w, cannot fetch round %v, %w",
			arena_errors.ErrInternal,
			roundID,
			err,
		)
		log.Error(err)
		return err
	}

	// lock the evaluation's round set
	if _, err = store.LockEvaluation(ctx, dbRound.EvaluationID); err != nil {
		err = fmt.Errorf(
			"%w, cannot lock evaluation %v, %w",
			arena_errors.ErrInternal,
			dbRound.EvaluationID,
			err,
		)
		log.Error(err)
		return err
	}

	if err = validateDeletable(ctx, store, roundID); err != nil {
		return err
	}

	if err = store.DeleteEvaluationRound(ctx, roundID); err != nil {
		err = fmt.Errorf(
			"%w, cannot delete round %v, %w",
			arena_errors.ErrInternal,
			roundID,
			err,
		)
		log.Error(err)
		return err
	}

	return nil
}
