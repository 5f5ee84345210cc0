package submission_service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
	"github.com/tcp_snm/arena/internal/arena_errors"
	"github.com/tcp_snm/arena/internal/database"
	"github.com/tcp_snm/arena/internal/email"
	"github.com/tcp_snm/arena/internal/service"
	"github.com/tcp_snm/arena/internal/service/user_service"
)

// UpdateSubmissionStatusBatch applies a chunk of status edits under the
// evaluation's coordination token. The row lock on the coordination
// record serializes concurrent batch callers; the token makes a caller
// that lost the race fail with a conflicting-update error instead of
// silently interleaving its chunks with another upload sequence.
func (s *SubmissionService) UpdateSubmissionStatusBatch(
	ctx context.Context,
	request SubmissionStatusBatchRequest,
) (SubmissionStatusBatchResponse, error) {
	// fetch claims
	claims, err := service.GetClaimsFromContext(ctx)
	if err != nil {
		return SubmissionStatusBatchResponse{}, err
	}

	// authorize
	err = s.UserServiceConfig.AuthorizeUserRole(
		ctx,
		claims.UserId,
		user_service.RoleManager,
		fmt.Sprintf(
			"user %s tried to update submission statuses of evaluation %v",
			claims.UserName,
			request.EvaluationID,
		),
	)
	if err != nil {
		return SubmissionStatusBatchResponse{}, err
	}

	// validate the request
	if err = service.ValidateInput(request); err != nil {
		return SubmissionStatusBatchResponse{}, err
	}

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		err = fmt.Errorf("%w, cannot begin transaction, %w", arena_errors.ErrInternal, err)
		log.Error(err)
		return SubmissionStatusBatchResponse{}, err
	}
	defer tx.Rollback(ctx)

	response, err := applyStatusBatch(ctx, s.DB.WithTx(tx), request, uuid.New())
	if err != nil {
		return SubmissionStatusBatchResponse{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		err = fmt.Errorf("%w, cannot commit status batch, %w", arena_errors.ErrInternal, err)
		log.Error(err)
		return SubmissionStatusBatchResponse{}, err
	}

	log.WithFields(log.Fields{
		"evaluation_id": request.EvaluationID,
		"statuses":      len(request.Statuses),
		"last_batch":    *request.IsLastBatch,
	}).Info("applied submission status batch")

	if *request.IsLastBatch {
		s.notifyBatchComplete(ctx, claims.UserId, request.EvaluationID)
	}

	return response, nil
}

func applyStatusBatch(
	ctx context.Context,
	store batchStore,
	request SubmissionStatusBatchRequest,
	nextToken uuid.UUID,
) (SubmissionStatusBatchResponse, error) {
	// lock the evaluation row first so batch callers and round
	// mutations order consistently
	if _, err := store.LockEvaluation(ctx, request.EvaluationID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SubmissionStatusBatchResponse{}, fmt.Errorf(
				"%w, no evaluation exist with the given id",
				arena_errors.ErrNotFound,
			)
		}
		err = fmt.Errorf(
			"%w, cannot lock evaluation %v, %w",
			arena_errors.ErrInternal,
			request.EvaluationID,
			err,
		)
		log.Error(err)
		return SubmissionStatusBatchResponse{}, err
	}

	// lock-and-get the coordination record
	coordination, err := store.GetCoordinationForUpdate(ctx, request.EvaluationID)
	haveCoordination := true
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf(
				"%w, cannot lock coordination record of evaluation %v, %w",
				arena_errors.ErrInternal,
				request.EvaluationID,
				err,
			)
			log.Error(err)
			return SubmissionStatusBatchResponse{}, err
		}
		haveCoordination = false
	}

	if !*request.IsFirstBatch {
		if !haveCoordination || request.BatchToken == nil || *request.BatchToken != coordination.Token {
			log.WithField("evaluation_id", request.EvaluationID).
				Warn("status batch presented a stale or missing coordination token")
			return SubmissionStatusBatchResponse{}, fmt.Errorf(
				"%w, batch token does not match the evaluation's current coordination token",
				arena_errors.ErrConflictingUpdate,
			)
		}
	}

	// apply the edits
	for _, update := range request.Statuses {
		affected, err := store.UpdateSubmissionStatus(
			ctx,
			database.UpdateSubmissionStatusParams{
				ID:           update.SubmissionID,
				EvaluationID: request.EvaluationID,
				Status:       update.Status,
			},
		)
		if err != nil {
			err = fmt.Errorf(
				"%w, cannot update status of submission %v, %w",
				arena_errors.ErrInternal,
				update.SubmissionID,
				err,
			)
			log.Error(err)
			return SubmissionStatusBatchResponse{}, err
		}
		if affected == 0 {
			return SubmissionStatusBatchResponse{}, fmt.Errorf(
				"%w, submission %v does not belong to evaluation %v",
				arena_errors.ErrInvalidRequest,
				update.SubmissionID,
				request.EvaluationID,
			)
		}
	}

	// advance the token inside the same locked transaction
	if haveCoordination {
		err = store.UpdateCoordinationToken(
			ctx,
			database.UpdateCoordinationTokenParams{
				EvaluationID: request.EvaluationID,
				Token:        nextToken,
			},
		)
	} else {
		_, err = store.CreateCoordination(
			ctx,
			database.CreateCoordinationParams{
				EvaluationID: request.EvaluationID,
				Token:        nextToken,
			},
		)
	}
	if err != nil {
		err = fmt.Errorf(
			"%w, cannot advance coordination token of evaluation %v, %w",
			arena_errors.ErrInternal,
			request.EvaluationID,
			err,
		)
		log.Error(err)
		return SubmissionStatusBatchResponse{}, err
	}

	if *request.IsLastBatch {
		// an empty token signals completion of the sequence
		return SubmissionStatusBatchResponse{}, nil
	}
	return SubmissionStatusBatchResponse{NextUploadToken: nextToken.String()}, nil
}

// notifyBatchComplete mails the actor a completion notice. Best effort,
// the batch has already committed.
func (s *SubmissionService) notifyBatchComplete(
	ctx context.Context,
	actorID uuid.UUID,
	evaluationID uuid.UUID,
) {
	if s.EmailServiceConfig == nil {
		return
	}
	actor, err := s.UserServiceConfig.FetchUserByID(ctx, actorID)
	if err != nil {
		log.Warnf("cannot fetch actor %v for batch completion mail, %v", actorID, err)
		return
	}
	if err = email.NewMail(
		ctx,
		"submission status upload complete",
		fmt.Sprintf("all status batches for evaluation %v have been applied", evaluationID),
		email.BodyTypePlain,
		email.PurposeStatusBatchComplete,
		actor.Email,
	); err != nil {
		log.Warnf("cannot send batch completion mail to %s, %v", actor.Email, err)
	}
}
