package submission_service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tcp_snm/arena/internal/arena_errors"
	"github.com/tcp_snm/arena/internal/database"
	"github.com/tcp_snm/arena/internal/service"
	"github.com/tcp_snm/arena/internal/service/eligibility_service"
	"github.com/tcp_snm/arena/internal/service/evaluation_service"
)

// Submit is the acceptance path. Eligibility is re-checked with the
// current clock before anything is persisted: the display-time answer
// is advisory, this one is binding.
func (s *SubmissionService) Submit(
	ctx context.Context,
	request SubmissionRequest,
) (SubmissionResponse, error) {
	// get user from claims
	claims, err := service.GetClaimsFromContext(ctx)
	if err != nil {
		return SubmissionResponse{}, err
	}

	// validate the request
	if err = service.ValidateInput(request); err != nil {
		return SubmissionResponse{}, err
	}

	// one clock reading for the whole admission decision
	now := time.Now().UTC()

	evaluation, err := s.EvaluationServiceConfig.GetEvaluationByID(ctx, request.EvaluationID)
	if err != nil {
		return SubmissionResponse{}, err
	}
	resolved, err := s.EvaluationServiceConfig.ResolveRound(ctx, evaluation, now)
	if err != nil {
		return SubmissionResponse{}, err
	}

	contributors := request.Contributors
	if request.TeamID == nil {
		eligibility, err := s.EligibilityServiceConfig.IsIndividualEligible(
			ctx, request.EvaluationID, claims.UserId, now,
		)
		if err != nil {
			return SubmissionResponse{}, err
		}
		if !eligibility.IsEligible {
			log.Warnf(
				"user %s tried to submit to evaluation %v while ineligible: %s",
				claims.UserName,
				request.EvaluationID,
				eligibility.Reason,
			)
			return SubmissionResponse{}, fmt.Errorf(
				"%w, %s",
				arena_errors.ErrInvalidRequest,
				eligibility.Reason,
			)
		}
		contributors = []uuid.UUID{claims.UserId}
	} else {
		decision, err := s.EligibilityServiceConfig.IsTeamEligible(
			ctx,
			request.EvaluationID,
			*request.TeamID,
			request.Contributors,
			request.EligibilityStateHash,
			now,
		)
		if err != nil {
			return SubmissionResponse{}, err
		}
		if !decision.IsEligible {
			log.Warnf(
				"team %v submission to evaluation %v rejected: %s",
				*request.TeamID,
				request.EvaluationID,
				decision.Reason,
			)
			// a stale token is retryable after refetching eligibility
			if decision.Reason == eligibility_service.ReasonStaleToken {
				return SubmissionResponse{}, fmt.Errorf(
					"%w, %s",
					arena_errors.ErrConflictingUpdate,
					decision.Reason,
				)
			}
			return SubmissionResponse{}, fmt.Errorf(
				"%w, %s",
				arena_errors.ErrInvalidRequest,
				decision.Reason,
			)
		}
		if len(contributors) == 0 {
			return SubmissionResponse{}, fmt.Errorf(
				"%w, team submission must name at least one contributor",
				arena_errors.ErrInvalidRequest,
			)
		}
	}

	// tag the submission with the round in effect, ephemeral quota
	// rounds carry no id
	var roundID *uuid.UUID
	if resolved.Scope == evaluation_service.RoundScoped && resolved.Round.ID != uuid.Nil {
		id := resolved.Round.ID
		roundID = &id
	}

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		err = fmt.Errorf("%w, cannot begin transaction, %w", arena_errors.ErrInternal, err)
		log.Error(err)
		return SubmissionResponse{}, err
	}
	defer tx.Rollback(ctx)
	qtx := s.DB.WithTx(tx)

	dbSubmission, err := qtx.CreateSubmission(
		ctx,
		database.CreateSubmissionParams{
			ID:           uuid.New(),
			EvaluationID: request.EvaluationID,
			RoundID:      roundID,
			TeamID:       request.TeamID,
			SubmittedBy:  claims.UserId,
			Status:       database.SubmissionStatusReceived,
		},
	)
	if err != nil {
		err = arena_errors.HandleDBErrors(
			err,
			errMsgs,
			fmt.Sprintf("cannot create submission for evaluation %v", request.EvaluationID),
		)
		return SubmissionResponse{}, err
	}

	for _, contributorID := range contributors {
		if err = qtx.CreateSubmissionContributor(
			ctx,
			database.CreateSubmissionContributorParams{
				SubmissionID: dbSubmission.ID,
				PrincipalID:  contributorID,
			},
		); err != nil {
			err = arena_errors.HandleDBErrors(
				err,
				errMsgs,
				fmt.Sprintf("cannot credit contributor %v on submission %v", contributorID, dbSubmission.ID),
			)
			return SubmissionResponse{}, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		err = fmt.Errorf("%w, cannot commit submission, %w", arena_errors.ErrInternal, err)
		log.Error(err)
		return SubmissionResponse{}, err
	}

	log.WithFields(log.Fields{
		"submission_id": dbSubmission.ID,
		"evaluation_id": dbSubmission.EvaluationID,
		"submitted_by":  claims.UserName,
	}).Info("accepted submission")

	return SubmissionResponse{
		SubmissionID: dbSubmission.ID,
		RoundID:      dbSubmission.RoundID,
		Status:       dbSubmission.Status,
	}, nil
}
