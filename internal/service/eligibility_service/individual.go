package eligibility_service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tcp_snm/arena/internal/arena_errors"
	"github.com/tcp_snm/arena/internal/database"
	"github.com/tcp_snm/arena/internal/service/challenge_service"
	"github.com/tcp_snm/arena/internal/service/evaluation_service"
)

// IsIndividualEligible computes whether a user may submit individually
// at the given instant. Ineligibility is a normal outcome carried in
// the returned snapshot, never an error.
func (e *EligibilityService) IsIndividualEligible(
	ctx context.Context,
	evaluationID uuid.UUID,
	userID uuid.UUID,
	now time.Time,
) (SubmissionEligibility, error) {
	evaluation, err := e.Evaluations.GetEvaluationByID(ctx, evaluationID)
	if err != nil {
		return SubmissionEligibility{}, err
	}

	resolved, err := e.Evaluations.ResolveRound(ctx, evaluation, now)
	if err != nil {
		return SubmissionEligibility{}, err
	}

	result := SubmissionEligibility{PrincipalID: userID}

	if resolved.Scope == evaluation_service.RoundNone {
		result.Reason = ReasonOutsideWindow
		return result, nil
	}

	// challenge registration
	registered, err := e.isUserRegistered(ctx, evaluation, userID)
	if err != nil {
		return SubmissionEligibility{}, err
	}
	result.IsRegistered = registered
	if !registered {
		result.Reason = ReasonNotRegistered
		return result, nil
	}

	// without a round there is no window to scope limit or conflict
	// checks to, so an unrestricted evaluation stops here
	if resolved.Scope == evaluation_service.RoundUnrestricted {
		result.IsEligible = true
		return result, nil
	}
	round := resolved.Round

	// a user who already contributed to a team submission this round
	// cannot also submit individually
	contributed, err := e.DB.HasContributedToTeamSubmission(
		ctx,
		database.HasContributedToTeamSubmissionParams{
			EvaluationID: evaluationID,
			PrincipalID:  userID,
			WindowStart:  round.RoundStart,
			WindowEnd:    round.RoundEnd,
			Statuses:     CountedStatuses,
		},
	)
	if err != nil {
		err = fmt.Errorf(
			"%w, cannot check team contributions of user %v in evaluation %v, %w",
			arena_errors.ErrInternal,
			userID,
			evaluationID,
			err,
		)
		log.Error(err)
		return SubmissionEligibility{}, err
	}
	if contributed {
		result.HasConflictingSubmission = true
		result.Reason = ReasonTeamConflict
		return result, nil
	}

	// evaluate limits in the order given, stopping at the first that
	// is already filled
	quotaFilled, err := e.isContributorQuotaFilled(ctx, evaluationID, userID, round, now)
	if err != nil {
		return SubmissionEligibility{}, err
	}
	if quotaFilled {
		result.IsQuotaFilled = true
		result.Reason = ReasonQuotaFilled
		return result, nil
	}

	result.IsEligible = true
	return result, nil
}

// isUserRegistered reports challenge registration for the user. An
// evaluation whose content source maps to no challenge has no
// registration concept, which counts as registered.
func (e *EligibilityService) isUserRegistered(
	ctx context.Context,
	evaluation evaluation_service.Evaluation,
	userID uuid.UUID,
) (bool, error) {
	challenge, ok, err := e.lookupChallenge(ctx, evaluation)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return e.Challenges.IsUserRegistered(ctx, challenge, userID)
}

// lookupChallenge resolves the evaluation's content source to a
// challenge. ok is false when the challenge concept is inapplicable.
func (e *EligibilityService) lookupChallenge(
	ctx context.Context,
	evaluation evaluation_service.Evaluation,
) (challenge_service.Challenge, bool, error) {
	if evaluation.ContentSource == nil {
		return challenge_service.Challenge{}, false, nil
	}
	challenge, err := e.Challenges.GetChallengeByContentSource(ctx, *evaluation.ContentSource)
	if err != nil {
		if errors.Is(err, arena_errors.ErrNotFound) {
			return challenge_service.Challenge{}, false, nil
		}
		return challenge_service.Challenge{}, false, err
	}
	return challenge, true, nil
}

// isContributorQuotaFilled walks the round's limits in order and
// short-circuits on the first filled one.
func (e *EligibilityService) isContributorQuotaFilled(
	ctx context.Context,
	evaluationID uuid.UUID,
	principalID uuid.UUID,
	round evaluation_service.EvaluationRound,
	now time.Time,
) (bool, error) {
	for _, limit := range round.Limits {
		windowStart := computeWindowStart(limit.LimitType, round.RoundStart, now)
		count, err := e.DB.CountSubmissionsByContributor(
			ctx,
			database.CountSubmissionsByContributorParams{
				EvaluationID: evaluationID,
				PrincipalID:  principalID,
				WindowStart:  windowStart,
				WindowEnd:    round.RoundEnd,
				Statuses:     CountedStatuses,
			},
		)
		if err != nil {
			err = fmt.Errorf(
				"%w, cannot count submissions of contributor %v in evaluation %v, %w",
				arena_errors.ErrInternal,
				principalID,
				evaluationID,
				err,
			)
			log.Error(err)
			return false, err
		}
		if count >= limit.MaximumSubmissions {
			return true, nil
		}
	}
	return false, nil
}
