package eligibility_service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tcp_snm/arena/internal/arena_errors"
	"github.com/tcp_snm/arena/internal/database"
	"github.com/tcp_snm/arena/internal/service/evaluation_service"
)

// GetTeamSubmissionEligibility computes the team snapshot backing the
// pre-submission display. It fails when submissions are closed because
// there is no sensible snapshot to show.
func (e *EligibilityService) GetTeamSubmissionEligibility(
	ctx context.Context,
	evaluationID uuid.UUID,
	teamID uuid.UUID,
	now time.Time,
) (TeamSubmissionEligibilityResponse, error) {
	response, scope, err := e.teamSnapshot(ctx, evaluationID, teamID, now)
	if err != nil {
		return TeamSubmissionEligibilityResponse{}, err
	}
	if scope == evaluation_service.RoundNone {
		return TeamSubmissionEligibilityResponse{}, fmt.Errorf(
			"%w, %s",
			arena_errors.ErrInvalidRequest,
			ReasonOutsideWindow,
		)
	}
	return response, nil
}

// teamSnapshot computes the full team eligibility snapshot and its
// consistency hash. When scope is RoundNone the snapshot is empty.
func (e *EligibilityService) teamSnapshot(
	ctx context.Context,
	evaluationID uuid.UUID,
	teamID uuid.UUID,
	now time.Time,
) (TeamSubmissionEligibilityResponse, evaluation_service.RoundScope, error) {
	evaluation, err := e.Evaluations.GetEvaluationByID(ctx, evaluationID)
	if err != nil {
		return TeamSubmissionEligibilityResponse{}, evaluation_service.RoundNone, err
	}

	resolved, err := e.Evaluations.ResolveRound(ctx, evaluation, now)
	if err != nil {
		return TeamSubmissionEligibilityResponse{}, evaluation_service.RoundNone, err
	}
	if resolved.Scope == evaluation_service.RoundNone {
		return TeamSubmissionEligibilityResponse{}, evaluation_service.RoundNone, nil
	}

	// team registration
	challenge, hasChallenge, err := e.lookupChallenge(ctx, evaluation)
	if err != nil {
		return TeamSubmissionEligibilityResponse{}, resolved.Scope, err
	}
	teamRegistered := true
	if hasChallenge {
		teamRegistered, err = e.Challenges.IsTeamRegistered(ctx, challenge.ID, teamID)
		if err != nil {
			return TeamSubmissionEligibilityResponse{}, resolved.Scope, err
		}
	}

	// team-level quota
	teamQuotaFilled := false
	if resolved.Scope == evaluation_service.RoundScoped {
		teamQuotaFilled, err = e.isTeamQuotaFilled(ctx, evaluationID, teamID, resolved.Round, now)
		if err != nil {
			return TeamSubmissionEligibilityResponse{}, resolved.Scope, err
		}
	}

	team := TeamSubmissionEligibility{
		TeamID:        teamID,
		IsRegistered:  teamRegistered,
		IsQuotaFilled: teamQuotaFilled,
		IsEligible:    teamRegistered && !teamQuotaFilled,
	}

	members, err := e.Challenges.GetTeamMembers(ctx, teamID)
	if err != nil {
		return TeamSubmissionEligibilityResponse{}, resolved.Scope, err
	}

	// members who already contributed to another team's submission
	// this round
	conflicting := make(map[uuid.UUID]bool)
	if resolved.Scope == evaluation_service.RoundScoped && len(members) > 0 {
		elsewhere, err := e.DB.GetTeamMembersSubmittingElsewhere(
			ctx,
			database.GetTeamMembersSubmittingElsewhereParams{
				EvaluationID: evaluationID,
				TeamID:       teamID,
				PrincipalIDs: members,
				WindowStart:  resolved.Round.RoundStart,
				WindowEnd:    resolved.Round.RoundEnd,
				Statuses:     CountedStatuses,
			},
		)
		if err != nil {
			err = fmt.Errorf(
				"%w, cannot check conflicting submissions of team %v in evaluation %v, %w",
				arena_errors.ErrInternal,
				teamID,
				evaluationID,
				err,
			)
			log.Error(err)
			return TeamSubmissionEligibilityResponse{}, resolved.Scope, err
		}
		for _, id := range elsewhere {
			conflicting[id] = true
		}
	}

	memberEligibilities := make([]MemberSubmissionEligibility, 0, len(members))
	for _, memberID := range members {
		memberRegistered := true
		if hasChallenge {
			memberRegistered, err = e.Challenges.IsUserRegistered(ctx, challenge, memberID)
			if err != nil {
				return TeamSubmissionEligibilityResponse{}, resolved.Scope, err
			}
		}

		// the member's own contributions count against the team's limits
		memberQuotaFilled := false
		if resolved.Scope == evaluation_service.RoundScoped {
			memberQuotaFilled, err = e.isContributorQuotaFilled(
				ctx, evaluationID, memberID, resolved.Round, now,
			)
			if err != nil {
				return TeamSubmissionEligibilityResponse{}, resolved.Scope, err
			}
		}

		hasConflict := conflicting[memberID]
		memberEligibilities = append(memberEligibilities, MemberSubmissionEligibility{
			PrincipalID:              memberID,
			IsRegistered:             memberRegistered,
			IsQuotaFilled:            memberQuotaFilled,
			HasConflictingSubmission: hasConflict,
			IsEligible:               memberRegistered && !memberQuotaFilled && !hasConflict,
		})
	}

	response := TeamSubmissionEligibilityResponse{
		EvaluationID: evaluationID,
		Team:         team,
		Members:      memberEligibilities,
	}
	response.EligibilityStateHash = ComputeEligibilityStateHash(response)
	return response, resolved.Scope, nil
}

func (e *EligibilityService) isTeamQuotaFilled(
	ctx context.Context,
	evaluationID uuid.UUID,
	teamID uuid.UUID,
	round evaluation_service.EvaluationRound,
	now time.Time,
) (bool, error) {
	for _, limit := range round.Limits {
		windowStart := computeWindowStart(limit.LimitType, round.RoundStart, now)
		count, err := e.DB.CountSubmissionsByTeam(
			ctx,
			database.CountSubmissionsByTeamParams{
				EvaluationID: evaluationID,
				TeamID:       teamID,
				WindowStart:  windowStart,
				WindowEnd:    round.RoundEnd,
				Statuses:     CountedStatuses,
			},
		)
		if err != nil {
			err = fmt.Errorf(
				"%w, cannot count submissions of team %v in evaluation %v, %w",
				arena_errors.ErrInternal,
				teamID,
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
