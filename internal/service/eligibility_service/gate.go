package eligibility_service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tcp_snm/arena/internal/service/evaluation_service"
)

// IsTeamEligible is the submission-time consistency gate. It recomputes
// the team snapshot fresh and compares its hash against the one the
// caller captured when eligibility was last displayed. A missing,
// malformed or mismatched hash is always a rejection, never a soft
// pass: hash drift means another member submitted during the caller's
// think-time and the displayed decision no longer holds.
func (e *EligibilityService) IsTeamEligible(
	ctx context.Context,
	evaluationID uuid.UUID,
	teamID uuid.UUID,
	contributorIDs []uuid.UUID,
	suppliedHash string,
	now time.Time,
) (EligibilityDecision, error) {
	if suppliedHash == "" {
		return EligibilityDecision{Reason: ReasonStaleToken}, nil
	}

	snapshot, scope, err := e.teamSnapshot(ctx, evaluationID, teamID, now)
	if err != nil {
		return EligibilityDecision{}, err
	}
	if scope == evaluation_service.RoundNone {
		return EligibilityDecision{Reason: ReasonOutsideWindow}, nil
	}

	if subtle.ConstantTimeCompare(
		[]byte(snapshot.EligibilityStateHash),
		[]byte(suppliedHash),
	) != 1 {
		log.WithFields(log.Fields{
			"evaluation_id": evaluationID,
			"team_id":       teamID,
		}).Warn("eligibility token mismatch, snapshot changed since display")
		return EligibilityDecision{Reason: ReasonStaleToken}, nil
	}

	if !snapshot.Team.IsEligible {
		return EligibilityDecision{Reason: ReasonTeamNotEligible}, nil
	}

	memberByID := make(map[uuid.UUID]MemberSubmissionEligibility, len(snapshot.Members))
	for _, member := range snapshot.Members {
		memberByID[member.PrincipalID] = member
	}
	for _, contributorID := range contributorIDs {
		member, ok := memberByID[contributorID]
		if !ok {
			return EligibilityDecision{Reason: ReasonUnknownContributor}, nil
		}
		if !member.IsEligible {
			reason := ReasonQuotaFilled
			switch {
			case !member.IsRegistered:
				reason = ReasonNotRegistered
			case member.HasConflictingSubmission:
				reason = ReasonMemberConflict
			}
			return EligibilityDecision{Reason: reason}, nil
		}
	}

	return EligibilityDecision{IsEligible: true}, nil
}
