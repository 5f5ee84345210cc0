package eligibility_service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tcp_snm/arena/internal/database"
	"github.com/tcp_snm/arena/internal/service/challenge_service"
	"github.com/tcp_snm/arena/internal/service/evaluation_service"
)

// EligibilityService computes submission admissibility. It deliberately
// takes no locks: the snapshot hash is the optimistic substitute that
// lets ConsistencyGate detect drift between display time and submit
// time without serializing reads against writes.
type EligibilityService struct {
	Evaluations EvaluationResolver
	Challenges  ChallengeRegistry
	DB          SubmissionStore
}

type EvaluationResolver interface {
	GetEvaluationByID(ctx context.Context, evaluationID uuid.UUID) (evaluation_service.Evaluation, error)
	ResolveRound(ctx context.Context, evaluation evaluation_service.Evaluation, now time.Time) (evaluation_service.ResolvedRound, error)
}

type ChallengeRegistry interface {
	GetChallengeByContentSource(ctx context.Context, contentSource uuid.UUID) (challenge_service.Challenge, error)
	IsTeamRegistered(ctx context.Context, challengeID uuid.UUID, teamID uuid.UUID) (bool, error)
	IsUserRegistered(ctx context.Context, challenge challenge_service.Challenge, userID uuid.UUID) (bool, error)
	GetTeamMembers(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error)
}

type SubmissionStore interface {
	CountSubmissionsByContributor(ctx context.Context, arg database.CountSubmissionsByContributorParams) (int64, error)
	CountSubmissionsByTeam(ctx context.Context, arg database.CountSubmissionsByTeamParams) (int64, error)
	HasContributedToTeamSubmission(ctx context.Context, arg database.HasContributedToTeamSubmissionParams) (bool, error)
	GetTeamMembersSubmittingElsewhere(ctx context.Context, arg database.GetTeamMembersSubmittingElsewhereParams) ([]uuid.UUID, error)
}

// CountedStatuses are the submission statuses that consume quota.
// Invalid and rejected submissions do not count against any limit.
var CountedStatuses = []database.SubmissionStatus{
	database.SubmissionStatusReceived,
	database.SubmissionStatusInProgress,
	database.SubmissionStatusValidated,
	database.SubmissionStatusScored,
	database.SubmissionStatusAccepted,
}

// Ineligibility reasons. These are outcomes, not errors: callers branch
// on them to render UI state.
const (
	ReasonOutsideWindow      = "outside submission window"
	ReasonNotRegistered      = "not registered for the challenge"
	ReasonQuotaFilled        = "quota filled"
	ReasonTeamConflict       = "already submitted as part of a team"
	ReasonMemberConflict     = "a contributor has already submitted with another team"
	ReasonStaleToken         = "stale or missing eligibility token"
	ReasonTeamNotEligible    = "team is not eligible to submit"
	ReasonUnknownContributor = "contributor is not part of the team's eligibility snapshot"
)

type SubmissionEligibility struct {
	PrincipalID              uuid.UUID `json:"principal_id"`
	IsRegistered             bool      `json:"is_registered"`
	IsQuotaFilled            bool      `json:"is_quota_filled"`
	HasConflictingSubmission bool      `json:"has_conflicting_submission"`
	IsEligible               bool      `json:"is_eligible"`
	Reason                   string    `json:"reason,omitempty"`
}

type TeamSubmissionEligibility struct {
	TeamID        uuid.UUID `json:"team_id"`
	IsRegistered  bool      `json:"is_registered"`
	IsQuotaFilled bool      `json:"is_quota_filled"`
	IsEligible    bool      `json:"is_eligible"`
}

type MemberSubmissionEligibility struct {
	PrincipalID              uuid.UUID `json:"principal_id"`
	IsRegistered             bool      `json:"is_registered"`
	IsQuotaFilled            bool      `json:"is_quota_filled"`
	HasConflictingSubmission bool      `json:"has_conflicting_submission"`
	IsEligible               bool      `json:"is_eligible"`
}

type TeamSubmissionEligibilityResponse struct {
	EvaluationID         uuid.UUID                     `json:"evaluation_id"`
	Team                 TeamSubmissionEligibility     `json:"team_eligibility"`
	Members              []MemberSubmissionEligibility `json:"members_eligibility"`
	EligibilityStateHash string                        `json:"eligibility_state_hash"`
}

// EligibilityDecision is the submission-time verdict of the gate.
type EligibilityDecision struct {
	IsEligible bool   `json:"is_eligible"`
	Reason     string `json:"reason,omitempty"`
}
