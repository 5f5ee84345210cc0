package eligibility_service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func sampleSnapshot() TeamSubmissionEligibilityResponse {
	memberOne := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	memberTwo := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	return TeamSubmissionEligibilityResponse{
		EvaluationID: uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"),
		Team: TeamSubmissionEligibility{
			TeamID:       uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"),
			IsRegistered: true,
			IsEligible:   true,
		},
		Members: []MemberSubmissionEligibility{
			{PrincipalID: memberOne, IsRegistered: true, IsEligible: true},
			{PrincipalID: memberTwo, IsRegistered: true, IsEligible: true},
		},
	}
}

func TestEligibilityStateHashIsDeterministic(t *testing.T) {
	first := ComputeEligibilityStateHash(sampleSnapshot())
	second := ComputeEligibilityStateHash(sampleSnapshot())
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestEligibilityStateHashIgnoresMemberOrder(t *testing.T) {
	snapshot := sampleSnapshot()
	reference := ComputeEligibilityStateHash(snapshot)

	snapshot.Members[0], snapshot.Members[1] = snapshot.Members[1], snapshot.Members[0]
	assert.Equal(t, reference, ComputeEligibilityStateHash(snapshot))
}

func TestEligibilityStateHashDetectsFlagFlips(t *testing.T) {
	reference := ComputeEligibilityStateHash(sampleSnapshot())

	mutations := map[string]func(*TeamSubmissionEligibilityResponse){
		"team_quota_filled": func(s *TeamSubmissionEligibilityResponse) {
			s.Team.IsQuotaFilled = true
		},
		"team_not_eligible": func(s *TeamSubmissionEligibilityResponse) {
			s.Team.IsEligible = false
		},
		"member_conflict": func(s *TeamSubmissionEligibilityResponse) {
			s.Members[1].HasConflictingSubmission = true
		},
		"member_quota_filled": func(s *TeamSubmissionEligibilityResponse) {
			s.Members[0].IsQuotaFilled = true
		},
		"different_member": func(s *TeamSubmissionEligibilityResponse) {
			s.Members[0].PrincipalID = uuid.New()
		},
		"different_team": func(s *TeamSubmissionEligibilityResponse) {
			s.Team.TeamID = uuid.New()
		},
	}

	for name, mutate := range mutations {
		snapshot := sampleSnapshot()
		mutate(&snapshot)
		assert.NotEqual(
			t,
			reference,
			ComputeEligibilityStateHash(snapshot),
			"mutation %s must change the hash",
			name,
		)
	}
}
