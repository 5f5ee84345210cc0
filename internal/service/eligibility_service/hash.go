package eligibility_service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// ComputeEligibilityStateHash digests the snapshot into a tamper-evident
// token. The serialization is canonical: fixed field order, members
// sorted by principal id, booleans as true/false. Any flag flip changes
// the hash, which is how the gate detects snapshots gone stale between
// display and submission. The token may cross process boundaries, so
// the encoding is fully specified here rather than derived from any
// in-memory representation.
func ComputeEligibilityStateHash(response TeamSubmissionEligibilityResponse) string {
	var b strings.Builder

	fmt.Fprintf(
		&b,
		"evaluation:%s|team:%s|registered:%t|quotaFilled:%t|eligible:%t",
		response.EvaluationID,
		response.Team.TeamID,
		response.Team.IsRegistered,
		response.Team.IsQuotaFilled,
		response.Team.IsEligible,
	)

	members := make([]MemberSubmissionEligibility, len(response.Members))
	copy(members, response.Members)
	sort.Slice(members, func(i, j int) bool {
		return members[i].PrincipalID.String() < members[j].PrincipalID.String()
	})

	for _, member := range members {
		fmt.Fprintf(
			&b,
			"|member:%s,registered:%t,quotaFilled:%t,conflicting:%t,eligible:%t",
			member.PrincipalID,
			member.IsRegistered,
			member.IsQuotaFilled,
			member.HasConflictingSubmission,
			member.IsEligible,
		)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
