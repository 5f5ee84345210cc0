package challenge_service

import (
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tcp_snm/arena/internal/database"
)

type ChallengeService struct {
	DB *database.Queries

	// content-source -> challenge cache, sits on the eligibility hot path
	challengeCache *lru.Cache[uuid.UUID, Challenge]
}

type Challenge struct {
	ID                uuid.UUID `json:"challenge_id"`
	ProjectID         uuid.UUID `json:"project_id"`
	ParticipantTeamID uuid.UUID `json:"participant_team_id"`
}

const challengeCacheSize = 512
