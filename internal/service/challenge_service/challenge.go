package challenge_service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
	"github.com/tcp_snm/arena/internal/arena_errors"
	"github.com/tcp_snm/arena/internal/database"
)

func (c *ChallengeService) Start() error {
	if c.DB == nil {
		return fmt.Errorf("%w, challenge service expects non-nil db", arena_errors.ErrInternal)
	}
	cache, err := lru.New[uuid.UUID, Challenge](challengeCacheSize)
	if err != nil {
		return fmt.Errorf("%w, cannot create challenge cache, %w", arena_errors.ErrInternal, err)
	}
	c.challengeCache = cache
	log.Info("challenge service started")
	return nil
}

// GetChallengeByContentSource looks up the challenge backing an
// evaluation's content source. Returns ErrNotFound when the content
// source maps to no challenge, which callers treat as "challenge
// concept inapplicable" rather than a failure.
func (c *ChallengeService) GetChallengeByContentSource(
	ctx context.Context,
	contentSource uuid.UUID,
) (Challenge, error) {
	if cached, ok := c.challengeCache.Get(contentSource); ok {
		return cached, nil
	}

	dbChallenge, err := c.DB.GetChallengeByProjectID(ctx, contentSource)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Challenge{}, fmt.Errorf(
				"%w, no challenge exist for content source %v",
				arena_errors.ErrNotFound,
				contentSource,
			)
		}
		err = fmt.Errorf(
			"%w, cannot fetch challenge for content source %v, %w",
			arena_errors.ErrInternal,
			contentSource,
			err,
		)
		log.Error(err)
		return Challenge{}, err
	}

	challenge := Challenge{
		ID:                dbChallenge.ID,
		ProjectID:         dbChallenge.ProjectID,
		ParticipantTeamID: dbChallenge.ParticipantTeamID,
	}
	c.challengeCache.Add(contentSource, challenge)
	return challenge, nil
}

func (c *ChallengeService) IsTeamRegistered(
	ctx context.Context,
	challengeID uuid.UUID,
	teamID uuid.UUID,
) (bool, error) {
	registered, err := c.DB.IsTeamRegisteredForChallenge(
		ctx,
		database.IsTeamRegisteredForChallengeParams{
			ChallengeID: challengeID,
			TeamID:      teamID,
		},
	)
	if err != nil {
		err = fmt.Errorf(
			"%w, cannot check team %v registration for challenge %v, %w",
			arena_errors.ErrInternal,
			teamID,
			challengeID,
			err,
		)
		log.Error(err)
		return false, err
	}
	return registered, nil
}

// IsUserRegistered reports whether the user belongs to the challenge's
// participant team.
func (c *ChallengeService) IsUserRegistered(
	ctx context.Context,
	challenge Challenge,
	userID uuid.UUID,
) (bool, error) {
	member, err := c.DB.IsUserOnTeam(
		ctx,
		database.IsUserOnTeamParams{
			TeamID:   challenge.ParticipantTeamID,
			MemberID: userID,
		},
	)
	if err != nil {
		err = fmt.Errorf(
			"%w, cannot check user %v membership of challenge %v participant team, %w",
			arena_errors.ErrInternal,
			userID,
			challenge.ID,
			err,
		)
		log.Error(err)
		return false, err
	}
	return member, nil
}

func (c *ChallengeService) GetTeamMembers(
	ctx context.Context,
	teamID uuid.UUID,
) ([]uuid.UUID, error) {
	members, err := c.DB.GetTeamMembers(ctx, teamID)
	if err != nil {
		err = fmt.Errorf(
			"%w, cannot fetch members of team %v, %w",
			arena_errors.ErrInternal,
			teamID,
			err,
		)
		log.Error(err)
		return nil, err
	}
	return members, nil
}
