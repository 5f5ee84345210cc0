package user_service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
	"github.com/tcp_snm/arena/internal/arena_errors"
	"github.com/tcp_snm/arena/internal/database"
)

func (u *UserService) FetchUserByUserName(
	ctx context.Context,
	userName string,
) (user database.User, err error) {
	user, dbErr := u.DB.GetUserByUserName(ctx, userName)
	if dbErr != nil {
		if errors.Is(dbErr, pgx.ErrNoRows) {
			err = fmt.Errorf("%w, no user exist with that username", arena_errors.ErrInvalidUserCredentials)
			return
		}
		log.Errorf("failed to get user by username. %v", dbErr)
		err = errors.Join(arena_errors.ErrInternal, dbErr)
		return
	}
	return
}

func (u *UserService) FetchUserByID(
	ctx context.Context,
	userID uuid.UUID,
) (user database.User, err error) {
	user, dbErr := u.DB.GetUserByID(ctx, userID)
	if dbErr != nil {
		if errors.Is(dbErr, pgx.ErrNoRows) {
			err = fmt.Errorf("%w, no user exist with that id", arena_errors.ErrNotFound)
			return
		}
		log.Errorf("failed to get user by id. %v", dbErr)
		err = errors.Join(arena_errors.ErrInternal, dbErr)
		return
	}
	return
}

// extract user roles
func (u *UserService) FetchUserRoles(ctx context.Context, userId uuid.UUID) ([]string, error) {
	userRoles, err := u.DB.GetUserRoles(ctx, userId)
	roles := make([]string, 1)
	roles[0] = "User"

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return roles, nil
		}
		log.Errorf("error fetching roles for user %s, %v", userId, err)
		return nil, arena_errors.ErrInternal
	}

	roles = append(roles, userRoles...)
	return roles, nil
}

func (u *UserService) AuthorizeUserRole(
	ctx context.Context,
	userId uuid.UUID,
	role UserRole,
	warnMessage string,
) error {
	roles, err := u.FetchUserRoles(ctx, userId)
	if err != nil {
		return err
	}
	if slices.Contains(roles, string(role)) {
		return nil
	}
	if warnMessage != "" {
		log.Warn(warnMessage)
	}
	return arena_errors.ErrUnAuthorized
}
