package auth_service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"
	"github.com/tcp_snm/arena/internal/arena_errors"
	"github.com/tcp_snm/arena/internal/service"
	"golang.org/x/crypto/bcrypt"
)

const sessionDuration = time.Hour * 24

func (a *AuthService) Login(
	ctx context.Context,
	request UserLoginRequest,
) (UserLoginResponse, string, time.Time, error) {
	// validate the request
	if err := service.ValidateInput(request); err != nil {
		return UserLoginResponse{}, "", time.Time{}, err
	}

	// fetch the user
	user, err := a.UserConfig.FetchUserByUserName(ctx, request.UserName)
	if err != nil {
		return UserLoginResponse{}, "", time.Time{}, err
	}

	// verify the password
	if err := bcrypt.CompareHashAndPassword(
		[]byte(user.PasswordHash),
		[]byte(request.Password),
	); err != nil {
		log.Warnf("failed login attempt for user %s", request.UserName)
		return UserLoginResponse{}, "", time.Time{}, arena_errors.ErrInvalidUserCredentials
	}

	// mint a session token
	expiry := time.Now().Add(sessionDuration)
	claims := service.UserCredentialClaims{
		UserName: user.UserName,
		UserId:   user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	secret := os.Getenv(service.KeyJWTSecret)
	if secret == "" {
		err := fmt.Errorf("%w, jwt secret is not configured", arena_errors.ErrInternal)
		log.Error(err)
		return UserLoginResponse{}, "", time.Time{}, err
	}
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		err = fmt.Errorf("%w, cannot sign session token, %w", arena_errors.ErrInternal, err)
		log.Error(err)
		return UserLoginResponse{}, "", time.Time{}, err
	}

	return UserLoginResponse{
		UserName: user.UserName,
		Email:    user.Email,
	}, signed, expiry, nil
}
