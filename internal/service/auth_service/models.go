package auth_service

import (
	"github.com/tcp_snm/arena/internal/database"
	"github.com/tcp_snm/arena/internal/service/user_service"
)

type AuthService struct {
	DB         *database.Queries
	UserConfig *user_service.UserService
}

type UserLoginRequest struct {
	UserName string `json:"user_name" validate:"required,min=5"`
	Password string `json:"password" validate:"required,min=10,max=74"`
}

type UserLoginResponse struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
}
