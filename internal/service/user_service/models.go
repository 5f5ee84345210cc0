package user_service

import "github.com/tcp_snm/arena/internal/database"

type UserService struct {
	DB *database.Queries
}

type UserRole string

const (
	RoleAdmin   UserRole = "role_admin"
	RoleManager UserRole = "role_manager"
)
