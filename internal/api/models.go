package api

import (
	"github.com/tcp_snm/arena/internal/service/auth_service"
	"github.com/tcp_snm/arena/internal/service/eligibility_service"
	"github.com/tcp_snm/arena/internal/service/evaluation_service"
	"github.com/tcp_snm/arena/internal/service/submission_service"
)

type Api struct {
	AuthServiceConfig        *auth_service.AuthService
	EvaluationServiceConfig  *evaluation_service.EvaluationService
	EligibilityServiceConfig *eligibility_service.EligibilityService
	SubmissionServiceConfig  *submission_service.SubmissionService
}
