package submission_service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tcp_snm/arena/internal/database"
	"github.com/tcp_snm/arena/internal/email"
	"github.com/tcp_snm/arena/internal/service/eligibility_service"
	"github.com/tcp_snm/arena/internal/service/evaluation_service"
	"github.com/tcp_snm/arena/internal/service/user_service"
)

type SubmissionService struct {
	DB                       *database.Queries
	Pool                     *pgxpool.Pool
	UserServiceConfig        *user_service.UserService
	EvaluationServiceConfig  *evaluation_service.EvaluationService
	EligibilityServiceConfig *eligibility_service.EligibilityService
	EmailServiceConfig       *email.EmailService
}

// batchStore is the transactional slice of the query layer the batch
// protocol needs. *database.Queries satisfies it.
type batchStore interface {
	LockEvaluation(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	GetCoordinationForUpdate(ctx context.Context, evaluationID uuid.UUID) (database.EvaluationCoordination, error)
	CreateCoordination(ctx context.Context, arg database.CreateCoordinationParams) (database.EvaluationCoordination, error)
	UpdateCoordinationToken(ctx context.Context, arg database.UpdateCoordinationTokenParams) error
	UpdateSubmissionStatus(ctx context.Context, arg database.UpdateSubmissionStatusParams) (int64, error)
}

type SubmissionRequest struct {
	EvaluationID uuid.UUID `json:"evaluation_id" validate:"required"`
	// TeamID is set for team submissions. Individual submissions leave
	// it nil and the submitter is the sole contributor.
	TeamID               *uuid.UUID  `json:"team_id,omitempty"`
	Contributors         []uuid.UUID `json:"contributors,omitempty"`
	EligibilityStateHash string      `json:"eligibility_state_hash,omitempty"`
}

type SubmissionResponse struct {
	SubmissionID uuid.UUID                 `json:"submission_id"`
	RoundID      *uuid.UUID                `json:"round_id,omitempty"`
	Status       database.SubmissionStatus `json:"status"`
}

type SubmissionStatusUpdate struct {
	SubmissionID uuid.UUID                 `json:"submission_id" validate:"required"`
	Status       database.SubmissionStatus `json:"status" validate:"required,oneof=RECEIVED EVALUATION_IN_PROGRESS VALIDATED SCORED ACCEPTED INVALID REJECTED"`
}

type SubmissionStatusBatchRequest struct {
	EvaluationID uuid.UUID                `json:"evaluation_id" validate:"required"`
	Statuses     []SubmissionStatusUpdate `json:"statuses" validate:"required,min=1,max=500,dive"`
	IsFirstBatch *bool                    `json:"is_first_batch" validate:"required"`
	IsLastBatch  *bool                    `json:"is_last_batch" validate:"required"`
	// BatchToken must carry the token returned by the previous batch
	// for every batch but the first.
	BatchToken *uuid.UUID `json:"batch_token,omitempty"`
}

type SubmissionStatusBatchResponse struct {
	// NextUploadToken is empty on the final batch of a sequence.
	NextUploadToken string `json:"next_upload_token,omitempty"`
}

var errMsgs = map[string]map[string]string{}
