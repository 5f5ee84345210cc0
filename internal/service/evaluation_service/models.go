package evaluation_service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tcp_snm/arena/internal/arena_errors"
	"github.com/tcp_snm/arena/internal/database"
	"github.com/tcp_snm/arena/internal/service/user_service"
)

type EvaluationService struct {
	DB                *database.Queries
	Pool              *pgxpool.Pool
	UserServiceConfig *user_service.UserService
}

// roundStore is the slice of the query layer the round logic needs.
// *database.Queries satisfies it, both directly and inside a transaction.
type roundStore interface {
	GetEvaluationByID(ctx context.Context, id uuid.UUID) (database.Evaluation, error)
	LockEvaluation(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	ClearSubmissionQuota(ctx context.Context, id uuid.UUID) error
	HasEvaluationRounds(ctx context.Context, evaluationID uuid.UUID) (bool, error)
	GetEvaluationRoundByID(ctx context.Context, id uuid.UUID) (database.EvaluationRound, error)
	GetEvaluationRoundForTimestamp(ctx context.Context, arg database.GetEvaluationRoundForTimestampParams) (database.EvaluationRound, error)
	OverlappingEvaluationRounds(ctx context.Context, arg database.OverlappingEvaluationRoundsParams) ([]uuid.UUID, error)
	CreateEvaluationRound(ctx context.Context, arg database.CreateEvaluationRoundParams) (database.EvaluationRound, error)
	UpdateEvaluationRound(ctx context.Context, arg database.UpdateEvaluationRoundParams) (database.EvaluationRound, error)
	DeleteEvaluationRound(ctx context.Context, id uuid.UUID) error
	HasSubmissionForEvaluationRound(ctx context.Context, roundID uuid.UUID) (bool, error)
	ListEvaluationRounds(ctx context.Context, arg database.ListEvaluationRoundsParams) ([]database.EvaluationRound, error)
}

type Evaluation struct {
	ID            uuid.UUID        `json:"evaluation_id"`
	Name          string           `json:"name"`
	ContentSource *uuid.UUID       `json:"content_source,omitempty"`
	Quota         *SubmissionQuota `json:"quota,omitempty"`
	CreatedBy     uuid.UUID        `json:"created_by"`
}

// SubmissionQuota is the deprecated single-schedule quota model. It is
// retired by MigrateSubmissionQuota and exists only on evaluations that
// predate discrete rounds.
type SubmissionQuota struct {
	FirstRoundStart     time.Time `json:"first_round_start"`
	RoundDurationMillis int64     `json:"round_duration_millis"`
	NumberOfRounds      *int64    `json:"number_of_rounds,omitempty"`
	SubmissionLimit     *int64    `json:"submission_limit,omitempty"`
}

type EvaluationRoundLimit struct {
	LimitType          database.EvaluationRoundLimitType `json:"limit_type" validate:"required,oneof=DAILY WEEKLY MONTHLY TOTAL"`
	MaximumSubmissions int64                             `json:"maximum_submissions" validate:"required,gt=0"`
}

type EvaluationRound struct {
	ID           uuid.UUID              `json:"round_id"`
	EvaluationID uuid.UUID              `json:"evaluation_id" validate:"required"`
	RoundStart   time.Time              `json:"round_start" validate:"required"`
	RoundEnd     time.Time              `json:"round_end" validate:"required"`
	Limits       []EvaluationRoundLimit `json:"limits" validate:"dive"`
}

type RoundScope int

const (
	// RoundNone means no round covers the timestamp. Submissions are closed.
	RoundNone RoundScope = iota
	// RoundUnrestricted means the evaluation has neither rounds nor a
	// quota. Submissions are always allowed with no limits applied.
	RoundUnrestricted
	// RoundScoped means a concrete round covers the timestamp.
	RoundScoped
)

type ResolvedRound struct {
	Scope RoundScope
	// Round is set only when Scope is RoundScoped. Rounds synthesized
	// from a legacy quota are ephemeral and carry a nil id.
	Round EvaluationRound
}

type GetAllRoundsRequest struct {
	EvaluationID uuid.UUID `json:"evaluation_id" validate:"required"`
	Limit        int64     `json:"limit" validate:"required,gte=1,lte=100"`
	PageToken    string    `json:"page_token"`
}

type GetAllRoundsResponse struct {
	Rounds        []EvaluationRound `json:"rounds"`
	NextPageToken string            `json:"next_page_token,omitempty"`
}

var errMsgs = map[string]map[string]string{
	arena_errors.CodeForeignKeyConstraint: {
		"evaluation_rounds_evaluation_id_fkey": "no evaluation exist with the given id",
	},
}

func marshalLimits(limits []EvaluationRoundLimit) ([]byte, error) {
	if limits == nil {
		limits = []EvaluationRoundLimit{}
	}
	bytes, err := json.Marshal(limits)
	if err != nil {
		return nil, fmt.Errorf(
			"%w, cannot marshal round limits %v, %w",
			arena_errors.ErrInternal,
			limits,
			err,
		)
	}
	return bytes, nil
}

func unmarshalLimits(raw []byte) ([]EvaluationRoundLimit, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var limits []EvaluationRoundLimit
	if err := json.Unmarshal(raw, &limits); err != nil {
		return nil, fmt.Errorf(
			"%w, cannot unmarshal round limits, %w",
			arena_errors.ErrInternal,
			err,
		)
	}
	if len(limits) == 0 {
		return nil, nil
	}
	return limits, nil
}

func dbRoundToServiceRound(dbRound database.EvaluationRound) (EvaluationRound, error) {
	limits, err := unmarshalLimits(dbRound.Limits)
	if err != nil {
		return EvaluationRound{}, err
	}
	return EvaluationRound{
		ID:           dbRound.ID,
		EvaluationID: dbRound.EvaluationID,
		RoundStart:   dbRound.RoundStart.UTC(),
		RoundEnd:     dbRound.RoundEnd.UTC(),
		Limits:       limits,
	}, nil
}

func dbEvaluationToService(dbEval database.Evaluation) Evaluation {
	eval := Evaluation{
		ID:            dbEval.ID,
		Name:          dbEval.Name,
		ContentSource: dbEval.ContentSource,
		CreatedBy:     dbEval.CreatedBy,
	}
	if dbEval.QuotaFirstRoundStart != nil && dbEval.QuotaRoundDurationMs != nil {
		eval.Quota = &SubmissionQuota{
			FirstRoundStart:     (*dbEval.QuotaFirstRoundStart).UTC(),
			RoundDurationMillis: *dbEval.QuotaRoundDurationMs,
			NumberOfRounds:      dbEval.QuotaNumberOfRounds,
			SubmissionLimit:     dbEval.QuotaSubmissionLimit,
		}
	}
	return eval
}
