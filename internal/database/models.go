package database

import (
	"time"

	"github.com/google/uuid"
)

type SubmissionStatus string

const (
	SubmissionStatusReceived   SubmissionStatus = "RECEIVED"
	SubmissionStatusInProgress SubmissionStatus = "EVALUATION_IN_PROGRESS"
	SubmissionStatusValidated  SubmissionStatus = "VALIDATED"
	SubmissionStatusScored     SubmissionStatus = "SCORED"
	SubmissionStatusAccepted   SubmissionStatus = "ACCEPTED"
	SubmissionStatusInvalid    SubmissionStatus = "INVALID"
	SubmissionStatusRejected   SubmissionStatus = "REJECTED"
)

type EvaluationRoundLimitType string

const (
	LimitTypeDaily   EvaluationRoundLimitType = "DAILY"
	LimitTypeWeekly  EvaluationRoundLimitType = "WEEKLY"
	LimitTypeMonthly EvaluationRoundLimitType = "MONTHLY"
	LimitTypeTotal   EvaluationRoundLimitType = "TOTAL"
)

type User struct {
	ID           uuid.UUID
	UserName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type Evaluation struct {
	ID            uuid.UUID
	Name          string
	ContentSource *uuid.UUID
	CreatedBy     uuid.UUID
	CreatedAt     time.Time

	// legacy submission quota, mutually exclusive with discrete rounds
	QuotaFirstRoundStart *time.Time
	QuotaRoundDurationMs *int64
	QuotaNumberOfRounds  *int64
	QuotaSubmissionLimit *int64
}

type EvaluationRound struct {
	ID           uuid.UUID
	EvaluationID uuid.UUID
	RoundStart   time.Time
	RoundEnd     time.Time
	// json-encoded []EvaluationRoundLimit, stored as jsonb
	Limits    []byte
	CreatedAt time.Time
}

type Submission struct {
	ID           uuid.UUID
	EvaluationID uuid.UUID
	RoundID      *uuid.UUID
	TeamID       *uuid.UUID
	SubmittedBy  uuid.UUID
	Status       SubmissionStatus
	CreatedAt    time.Time
}

type Challenge struct {
	ID                uuid.UUID
	ProjectID         uuid.UUID
	ParticipantTeamID uuid.UUID
}

type EvaluationCoordination struct {
	EvaluationID uuid.UUID
	Token        uuid.UUID
	UpdatedAt    time.Time
}
