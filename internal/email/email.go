package email

import (
	"context"
	"errors"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/tcp_snm/arena/internal/arena_errors"
	"github.com/tcp_snm/arena/internal/database"
)

type EmailPurpose string
type EmailBodyType string

const (
	KeyEmailSender              = "SENDER_EMAIL"
	KeyEmailSenderPassword      = "SENDER_EMAIL_PASSWORD"
	KeyEmailSMTPServer          = "smtp.gmail.com"
	KeyEmailSMTPPort            = 587
	BodyTypePlain               EmailBodyType = "text/plain"
	PurposeStatusBatchComplete  EmailPurpose  = "status_batch_complete"
	defaultEmailChannelCapacity               = 100
)

type EmailRequest struct {
	To       []string
	Subject  string
	Body     string
	BodyType EmailBodyType
	Purpose  EmailPurpose
}

type emailJob struct {
	EmailRequest
	from string
}

type EmailService struct {
	DB     *database.Queries
	logger *log.Entry
}

func (e *EmailService) Start() {
	if e.DB == nil {
		panic("email service expects non-nil db")
	}

	e.logger = log.WithField("from", "email service")
}

func NewMail(
	ctx context.Context,
	subject string,
	body string,
	bodyType EmailBodyType,
	purpose EmailPurpose,
	to ...string,
) error {
	fromMail := os.Getenv(KeyEmailSender)
	if fromMail == "" {
		log.Error("sender email is not configured")
		return arena_errors.ErrEmailServiceStopped
	}
	job := emailJob{
		from: fromMail,
		EmailRequest: EmailRequest{
			To:       to,
			Subject:  subject,
			Body:     body,
			BodyType: bodyType,
			Purpose:  purpose,
		},
	}
	// when all the workers are dead, it shouldn't block indefinetely
	select {
	case <-ctx.Done():
		log.Errorf("email job cancelled: %v", ctx.Err())
		return errors.Join(arena_errors.ErrEmailServiceStopped, ctx.Err())

	case emailChan <- job:
		// a worker was available, and the job was sent successfully
		return nil
	}
}
