package email

import (
	"os"

	log "github.com/sirupsen/logrus"
	gomail "gopkg.in/gomail.v2"
)

var emailChan chan emailJob

// StartEmailWorkers launches the mailer worker pool. Jobs are queued by
// NewMail and sent over SMTP.
func StartEmailWorkers(workers int) {
	emailChan = make(chan emailJob, defaultEmailChannelCapacity)
	for i := 0; i < workers; i++ {
		go emailWorker(i)
	}
	log.Infof("started %v email workers", workers)
}

func emailWorker(id int) {
	workerLogger := log.WithField("email_worker", id)
	password := os.Getenv(KeyEmailSenderPassword)

	for job := range emailChan {
		message := gomail.NewMessage()
		message.SetHeader("From", job.from)
		message.SetHeader("To", job.To...)
		message.SetHeader("Subject", job.Subject)
		message.SetBody(string(job.BodyType), job.Body)

		dialer := gomail.NewDialer(KeyEmailSMTPServer, KeyEmailSMTPPort, job.from, password)
		if err := dialer.DialAndSend(message); err != nil {
			workerLogger.Errorf(
				"cannot send %s mail to %v, %v",
				job.Purpose,
				job.To,
				err,
			)
			continue
		}
		workerLogger.Infof("sent %s mail", job.Purpose)
	}
}
