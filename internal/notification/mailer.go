// Package notification delivers safety alerts by email. Sends are queued to
// a small worker pool so publishers never block on SMTP.
package notification

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"sync"

	"gopkg.in/gomail.v2"
)

type MailJob struct {
	Subject    string
	Body       string
	Recipients []string
}

type Config struct {
	SMTPHost   string
	SMTPPort   int
	Username   string
	Password   string
	From       string
	SafetyTeam []string
	Workers    int
	QueueSize  int
}

// Mailer owns the dialer and the worker pool draining the job queue.
type Mailer struct {
	dialer     *gomail.Dialer
	from       string
	safetyTeam []string
	logger     *slog.Logger

	jobQueue chan MailJob
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	once     sync.Once
}

func NewMailer(cfg Config, logger *slog.Logger) *Mailer {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password)
	dialer.TLSConfig = &tls.Config{
		ServerName: cfg.SMTPHost,
		MinVersion: tls.VersionTLS12,
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 3
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Mailer{
		dialer:     dialer,
		from:       cfg.From,
		safetyTeam: cfg.SafetyTeam,
		logger:     logger,
		jobQueue:   make(chan MailJob, queueSize),
		ctx:        ctx,
		cancel:     cancel,
	}

	m.startWorkers(workers)
	return m
}

func (m *Mailer) startWorkers(workers int) {
	m.once.Do(func() {
		for i := 0; i < workers; i++ {
			m.wg.Add(1)
			go m.worker(i)
		}
		m.logger.Info("mail worker pool started",
			"workers", workers,
			"queue_size", cap(m.jobQueue))
	})
}

func (m *Mailer) worker(id int) {
	defer m.wg.Done()
	for {
		select {
		case job := <-m.jobQueue:
			m.logger.Debug("mail worker processing job", "worker_id", id, "subject", job.Subject)
			if err := m.send(job); err != nil {
				m.logger.Error("failed to send mail",
					"worker_id", id,
					"subject", job.Subject,
					"error", err)
			}
		case <-m.ctx.Done():
			m.logger.Debug("mail worker shutting down", "worker_id", id)
			return
		}
	}
}

// NotifySafetyTeam queues a message to the configured safety distribution
// list. A full queue drops the message rather than blocking the caller.
func (m *Mailer) NotifySafetyTeam(subject, body string) {
	m.enqueue(MailJob{Subject: subject, Body: body, Recipients: m.safetyTeam})
}

// Notify queues a message to explicit recipients.
func (m *Mailer) Notify(subject, body string, recipients []string) {
	m.enqueue(MailJob{Subject: subject, Body: body, Recipients: recipients})
}

func (m *Mailer) enqueue(job MailJob) {
	if len(job.Recipients) == 0 {
		m.logger.Debug("mail job dropped: no recipients", "subject", job.Subject)
		return
	}

	select {
	case m.jobQueue <- job:
		m.logger.Debug("mail job queued", "subject", job.Subject, "queue_length", len(m.jobQueue))
	default:
		m.logger.Warn("mail queue full, dropping message", "subject", job.Subject)
	}
}

func (m *Mailer) send(job MailJob) error {
	msg := gomail.NewMessage(
		gomail.SetCharset("UTF-8"),
		gomail.SetEncoding(gomail.Base64),
	)
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", job.Recipients...)
	msg.SetHeader("Subject", job.Subject)
	msg.SetBody("text/plain", job.Body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// Shutdown stops the workers after the in-flight sends finish.
func (m *Mailer) Shutdown() {
	m.logger.Info("shutting down mailer")
	m.cancel()
	m.wg.Wait()
	m.logger.Info("mailer shutdown complete")
}
