// Package mailer implements the backend mail endpoint: it validates SMTP
// configuration, verifies connectivity before sending, and returns a message
// identifier on success.
package mailer

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"vilo-admin/internal/config"
	"vilo-admin/internal/logging"
	"vilo-admin/internal/models"
	"vilo-admin/pkg/email"
)

var (
	// ErrNotConfigured means the SMTP host/user/password env vars are
	// missing; the endpoint fails fast without opening a connection.
	ErrNotConfigured = errors.New("incomplete SMTP configuration")
	// ErrTransport wraps connection or delivery failures.
	ErrTransport = errors.New("smtp transport error")
)

type Mailer struct {
	cfg    config.Config
	logger *logging.Logger
}

func New(cfg config.Config, logger *logging.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

func (m *Mailer) transport() email.Transport {
	return email.Transport{
		Host:       m.cfg.Mail.Host,
		Port:       m.cfg.Mail.Port,
		Username:   m.cfg.Mail.User,
		Password:   m.cfg.Mail.Pass,
		Secure:     m.cfg.Mail.Secure,
		SkipVerify: !m.cfg.Production(),
	}
}

func (m *Mailer) configured() bool {
	return m.cfg.Mail.Host != "" && m.cfg.Mail.User != "" && m.cfg.Mail.Pass != ""
}

// Verify checks SMTP connectivity and credentials without sending.
func (m *Mailer) Verify() error {
	if !m.configured() {
		return ErrNotConfigured
	}
	if err := m.transport().Verify(); err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return nil
}

// Send delivers a notification email and returns its message id. Content is
// composed server-side from the request's type, name and payload unless the
// caller supplied its own subject and bodies.
func (m *Mailer) Send(req models.EmailRequest) (string, error) {
	if !m.configured() {
		m.logger.Errorf("Mail send refused: missing SMTP configuration")
		return "", ErrNotConfigured
	}

	content := BuildContent(req.Type, req.Name, req.Data)
	if req.Subject != "" {
		content.Subject = req.Subject
	}
	if req.HTML != "" {
		content.HTML = req.HTML
	}
	if req.Text != "" {
		content.Text = req.Text
	}
	if content.Text == "" {
		content.Text = content.Subject
	}

	from := req.From
	if from == "" {
		from = m.cfg.Mail.From
	}

	t := m.transport()
	if err := t.Verify(); err != nil {
		m.logger.Errorf("SMTP verify failed: %v", err)
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}

	messageID := fmt.Sprintf("<%s@viloassist.com>", uuid.New().String())
	msg := email.Message{
		From:      fmt.Sprintf("\"Vilo Assist Pro\" <%s>", from),
		To:        req.To,
		Subject:   content.Subject,
		Text:      content.Text,
		HTML:      content.HTML,
		MessageID: messageID,
	}
	if err := t.Send(msg); err != nil {
		m.logger.Errorf("Mail send to %s failed: %v", req.To, err)
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}

	m.logger.Infof("Mail sent to %s (type=%s, id=%s)", req.To, req.Type, messageID)
	return messageID, nil
}
