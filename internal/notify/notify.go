// Package notify translates a status transition into an outbound email
// request and tracks which addresses were already confirmed this session.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"vilo-admin/internal/logging"
	"vilo-admin/internal/models"
)

// ErrSendFailed marks a failed email dispatch, distinguishable from other
// API errors. The confirmed set is never mutated on failure.
var ErrSendFailed = errors.New("email send failed")

// Poster issues the POST to the mail endpoint. *client.Client satisfies it.
type Poster interface {
	Post(ctx context.Context, path string, body, out interface{}) error
}

// Dispatcher composes notification emails and submits them to the backend
// mail endpoint. The confirmed-emails set is ephemeral: rebuilt via Seed on
// every full data load and updated after each successful send.
type Dispatcher struct {
	api    Poster
	from   string
	logger *logging.Logger

	mu        sync.Mutex
	confirmed map[string]bool
}

func NewDispatcher(api Poster, from string, logger *logging.Logger) *Dispatcher {
	return &Dispatcher{
		api:       api,
		from:      from,
		logger:    logger,
		confirmed: make(map[string]bool),
	}
}

// Seed replaces the confirmed set with the given addresses, derived from
// entities whose status implies a notification was already sent.
func (d *Dispatcher) Seed(emails []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.confirmed = make(map[string]bool, len(emails))
	for _, e := range emails {
		d.confirmed[e] = true
	}
}

// Confirmed reports whether a notification was already sent to email this
// session. The UI layer uses it to disable repeated sends.
func (d *Dispatcher) Confirmed(email string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.confirmed[email]
}

// Send composes and submits one notification email. typ is "contact" or
// "appointment"; data carries the transition payload (service/message or
// date/time). On success the recipient is marked confirmed.
func (d *Dispatcher) Send(ctx context.Context, to, name, typ string, data map[string]string) error {
	req := models.EmailRequest{
		To:      to,
		From:    d.from,
		Subject: subject(typ, name),
		Text:    buildText(typ, name, data),
		HTML:    buildHTML(typ, name, data),
		Name:    name,
		Type:    typ,
		Data:    data,
	}

	var resp models.EmailResponse
	if err := d.api.Post(ctx, "/admin/send-email", req, &resp); err != nil {
		d.logger.Errorf("Email to %s failed: %v", to, err)
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	if !resp.Success {
		d.logger.Errorf("Email to %s rejected: %s", to, resp.Message)
		return fmt.Errorf("%w: %s", ErrSendFailed, resp.Message)
	}

	d.mu.Lock()
	d.confirmed[to] = true
	d.mu.Unlock()

	d.logger.Infof("Confirmation envoyée à %s (type=%s, id=%s)", to, typ, resp.MessageID)
	return nil
}

func subject(typ, name string) string {
	if typ == "appointment" {
		return "Confirmation rendez-vous - " + name
	}
	return "Nouveau contact - " + name
}

func buildText(typ, name string, data map[string]string) string {
	if typ == "appointment" {
		date := data["date"]
		if date == "" {
			date = "date non spécifiée"
		}
		return fmt.Sprintf("Rendez-vous confirmé pour le %s", date)
	}
	return fmt.Sprintf("Nouveau message de %s", name)
}

func buildHTML(typ, name string, data map[string]string) string {
	if typ == "appointment" {
		return fmt.Sprintf("<p>Bonjour %s,</p><p>%s à %s.</p>", name, buildText(typ, name, data), data["time"])
	}
	return fmt.Sprintf("<p>Bonjour %s,</p><p>%s : %s</p>", name, buildText(typ, name, data), data["message"])
}
