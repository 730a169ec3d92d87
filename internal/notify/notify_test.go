package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"vilo-admin/internal/logging"
	"vilo-admin/internal/models"
)

type fakePoster struct {
	requests []models.EmailRequest
	resp     models.EmailResponse
	err      error
}

func (f *fakePoster) Post(ctx context.Context, path string, body, out interface{}) error {
	req, ok := body.(models.EmailRequest)
	if !ok {
		return errors.New("unexpected body type")
	}
	f.requests = append(f.requests, req)
	if f.err != nil {
		return f.err
	}
	*(out.(*models.EmailResponse)) = f.resp
	return nil
}

func TestSend_SuccessMarksConfirmed(t *testing.T) {
	p := &fakePoster{resp: models.EmailResponse{Success: true, MessageID: "<id@x>"}}
	d := NewDispatcher(p, "no-reply@viloassist.com", logging.Discard())

	err := d.Send(context.Background(), "jean@x.com", "Jean", "contact", map[string]string{
		"service": "Support",
		"message": "Bonjour",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !d.Confirmed("jean@x.com") {
		t.Error("recipient should be confirmed after a successful send")
	}

	if len(p.requests) != 1 {
		t.Fatalf("requests = %d", len(p.requests))
	}
	req := p.requests[0]
	if req.To != "jean@x.com" || req.Type != "contact" || req.From != "no-reply@viloassist.com" {
		t.Errorf("unexpected request: %+v", req)
	}
	if !strings.Contains(req.Subject, "Nouveau contact") {
		t.Errorf("subject = %q", req.Subject)
	}
	if !strings.Contains(req.Text, "Nouveau message de Jean") {
		t.Errorf("text = %q", req.Text)
	}
}

func TestSend_TransportFailureLeavesUnconfirmed(t *testing.T) {
	p := &fakePoster{err: errors.New("connection refused")}
	d := NewDispatcher(p, "no-reply@viloassist.com", logging.Discard())

	err := d.Send(context.Background(), "jean@x.com", "Jean", "contact", nil)
	if !errors.Is(err, ErrSendFailed) {
		t.Fatalf("expected ErrSendFailed, got %v", err)
	}
	if d.Confirmed("jean@x.com") {
		t.Error("failed send must not confirm the recipient")
	}
}

func TestSend_ServerRejectionLeavesUnconfirmed(t *testing.T) {
	p := &fakePoster{resp: models.EmailResponse{Success: false, Message: "Configuration serveur incomplète"}}
	d := NewDispatcher(p, "no-reply@viloassist.com", logging.Discard())

	err := d.Send(context.Background(), "jean@x.com", "Jean", "appointment", map[string]string{"date": "24/07/2025"})
	if !errors.Is(err, ErrSendFailed) {
		t.Fatalf("expected ErrSendFailed, got %v", err)
	}
	if d.Confirmed("jean@x.com") {
		t.Error("rejected send must not confirm the recipient")
	}
}

func TestSeed_ReplacesConfirmedSet(t *testing.T) {
	d := NewDispatcher(&fakePoster{}, "no-reply@viloassist.com", logging.Discard())
	d.Seed([]string{"a@x.com", "b@x.com"})
	if !d.Confirmed("a@x.com") || !d.Confirmed("b@x.com") {
		t.Error("seeded emails should be confirmed")
	}
	d.Seed([]string{"c@x.com"})
	if d.Confirmed("a@x.com") {
		t.Error("reseeding must drop previous entries")
	}
	if !d.Confirmed("c@x.com") {
		t.Error("c@x.com should be confirmed")
	}
}

func TestSend_AppointmentContent(t *testing.T) {
	p := &fakePoster{resp: models.EmailResponse{Success: true}}
	d := NewDispatcher(p, "no-reply@viloassist.com", logging.Discard())

	if err := d.Send(context.Background(), "marie@x.com", "Marie", "appointment", map[string]string{
		"date": "24/07/2025",
		"time": "14:00",
	}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	req := p.requests[0]
	if !strings.Contains(req.Text, "24/07/2025") {
		t.Errorf("text = %q", req.Text)
	}
	if !strings.Contains(req.Subject, "Confirmation rendez-vous") {
		t.Errorf("subject = %q", req.Subject)
	}
}
