package api

import (
	"context"

	"vilo-admin/internal/models"
)

// Store is the persistence surface the handlers need. *db.DB implements it.
type Store interface {
	ListContacts(ctx context.Context, status string) ([]models.Contact, error)
	GetContact(ctx context.Context, id int64) (models.Contact, error)
	UpdateContactStatus(ctx context.Context, id int64, status string) error

	ListAppointments(ctx context.Context, status string) ([]models.Appointment, error)
	GetAppointment(ctx context.Context, id int64) (models.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id int64, status string) error
	CreateAppointment(ctx context.Context, a models.Appointment) (int64, error)

	ListTestimonials(ctx context.Context, status string) ([]models.Testimonial, error)
	GetTestimonial(ctx context.Context, id int64) (models.Testimonial, error)
	UpdateTestimonialStatus(ctx context.Context, id int64, status string) error
	CreateTestimonial(ctx context.Context, tm models.Testimonial) (int64, error)
}

// Mail is the outbound email surface. *mailer.Mailer implements it.
type Mail interface {
	Send(req models.EmailRequest) (string, error)
	Verify() error
}
