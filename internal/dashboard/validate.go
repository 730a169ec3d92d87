package dashboard

import (
	"vilo-admin/internal/logging"
	"vilo-admin/internal/models"
	"vilo-admin/internal/workflow"
)

// The backend is trusted but not blindly: malformed records are dropped
// rather than rendered, so one bad row cannot break the whole view.

func validContacts(in []models.Contact, logger *logging.Logger) []models.Contact {
	out := make([]models.Contact, 0, len(in))
	for _, c := range in {
		if c.ID <= 0 || c.Name == "" || c.Email == "" || !workflow.Valid(workflow.KindContact, c.Status) {
			logger.Warnf("Contact invalide filtré: id=%d status=%q", c.ID, c.Status)
			continue
		}
		out = append(out, c)
	}
	return out
}

func validAppointments(in []models.Appointment, logger *logging.Logger) []models.Appointment {
	out := make([]models.Appointment, 0, len(in))
	for _, a := range in {
		if a.ID <= 0 || a.ClientName == "" || a.ClientEmail == "" || a.Date == "" || !workflow.Valid(workflow.KindAppointment, a.Status) {
			logger.Warnf("Rendez-vous invalide filtré: id=%d status=%q", a.ID, a.Status)
			continue
		}
		out = append(out, a)
	}
	return out
}

func validTestimonials(in []models.Testimonial, logger *logging.Logger) []models.Testimonial {
	out := make([]models.Testimonial, 0, len(in))
	for _, tm := range in {
		if tm.ID <= 0 || tm.Name == "" || !workflow.Valid(workflow.KindTestimonial, tm.Status) {
			logger.Warnf("Témoignage invalide filtré: id=%d status=%q", tm.ID, tm.Status)
			continue
		}
		out = append(out, tm)
	}
	return out
}
