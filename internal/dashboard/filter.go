package dashboard

import (
	"strings"
	"time"

	"vilo-admin/internal/models"
	"vilo-admin/internal/workflow"
)

// SetStatusFilter narrows the derived views to one status. "all" disables
// the filter.
func (d *Dashboard) SetStatusFilter(status string) {
	d.mu.Lock()
	d.statusFilter = status
	d.mu.Unlock()
}

// SetSearchTerm schedules a search term update. Rapid successive calls
// coalesce: only the last term is applied, after the debounce delay.
func (d *Dashboard) SetSearchTerm(term string) {
	d.mu.Lock()
	if d.debouncer != nil {
		d.debouncer.Stop()
	}
	// Stop cannot interrupt a callback already running; the generation
	// check keeps a superseded callback from applying its older term.
	d.searchGen++
	gen := d.searchGen
	d.debouncer = time.AfterFunc(d.debounce, func() {
		d.mu.Lock()
		if gen == d.searchGen {
			d.searchTerm = term
		}
		d.mu.Unlock()
	})
	d.mu.Unlock()
}

// SearchTerm returns the currently applied (post-debounce) term.
func (d *Dashboard) SearchTerm() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.searchTerm
}

// Contacts returns a copy of the loaded contacts.
func (d *Dashboard) Contacts() []models.Contact {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.Contact(nil), d.contacts...)
}

// Appointments returns a copy of the loaded appointments.
func (d *Dashboard) Appointments() []models.Appointment {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.Appointment(nil), d.appointments...)
}

// Testimonials returns a copy of the loaded testimonials.
func (d *Dashboard) Testimonials() []models.Testimonial {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.Testimonial(nil), d.testimonials...)
}

// FilteredContacts applies the search term and status filter. Matching is
// case-insensitive across name, email, service and message.
func (d *Dashboard) FilteredContacts() []models.Contact {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []models.Contact
	term := strings.ToLower(d.searchTerm)
	for _, c := range d.contacts {
		if d.statusFilter != "all" && c.Status != d.statusFilter {
			continue
		}
		if term != "" && !matches(term, c.Name, c.Email, c.Service, c.Message) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FilteredAppointments applies the search term and status filter, matching
// on the client name and email.
func (d *Dashboard) FilteredAppointments() []models.Appointment {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []models.Appointment
	term := strings.ToLower(d.searchTerm)
	for _, a := range d.appointments {
		if d.statusFilter != "all" && a.Status != d.statusFilter {
			continue
		}
		if term != "" && !matches(term, a.ClientName, a.ClientEmail) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// FilteredTestimonials applies the search term and status filter, matching
// on the author name, company and comment.
func (d *Dashboard) FilteredTestimonials() []models.Testimonial {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []models.Testimonial
	term := strings.ToLower(d.searchTerm)
	for _, tm := range d.testimonials {
		if d.statusFilter != "all" && tm.Status != d.statusFilter {
			continue
		}
		if term != "" && !matches(term, tm.Name, tm.Company, tm.Comment) {
			continue
		}
		out = append(out, tm)
	}
	return out
}

func matches(term string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// Stats counts loaded entities per kind and status.
func (d *Dashboard) Stats() map[workflow.Kind]map[string]int {
	d.mu.Lock()
	defer d.mu.Unlock()
	stats := map[workflow.Kind]map[string]int{
		workflow.KindContact:     {},
		workflow.KindAppointment: {},
		workflow.KindTestimonial: {},
	}
	for _, c := range d.contacts {
		stats[workflow.KindContact][c.Status]++
	}
	for _, a := range d.appointments {
		stats[workflow.KindAppointment][a.Status]++
	}
	for _, tm := range d.testimonials {
		stats[workflow.KindTestimonial][tm.Status]++
	}
	return stats
}
