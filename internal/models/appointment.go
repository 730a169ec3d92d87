package models

import "time"

// Appointment is a booking request, optionally linked to a Contact.
// ContactName and ContactEmail are filled from the joined contact record
// when the link exists; they are not stored on the appointment row.
type Appointment struct {
	ID           int64     `json:"id"`
	ClientName   string    `json:"client_name"`
	ClientEmail  string    `json:"client_email"`
	Date         string    `json:"date"` // YYYY-MM-DD
	Time         string    `json:"time"` // HH:MM
	Status       string    `json:"status"`
	ContactID    *int64    `json:"contact_id,omitempty"`
	ContactName  string    `json:"contact_name,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AppointmentList is the envelope returned by GET /admin/appointments.
type AppointmentList struct {
	Success bool          `json:"success"`
	Count   int           `json:"count"`
	Data    []Appointment `json:"data"`
}

// AppointmentCreate is the public booking request body.
type AppointmentCreate struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientEmail string `json:"client_email" binding:"required,email"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	ContactID   *int64 `json:"contact_id,omitempty"`
}
