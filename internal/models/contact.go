package models

import "time"

// Contact is a contact-form submission handled by the admin dashboard.
type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Service   string    `json:"service"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ContactList is the envelope returned by GET /admin/contacts.
type ContactList struct {
	Success bool      `json:"success"`
	Count   int       `json:"count"`
	Data    []Contact `json:"data"`
}
