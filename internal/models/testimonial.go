package models

import "time"

// Testimonial is a client review awaiting moderation.
// The wire names "post" and "entreprise" match the historical API.
type Testimonial struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"post"`
	Company   string    `json:"entreprise"`
	Comment   string    `json:"comment"`
	Rating    int       `json:"rating"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// TestimonialList is the envelope returned by GET /admin/testimonials.
type TestimonialList struct {
	Success bool          `json:"success"`
	Count   int           `json:"count"`
	Data    []Testimonial `json:"data"`
}

// TestimonialCreate is the public submission body.
type TestimonialCreate struct {
	Name    string `json:"name" binding:"required,min=2,max=100"`
	Role    string `json:"post" binding:"required,max=100"`
	Company string `json:"entreprise" binding:"required,max=100"`
	Comment string `json:"comment" binding:"required,max=1000"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
}
