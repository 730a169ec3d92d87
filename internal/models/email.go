package models

// EmailRequest is the body of POST /admin/send-email. Text and HTML are
// optional; the mail endpoint composes its own content from Type, Name and
// Data when they are empty.
type EmailRequest struct {
	To      string            `json:"to" binding:"required,email"`
	From    string            `json:"from,omitempty"`
	Subject string            `json:"subject,omitempty"`
	Text    string            `json:"text,omitempty"`
	HTML    string            `json:"html,omitempty"`
	Name    string            `json:"name" binding:"required"`
	Type    string            `json:"type" binding:"required"` // "contact" or "appointment"
	Data    map[string]string `json:"data,omitempty"`
}

// EmailResponse is the mail endpoint's reply.
type EmailResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	MessageID string `json:"messageId,omitempty"`
}

// UpdateResponse is returned by the PUT status routes.
type UpdateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	} `json:"data"`
}
