package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vilo-admin/internal/chatbot"
	"vilo-admin/internal/events"
	"vilo-admin/internal/models"
	"vilo-admin/internal/workflow"
)

// CreateAppointment handles the public booking form.
func (h *Handler) CreateAppointment(c *gin.Context) {
	var req models.AppointmentCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Erreur de validation",
		})
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Erreur de validation",
			"errors":  []string{"La date doit être au format YYYY-MM-DD"},
		})
		return
	}

	a := models.Appointment{
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		Date:        req.Date,
		Time:        req.Time,
		Status:      workflow.AppointmentPending,
		ContactID:   req.ContactID,
	}
	id, err := h.store.CreateAppointment(c.Request.Context(), a)
	if err != nil {
		h.logger.Errorf("Failed to create appointment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Erreur serveur lors de la création du rendez-vous",
		})
		return
	}
	a.ID = id

	h.hub.Broadcast(events.Event{Kind: string(workflow.KindAppointment), ID: id, Status: a.Status})
	h.logger.Infof("Created appointment %d for %s", id, a.ClientEmail)
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": a})
}

// CreateTestimonial handles the public review form. New testimonials always
// start pending; moderation happens on the admin surface.
func (h *Handler) CreateTestimonial(c *gin.Context) {
	var req models.TestimonialCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Erreur de validation",
		})
		return
	}

	tm := models.Testimonial{
		Name:    req.Name,
		Role:    req.Role,
		Company: req.Company,
		Comment: req.Comment,
		Rating:  req.Rating,
		Status:  workflow.TestimonialPending,
	}
	id, err := h.store.CreateTestimonial(c.Request.Context(), tm)
	if err != nil {
		h.logger.Errorf("Failed to create testimonial: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Erreur serveur",
		})
		return
	}
	tm.ID = id

	h.hub.Broadcast(events.Event{Kind: string(workflow.KindTestimonial), ID: id, Status: tm.Status})
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": tm})
}

// GetApprovedTestimonials returns the public testimonial wall. Only approved
// records are visible without admin credentials.
func (h *Handler) GetApprovedTestimonials(c *gin.Context) {
	testimonials, err := h.store.ListTestimonials(c.Request.Context(), workflow.TestimonialApproved)
	if err != nil {
		h.logger.Errorf("Failed to list approved testimonials: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Erreur serveur",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(testimonials), "data": testimonials})
}

// Chat answers a visitor message with the assistant's canned reply.
func (h *Handler) Chat(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Erreur de validation",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reply": chatbot.Reply(req.Message)})
}
