package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vilo-admin/internal/db"
	"vilo-admin/internal/events"
	"vilo-admin/internal/workflow"
)

type statusUpdate struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) GetContacts(c *gin.Context) {
	contacts, err := h.store.ListContacts(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.logger.Errorf("Failed to list contacts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Erreur serveur lors de la récupération des contacts",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(contacts), "data": contacts})
}

func (h *Handler) GetAppointments(c *gin.Context) {
	appointments, err := h.store.ListAppointments(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.logger.Errorf("Failed to list appointments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Erreur serveur lors de la récupération des rendez-vous",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(appointments), "data": appointments})
}

func (h *Handler) GetTestimonials(c *gin.Context) {
	testimonials, err := h.store.ListTestimonials(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.logger.Errorf("Failed to list testimonials: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Erreur serveur lors de la récupération des témoignages",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(testimonials), "data": testimonials})
}

func (h *Handler) UpdateContactStatus(c *gin.Context) {
	h.updateStatus(c, workflow.KindContact, "Contact non trouvé",
		"Statut du contact mis à jour avec succès", h.store.UpdateContactStatus)
}

func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	h.updateStatus(c, workflow.KindAppointment, "Rendez-vous non trouvé",
		"Statut du rendez-vous mis à jour avec succès", h.store.UpdateAppointmentStatus)
}

func (h *Handler) UpdateTestimonialStatus(c *gin.Context) {
	h.updateStatus(c, workflow.KindTestimonial, "Témoignage non trouvé",
		"Statut du témoignage mis à jour avec succès", h.store.UpdateTestimonialStatus)
}

// updateStatus validates the id and the target status against the entity's
// enumerated set, applies the update, and broadcasts the change to connected
// dashboards.
func (h *Handler) updateStatus(
	c *gin.Context,
	kind workflow.Kind,
	notFoundMsg, okMsg string,
	update func(ctx context.Context, id int64, status string) error,
) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Erreur de validation",
			"errors":  []string{"L'ID doit être un nombre entier positif"},
		})
		return
	}

	var body statusUpdate
	if err := c.ShouldBindJSON(&body); err != nil || !workflow.Valid(kind, body.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Erreur de validation",
			"errors":  []string{"Statut invalide"},
		})
		return
	}

	if err := update(c.Request.Context(), id, body.Status); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": notFoundMsg})
			return
		}
		h.logger.Errorf("Failed to update %s %d: %v", kind, id, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Erreur serveur lors de la mise à jour",
		})
		return
	}

	h.hub.Broadcast(events.Event{Kind: string(kind), ID: id, Status: body.Status})
	h.logger.Infof("Updated %s %d to %s", kind, id, body.Status)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": okMsg,
		"data":    gin.H{"id": id, "status": body.Status},
	})
}
