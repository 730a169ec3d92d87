package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"vilo-admin/internal/mailer"
	"vilo-admin/internal/models"
)

// SendEmail handles POST /admin/send-email: it validates the request,
// delegates to the mail transport, and returns the message identifier on
// success. Configuration problems fail fast before any connection opens.
func (h *Handler) SendEmail(c *gin.Context) {
	var req models.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Invalid email request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Erreur de validation",
		})
		return
	}

	h.logger.Infof("Email request: to=%s type=%s", req.To, req.Type)

	messageID, err := h.mail.Send(req)
	if err != nil {
		if errors.Is(err, mailer.ErrNotConfigured) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Configuration serveur incomplète",
			})
			return
		}
		msg := "Erreur lors de l'envoi de l'email"
		if !h.cfg.Production() {
			msg = fmt.Sprintf("Erreur technique: %v", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Email envoyé avec succès.",
		"messageId": messageID,
	})
}

// TestSMTP handles GET /admin/test-smtp: it verifies connectivity and
// credentials without sending anything.
func (h *Handler) TestSMTP(c *gin.Context) {
	if err := h.mail.Verify(); err != nil {
		h.logger.Errorf("SMTP test failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Échec de connexion SMTP",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "SMTP configuré avec succès !"})
}
