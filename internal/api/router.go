package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vilo-admin/internal/config"
	"vilo-admin/internal/events"
	"vilo-admin/internal/logging"
)

// Handler wires the persistence, mail and event layers into HTTP handlers.
type Handler struct {
	store  Store
	mail   Mail
	hub    *events.Hub
	logger *logging.Logger
	cfg    config.Config
}

func NewHandler(store Store, mail Mail, hub *events.Hub, logger *logging.Logger, cfg config.Config) *Handler {
	return &Handler{store: store, mail: mail, hub: hub, logger: logger, cfg: cfg}
}

func NewRouter(logger *logging.Logger, cfg config.Config, h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(logger))

	api := r.Group(cfg.API.BasePath)
	{
		// Public site surface
		api.POST("/appointments", h.CreateAppointment)
		api.POST("/testimonials", h.CreateTestimonial)
		api.GET("/testimonials", h.GetApprovedTestimonials)
		api.POST("/chat", h.Chat)

		admin := api.Group("/admin", AuthMiddleware(cfg, logger))
		{
			admin.GET("/contacts", h.GetContacts)
			admin.GET("/appointments", h.GetAppointments)
			admin.GET("/testimonials", h.GetTestimonials)

			admin.PUT("/contacts/:id", h.UpdateContactStatus)
			admin.PUT("/appointments/:id", h.UpdateAppointmentStatus)
			admin.PUT("/testimonials/:id", h.UpdateTestimonialStatus)

			admin.POST("/send-email", h.SendEmail)
			admin.GET("/test-smtp", h.TestSMTP)
			admin.GET("/ws", h.Subscribe)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
