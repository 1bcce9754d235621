package availability

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler exposes the recruiter availability calendar over HTTP.
//
// Routes:
//
//	GET /api/availability  → upcoming slots for a recruiter
//	PUT /api/availability  → bulk-replace the recruiter's open slots
type Handler struct {
	svc *Service
}

// NewHandler returns a Handler backed by svc.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the availability routes on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/availability")
	g.GET("", h.list)
	g.PUT("", h.replace)
}

func (h *Handler) list(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId query parameter is required"})
		return
	}

	slots, err := h.svc.Upcoming(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "slots": slots})
}

func (h *Handler) replace(c *gin.Context) {
	var req struct {
		UserID string      `json:"userId" binding:"required"`
		Slots  []SlotInput `json:"slots"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and slots are required"})
		return
	}

	slots, err := h.svc.Replace(c.Request.Context(), req.UserID, req.Slots)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "slots": slots})
}

func respondError(c *gin.Context, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Msg})
		return
	}
	log.Printf("[availability] unexpected error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
