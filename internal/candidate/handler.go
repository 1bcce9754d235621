package candidate

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler exposes candidate management over HTTP.
//
// Routes:
//
//	POST  /api/candidates            → public application form
//	POST  /api/candidates/bulk       → sourcing workflow ingestion
//	PATCH /api/candidates/:id        → recruiter notes
//	POST  /api/candidates/:id/score  → grading collaborator callback
type Handler struct {
	svc *Service
}

// NewHandler returns a Handler backed by svc.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the candidate routes on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/candidates")
	g.POST("", h.apply)
	g.POST("/bulk", h.bulk)
	g.PATCH("/:id", h.patch)
	g.POST("/:id/score", h.score)
}

func (h *Handler) apply(c *gin.Context) {
	var req ApplyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "busquedaId, name and email are required"})
		return
	}

	created, err := h.svc.Apply(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "candidate": created})
}

func (h *Handler) bulk(c *gin.Context) {
	var req struct {
		SearchID   string     `json:"busquedaId" binding:"required"`
		Candidates []BulkItem `json:"candidates" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "busquedaId and candidates are required"})
		return
	}

	inserted, err := h.svc.BulkIngest(c.Request.Context(), req.SearchID, req.Candidates)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"received": len(req.Candidates),
		"inserted": inserted,
	})
}

func (h *Handler) patch(c *gin.Context) {
	var req struct {
		AdminNotes *string `json:"admin_notes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "admin_notes is required"})
		return
	}

	if err := h.svc.UpdateNotes(c.Request.Context(), c.Param("id"), *req.AdminNotes); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) score(c *gin.Context) {
	var req struct {
		Score   *int   `json:"score" binding:"required"`
		Summary string `json:"summary"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "score is required"})
		return
	}

	if err := h.svc.Score(c.Request.Context(), c.Param("id"), *req.Score, req.Summary); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func respondError(c *gin.Context, err error) {
	var ve *ValidationError
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrSearchNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Msg})
	default:
		log.Printf("[candidate] unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
