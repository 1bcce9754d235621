package search

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"talentpipe/ats-service/internal/candidate"
)

// Handler exposes search management over HTTP.
//
// Routes:
//
//	POST   /api/searches                 → create
//	GET    /api/searches?userId=         → list for a recruiter
//	GET    /api/searches/:id             → fetch
//	PUT    /api/searches/:id             → update
//	DELETE /api/searches/:id             → delete (cascades to candidates)
//	POST   /api/searches/:id/sourcing    → trigger the sourcing workflow
//	GET    /api/searches/:id/candidates  → candidate pipeline for a search
type Handler struct {
	svc        *Service
	candidates *candidate.Service
}

// NewHandler returns a Handler backed by svc.
func NewHandler(svc *Service, candidates *candidate.Service) *Handler {
	return &Handler{svc: svc, candidates: candidates}
}

// RegisterRoutes mounts the search routes on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/searches")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.POST("/:id/sourcing", h.sourcing)
	g.GET("/:id/candidates", h.candidateList)
}

func (h *Handler) create(c *gin.Context) {
	var req Input
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "search": created})
}

func (h *Handler) list(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId query parameter is required"})
		return
	}

	searches, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "searches": searches})
}

func (h *Handler) get(c *gin.Context) {
	sr, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "search": sr})
}

func (h *Handler) update(c *gin.Context) {
	var req Input
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "search": updated})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) sourcing(c *gin.Context) {
	if err := h.svc.TriggerSourcing(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "webhookStatus": "triggered"})
}

func (h *Handler) candidateList(c *gin.Context) {
	list, err := h.candidates.ListBySearch(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, candidate.ErrSearchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[search] unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "candidates": list})
}

func respondError(c *gin.Context, err error) {
	var ve *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Msg})
	default:
		log.Printf("[search] unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
