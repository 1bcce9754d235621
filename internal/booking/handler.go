package booking

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Handler exposes the booking workflow over HTTP.
//
// Routes:
//
//	POST /api/booking/create   → issue a booking link for a candidate
//	GET  /api/booking/slots    → public slot listing by token
//	POST /api/booking/confirm  → public slot confirmation by token
//	POST /api/booking/notify   → deliver the booking link to the candidate
type Handler struct {
	svc *Service
}

// NewHandler returns a Handler backed by svc.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the booking routes on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/booking")
	g.POST("/create", h.create)
	g.GET("/slots", h.listSlots)
	g.POST("/confirm", h.confirm)
	g.POST("/notify", h.notify)
}

type slotJSON struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func toSlotJSON(slots []Slot) []slotJSON {
	out := make([]slotJSON, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotJSON{ID: s.ID, StartTime: s.StartTime, EndTime: s.EndTime})
	}
	return out
}

func (h *Handler) create(c *gin.Context) {
	var req struct {
		CandidateID string `json:"candidateId" binding:"required"`
		UserID      string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "candidateId is required"})
		return
	}

	res, err := h.svc.Issue(c.Request.Context(), req.CandidateID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"bookingUrl":   res.URL,
		"bookingToken": res.Token,
		"candidate":    gin.H{"name": res.CandidateName, "email": res.CandidateEmail},
		"searchTitle":  res.SearchTitle,
	})
}

func (h *Handler) listSlots(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token query parameter is required"})
		return
	}

	listing, err := h.svc.ListSlots(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"candidateName": listing.CandidateName,
		"searchTitle":   listing.SearchTitle,
		"slots":         toSlotJSON(listing.Slots),
	})
}

func (h *Handler) confirm(c *gin.Context) {
	var req struct {
		Token  string `json:"token" binding:"required"`
		SlotID string `json:"slotId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token and slotId are required"})
		return
	}

	res, err := h.svc.Confirm(c.Request.Context(), req.Token, req.SlotID)
	if err != nil {
		respondError(c, err)
		return
	}

	interview := gin.H{
		"candidateName": res.CandidateName,
		"startTime":     res.StartTime,
		"endTime":       res.EndTime,
	}
	// absent, not empty, when the calendar side effect was skipped or
	// failed
	if res.MeetLink != "" {
		interview["meetLink"] = res.MeetLink
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "interview": interview})
}

func (h *Handler) notify(c *gin.Context) {
	var req struct {
		CandidateID string `json:"candidateId" binding:"required"`
		Channel     string `json:"channel" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "candidateId and channel are required"})
		return
	}

	res, err := h.svc.Notify(c.Request.Context(), req.CandidateID, req.Channel)
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{"success": true, "channel": res.Channel}
	if res.MailtoURL != "" {
		body["mailtoUrl"] = res.MailtoURL
	}
	c.JSON(http.StatusOK, body)
}

// respondError maps domain errors to HTTP responses. The public page
// relies on the distinct bodies to render "invalid link", "already
// confirmed" and "slot taken, pick another" differently.
func respondError(c *gin.Context, err error) {
	var ve *ValidationError
	switch {
	case errors.Is(err, ErrAlreadyConfirmed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "already_confirmed"})
	case errors.Is(err, ErrSlotTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "slot_taken"})
	case errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrCandidateNotFound),
		errors.Is(err, ErrSearchNotFound),
		errors.Is(err, ErrSlotNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Msg})
	default:
		log.Printf("[booking] unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
