package handlers

import (
	"net/http"
	"time"

	reservationRepo "trimly/database/repository/reservation"
	"trimly/middleware"
	"trimly/models"
	"trimly/services/booking"
	"trimly/utils"

	"github.com/gin-gonic/gin"
)

// CreateHoldRequest is the payload for tentatively claiming a slot.
type CreateHoldRequest struct {
	ResourceID         string    `json:"resource_id" binding:"required"`
	PrimaryServiceID   string    `json:"primary_service_id" binding:"required"`
	SecondaryServiceID string    `json:"secondary_service_id,omitempty"`
	Start              time.Time `json:"start" binding:"required"`
	UTCOffsetMinutes   int       `json:"utc_offset_minutes,omitempty"`
	CustomerName       string    `json:"customer_name" binding:"required"`
	CustomerEmail      string    `json:"customer_email,omitempty"`
	CustomerPhone      string    `json:"customer_phone,omitempty"`
	DiscountCents      int       `json:"discount_cents,omitempty"`
	TTLSeconds         int       `json:"ttl_seconds,omitempty"`
}

// CreateHold claims a slot tentatively with a TTL.
func (h *BookingHandler) CreateHold(c *gin.Context) {
	t, ok := middleware.TenantFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Missing tenant", "")
		return
	}

	var input CreateHoldRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusUnprocessableEntity, "Invalid request", err.Error())
		return
	}

	req := booking.HoldRequest{
		ResourceID:         input.ResourceID,
		PrimaryServiceID:   input.PrimaryServiceID,
		SecondaryServiceID: input.SecondaryServiceID,
		Start:              input.Start,
		UTCOffsetMinutes:   input.UTCOffsetMinutes,
		Customer: models.Customer{
			Name:  input.CustomerName,
			Email: input.CustomerEmail,
			Phone: input.CustomerPhone,
		},
		DiscountCents: input.DiscountCents,
		TTL:           time.Duration(input.TTLSeconds) * time.Second,
	}

	res, err := h.Engine.CreateHold(c.Request.Context(), t.ID, req)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"reservation_id":  res.ID,
		"status":          res.Status,
		"hold_expires_at": res.HoldExpiresAt,
		"start":           res.Start,
		"end":             res.End,
		"duration":        res.DurationMinutes,
		"price_cents":     res.PriceCents,
	})
}

// Confirm finalizes a held reservation before its TTL lapses.
func (h *BookingHandler) Confirm(c *gin.Context) {
	t, ok := middleware.TenantFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Missing tenant", "")
		return
	}

	res, err := h.Engine.Confirm(c.Request.Context(), t.ID, c.Param("id"))
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation_id": res.ID, "status": res.Status})
}

// Cancel releases a held or confirmed reservation.
func (h *BookingHandler) Cancel(c *gin.Context) {
	t, ok := middleware.TenantFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Missing tenant", "")
		return
	}

	res, err := h.Engine.Cancel(c.Request.Context(), t.ID, c.Param("id"))
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation_id": res.ID, "status": res.Status})
}

// Complete marks a confirmed reservation delivered after its end time.
func (h *BookingHandler) Complete(c *gin.Context) {
	t, ok := middleware.TenantFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Missing tenant", "")
		return
	}

	res, err := h.Engine.Complete(c.Request.Context(), t.ID, c.Param("id"))
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation_id": res.ID, "status": res.Status})
}

// ListReservations returns the shop's reservations, optionally narrowed to a
// resource and a client-local date.
func (h *BookingHandler) ListReservations(c *gin.Context) {
	t, ok := middleware.TenantFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Missing tenant", "")
		return
	}

	filter := reservationRepo.ListFilter{
		ResourceID: c.Query("resource_id"),
	}
	if date := c.Query("date"); date != "" {
		from, to, err := booking.DayWindowUTC(date, 0)
		if err != nil {
			writeEngineError(c, err)
			return
		}
		filter.From = from
		filter.To = to
	}
	if status := c.Query("status"); status != "" {
		filter.Statuses = []string{status}
	}

	reservations, err := h.Engine.ListReservations(c.Request.Context(), t.ID, filter)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": reservations})
}
