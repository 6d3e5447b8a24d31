package handlers

import (
	"net/http"
	"strconv"

	"trimly/middleware"
	"trimly/services/booking"
	"trimly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking engine over HTTP.
type BookingHandler struct {
	Engine booking.Engine
	Logger *zap.Logger
}

// NewBookingHandler constructs the handler set for the booking engine.
func NewBookingHandler(engine booking.Engine, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Engine: engine, Logger: logger}
}

// GetAvailability returns bookable slots for a service (or combo) on one
// client-local date, across all eligible resources of the shop.
func (h *BookingHandler) GetAvailability(c *gin.Context) {
	t, ok := middleware.TenantFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Missing tenant", "")
		return
	}

	offset, err := strconv.Atoi(c.DefaultQuery("utc_offset_minutes", "0"))
	if err != nil {
		utils.JSONError(c, http.StatusUnprocessableEntity, "Invalid request", "utc_offset_minutes must be an integer")
		return
	}

	req := booking.AvailabilityRequest{
		PrimaryServiceID:   c.Query("primary_service_id"),
		SecondaryServiceID: c.Query("secondary_service_id"),
		Date:               c.Query("date"),
		UTCOffsetMinutes:   offset,
	}

	slots, err := h.Engine.GetAvailability(c.Request.Context(), t.ID, req)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  req.Date,
		"slots": slots,
	})
}

// GetResourceDay returns the merged busy intervals for one resource on one
// client-local date, for provider-facing calendars.
func (h *BookingHandler) GetResourceDay(c *gin.Context) {
	t, ok := middleware.TenantFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Missing tenant", "")
		return
	}

	offset, err := strconv.Atoi(c.DefaultQuery("utc_offset_minutes", "0"))
	if err != nil {
		utils.JSONError(c, http.StatusUnprocessableEntity, "Invalid request", "utc_offset_minutes must be an integer")
		return
	}

	busy, err := h.Engine.ResourceDay(c.Request.Context(), t.ID, c.Param("id"), c.Query("date"), offset)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"resourceId": c.Param("id"),
		"date":       c.Query("date"),
		"busy":       busy,
	})
}
