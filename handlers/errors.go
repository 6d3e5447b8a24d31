package handlers

import (
	"errors"
	"net/http"

	"trimly/services/booking"
	"trimly/utils"

	"github.com/gin-gonic/gin"
)

// writeEngineError maps engine outcomes onto HTTP statuses. Every branch here
// is an expected, recoverable result for the caller except ErrUnavailable.
func writeEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrValidation):
		utils.JSONError(c, http.StatusUnprocessableEntity, "Invalid request", err.Error())
	case errors.Is(err, booking.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Not found", "")
	case errors.Is(err, booking.ErrSlotUnavailable):
		utils.JSONError(c, http.StatusConflict, "Slot unavailable", "the slot was taken; re-query availability and retry")
	case errors.Is(err, booking.ErrHoldExpired):
		utils.JSONError(c, http.StatusGone, "Hold expired", "the hold lapsed; place a new hold")
	case errors.Is(err, booking.ErrInvalidState):
		utils.JSONError(c, http.StatusConflict, "Invalid state", err.Error())
	case errors.Is(err, booking.ErrUnavailable):
		utils.JSONError(c, http.StatusServiceUnavailable, "Service unavailable", "")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", "")
	}
}
