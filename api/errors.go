package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/busstation/internal/domain"
)

// writeError maps domain errors onto HTTP statuses. Booking failures are
// normal outcomes for the caller, never 5xx.
func writeError(c *gin.Context, err error) {
	var (
		rangeErr *domain.SeatOutOfRangeError
		dupErr   *domain.DuplicateSeatError
		takenErr *domain.SeatTakenError
	)

	switch {
	case errors.As(err, &takenErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmptyOrder),
		errors.Is(err, domain.ErrInvalidSeatCount),
		errors.As(err, &rangeErr),
		errors.As(err, &dupErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrTripNotFound),
		errors.Is(err, domain.ErrBusNotFound),
		errors.Is(err, domain.ErrFacilityNotFound),
		errors.Is(err, domain.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
