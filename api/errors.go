package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kseleznev/stayfit/internal/domain"
)

// statusFor maps domain sentinels onto HTTP statuses. Unknown errors
// are treated as internal and their detail is not leaked to the client.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrMinStay),
		errors.Is(err, domain.ErrPastBooking):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrListingNotFound),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrTemplateNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBlackoutConflict),
		errors.Is(err, domain.ErrUserOverlapConflict),
		errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrDuplicateBooking),
		errors.Is(err, domain.ErrSessionFull),
		errors.Is(err, domain.ErrAlreadyCancelled),
		errors.Is(err, domain.ErrSpotsAvailable),
		errors.Is(err, domain.ErrAlreadyWaitlisted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
