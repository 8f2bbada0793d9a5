package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/lib/sl"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	bookinguc "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

var businessMessages = map[string]string{
	httperr.CodeServiceNotFound:   "Service not found",
	httperr.CodeWorkerNotFound:    "Worker not found",
	httperr.CodeBookingNotFound:   "Booking not found",
	httperr.CodeUserNotFound:      "User not found",
	httperr.CodeSlotTaken:         "This time slot is already booked",
	httperr.CodeSlotInPast:        "This time slot is no longer available",
	httperr.CodeInvalidDate:       "Invalid date or time",
	httperr.CodeInvalidStatus:     "Invalid status",
	httperr.CodeInvalidTransition: "Status change not allowed",
	httperr.CodeForbidden:         "You do not have permission to perform this action",
	httperr.CodeEmailTaken:        "Email already registered",
	httperr.CodeInvalidRole:       "Invalid role",
}

func businessStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "_not_found"):
		return http.StatusNotFound
	case code == httperr.CodeSlotTaken, code == httperr.CodeEmailTaken:
		return http.StatusConflict
	case code == httperr.CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// writeError renders business errors with their mapped status and logs
// anything else as a 500.
func writeError(c *gin.Context, log *slog.Logger, op string, err error) {
	if code, ok := httperr.BusinessCode(err); ok {
		msg, found := businessMessages[code]
		if !found {
			msg = "Request could not be processed"
		}
		httperr.Write(c, businessStatus(code), code, msg)
		return
	}

	log.Error("request failed",
		slog.String("op", op),
		slog.String("request_id", c.GetString(middleware.ContextRequestID)),
		sl.Err(err),
	)
	httperr.Internal(c, "internal_error", "Internal server error")
}

func badBinding(c *gin.Context, err error) {
	httperr.BadRequest(c, "invalid_request", validators.Message(err))
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id")
		return 0, false
	}
	return uint(id), true
}

func actorFrom(c *gin.Context) bookinguc.Actor {
	return bookinguc.Actor{
		ID:   middleware.CurrentUserID(c),
		Role: middleware.CurrentRole(c),
	}
}
