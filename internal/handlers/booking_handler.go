package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	bookinguc "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	create       *bookinguc.CreateBooking
	updateStatus *bookinguc.UpdateStatus
	cancel       *bookinguc.CancelBooking
	list         *bookinguc.ListBookings
	get          *bookinguc.GetBooking
	availability *bookinguc.GetAvailability
	export       *bookinguc.ExportBookings
	log          *slog.Logger
}

func NewBookingHandler(
	repo domain.Repository,
	dispatcher *audit.Dispatcher,
	sched bookinguc.Schedule,
	log *slog.Logger,
) *BookingHandler {
	return &BookingHandler{
		create:       bookinguc.NewCreateBooking(repo, dispatcher, sched),
		updateStatus: bookinguc.NewUpdateStatus(repo, dispatcher, sched),
		cancel:       bookinguc.NewCancelBooking(repo, dispatcher, sched),
		list:         bookinguc.NewListBookings(repo),
		get:          bookinguc.NewGetBooking(repo),
		availability: bookinguc.NewGetAvailability(repo, sched),
		export:       bookinguc.NewExportBookings(repo),
		log:          log.With(slog.String("component", "handlers/bookings")),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ServiceID uint   `json:"serviceId" binding:"required"`
	WorkerID  uint   `json:"workerId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required,hhmm"`
	Notes     string `json:"notes" binding:"max=255"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// CREATE (client)
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	b, err := h.create.Execute(c.Request.Context(), bookinguc.CreateBookingInput{
		ClientID:  middleware.CurrentUserID(c),
		ServiceID: req.ServiceID,
		WorkerID:  req.WorkerID,
		Date:      req.Date,
		Time:      req.Time,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(c, h.log, "bookings.Create", err)
		return
	}

	httpresp.Created(c, "Booking created", dto.NewBookingDTO(b))
}

// ======================================================
// LISTING
// ======================================================

func (h *BookingHandler) Mine(c *gin.Context) {
	status, ok := h.statusQuery(c)
	if !ok {
		return
	}

	out, err := h.list.Mine(c.Request.Context(), middleware.CurrentUserID(c), status)
	if err != nil {
		writeError(c, h.log, "bookings.Mine", err)
		return
	}
	httpresp.List(c, "Bookings", out)
}

func (h *BookingHandler) Assigned(c *gin.Context) {
	status, ok := h.statusQuery(c)
	if !ok {
		return
	}

	out, err := h.list.Assigned(c.Request.Context(), middleware.CurrentUserID(c), status)
	if err != nil {
		writeError(c, h.log, "bookings.Assigned", err)
		return
	}
	httpresp.List(c, "Bookings", out)
}

func (h *BookingHandler) All(c *gin.Context) {
	status, ok := h.statusQuery(c)
	if !ok {
		return
	}

	filter := domain.ListFilter{Status: status}

	if v := c.Query("workerId"); v != "" {
		id, ok := parseUintQuery(c, v)
		if !ok {
			return
		}
		filter.WorkerID = &id
	}
	if v := c.Query("clientId"); v != "" {
		id, ok := parseUintQuery(c, v)
		if !ok {
			return
		}
		filter.UserID = &id
	}
	if v := c.Query("from"); v != "" {
		from, err := domain.ParseDate(v)
		if err != nil {
			writeError(c, h.log, "bookings.All", err)
			return
		}
		filter.From = &from
	}
	if v := c.Query("to"); v != "" {
		to, err := domain.ParseDate(v)
		if err != nil {
			writeError(c, h.log, "bookings.All", err)
			return
		}
		filter.To = &to
	}

	out, err := h.list.Execute(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.log, "bookings.All", err)
		return
	}
	httpresp.List(c, "Bookings", out)
}

func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	out, err := h.get.Execute(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		writeError(c, h.log, "bookings.Get", err)
		return
	}
	httpresp.OK(c, "Booking", out)
}

// ======================================================
// AVAILABILITY / EXPORT
// ======================================================

func (h *BookingHandler) Availability(c *gin.Context) {
	workerID, ok := parseUintQuery(c, c.Query("workerId"))
	if !ok {
		return
	}

	day, err := domain.ParseDate(c.Query("date"))
	if err != nil {
		writeError(c, h.log, "bookings.Availability", err)
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		WorkerID: workerID,
		Date:     day,
	})
	if err != nil {
		writeError(c, h.log, "bookings.Availability", err)
		return
	}
	httpresp.List(c, "Available slots", slots)
}

func (h *BookingHandler) Export(c *gin.Context) {
	from, err := domain.ParseDate(c.Query("from"))
	if err != nil {
		writeError(c, h.log, "bookings.Export", err)
		return
	}
	to, err := domain.ParseDate(c.Query("to"))
	if err != nil {
		writeError(c, h.log, "bookings.Export", err)
		return
	}

	buf, err := h.export.Execute(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, h.log, "bookings.Export", err)
		return
	}

	filename := fmt.Sprintf("bookings_%s_%s.xlsx", from.Format(time.DateOnly), to.Format(time.DateOnly))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ======================================================
// STATUS
// ======================================================

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	b, err := h.updateStatus.Execute(c.Request.Context(), actorFrom(c), id, req.Status)
	if err != nil {
		writeError(c, h.log, "bookings.UpdateStatus", err)
		return
	}
	httpresp.OK(c, "Booking status updated", dto.NewBookingDTO(b))
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	b, err := h.cancel.Execute(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		writeError(c, h.log, "bookings.Cancel", err)
		return
	}
	httpresp.OK(c, "Booking cancelled", dto.NewBookingDTO(b))
}

// ======================================================
// HELPERS
// ======================================================

func (h *BookingHandler) statusQuery(c *gin.Context) (domain.Status, bool) {
	raw := c.Query("status")
	if raw == "" {
		return "", true
	}
	st, err := domain.ParseStatus(raw)
	if err != nil {
		writeError(c, h.log, "bookings.statusQuery", err)
		return "", false
	}
	return st, true
}

func parseUintQuery(c *gin.Context, v string) (uint, bool) {
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id")
		return 0, false
	}
	return uint(id), true
}
