package booking

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// CancelBooking lets the client who owns a booking (or an admin) cancel it.
type CancelBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	sched Schedule
}

func NewCancelBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
	sched Schedule,
) *CancelBooking {
	return &CancelBooking{
		repo:  repo,
		audit: audit,
		sched: sched,
	}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	actor Actor,
	bookingID uint,
) (*models.Booking, error) {

	b, err := loadBooking(ctx, uc.repo, bookingID)
	if err != nil {
		return nil, err
	}

	if b.UserID != actor.ID && !actor.IsAdmin() {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}

	from := domain.Status(b.Status)
	if err := domain.Cancel(b, uc.sched.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBookingStatus(ctx, b, from); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeBookingNotFound)
		}
		return nil, err
	}

	metrics.IncBookingStatus(b.Status)

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "booking.cancelled",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}
