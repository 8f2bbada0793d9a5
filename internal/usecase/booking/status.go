package booking

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/domain/roles"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func loadBooking(ctx context.Context, repo domain.Repository, id uint) (*models.Booking, error) {
	b, err := repo.GetBooking(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeBookingNotFound)
		}
		return nil, err
	}
	return b, nil
}

// UpdateStatus moves a booking along the status graph. Only an admin or
// the worker assigned to the booking may do it.
type UpdateStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	sched Schedule
}

func NewUpdateStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
	sched Schedule,
) *UpdateStatus {
	return &UpdateStatus{
		repo:  repo,
		audit: audit,
		sched: sched,
	}
}

func (uc *UpdateStatus) Execute(
	ctx context.Context,
	actor Actor,
	bookingID uint,
	status string,
) (*models.Booking, error) {

	to, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	b, err := loadBooking(ctx, uc.repo, bookingID)
	if err != nil {
		return nil, err
	}

	assigned := actor.Role == roles.Worker && b.WorkerID == actor.ID
	if !actor.IsAdmin() && !assigned {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}

	from := b.Status
	if err := domain.Transition(b, to, uc.sched.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBookingStatus(ctx, b, domain.Status(from)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeBookingNotFound)
		}
		return nil, err
	}

	metrics.IncBookingStatus(b.Status)

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "booking.status_changed",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"from": from,
			"to":   b.Status,
		},
	})

	return b, nil
}
