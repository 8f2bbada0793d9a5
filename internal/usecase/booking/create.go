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

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	ClientID uint

	ServiceID uint
	WorkerID  uint

	Date  string
	Time  string
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	sched Schedule
}

func NewCreateBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
	sched Schedule,
) *CreateBooking {
	return &CreateBooking{
		repo:  repo,
		audit: audit,
		sched: sched,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1. Service
	// --------------------------------------------------
	svc, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeServiceNotFound)
		}
		return nil, err
	}

	// --------------------------------------------------
	// 2. Worker (must be an active WORKER)
	// --------------------------------------------------
	worker, err := uc.repo.GetUser(ctx, in.WorkerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeWorkerNotFound)
		}
		return nil, err
	}
	if worker.Role != roles.Worker.String() || !worker.Active {
		return nil, httperr.ErrBusiness(httperr.CodeWorkerNotFound)
	}

	// --------------------------------------------------
	// 3. Date / time on the shop clock
	// --------------------------------------------------
	day, err := domain.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	start, err := domain.SlotStart(day, in.Time, uc.sched.Loc)
	if err != nil {
		return nil, err
	}
	if start.Before(uc.sched.earliest()) {
		return nil, httperr.ErrBusiness(httperr.CodeSlotInPast)
	}

	// --------------------------------------------------
	// 4. Insert (slot check runs inside the transaction)
	// --------------------------------------------------
	b := &models.Booking{
		UserID:    in.ClientID,
		WorkerID:  worker.ID,
		ServiceID: svc.ID,
		Date:      day,
		Time:      start.Format(domain.ClockLayout),
		Notes:     in.Notes,
		Status:    string(domain.InitialStatus()),
	}

	if err := uc.repo.CreateBooking(ctx, b); err != nil {
		if httperr.IsBusiness(err, httperr.CodeSlotTaken) {
			metrics.IncBookingConflict()
		}
		return nil, err
	}

	b.Worker = worker
	b.Service = svc
	metrics.IncBookingCreated()

	// --------------------------------------------------
	// 5. Audit
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ClientID,
		Action:   "booking.created",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"workerId":  b.WorkerID,
			"serviceId": b.ServiceID,
			"date":      day.Format(domain.DateLayout),
			"time":      b.Time,
		},
	})

	return b, nil
}
