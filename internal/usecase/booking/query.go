package booking

import (
	"context"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

type ListBookings struct {
	repo domain.Repository
}

func NewListBookings(repo domain.Repository) *ListBookings {
	return &ListBookings{repo: repo}
}

// Mine lists the bookings a client made.
func (uc *ListBookings) Mine(ctx context.Context, clientID uint, status domain.Status) ([]dto.BookingDTO, error) {
	return uc.Execute(ctx, domain.ListFilter{UserID: &clientID, Status: status})
}

// Assigned lists the bookings a worker has to serve.
func (uc *ListBookings) Assigned(ctx context.Context, workerID uint, status domain.Status) ([]dto.BookingDTO, error) {
	return uc.Execute(ctx, domain.ListFilter{WorkerID: &workerID, Status: status})
}

func (uc *ListBookings) Execute(ctx context.Context, f domain.ListFilter) ([]dto.BookingDTO, error) {
	bookings, err := uc.repo.ListBookings(ctx, f)
	if err != nil {
		return nil, err
	}
	return dto.NewBookingList(bookings), nil
}

// GetBooking returns a booking to an admin, its client or its worker.
type GetBooking struct {
	repo domain.Repository
}

func NewGetBooking(repo domain.Repository) *GetBooking {
	return &GetBooking{repo: repo}
}

func (uc *GetBooking) Execute(ctx context.Context, actor Actor, id uint) (*dto.BookingDTO, error) {
	b, err := loadBooking(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && b.UserID != actor.ID && b.WorkerID != actor.ID {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}

	out := dto.NewBookingDTO(b)
	return &out, nil
}
