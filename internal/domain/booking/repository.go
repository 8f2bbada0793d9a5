package booking

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

var ErrNotFound = errors.New("record not found")

type ListFilter struct {
	UserID   *uint
	WorkerID *uint
	Status   Status
	From     *time.Time
	To       *time.Time
}

type Repository interface {
	// -------- Referenced rows --------
	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	GetUser(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	// -------- Booking (create / conflict) --------

	// CreateBooking inserts b unless a non-cancelled booking already holds
	// the same (worker, date, time); that case yields a slot_taken BusinessError.
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// -------- Booking (state change) --------
	GetBooking(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	// UpdateBookingStatus persists b's new status if the stored row is
	// still in status from.
	UpdateBookingStatus(
		ctx context.Context,
		b *models.Booking,
		from Status,
	) error

	// -------- Listing / availability --------
	ListBookings(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Booking, error)

	TakenTimes(
		ctx context.Context,
		workerID uint,
		date time.Time,
	) ([]string, error)
}
