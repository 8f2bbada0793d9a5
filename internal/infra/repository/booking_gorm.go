package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-booking/internal/db"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func withParties(q *gorm.DB) *gorm.DB {
	unscoped := func(db *gorm.DB) *gorm.DB { return db.Unscoped() }
	return q.
		Preload("User", unscoped).
		Preload("Worker", unscoped).
		Preload("Service", unscoped)
}

// --------------------------------------------------
// Referenced rows
// --------------------------------------------------

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &svc, nil
}

func (r *BookingGormRepository) GetUser(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var held []uint
		if err := tx.
			Model(&models.Booking{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"worker_id = ? AND date = ? AND time = ? AND status <> ?",
				b.WorkerID, b.Date, b.Time, string(domain.StatusCancelled),
			).
			Limit(1).
			Pluck("id", &held).Error; err != nil {
			return err
		}

		if len(held) > 0 {
			return httperr.ErrBusiness(httperr.CodeSlotTaken)
		}

		return tx.Omit(clause.Associations).Create(b).Error
	})

	if db.IsUniqueViolation(err) {
		return httperr.ErrBusiness(httperr.CodeSlotTaken)
	}
	return err
}

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := withParties(r.db.WithContext(ctx)).First(&b, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

// UpdateBookingStatus writes b's status only while the stored row is still
// in status from. A row that moved on in the meantime yields invalid_transition.
func (r *BookingGormRepository) UpdateBookingStatus(
	ctx context.Context,
	b *models.Booking,
	from domain.Status,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", b.ID, string(from)).
		Updates(map[string]any{
			"status":       b.Status,
			"cancelled_at": b.CancelledAt,
			"completed_at": b.CompletedAt,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		if db.IsUniqueViolation(res.Error) {
			return httperr.ErrBusiness(httperr.CodeSlotTaken)
		}
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", b.ID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return httperr.ErrBusiness(httperr.CodeInvalidTransition)
}

// --------------------------------------------------
// Listing / availability
// --------------------------------------------------

func (r *BookingGormRepository) ListBookings(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Booking, error) {

	q := withParties(r.db.WithContext(ctx))

	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.WorkerID != nil {
		q = q.Where("worker_id = ?", *f.WorkerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date <= ?", *f.To)
	}

	var out []models.Booking
	if err := q.
		Order("date ASC").
		Order("time ASC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingGormRepository) TakenTimes(
	ctx context.Context,
	workerID uint,
	date time.Time,
) ([]string, error) {

	var times []string
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(
			"worker_id = ? AND date = ? AND status <> ?",
			workerID, date, string(domain.StatusCancelled),
		).
		Order("time ASC").
		Pluck("time", &times).Error; err != nil {
		return nil, err
	}
	return times, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
