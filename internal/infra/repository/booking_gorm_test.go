package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/db/dbtest"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type fixture struct {
	db     *gorm.DB
	repo   *BookingGormRepository
	client *models.User
	worker *models.User
	svc    *models.Service
	day    time.Time
}

func newFixture(t *testing.T) *fixture {
	gdb := dbtest.New(t)
	return &fixture{
		db:     gdb,
		repo:   NewBookingGormRepository(gdb),
		client: dbtest.CreateUser(t, gdb, "ana", "CLIENT"),
		worker: dbtest.CreateUser(t, gdb, "joe", "WORKER"),
		svc:    dbtest.CreateService(t, gdb, "Corte", 40),
		day:    time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) booking(clock string) *models.Booking {
	return &models.Booking{
		UserID:    f.client.ID,
		WorkerID:  f.worker.ID,
		ServiceID: f.svc.ID,
		Date:      f.day,
		Time:      clock,
		Status:    string(domain.StatusPending),
	}
}

func TestCreateBookingRejectsTakenSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.booking("10:00")
	require.NoError(t, f.repo.CreateBooking(ctx, first))
	assert.NotZero(t, first.ID)

	err := f.repo.CreateBooking(ctx, f.booking("10:00"))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotTaken))

	require.NoError(t, f.repo.CreateBooking(ctx, f.booking("10:30")))
}

func TestCreateBookingAfterCancellation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.booking("11:00")
	require.NoError(t, f.repo.CreateBooking(ctx, first))

	now := time.Now()
	require.NoError(t, domain.Cancel(first, now))
	require.NoError(t, f.repo.UpdateBookingStatus(ctx, first, domain.StatusPending))

	assert.NoError(t, f.repo.CreateBooking(ctx, f.booking("11:00")))
}

func TestCreateBookingConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const attempts = 2
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = f.repo.CreateBooking(ctx, f.booking("15:00"))
		}()
	}
	wg.Wait()

	var ok, taken int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case httperr.IsBusiness(err, httperr.CodeSlotTaken):
			taken++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, taken)
}

func TestGetBookingPreloadsParties(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.booking("09:00")
	require.NoError(t, f.repo.CreateBooking(ctx, b))

	got, err := f.repo.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.User)
	require.NotNil(t, got.Worker)
	require.NotNil(t, got.Service)
	assert.Equal(t, "ana", got.User.Name)
	assert.Equal(t, "joe", got.Worker.Name)
	assert.Equal(t, "Corte", got.Service.Name)

	_, err = f.repo.GetBooking(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListBookingsOrderAndFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	later := f.booking("09:00")
	later.Date = f.day.AddDate(0, 0, 1)
	require.NoError(t, f.repo.CreateBooking(ctx, later))
	require.NoError(t, f.repo.CreateBooking(ctx, f.booking("14:00")))
	require.NoError(t, f.repo.CreateBooking(ctx, f.booking("08:30")))

	other := dbtest.CreateUser(t, f.db, "bia", "CLIENT")
	foreign := f.booking("16:00")
	foreign.UserID = other.ID
	require.NoError(t, f.repo.CreateBooking(ctx, foreign))

	mine, err := f.repo.ListBookings(ctx, domain.ListFilter{UserID: &f.client.ID})
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, "08:30", mine[0].Time)
	assert.Equal(t, "14:00", mine[1].Time)
	assert.Equal(t, "09:00", mine[2].Time)

	forWorker, err := f.repo.ListBookings(ctx, domain.ListFilter{WorkerID: &f.worker.ID})
	require.NoError(t, err)
	assert.Len(t, forWorker, 4)

	from, to := f.day, f.day
	oneDay, err := f.repo.ListBookings(ctx, domain.ListFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, oneDay, 3)

	confirmed, err := f.repo.ListBookings(ctx, domain.ListFilter{Status: domain.StatusConfirmed})
	require.NoError(t, err)
	assert.Empty(t, confirmed)
}

func TestTakenTimesIgnoresCancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.booking("10:00")
	require.NoError(t, f.repo.CreateBooking(ctx, a))
	require.NoError(t, f.repo.CreateBooking(ctx, f.booking("09:00")))

	require.NoError(t, domain.Cancel(a, time.Now()))
	require.NoError(t, f.repo.UpdateBookingStatus(ctx, a, domain.StatusPending))

	times, err := f.repo.TakenTimes(ctx, f.worker.ID, f.day)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00"}, times)
}

func TestUpdateBookingStatusMissing(t *testing.T) {
	f := newFixture(t)
	err := f.repo.UpdateBookingStatus(context.Background(), &models.Booking{ID: 404, Status: "CONFIRMED"}, domain.StatusPending)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateBookingStatusStaleCopy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.booking("10:00")
	require.NoError(t, f.repo.CreateBooking(ctx, b))
	require.NoError(t, domain.Transition(b, domain.StatusConfirmed, time.Now()))
	require.NoError(t, f.repo.UpdateBookingStatus(ctx, b, domain.StatusPending))

	first, err := f.repo.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	second, err := f.repo.GetBooking(ctx, b.ID)
	require.NoError(t, err)

	require.NoError(t, domain.Transition(first, domain.StatusComplete, time.Now()))
	require.NoError(t, f.repo.UpdateBookingStatus(ctx, first, domain.StatusConfirmed))

	require.NoError(t, domain.Transition(second, domain.StatusCancelled, time.Now()))
	err = f.repo.UpdateBookingStatus(ctx, second, domain.StatusConfirmed)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTransition))

	stored, err := f.repo.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusComplete), stored.Status)
	assert.NotNil(t, stored.CompletedAt)
	assert.Nil(t, stored.CancelledAt)
}

func TestUpdateBookingStatusConcurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.booking("11:30")
	require.NoError(t, f.repo.CreateBooking(ctx, b))

	targets := []domain.Status{domain.StatusConfirmed, domain.StatusCancelled}
	errs := make([]error, len(targets))

	var wg sync.WaitGroup
	for i, to := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cp := *b
			if err := domain.Transition(&cp, to, time.Now()); err != nil {
				errs[i] = err
				return
			}
			errs[i] = f.repo.UpdateBookingStatus(ctx, &cp, domain.StatusPending)
		}()
	}
	wg.Wait()

	var ok, stale int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case httperr.IsBusiness(err, httperr.CodeInvalidTransition):
			stale++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, stale)
}

func TestGetServiceSoftDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.db.Delete(&models.Service{}, f.svc.ID).Error)

	_, err := f.repo.GetService(ctx, f.svc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
