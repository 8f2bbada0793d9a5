package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/domain/roles"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func seedBooking(t *testing.T, repo *fakeRepo) *models.Booking {
	t.Helper()
	d, _ := newDispatcher(t)
	b, err := NewCreateBooking(repo, d, fixedSchedule()).Execute(context.Background(), validInput())
	require.NoError(t, err)
	return b
}

func TestUpdateStatusByAssignedWorker(t *testing.T) {
	repo := newFakeRepo()
	b := seedBooking(t, repo)

	d, rec := newDispatcher(t)
	uc := NewUpdateStatus(repo, d, fixedSchedule())
	worker := Actor{ID: 20, Role: roles.Worker}
	ctx := context.Background()

	got, err := uc.Execute(ctx, worker, b.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), got.Status)

	got, err = uc.Execute(ctx, worker, b.ID, "COMPLETE")
	require.NoError(t, err)
	require.NotNil(t, got.CompletedAt)

	_, err = uc.Execute(ctx, worker, b.ID, "CANCELLED")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTransition))

	stored, err := repo.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusComplete), stored.Status)

	d.Close()
	assert.Equal(t, []string{"booking.status_changed", "booking.status_changed"}, rec.actions())
}

func TestUpdateStatusAuthorization(t *testing.T) {
	repo := newFakeRepo()
	b := seedBooking(t, repo)

	d, _ := newDispatcher(t)
	uc := NewUpdateStatus(repo, d, fixedSchedule())
	ctx := context.Background()

	_, err := uc.Execute(ctx, Actor{ID: 21, Role: roles.Worker}, b.ID, "CONFIRMED")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeForbidden))

	_, err = uc.Execute(ctx, Actor{ID: 10, Role: roles.Client}, b.ID, "CONFIRMED")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeForbidden))

	_, err = uc.Execute(ctx, Actor{ID: 30, Role: roles.Admin}, 999, "CONFIRMED")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeBookingNotFound))

	_, err = uc.Execute(ctx, Actor{ID: 30, Role: roles.Admin}, b.ID, "DONE")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidStatus))

	got, err := uc.Execute(ctx, Actor{ID: 30, Role: roles.Admin}, b.ID, "CANCELLED")
	require.NoError(t, err)
	assert.NotNil(t, got.CancelledAt)
}

func TestCancelBooking(t *testing.T) {
	repo := newFakeRepo()
	b := seedBooking(t, repo)

	d, rec := newDispatcher(t)
	uc := NewCancelBooking(repo, d, fixedSchedule())
	ctx := context.Background()

	_, err := uc.Execute(ctx, Actor{ID: 11, Role: roles.Client}, b.ID)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeForbidden))

	got, err := uc.Execute(ctx, Actor{ID: 10, Role: roles.Client}, b.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), got.Status)

	_, err = uc.Execute(ctx, Actor{ID: 10, Role: roles.Client}, b.ID)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTransition))

	d.Close()
	assert.Equal(t, []string{"booking.cancelled"}, rec.actions())
}

// racingRepo lets another writer cancel the booking right after it is read.
type racingRepo struct {
	*fakeRepo
}

func (r racingRepo) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	b, err := r.fakeRepo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.bookings[id].Status = string(domain.StatusCancelled)
	r.mu.Unlock()
	return b, nil
}

func TestUpdateStatusLosesRace(t *testing.T) {
	repo := newFakeRepo()
	b := seedBooking(t, repo)

	d, rec := newDispatcher(t)
	uc := NewUpdateStatus(racingRepo{repo}, d, fixedSchedule())

	_, err := uc.Execute(context.Background(), Actor{ID: 20, Role: roles.Worker}, b.ID, "CONFIRMED")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTransition))

	stored, err := repo.GetBooking(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), stored.Status)
	assert.Nil(t, stored.CompletedAt)

	d.Close()
	assert.Empty(t, rec.actions())
}
