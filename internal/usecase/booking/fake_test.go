package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/lib/sl"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type fakeRepo struct {
	mu       sync.Mutex
	services map[uint]*models.Service
	users    map[uint]*models.User
	bookings map[uint]*models.Booking
	nextID   uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		services: map[uint]*models.Service{
			1: {ID: 1, Name: "Corte", Price: 40, DurationMin: 30},
		},
		users: map[uint]*models.User{
			10: {ID: 10, Name: "Ana", Role: "CLIENT", Active: true},
			11: {ID: 11, Name: "Bia", Role: "CLIENT", Active: true},
			20: {ID: 20, Name: "Joe", Role: "WORKER", Active: true},
			21: {ID: 21, Name: "Max", Role: "WORKER", Active: true},
			22: {ID: 22, Name: "Old", Role: "WORKER", Active: false},
			30: {ID: 30, Name: "Root", Role: "ADMIN", Active: true},
		},
		bookings: map[uint]*models.Booking{},
	}
}

func (f *fakeRepo) GetService(_ context.Context, id uint) (*models.Service, error) {
	if s, ok := f.services[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRepo) GetUser(_ context.Context, id uint) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRepo) CreateBooking(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, other := range f.bookings {
		if other.WorkerID == b.WorkerID && other.Date.Equal(b.Date) &&
			other.Time == b.Time && other.Status != string(domain.StatusCancelled) {
			return httperr.ErrBusiness(httperr.CodeSlotTaken)
		}
	}
	f.nextID++
	b.ID = f.nextID
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeRepo) GetBooking(_ context.Context, id uint) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	cp.User, cp.Worker, cp.Service = f.users[b.UserID], f.users[b.WorkerID], f.services[b.ServiceID]
	return &cp, nil
}

func (f *fakeRepo) UpdateBookingStatus(_ context.Context, b *models.Booking, from domain.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.bookings[b.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Status != string(from) {
		return httperr.ErrBusiness(httperr.CodeInvalidTransition)
	}
	stored.Status, stored.CancelledAt, stored.CompletedAt = b.Status, b.CancelledAt, b.CompletedAt
	return nil
}

func (f *fakeRepo) ListBookings(_ context.Context, flt domain.ListFilter) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Booking
	for id := uint(1); id <= f.nextID; id++ {
		b := f.bookings[id]
		if flt.UserID != nil && b.UserID != *flt.UserID {
			continue
		}
		if flt.WorkerID != nil && b.WorkerID != *flt.WorkerID {
			continue
		}
		if flt.Status != "" && b.Status != string(flt.Status) {
			continue
		}
		if flt.From != nil && b.Date.Before(*flt.From) {
			continue
		}
		if flt.To != nil && b.Date.After(*flt.To) {
			continue
		}
		cp := *b
		cp.User, cp.Worker, cp.Service = f.users[b.UserID], f.users[b.WorkerID], f.services[b.ServiceID]
		out = append(out, cp)
	}
	return out, nil
}

func (f *fakeRepo) TakenTimes(_ context.Context, workerID uint, date time.Time) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for _, b := range f.bookings {
		if b.WorkerID == workerID && b.Date.Equal(date) && b.Status != string(domain.StatusCancelled) {
			out = append(out, b.Time)
		}
	}
	return out, nil
}

type recorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recorder) Log(_ context.Context, ev audit.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Action)
	}
	return out
}

// fixedSchedule runs the shop in UTC at 2030-05-01 08:00.
func fixedSchedule() Schedule {
	now := time.Date(2030, 5, 1, 8, 0, 0, 0, time.UTC)
	return Schedule{
		Loc:   time.UTC,
		Hours: domain.Hours{Open: "09:00", Close: "12:00", Step: 30 * time.Minute},
		Now:   func() time.Time { return now },
	}
}

func newDispatcher(t *testing.T) (*audit.Dispatcher, *recorder) {
	rec := &recorder{}
	d := audit.NewDispatcher(rec, nil, sl.Discard())
	t.Cleanup(d.Close)
	return d, rec
}
