package booking

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/domain/roles"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// Actor is the authenticated caller of a use case.
type Actor struct {
	ID   uint
	Role roles.Role
}

func (a Actor) IsAdmin() bool { return a.Role == roles.Admin }

// Schedule is the shop calendar every booking use case shares.
type Schedule struct {
	Loc        *time.Location
	Hours      domain.Hours
	MinAdvance time.Duration
	Now        func() time.Time
}

func NewSchedule(cfg config.BookingConfig) Schedule {
	return Schedule{
		Loc: timezone.Location(cfg.Timezone),
		Hours: domain.Hours{
			Open:  cfg.OpenAt,
			Close: cfg.CloseAt,
			Step:  time.Duration(cfg.SlotMinutes) * time.Minute,
		},
		MinAdvance: time.Duration(cfg.MinAdvanceMinutes) * time.Minute,
		Now:        time.Now,
	}
}

func (s Schedule) now() time.Time {
	if s.Now == nil {
		return time.Now().In(s.Loc)
	}
	return s.Now().In(s.Loc)
}

// earliest is the first instant a new booking may start at.
func (s Schedule) earliest() time.Time {
	return s.now().Add(s.MinAdvance)
}
