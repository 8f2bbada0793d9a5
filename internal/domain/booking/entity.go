package booking

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Transition(b *models.Booking, to Status, now time.Time) error {
	if err := CanTransition(Status(b.Status), to); err != nil {
		return err
	}

	b.Status = string(to)
	switch to {
	case StatusCancelled:
		b.CancelledAt = &now
	case StatusComplete:
		b.CompletedAt = &now
	}
	return nil
}

func Cancel(b *models.Booking, now time.Time) error {
	return Transition(b, StatusCancelled, now)
}
