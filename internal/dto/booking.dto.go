package dto

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type PartyDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type ServiceRefDTO struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	DurationMin int     `json:"durationMin"`
}

type BookingDTO struct {
	ID     uint   `json:"id"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Status string `json:"status"`
	Notes  string `json:"notes"`

	UserID    uint `json:"userId"`
	WorkerID  uint `json:"workerId"`
	ServiceID uint `json:"serviceId"`

	Client  *PartyDTO      `json:"client,omitempty"`
	Worker  *PartyDTO      `json:"worker,omitempty"`
	Service *ServiceRefDTO `json:"service,omitempty"`

	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func party(u *models.User, withEmail bool) *PartyDTO {
	if u == nil {
		return nil
	}
	p := &PartyDTO{ID: u.ID, Name: u.Name}
	if withEmail {
		p.Email = u.Email
	}
	return p
}

func NewBookingDTO(b *models.Booking) BookingDTO {
	out := BookingDTO{
		ID:          b.ID,
		Date:        b.Date.UTC().Format("2006-01-02"),
		Time:        b.Time,
		Status:      b.Status,
		Notes:       b.Notes,
		UserID:      b.UserID,
		WorkerID:    b.WorkerID,
		ServiceID:   b.ServiceID,
		Client:      party(b.User, true),
		Worker:      party(b.Worker, false),
		CancelledAt: b.CancelledAt,
		CompletedAt: b.CompletedAt,
		CreatedAt:   b.CreatedAt,
	}
	if b.Service != nil {
		out.Service = &ServiceRefDTO{
			ID:          b.Service.ID,
			Name:        b.Service.Name,
			Price:       b.Service.Price,
			DurationMin: b.Service.DurationMin,
		}
	}
	return out
}

func NewBookingList(bookings []models.Booking) []BookingDTO {
	out := make([]BookingDTO, 0, len(bookings))
	for i := range bookings {
		out = append(out, NewBookingDTO(&bookings[i]))
	}
	return out
}

// WorkerDTO is the public profile of a worker.
type WorkerDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	Specialties string `json:"specialties"`
	AvatarURL   string `json:"avatarUrl"`
}

func NewWorkerList(users []models.User) []WorkerDTO {
	out := make([]WorkerDTO, 0, len(users))
	for _, u := range users {
		out = append(out, WorkerDTO{
			ID:          u.ID,
			Name:        u.Name,
			Bio:         u.Bio,
			Specialties: u.Specialties,
			AvatarURL:   u.AvatarURL,
		})
	}
	return out
}
