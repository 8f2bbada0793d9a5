package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint  `gorm:"not null;index" json:"userId"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"client,omitempty"`

	WorkerID uint  `gorm:"not null;index" json:"workerId"`
	Worker   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"worker,omitempty"`

	ServiceID uint     `gorm:"not null" json:"serviceId"`
	Service   *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service,omitempty"`

	// Date is the calendar day at midnight UTC; Time is the local "HH:MM" start.
	Date time.Time `gorm:"not null" json:"date"`
	Time string    `gorm:"size:5;not null" json:"time"`

	Notes  string `gorm:"size:255" json:"notes"`
	Status string `gorm:"size:20;not null;default:'PENDING'" json:"status"`

	CancelledAt *time.Time `json:"cancelledAt"`
	CompletedAt *time.Time `json:"completedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
