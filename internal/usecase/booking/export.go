package booking

import (
	"bytes"
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/export"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

// maxExportDays bounds a single workbook.
const maxExportDays = 366

type ExportBookings struct {
	repo domain.Repository
}

func NewExportBookings(repo domain.Repository) *ExportBookings {
	return &ExportBookings{repo: repo}
}

func (uc *ExportBookings) Execute(ctx context.Context, from, to time.Time) (*bytes.Buffer, error) {
	if to.Before(from) || to.Sub(from) > maxExportDays*24*time.Hour {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidDate)
	}

	bookings, err := uc.repo.ListBookings(ctx, domain.ListFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	return export.BookingsXLSX(dto.NewBookingList(bookings), from, to)
}
