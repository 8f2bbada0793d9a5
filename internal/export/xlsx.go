// Package export renders booking reports as spreadsheets.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/BruksfildServices01/barber-booking/internal/dto"
)

const sheet = "Bookings"

var header = []string{"ID", "Date", "Time", "Status", "Client", "Client email", "Worker", "Service", "Price", "Notes"}

// BookingsXLSX writes one row per booking under a period title and a header row.
func BookingsXLSX(rows []dto.BookingDTO, from, to time.Time) (*bytes.Buffer, error) {
	const op = "export.BookingsXLSX"

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := f.SetCellValue(sheet, "A1", fmt.Sprintf("Period: %s - %s",
		from.Format("2006-01-02"), to.Format("2006-01-02"))); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := f.SetSheetRow(sheet, "A2", &header); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(header), 2)
		_ = f.SetCellStyle(sheet, "A2", last, style)
	}

	for i, b := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		var clientName, clientEmail, workerName, serviceName string
		var price float64
		if b.Client != nil {
			clientName, clientEmail = b.Client.Name, b.Client.Email
		}
		if b.Worker != nil {
			workerName = b.Worker.Name
		}
		if b.Service != nil {
			serviceName, price = b.Service.Name, b.Service.Price
		}

		values := []any{b.ID, b.Date, b.Time, b.Status, clientName, clientEmail, workerName, serviceName, price, b.Notes}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 8)
	_ = f.SetColWidth(sheet, "E", "H", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf, nil
}
