package receipt

import (
	"bytes"
	"fmt"
	"time"

	"smart-parking/internal/core/domain"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// TimeLayout is used for every timestamp printed on a receipt
const TimeLayout = "2006-01-02 15:04:05"

// QRPayload is the text encoded in the receipt QR code
func QRPayload(record *domain.BookingRecord) string {
	return fmt.Sprintf("booking:%d|%s|%s", record.ID, record.Reference, record.SlotNumber)
}

// Render builds a one page A4 PDF receipt for a booking
func Render(record *domain.BookingRecord) ([]byte, error) {
	qrPNG, err := qrcode.Encode(QRPayload(record), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Parking receipt #%d", record.ID), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Parking Receipt")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 12)
	lines := []string{
		fmt.Sprintf("Booking: #%d", record.ID),
		fmt.Sprintf("Reference: %s", record.Reference),
		fmt.Sprintf("Slot: %s", record.SlotNumber),
		fmt.Sprintf("Driver: %s (%s)", record.OwnerName, record.UserID),
		fmt.Sprintf("Vehicle: %s", record.VehicleName),
		fmt.Sprintf("Entry: %s", record.EntryTime.Format(TimeLayout)),
		fmt.Sprintf("Exit: %s", record.ExitTime.Format(TimeLayout)),
		fmt.Sprintf("Duration: %s", record.Duration().Round(time.Second)),
	}
	for _, line := range lines {
		pdf.Cell(0, 10, line)
		pdf.Ln(8)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 30, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}
