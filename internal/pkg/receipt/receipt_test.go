package receipt

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"smart-parking/internal/core/domain"
)

func sampleRecord() *domain.BookingRecord {
	entry := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	return &domain.BookingRecord{
		ID:          7,
		Reference:   "3f2b8c1e-0000-4000-8000-000000000007",
		UserID:      "U1",
		OwnerName:   "Somchai",
		VehicleName: "Civic",
		SlotNumber:  "A1",
		EntryTime:   entry,
		ExitTime:    entry.Add(90 * time.Minute),
	}
}

func TestQRPayload_ContainsIdentity(t *testing.T) {
	got := QRPayload(sampleRecord())
	for _, want := range []string{"booking:7", "3f2b8c1e-0000-4000-8000-000000000007", "A1"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected payload %q to contain %q", got, want)
		}
	}
}

func TestRender_ProducesPDF(t *testing.T) {
	pdf, err := Render(sampleRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Fatalf("expected PDF header, got %q", pdf[:8])
	}
}
