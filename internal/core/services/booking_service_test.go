package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"smart-parking/internal/core/domain"
)

// seedHistory runs one reserve/exit cycle per user id, in order
func seedHistory(t *testing.T, f *fixture, userIDs ...string) {
	t.Helper()
	ctx := context.Background()

	slot := f.addSlot(t, "H1")
	seen := map[string]bool{}
	for _, userID := range userIDs {
		if !seen[userID] {
			f.addDriver(t, userID)
			seen[userID] = true
		}
		if _, err := f.alloc.Reserve(ctx, slot.ID, userID); err != nil {
			t.Fatalf("reserve %s: %v", userID, err)
		}
		f.advance(5 * time.Minute)
		if _, err := f.alloc.Exit(ctx, slot.ID, userID); err != nil {
			t.Fatalf("exit %s: %v", userID, err)
		}
	}
}

func TestBookingService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedHistory(t, f, "U1", "U2", "U1", "U3", "U1")

	tests := []struct {
		name   string
		userID string
		want   int
	}{
		{"sentinel lists everything", DefaultAllBookingsSentinel, 5},
		{"single driver", "U1", 3},
		{"driver without bookings", "nobody", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := f.bookings.List(ctx, tt.userID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(records) != tt.want {
				t.Fatalf("expected %d bookings, got %d", tt.want, len(records))
			}
			if records == nil {
				t.Fatalf("expected empty slice, got nil")
			}
		})
	}
}

func TestBookingService_ListAllOrderedAcrossBatches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedHistory(t, f, "U1", "U2", "U3", "U4", "U5")
	f.bookings.batchSize = 2

	records, err := Collect(f.bookings.ListAll(ctx))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 bookings, got %d", len(records))
	}
	for i, want := range []string{"U1", "U2", "U3", "U4", "U5"} {
		if records[i].UserID != want {
			t.Fatalf("booking %d belongs to %s, want %s", i, records[i].UserID, want)
		}
	}
}

func TestBookingService_SequenceStopsEarlyAndRestarts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedHistory(t, f, "U1", "U2", "U3", "U4")
	f.bookings.batchSize = 1

	seq := f.bookings.ListAll(ctx)

	var firstTwo []string
	for record, err := range seq {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		firstTwo = append(firstTwo, record.UserID)
		if len(firstTwo) == 2 {
			break
		}
	}
	if len(firstTwo) != 2 || firstTwo[0] != "U1" || firstTwo[1] != "U2" {
		t.Fatalf("unexpected prefix: %v", firstTwo)
	}

	all, err := Collect(seq)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 4 || all[0].UserID != "U1" {
		t.Fatalf("restarted scan should yield every booking from the start, got %d", len(all))
	}
}

func TestBookingService_IsAllSentinel(t *testing.T) {
	svc := NewBookingService(nil, "everyone")
	if !svc.IsAllSentinel("everyone") || svc.IsAllSentinel(DefaultAllBookingsSentinel) {
		t.Fatalf("custom sentinel not honoured")
	}
	if !NewBookingService(nil, "").IsAllSentinel("1000") {
		t.Fatalf("default sentinel should be 1000")
	}
}

func TestBookingService_GetAndReceipt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedHistory(t, f, "U1")

	records, err := f.bookings.List(ctx, "U1")
	if err != nil || len(records) != 1 {
		t.Fatalf("expected one booking, got %d (%v)", len(records), err)
	}

	record, pdf, err := f.bookings.Receipt(ctx, records[0].ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Reference != records[0].Reference {
		t.Fatalf("receipt for wrong booking: %+v", record)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Fatalf("receipt is not a pdf")
	}

	if _, err := f.bookings.Get(ctx, 9999); !errors.Is(err, domain.ErrBookingNotFound) {
		t.Fatalf("expected booking not found, got %v", err)
	}
	if _, _, err := f.bookings.Receipt(ctx, 9999, nil); domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBookingService_ReceiptDeniedIsNotRendered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedHistory(t, f, "U1")

	records, err := f.bookings.List(ctx, "U1")
	if err != nil || len(records) != 1 {
		t.Fatalf("expected one booking, got %d (%v)", len(records), err)
	}

	rendered := 0
	f.bookings.render = func(*domain.BookingRecord) ([]byte, error) {
		rendered++
		return []byte("%PDF-"), nil
	}
	ownedByU2 := func(record *domain.BookingRecord) bool { return record.UserID == "U2" }

	record, pdf, err := f.bookings.Receipt(ctx, records[0].ID, ownedByU2)
	if !errors.Is(err, domain.ErrBookingNotFound) {
		t.Fatalf("expected booking not found, got %v", err)
	}
	if record != nil || pdf != nil {
		t.Fatalf("denied receipt leaked data: %+v", record)
	}
	if rendered != 0 {
		t.Fatalf("denied receipt was rendered %d times", rendered)
	}

	if _, _, err := f.bookings.Receipt(ctx, records[0].ID, func(*domain.BookingRecord) bool { return true }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rendered != 1 {
		t.Fatalf("expected one render, got %d", rendered)
	}
}
