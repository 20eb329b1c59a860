package services

import (
	"context"
	"errors"
	"iter"

	"smart-parking/internal/adapters/persistence/models"
	"smart-parking/internal/adapters/persistence/repositories"
	"smart-parking/internal/core/domain"
	"smart-parking/internal/pkg/receipt"
)

// DefaultAllBookingsSentinel is the legacy user id that lists every booking
const DefaultAllBookingsSentinel = "1000"

var errStopScan = errors.New("scan stopped")

// BookingService reads the booking ledger. Records are only ever written by
// AllocationService.Exit.
type BookingService struct {
	bookingRepo repositories.BookingRepository
	allSentinel string
	batchSize   int
	render      func(*domain.BookingRecord) ([]byte, error)
}

// NewBookingService creates a new booking service
func NewBookingService(bookingRepo repositories.BookingRepository, allSentinel string) *BookingService {
	if allSentinel == "" {
		allSentinel = DefaultAllBookingsSentinel
	}
	return &BookingService{
		bookingRepo: bookingRepo,
		allSentinel: allSentinel,
		batchSize:   repositories.DefaultBatchSize,
		render:      receipt.Render,
	}
}

// ListAll yields every booking oldest first. Ranging again restarts the scan.
func (s *BookingService) ListAll(ctx context.Context) iter.Seq2[domain.BookingRecord, error] {
	return s.scan(ctx, repositories.BookingFilter{})
}

// ListByDriver yields one driver's bookings oldest first
func (s *BookingService) ListByDriver(ctx context.Context, userID string) iter.Seq2[domain.BookingRecord, error] {
	return s.scan(ctx, repositories.BookingFilter{UserID: userID})
}

// List keeps the legacy contract: the sentinel user id bypasses the driver filter
func (s *BookingService) List(ctx context.Context, userID string) ([]domain.BookingRecord, error) {
	if s.IsAllSentinel(userID) {
		return Collect(s.ListAll(ctx))
	}
	return Collect(s.ListByDriver(ctx, userID))
}

// IsAllSentinel reports whether userID is the "all bookings" marker
func (s *BookingService) IsAllSentinel(userID string) bool {
	return userID == s.allSentinel
}

// Get returns a single booking record
func (s *BookingService) Get(ctx context.Context, id uint) (*domain.BookingRecord, error) {
	row, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, asDomainError("get booking", notFoundOr(err, domain.ErrBookingNotFound))
	}
	record := row.ToDomain()
	return &record, nil
}

// Receipt renders the PDF receipt of a booking. A record rejected by allow is
// reported as not found and never rendered.
func (s *BookingService) Receipt(ctx context.Context, id uint, allow func(*domain.BookingRecord) bool) (*domain.BookingRecord, []byte, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if allow != nil && !allow(record) {
		return nil, nil, domain.ErrBookingNotFound
	}

	pdf, err := s.render(record)
	if err != nil {
		return nil, nil, asDomainError("render receipt", err)
	}
	return record, pdf, nil
}

func (s *BookingService) scan(ctx context.Context, filter repositories.BookingFilter) iter.Seq2[domain.BookingRecord, error] {
	return func(yield func(domain.BookingRecord, error) bool) {
		err := s.bookingRepo.Each(ctx, filter, s.batchSize, func(batch []models.Booking) error {
			for i := range batch {
				if !yield(batch[i].ToDomain(), nil) {
					return errStopScan
				}
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopScan) {
			yield(domain.BookingRecord{}, asDomainError("scan bookings", err))
		}
	}
}

// Collect drains a booking sequence into a slice
func Collect(seq iter.Seq2[domain.BookingRecord, error]) ([]domain.BookingRecord, error) {
	records := make([]domain.BookingRecord, 0)
	for record, err := range seq {
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
