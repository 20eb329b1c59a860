package repositories

import (
	"context"
	"time"

	"smart-parking/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// DefaultBatchSize is used by Each when the caller passes a non-positive size
const DefaultBatchSize = 100

// bookingRepository implements BookingRepository interface
// Ledger rows are immutable, so it exposes no update or delete.
type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *bookingRepository) WithTx(tx *gorm.DB) BookingRepository {
	return &bookingRepository{db: tx}
}

// Append inserts a new booking record
func (r *bookingRepository) Append(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// GetByID gets a booking by ID
func (r *bookingRepository) GetByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// Each walks the ledger oldest first in batches of batchSize.
// Returning an error from fn stops the walk and is returned as is.
func (r *bookingRepository) Each(ctx context.Context, filter BookingFilter, batchSize int, fn func(batch []models.Booking) error) error {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	q := r.db.WithContext(ctx).Model(&models.Booking{})
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}

	var batch []models.Booking
	return q.FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
		return fn(batch)
	}).Error
}

// CountExitedBetween counts bookings whose exit falls in [from, to)
func (r *bookingRepository) CountExitedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("exit_time >= ? AND exit_time < ?", from, to).
		Count(&count).Error
	return count, err
}
