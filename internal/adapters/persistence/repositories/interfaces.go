package repositories

import (
	"context"
	"time"

	"smart-parking/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// SlotRepository defines the inventory store
// Occupy and Vacate are compare-and-set: they report whether a row changed.
type SlotRepository interface {
	WithTx(tx *gorm.DB) SlotRepository
	Create(ctx context.Context, slot *models.Slot) error
	GetByID(ctx context.Context, id uint) (*models.Slot, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Slot, error)
	GetOccupiedByForUpdate(ctx context.Context, id uint, driverID uint) (*models.Slot, error)
	GetByDriverID(ctx context.Context, driverID uint) (*models.Slot, error)
	GetSnapshot(ctx context.Context, id uint) (*models.Slot, error)
	GetSnapshotByDriverID(ctx context.Context, driverID uint) (*models.Slot, error)
	List(ctx context.Context) ([]*models.Slot, error)
	ListPage(ctx context.Context, offset, limit int) ([]*models.Slot, int64, error)
	ListByDriverIDs(ctx context.Context, driverIDs []uint) ([]*models.Slot, error)
	ListOccupiedSince(ctx context.Context, before time.Time) ([]*models.Slot, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	ExistsByNumber(ctx context.Context, number string, excludeID uint) (bool, error)
	Occupy(ctx context.Context, id uint, driverID uint) (bool, error)
	Vacate(ctx context.Context, id uint, driverID *uint) (bool, error)
	UpdateNumber(ctx context.Context, id uint, number string) error
	Delete(ctx context.Context, id uint) (bool, error)
}

// DriverRepository defines the driver directory
// Entry and exit timestamps have dedicated setters so profile updates never touch them.
type DriverRepository interface {
	WithTx(tx *gorm.DB) DriverRepository
	Create(ctx context.Context, driver *models.Driver) error
	GetByID(ctx context.Context, id uint) (*models.Driver, error)
	GetByUserID(ctx context.Context, userID string) (*models.Driver, error)
	ExistsByUserID(ctx context.Context, userID string) (bool, error)
	UpdateProfile(ctx context.Context, driver *models.Driver) error
	SetEntryTime(ctx context.Context, id uint, at time.Time) error
	SetExitTime(ctx context.Context, id uint, at time.Time) error
	List(ctx context.Context, offset, limit int) ([]*models.Driver, int64, error)
}

// BookingFilter narrows a ledger scan; zero value means all bookings
type BookingFilter struct {
	UserID string
}

// BookingRepository defines the append-only booking ledger
type BookingRepository interface {
	WithTx(tx *gorm.DB) BookingRepository
	Append(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id uint) (*models.Booking, error)
	Each(ctx context.Context, filter BookingFilter, batchSize int, fn func(batch []models.Booking) error) error
	CountExitedBetween(ctx context.Context, from, to time.Time) (int64, error)
}
