package repositories

import (
	"context"
	"time"

	"smart-parking/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// driverRepository implements DriverRepository interface
type driverRepository struct {
	db *gorm.DB
}

// NewDriverRepository creates a new driver repository
func NewDriverRepository(db *gorm.DB) DriverRepository {
	return &driverRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *driverRepository) WithTx(tx *gorm.DB) DriverRepository {
	return &driverRepository{db: tx}
}

// Create creates a new driver
func (r *driverRepository) Create(ctx context.Context, driver *models.Driver) error {
	return r.db.WithContext(ctx).Create(driver).Error
}

// GetByID gets a driver by ID
func (r *driverRepository) GetByID(ctx context.Context, id uint) (*models.Driver, error) {
	var driver models.Driver
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&driver).Error
	if err != nil {
		return nil, err
	}
	return &driver, nil
}

// GetByUserID gets a driver by external user id
func (r *driverRepository) GetByUserID(ctx context.Context, userID string) (*models.Driver, error) {
	var driver models.Driver
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&driver).Error
	if err != nil {
		return nil, err
	}
	return &driver, nil
}

// ExistsByUserID checks if user id exists
func (r *driverRepository) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Driver{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

// UpdateProfile updates profile columns only
func (r *driverRepository) UpdateProfile(ctx context.Context, driver *models.Driver) error {
	return r.db.WithContext(ctx).
		Model(driver).
		Select("owner_name", "vehicle_name", "bank_number", "password").
		Updates(driver).Error
}

// SetEntryTime stamps the start of an occupancy
func (r *driverRepository) SetEntryTime(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Driver{}).
		Where("id = ?", id).
		Update("entry_time", at).Error
}

// SetExitTime stamps the end of an occupancy
func (r *driverRepository) SetExitTime(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Driver{}).
		Where("id = ?", id).
		Update("exit_time", at).Error
}

// List lists drivers with pagination
func (r *driverRepository) List(ctx context.Context, offset, limit int) ([]*models.Driver, int64, error) {
	var drivers []*models.Driver
	var total int64

	// Count total
	if err := r.db.WithContext(ctx).Model(&models.Driver{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Get drivers with pagination
	if err := r.db.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&drivers).Error; err != nil {
		return nil, 0, err
	}

	return drivers, total, nil
}
