package repositories

import (
	"context"
	"time"

	"smart-parking/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// slotRepository implements SlotRepository interface
type slotRepository struct {
	db *gorm.DB
}

// NewSlotRepository creates a new slot repository
func NewSlotRepository(db *gorm.DB) SlotRepository {
	return &slotRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *slotRepository) WithTx(tx *gorm.DB) SlotRepository {
	return &slotRepository{db: tx}
}

// forUpdate adds a row lock. SQLite has no row locks; its writers are already serialized.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Create creates a new slot
func (r *slotRepository) Create(ctx context.Context, slot *models.Slot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

// GetByID gets a slot by ID without the driver
func (r *slotRepository) GetByID(ctx context.Context, id uint) (*models.Slot, error) {
	var slot models.Slot
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// GetByIDForUpdate gets a slot by ID and locks the row until the transaction ends
func (r *slotRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Slot, error) {
	var slot models.Slot
	err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// GetOccupiedByForUpdate gets the slot only if it is occupied by the given driver
func (r *slotRepository) GetOccupiedByForUpdate(ctx context.Context, id uint, driverID uint) (*models.Slot, error) {
	var slot models.Slot
	err := forUpdate(r.db.WithContext(ctx)).
		Where("id = ? AND driver_id = ? AND status = ?", id, driverID, models.SlotStatusOccupied).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// GetByDriverID gets the slot a driver currently occupies
func (r *slotRepository) GetByDriverID(ctx context.Context, driverID uint) (*models.Slot, error) {
	var slot models.Slot
	err := r.db.WithContext(ctx).Where("driver_id = ?", driverID).First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// GetSnapshot gets a slot with its occupant in a single statement
func (r *slotRepository) GetSnapshot(ctx context.Context, id uint) (*models.Slot, error) {
	var slot models.Slot
	err := r.db.WithContext(ctx).
		Joins("Driver").
		Where("slots.id = ?", id).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// GetSnapshotByDriverID gets the slot occupied by a driver, joined with the driver
func (r *slotRepository) GetSnapshotByDriverID(ctx context.Context, driverID uint) (*models.Slot, error) {
	var slot models.Slot
	err := r.db.WithContext(ctx).
		Joins("Driver").
		Where("slots.driver_id = ?", driverID).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// List lists all slots with their occupants
func (r *slotRepository) List(ctx context.Context) ([]*models.Slot, error) {
	var slots []*models.Slot
	err := r.db.WithContext(ctx).
		Joins("Driver").
		Order("slots.id ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// ListPage lists slots with pagination
func (r *slotRepository) ListPage(ctx context.Context, offset, limit int) ([]*models.Slot, int64, error) {
	var slots []*models.Slot
	var total int64

	// Count total
	if err := r.db.WithContext(ctx).Model(&models.Slot{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Joins("Driver").
		Order("slots.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&slots).Error
	if err != nil {
		return nil, 0, err
	}

	return slots, total, nil
}

// ListByDriverIDs returns the slots held by any of the given drivers, joined with them
func (r *slotRepository) ListByDriverIDs(ctx context.Context, driverIDs []uint) ([]*models.Slot, error) {
	var slots []*models.Slot
	if len(driverIDs) == 0 {
		return slots, nil
	}
	err := r.db.WithContext(ctx).
		Joins("Driver").
		Where("slots.driver_id IN ?", driverIDs).
		Order("slots.id ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// ListOccupiedSince returns occupied slots whose driver entered before the given time
func (r *slotRepository) ListOccupiedSince(ctx context.Context, before time.Time) ([]*models.Slot, error) {
	var slots []*models.Slot
	enteredBefore := r.db.Model(&models.Driver{}).
		Select("id").
		Where("entry_time IS NOT NULL AND entry_time < ?", before)

	err := r.db.WithContext(ctx).
		Joins("Driver").
		Where("slots.status = ?", models.SlotStatusOccupied).
		Where("slots.driver_id IN (?)", enteredBefore).
		Order("slots.id ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// CountByStatus counts slots in a given status
func (r *slotRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Slot{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// ExistsByNumber checks if a slot number is used by a slot other than excludeID
func (r *slotRepository) ExistsByNumber(ctx context.Context, number string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Slot{}).Where("slot_number = ?", number)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// Occupy binds a free slot to a driver. It changes nothing unless the slot is still free.
func (r *slotRepository) Occupy(ctx context.Context, id uint, driverID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Slot{}).
		Where("id = ? AND status = ?", id, models.SlotStatusFree).
		Updates(map[string]interface{}{
			"status":    models.SlotStatusOccupied,
			"driver_id": driverID,
		})
	return res.RowsAffected == 1, res.Error
}

// Vacate frees an occupied slot. When driverID is set the slot must be held by that driver.
func (r *slotRepository) Vacate(ctx context.Context, id uint, driverID *uint) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Slot{}).
		Where("id = ? AND status = ?", id, models.SlotStatusOccupied)
	if driverID != nil {
		q = q.Where("driver_id = ?", *driverID)
	}
	res := q.Updates(map[string]interface{}{
		"status":    models.SlotStatusFree,
		"driver_id": gorm.Expr("NULL"),
	})
	return res.RowsAffected == 1, res.Error
}

// UpdateNumber renames a slot
func (r *slotRepository) UpdateNumber(ctx context.Context, id uint, number string) error {
	return r.db.WithContext(ctx).
		Model(&models.Slot{}).
		Where("id = ?", id).
		Update("slot_number", number).Error
}

// Delete hard deletes a slot
func (r *slotRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Slot{}, id)
	return res.RowsAffected == 1, res.Error
}
