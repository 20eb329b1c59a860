package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"smart-parking/internal/adapters/persistence/models"
	"smart-parking/internal/adapters/persistence/repositories"
	"smart-parking/internal/core/domain"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AllocationService is the only writer of slot status/occupant and of driver
// entry/exit times. Every mutation runs in one transaction across slots,
// drivers and bookings.
type AllocationService struct {
	db          *gorm.DB
	slotRepo    repositories.SlotRepository
	driverRepo  repositories.DriverRepository
	bookingRepo repositories.BookingRepository
	publisher   OccupancyPublisher
	now         Clock
}

// NewAllocationService creates a new allocation service
func NewAllocationService(
	db *gorm.DB,
	slotRepo repositories.SlotRepository,
	driverRepo repositories.DriverRepository,
	bookingRepo repositories.BookingRepository,
	publisher OccupancyPublisher,
) *AllocationService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &AllocationService{
		db:          db,
		slotRepo:    slotRepo,
		driverRepo:  driverRepo,
		bookingRepo: bookingRepo,
		publisher:   publisher,
		now:         time.Now,
	}
}

// SetClock replaces the time source
func (s *AllocationService) SetClock(now Clock) {
	s.now = now
}

// timestamp is millisecond precision so it survives a round trip through datetime(3)
func (s *AllocationService) timestamp() time.Time {
	return s.now().Truncate(time.Millisecond)
}

// EditSlotInput represents an administrative slot edit
type EditSlotInput struct {
	Number string
	Status string
}

// ============================================================
// State transitions
// ============================================================

// Reserve binds a free slot to a driver and stamps the driver's entry time
func (s *AllocationService) Reserve(ctx context.Context, slotID uint, userID string) (*domain.OccupancyReceipt, error) {
	var receipt *domain.OccupancyReceipt

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slots := s.slotRepo.WithTx(tx)
		drivers := s.driverRepo.WithTx(tx)

		slot, err := slots.GetByIDForUpdate(ctx, slotID)
		if err != nil {
			return notFoundOr(err, domain.ErrSlotNotFound)
		}
		if slot.IsOccupied() {
			return domain.ErrSlotOccupied
		}

		driver, err := drivers.GetByUserID(ctx, userID)
		if err != nil {
			return notFoundOr(err, domain.ErrDriverNotFound)
		}

		// The unique index on slots.driver_id backs this check up under races
		if _, err := slots.GetByDriverID(ctx, driver.ID); err == nil {
			return domain.ErrDriverAlreadyParked
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		ok, err := slots.Occupy(ctx, slot.ID, driver.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrDriverAlreadyParked
			}
			return err
		}
		if !ok {
			return domain.ErrSlotOccupied
		}

		entry := s.timestamp()
		if err := drivers.SetEntryTime(ctx, driver.ID, entry); err != nil {
			return err
		}

		receipt = &domain.OccupancyReceipt{
			SlotID:      slot.ID,
			SlotNumber:  slot.SlotNumber,
			DriverID:    driver.ID,
			UserID:      driver.UserID,
			OwnerName:   driver.OwnerName,
			VehicleName: driver.VehicleName,
			EntryTime:   entry,
		}
		return nil
	})
	if err != nil {
		return nil, asDomainError("reserve", err)
	}

	log.Infof("🚗 Slot %s reserved by %s", receipt.SlotNumber, receipt.UserID)
	s.publish(ctx, domain.OccupancyEvent{
		Type:       domain.EventReserved,
		SlotID:     receipt.SlotID,
		SlotNumber: receipt.SlotNumber,
		UserID:     receipt.UserID,
		At:         receipt.EntryTime,
	})

	return receipt, nil
}

// Release is the administrative cancel: it frees the slot without touching
// driver times or the ledger. Releasing a free slot is a no-op and returns false.
func (s *AllocationService) Release(ctx context.Context, slotID uint) (bool, error) {
	var (
		released bool
		slot     *models.Slot
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slots := s.slotRepo.WithTx(tx)

		var err error
		slot, err = slots.GetByIDForUpdate(ctx, slotID)
		if err != nil {
			return notFoundOr(err, domain.ErrSlotNotFound)
		}
		if !slot.IsOccupied() {
			return nil
		}

		released, err = slots.Vacate(ctx, slot.ID, nil)
		return err
	})
	if err != nil {
		return false, asDomainError("release", err)
	}

	if !released {
		log.Warnf("⚠️ Release of slot %s ignored: already free", slot.SlotNumber)
		return false, nil
	}

	log.Infof("🅿️ Slot %s released by administrator", slot.SlotNumber)
	s.publish(ctx, domain.OccupancyEvent{
		Type:       domain.EventReleased,
		SlotID:     slot.ID,
		SlotNumber: slot.SlotNumber,
		At:         s.timestamp(),
	})

	return true, nil
}

// Exit ends a driver's occupancy and archives it. The exit stamp, the ledger
// append and the slot release commit or roll back together.
func (s *AllocationService) Exit(ctx context.Context, slotID uint, userID string) (*domain.BookingRecord, error) {
	var booking *models.Booking

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slots := s.slotRepo.WithTx(tx)
		drivers := s.driverRepo.WithTx(tx)
		bookings := s.bookingRepo.WithTx(tx)

		driver, err := drivers.GetByUserID(ctx, userID)
		if err != nil {
			return notFoundOr(err, domain.ErrDriverNotFound)
		}

		slot, err := slots.GetOccupiedByForUpdate(ctx, slotID, driver.ID)
		if err != nil {
			return notFoundOr(err, domain.ErrSlotNotBookedByDriver)
		}

		exit := s.timestamp()
		if err := drivers.SetExitTime(ctx, driver.ID, exit); err != nil {
			return err
		}

		entry := exit
		if driver.EntryTime != nil {
			entry = *driver.EntryTime
		}

		booking = &models.Booking{
			Reference:   uuid.New().String(),
			UserID:      driver.UserID,
			OwnerName:   driver.OwnerName,
			VehicleName: driver.VehicleName,
			SlotNumber:  slot.SlotNumber,
			EntryTime:   entry,
			ExitTime:    exit,
		}
		if err := bookings.Append(ctx, booking); err != nil {
			return err
		}

		ok, err := slots.Vacate(ctx, slot.ID, &driver.ID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrSlotNotBookedByDriver
		}
		return nil
	})
	if err != nil {
		return nil, asDomainError("exit", err)
	}

	record := booking.ToDomain()
	log.Infof("✅ Slot %s exited by %s, booking #%d recorded", record.SlotNumber, record.UserID, record.ID)
	s.publish(ctx, domain.OccupancyEvent{
		Type:       domain.EventExited,
		SlotID:     slotID,
		SlotNumber: record.SlotNumber,
		UserID:     record.UserID,
		At:         record.ExitTime,
	})

	return &record, nil
}

// ============================================================
// Queries
// ============================================================

// GetSlot returns a consistent snapshot of a slot
func (s *AllocationService) GetSlot(ctx context.Context, slotID uint) (*domain.Slot, error) {
	slot, err := s.slotRepo.GetSnapshot(ctx, slotID)
	if err != nil {
		return nil, asDomainError("get slot", notFoundOr(err, domain.ErrSlotNotFound))
	}
	return slot.ToDomain(), nil
}

// GetSlotByDriver returns the slot currently held by a driver
func (s *AllocationService) GetSlotByDriver(ctx context.Context, userID string) (*domain.Slot, error) {
	driver, err := s.driverRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, asDomainError("get driver", notFoundOr(err, domain.ErrDriverNotFound))
	}

	slot, err := s.slotRepo.GetSnapshotByDriverID(ctx, driver.ID)
	if err != nil {
		return nil, asDomainError("get slot by driver", notFoundOr(err, domain.ErrNoActiveSlot))
	}
	return slot.ToDomain(), nil
}

// ListSlots returns every slot ordered by id
func (s *AllocationService) ListSlots(ctx context.Context) ([]*domain.Slot, error) {
	rows, err := s.slotRepo.List(ctx)
	if err != nil {
		return nil, asDomainError("list slots", err)
	}
	return toDomainSlots(rows), nil
}

// ListSlotsPage returns one page of slots and the total count
func (s *AllocationService) ListSlotsPage(ctx context.Context, offset, limit int) ([]*domain.Slot, int64, error) {
	rows, total, err := s.slotRepo.ListPage(ctx, offset, limit)
	if err != nil {
		return nil, 0, asDomainError("list slots", err)
	}
	return toDomainSlots(rows), total, nil
}

func toDomainSlots(rows []*models.Slot) []*domain.Slot {
	slots := make([]*domain.Slot, len(rows))
	for i, row := range rows {
		slots[i] = row.ToDomain()
	}
	return slots
}

// ============================================================
// Administrative inventory
// ============================================================

// AddSlot creates a free slot with a unique number
func (s *AllocationService) AddSlot(ctx context.Context, number string) (*domain.Slot, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, domain.ErrSlotNumberRequired
	}

	exists, err := s.slotRepo.ExistsByNumber(ctx, number, 0)
	if err != nil {
		return nil, asDomainError("add slot", err)
	}
	if exists {
		return nil, domain.ErrSlotNumberTaken
	}

	slot := &models.Slot{
		SlotNumber: number,
		Status:     models.SlotStatusFree,
	}
	if err := s.slotRepo.Create(ctx, slot); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrSlotNumberTaken
		}
		return nil, asDomainError("add slot", err)
	}

	log.Infof("✅ Slot %s added", slot.SlotNumber)
	return slot.ToDomain(), nil
}

// EditSlot renames a slot and optionally changes its status. Setting an
// occupied slot to free clears the occupant; a free slot cannot be marked
// occupied because it would have no occupant.
func (s *AllocationService) EditSlot(ctx context.Context, slotID uint, input EditSlotInput) (*domain.Slot, error) {
	number := strings.TrimSpace(input.Number)
	if number == "" {
		return nil, domain.ErrSlotNumberRequired
	}

	var target domain.SlotStatus
	if input.Status != "" {
		status, err := domain.ParseSlotStatus(input.Status)
		if err != nil {
			return nil, err
		}
		target = status
	}

	var released bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slots := s.slotRepo.WithTx(tx)

		slot, err := slots.GetByIDForUpdate(ctx, slotID)
		if err != nil {
			return notFoundOr(err, domain.ErrSlotNotFound)
		}

		if number != slot.SlotNumber {
			taken, err := slots.ExistsByNumber(ctx, number, slot.ID)
			if err != nil {
				return err
			}
			if taken {
				return domain.ErrSlotNumberTaken
			}
			if err := slots.UpdateNumber(ctx, slot.ID, number); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return domain.ErrSlotNumberTaken
				}
				return err
			}
		}

		switch {
		case target == domain.SlotFree && slot.IsOccupied():
			released, err = slots.Vacate(ctx, slot.ID, nil)
			return err
		case target == domain.SlotOccupied && !slot.IsOccupied():
			return domain.ErrInvalidSlotStatus
		}
		return nil
	})
	if err != nil {
		return nil, asDomainError("edit slot", err)
	}

	updated, err := s.GetSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}

	log.Infof("✅ Slot #%d updated (%s)", updated.ID, updated.Number)
	if released {
		s.publish(ctx, domain.OccupancyEvent{
			Type:       domain.EventReleased,
			SlotID:     updated.ID,
			SlotNumber: updated.Number,
			At:         s.timestamp(),
		})
	}

	return updated, nil
}

// DeleteSlot removes a free slot. Occupied slots must be released or exited first.
func (s *AllocationService) DeleteSlot(ctx context.Context, slotID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slots := s.slotRepo.WithTx(tx)

		slot, err := slots.GetByIDForUpdate(ctx, slotID)
		if err != nil {
			return notFoundOr(err, domain.ErrSlotNotFound)
		}
		if slot.IsOccupied() {
			return domain.ErrSlotOccupied
		}

		deleted, err := slots.Delete(ctx, slot.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return domain.ErrSlotNotFound
		}
		return nil
	})
	if err != nil {
		return asDomainError("delete slot", err)
	}

	log.Infof("🗑️ Slot #%d deleted", slotID)
	return nil
}

// publish sends an event after commit; failures never undo the transition
func (s *AllocationService) publish(ctx context.Context, event domain.OccupancyEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Warnf("⚠️ Failed to publish %s event for slot %s: %v", event.Type, event.SlotNumber, err)
	}
}
