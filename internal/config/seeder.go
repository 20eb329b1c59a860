package config

import (
	"errors"

	"smart-parking/internal/adapters/persistence/models"
	"smart-parking/internal/pkg/password"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Info("🌱 Running database seeders...")

	if err := s.seedAdminDriver(); err != nil {
		log.Warnf("⚠️ Admin seeder skipped: %v", err)
	}

	if err := s.seedSlots(); err != nil {
		return err
	}

	log.Info("✅ Database seeding completed")
	return nil
}

// seedAdminDriver creates the admin account when ADMIN_PASSWORD is set
func (s *Seeder) seedAdminDriver() error {
	admin := s.cfg.Parking
	if admin.AdminPassword == "" {
		return errors.New("ADMIN_PASSWORD not set")
	}

	var count int64
	if err := s.db.Model(&models.Driver{}).Where("user_id = ?", admin.AdminUserID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash(admin.AdminPassword)
	if err != nil {
		return err
	}

	driver := &models.Driver{
		UserID:      admin.AdminUserID,
		OwnerName:   "Administrator",
		VehicleName: "-",
		BankNumber:  "-",
		Password:    hashedPassword,
		Role:        models.RoleAdmin,
	}
	if err := s.db.Create(driver).Error; err != nil {
		return err
	}

	log.Infof("✅ Admin driver created: %s", driver.UserID)
	return nil
}

// seedSlots creates the slots listed in SEED_SLOTS that do not exist yet
func (s *Seeder) seedSlots() error {
	created := 0
	for _, number := range s.cfg.Parking.SeedSlots {
		var count int64
		if err := s.db.Model(&models.Slot{}).Where("slot_number = ?", number).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		slot := &models.Slot{SlotNumber: number, Status: models.SlotStatusFree}
		if err := s.db.Create(slot).Error; err != nil {
			return err
		}
		created++
	}

	if created > 0 {
		log.Infof("🅿️ Seeded %d parking slots", created)
	}
	return nil
}
