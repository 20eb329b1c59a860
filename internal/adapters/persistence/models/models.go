package models

import (
	"time"

	"smart-parking/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Inventory & Driver Directory
// ============================================================

// Slot status values as stored in the slots table
const (
	SlotStatusFree     = "free"
	SlotStatusOccupied = "occupied"
)

// Driver roles as stored in the drivers table
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Driver represents drivers table
type Driver struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      string     `gorm:"uniqueIndex;size:100;not null" json:"user_id"`
	OwnerName   string     `gorm:"size:255;not null" json:"owner_name"`
	VehicleName string     `gorm:"size:255;not null" json:"vehicle_name"`
	BankNumber  string     `gorm:"size:255;not null" json:"bank_number"`
	Password    string     `gorm:"size:255;not null" json:"-"`
	Role        string     `gorm:"size:20;not null;default:'user'" json:"role"`
	EntryTime   *time.Time `json:"entry_time"`
	ExitTime    *time.Time `json:"exit_time"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Driver) TableName() string {
	return "drivers"
}

// ToDomain converts the row to a domain driver
func (d *Driver) ToDomain() *domain.Driver {
	return &domain.Driver{
		ID:          d.ID,
		UserID:      d.UserID,
		OwnerName:   d.OwnerName,
		VehicleName: d.VehicleName,
		BankNumber:  d.BankNumber,
		Role:        domain.Role(d.Role),
		CreatedAt:   d.CreatedAt,
		EntryTime:   d.EntryTime,
		ExitTime:    d.ExitTime,
	}
}

// Slot represents slots table
// driver_id is unique so a driver can occupy at most one slot
type Slot struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SlotNumber string    `gorm:"uniqueIndex;size:50;not null" json:"slot_number"`
	Status     string    `gorm:"size:20;not null;default:'free'" json:"status"`
	DriverID   *uint     `gorm:"uniqueIndex" json:"driver_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Driver *Driver `gorm:"foreignKey:DriverID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"driver,omitempty"`
}

func (Slot) TableName() string {
	return "slots"
}

// IsOccupied reports whether the slot row is bound to a driver
func (s *Slot) IsOccupied() bool {
	return s.Status == SlotStatusOccupied
}

// ToDomain converts the row (with optional joined driver) to a snapshot
func (s *Slot) ToDomain() *domain.Slot {
	slot := &domain.Slot{
		ID:        s.ID,
		Number:    s.SlotNumber,
		Status:    domain.SlotStatus(s.Status),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}

	if s.DriverID != nil {
		binding := &domain.OccupancyBinding{
			SlotID:     s.ID,
			SlotNumber: s.SlotNumber,
			DriverID:   *s.DriverID,
		}
		if s.Driver != nil {
			binding.UserID = s.Driver.UserID
			binding.OwnerName = s.Driver.OwnerName
			binding.VehicleName = s.Driver.VehicleName
			if s.Driver.EntryTime != nil {
				binding.EntryTime = *s.Driver.EntryTime
			}
		}
		slot.Occupant = binding
	}

	return slot
}

// ============================================================
// Booking Ledger
// ============================================================

// Booking represents bookings table (append only)
type Booking struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Reference   string    `gorm:"uniqueIndex;size:36;not null" json:"reference"`
	UserID      string    `gorm:"index;size:100;not null" json:"user_id"`
	OwnerName   string    `gorm:"size:255" json:"owner_name"`
	VehicleName string    `gorm:"size:255" json:"vehicle_name"`
	SlotNumber  string    `gorm:"size:50" json:"slot_number"`
	EntryTime   time.Time `gorm:"not null" json:"entry_time"`
	ExitTime    time.Time `gorm:"index;not null" json:"exit_time"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Booking) TableName() string {
	return "bookings"
}

// ToDomain converts the row to a booking record
func (b *Booking) ToDomain() domain.BookingRecord {
	return domain.BookingRecord{
		ID:          b.ID,
		Reference:   b.Reference,
		UserID:      b.UserID,
		OwnerName:   b.OwnerName,
		VehicleName: b.VehicleName,
		SlotNumber:  b.SlotNumber,
		EntryTime:   b.EntryTime,
		ExitTime:    b.ExitTime,
	}
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration (drivers before slots for the FK)
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Driver{},
		&Slot{},
		&Booking{},
	)
}
