package domain

import "time"

// Role represents driver role in the system
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// SlotStatus is the occupancy state of a slot
type SlotStatus string

const (
	SlotFree     SlotStatus = "free"
	SlotOccupied SlotStatus = "occupied"
)

// ParseSlotStatus validates a status coming from outside the core
func ParseSlotStatus(s string) (SlotStatus, error) {
	switch SlotStatus(s) {
	case SlotFree, SlotOccupied:
		return SlotStatus(s), nil
	}
	return "", ErrInvalidSlotStatus
}

// OccupancyBinding is the mutual reference between an occupied slot and its
// driver together with the open entry timestamp.
type OccupancyBinding struct {
	SlotID      uint      `json:"slot_id"`
	SlotNumber  string    `json:"slot_number"`
	DriverID    uint      `json:"driver_id"`
	UserID      string    `json:"user_id"`
	OwnerName   string    `json:"owner_name,omitempty"`
	VehicleName string    `json:"vehicle_name,omitempty"`
	EntryTime   time.Time `json:"entry_time"`
}

// OccupancyReceipt is returned by a successful reserve
type OccupancyReceipt = OccupancyBinding

// Slot is a point-in-time snapshot of a parking slot
type Slot struct {
	ID        uint              `json:"id"`
	Number    string            `json:"slot_number"`
	Status    SlotStatus        `json:"status"`
	Occupant  *OccupancyBinding `json:"occupant,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// IsFree reports whether the slot can be reserved
func (s *Slot) IsFree() bool {
	return s.Status == SlotFree
}

// Driver represents a registered account able to hold a slot
type Driver struct {
	ID          uint       `json:"id"`
	UserID      string     `json:"user_id"`
	OwnerName   string     `json:"owner_name"`
	VehicleName string     `json:"vehicle_name"`
	BankNumber  string     `json:"bank_number"`
	Role        Role       `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	EntryTime   *time.Time `json:"entry_time"`
	ExitTime    *time.Time `json:"exit_time"`
	Slot        *Slot      `json:"slot,omitempty"`
}

// IsAdmin reports whether the driver has the admin role
func (d *Driver) IsAdmin() bool {
	return d.Role == RoleAdmin
}

// BookingRecord is an archived, immutable occupancy interval
type BookingRecord struct {
	ID          uint      `json:"id"`
	Reference   string    `json:"reference"`
	UserID      string    `json:"user_id"`
	OwnerName   string    `json:"owner_name"`
	VehicleName string    `json:"vehicle_name"`
	SlotNumber  string    `json:"slot_number"`
	EntryTime   time.Time `json:"entry_time"`
	ExitTime    time.Time `json:"exit_time"`
}

// Duration of the parked interval
func (b *BookingRecord) Duration() time.Duration {
	return b.ExitTime.Sub(b.EntryTime)
}

// OccupancyEventType names a slot lifecycle event
type OccupancyEventType string

const (
	EventReserved OccupancyEventType = "reserved"
	EventReleased OccupancyEventType = "released"
	EventExited   OccupancyEventType = "exited"
	EventOverstay OccupancyEventType = "overstay"
)

// OccupancyEvent is published after a committed slot transition
type OccupancyEvent struct {
	Type       OccupancyEventType `json:"type"`
	SlotID     uint               `json:"slot_id"`
	SlotNumber string             `json:"slot_number"`
	UserID     string             `json:"user_id,omitempty"`
	At         time.Time          `json:"at"`
}
