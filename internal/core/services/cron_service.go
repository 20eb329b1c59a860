package services

import (
	"context"
	"fmt"
	"time"

	"smart-parking/internal/adapters/persistence/models"
	"smart-parking/internal/adapters/persistence/repositories"
	"smart-parking/internal/config"
	"smart-parking/internal/core/domain"

	"github.com/gofiber/fiber/v2/log"
	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

const jobTimeout = time.Minute

// CronService runs the read-only background jobs: the overstay audit and the
// daily ledger summary.
type CronService struct {
	slotRepo    repositories.SlotRepository
	bookingRepo repositories.BookingRepository
	publisher   OccupancyPublisher
	cfg         config.ParkingConfig
	cron        *cron.Cron
	clock       Clock
}

// DailySummary is the ledger and occupancy digest for one calendar day
type DailySummary struct {
	Day           time.Time `json:"day"`
	Exits         int64     `json:"exits"`
	OccupiedSlots int64     `json:"occupied_slots"`
	FreeSlots     int64     `json:"free_slots"`
}

// NewCronService creates a new cron service
func NewCronService(
	slotRepo repositories.SlotRepository,
	bookingRepo repositories.BookingRepository,
	publisher OccupancyPublisher,
	cfg config.ParkingConfig,
) *CronService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &CronService{
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		publisher:   publisher,
		cfg:         cfg,
		cron:        cron.New(),
		clock:       time.Now,
	}
}

// SetClock replaces the time source
func (s *CronService) SetClock(clock Clock) {
	s.clock = clock
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.AuditSchedule, s.runAudit); err != nil {
		return fmt.Errorf("invalid AUDIT_SCHEDULE %q: %w", s.cfg.AuditSchedule, err)
	}
	if _, err := s.cron.AddFunc(s.cfg.SummarySchedule, s.runSummary); err != nil {
		return fmt.Errorf("invalid SUMMARY_SCHEDULE %q: %w", s.cfg.SummarySchedule, err)
	}

	s.cron.Start()
	log.Infof("⏰ Cron started [audit: %s, summary: %s]", s.cfg.AuditSchedule, s.cfg.SummarySchedule)
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Info("🛑 Cron stopped")
}

func (s *CronService) runAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.AuditOverstays(ctx); err != nil {
		log.Errorf("❌ Overstay audit failed: %v", err)
	}
}

func (s *CronService) runSummary() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.DailySummary(ctx); err != nil {
		log.Errorf("❌ Daily summary failed: %v", err)
	}
}

// AuditOverstays reports occupied slots whose driver entered more than
// OverstayHours ago. Nothing is modified.
func (s *CronService) AuditOverstays(ctx context.Context) ([]*domain.Slot, error) {
	at := s.clock()
	cutoff := at.Add(-time.Duration(s.cfg.OverstayHours) * time.Hour)

	rows, err := s.slotRepo.ListOccupiedSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	slots := toDomainSlots(rows)
	for _, slot := range slots {
		event := domain.OccupancyEvent{
			Type:       domain.EventOverstay,
			SlotID:     slot.ID,
			SlotNumber: slot.Number,
			At:         at,
		}
		if slot.Occupant != nil {
			event.UserID = slot.Occupant.UserID
			log.Warnf("⚠️ Overstay: slot %s held by %s since %s",
				slot.Number, slot.Occupant.UserID, slot.Occupant.EntryTime.Format(time.RFC3339))
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Warnf("⚠️ Failed to publish overstay event for slot %s: %v", slot.Number, err)
		}
	}

	return slots, nil
}

// DailySummary counts the previous calendar day's exits and the current occupancy
func (s *CronService) DailySummary(ctx context.Context) (*DailySummary, error) {
	today := now.With(s.clock()).BeginningOfDay()
	yesterday := today.AddDate(0, 0, -1)

	exits, err := s.bookingRepo.CountExitedBetween(ctx, yesterday, today)
	if err != nil {
		return nil, err
	}
	occupied, err := s.slotRepo.CountByStatus(ctx, models.SlotStatusOccupied)
	if err != nil {
		return nil, err
	}
	free, err := s.slotRepo.CountByStatus(ctx, models.SlotStatusFree)
	if err != nil {
		return nil, err
	}

	summary := &DailySummary{
		Day:           yesterday,
		Exits:         exits,
		OccupiedSlots: occupied,
		FreeSlots:     free,
	}
	log.Infof("📊 Summary for %s: %d exits, %d occupied, %d free",
		yesterday.Format("2006-01-02"), exits, occupied, free)

	return summary, nil
}
