package services

import (
	"context"
	"errors"
	"time"

	"smart-parking/internal/core/domain"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// OccupancyPublisher fans committed slot transitions out to listeners
type OccupancyPublisher interface {
	Publish(ctx context.Context, event domain.OccupancyEvent) error
}

// NopPublisher drops every event (used when no broker is configured)
type NopPublisher struct{}

// Publish implements OccupancyPublisher
func (NopPublisher) Publish(context.Context, domain.OccupancyEvent) error { return nil }

// Clock returns the current time; tests replace it
type Clock func() time.Time

// notFoundOr maps a missing row to the given domain error
func notFoundOr(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

// asDomainError keeps domain errors and wraps everything else as a storage failure
func asDomainError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrStorageFailure) || domain.KindOf(err) != domain.KindStorageFailure {
		return err
	}
	log.Errorf("❌ %s failed: %v", op, err)
	return domain.StorageError(err)
}
