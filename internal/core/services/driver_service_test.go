package services

import (
	"context"
	"errors"
	"testing"

	"smart-parking/internal/core/domain"
	"smart-parking/internal/pkg/jwt"
)

func registerDriver(t *testing.T, f *fixture, userID string) *domain.Driver {
	t.Helper()
	driver, err := f.accounts.Register(context.Background(), &RegisterInput{
		UserID:      userID,
		Password:    "password123",
		OwnerName:   "Owner " + userID,
		VehicleName: "Car " + userID,
		BankNumber:  "000-" + userID,
	})
	if err != nil {
		t.Fatalf("register %s: %v", userID, err)
	}
	return driver
}

func TestDriverService_Register(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	driver := registerDriver(t, f, "U1")
	if driver.ID == 0 || driver.Role != domain.RoleUser || driver.EntryTime != nil {
		t.Fatalf("unexpected driver: %+v", driver)
	}

	tests := []struct {
		name  string
		input RegisterInput
		kind  domain.Kind
	}{
		{
			name:  "duplicate user id",
			input: RegisterInput{UserID: "U1", Password: "password123", OwnerName: "x", VehicleName: "y", BankNumber: "z"},
			kind:  domain.KindConflict,
		},
		{
			name:  "missing fields",
			input: RegisterInput{UserID: "U2", Password: "password123"},
			kind:  domain.KindInvalidInput,
		},
		{
			name:  "short password",
			input: RegisterInput{UserID: "U3", Password: "short", OwnerName: "x", VehicleName: "y", BankNumber: "z"},
			kind:  domain.KindInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			if _, err := f.accounts.Register(ctx, &input); domain.KindOf(err) != tt.kind {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
		})
	}
}

func TestDriverService_Login(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	driver := registerDriver(t, f, "U1")

	result, err := f.accounts.Login(ctx, &LoginInput{UserID: "U1", Password: "password123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := jwt.ValidateAccessToken(result.AccessToken, "test-secret")
	if err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
	if claims.DriverID != driver.ID || claims.UserID != "U1" || claims.Role != "user" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if result.ExpiresIn != 15*60 {
		t.Fatalf("expected 900s expiry, got %d", result.ExpiresIn)
	}

	for _, input := range []LoginInput{
		{UserID: "U1", Password: "wrong-password"},
		{UserID: "ghost", Password: "password123"},
	} {
		if _, err := f.accounts.Login(ctx, &input); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected invalid credentials for %s, got %v", input.UserID, err)
		}
	}
}

func TestDriverService_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	registerDriver(t, f, "U1")

	vehicle := "Blue Van"
	updated, err := f.accounts.UpdateProfile(ctx, "U1", &UpdateProfileInput{VehicleName: &vehicle})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.VehicleName != "Blue Van" || updated.OwnerName != "Owner U1" {
		t.Fatalf("unexpected profile: %+v", updated)
	}

	_, err = f.accounts.UpdateProfile(ctx, "U1", &UpdateProfileInput{OldPassword: "nope", NewPassword: "new-password"})
	if !errors.Is(err, domain.ErrOldPasswordWrong) {
		t.Fatalf("expected old password error, got %v", err)
	}

	_, err = f.accounts.UpdateProfile(ctx, "U1", &UpdateProfileInput{OldPassword: "password123", NewPassword: "new-password"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.accounts.Login(ctx, &LoginInput{UserID: "U1", Password: "new-password"}); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}

	if _, err := f.accounts.UpdateProfile(ctx, "ghost", &UpdateProfileInput{}); !errors.Is(err, domain.ErrDriverNotFound) {
		t.Fatalf("expected driver not found, got %v", err)
	}
}

func TestDriverService_ProfileNeverTouchesOccupancy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	registerDriver(t, f, "U1")
	slot := f.addSlot(t, "A1")

	receipt, err := f.alloc.Reserve(ctx, slot.ID, "U1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	owner := "New Owner"
	profile, err := f.accounts.UpdateProfile(ctx, "U1", &UpdateProfileInput{OwnerName: &owner})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.EntryTime == nil || !profile.EntryTime.Equal(receipt.EntryTime) {
		t.Fatalf("entry time changed by profile update: %v", profile.EntryTime)
	}
	if profile.Slot == nil || profile.Slot.ID != slot.ID {
		t.Fatalf("expected profile to show slot %d, got %+v", slot.ID, profile.Slot)
	}
}

func TestDriverService_ResolveAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := registerDriver(t, f, "U1")
	registerDriver(t, f, "U2")
	slot := f.addSlot(t, "A1")

	id, err := f.accounts.ResolveID(ctx, "U1")
	if err != nil || id != u1.ID {
		t.Fatalf("expected id %d, got %d (%v)", u1.ID, id, err)
	}
	if _, err := f.accounts.ResolveID(ctx, "ghost"); !errors.Is(err, domain.ErrDriverNotFound) {
		t.Fatalf("expected driver not found, got %v", err)
	}

	if _, err := f.alloc.Reserve(ctx, slot.ID, "U2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := f.accounts.List(ctx, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Total != 2 || len(out.Drivers) != 2 {
		t.Fatalf("expected 2 drivers, got %+v", out)
	}
	if out.Drivers[0].Slot != nil {
		t.Fatalf("U1 holds no slot, got %+v", out.Drivers[0].Slot)
	}
	if out.Drivers[1].Slot == nil || out.Drivers[1].Slot.Number != "A1" {
		t.Fatalf("U2 should hold A1, got %+v", out.Drivers[1].Slot)
	}
}

func TestDriverService_ProfileSlotMatchesDriverSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	registerDriver(t, f, "U1")
	slot := f.addSlot(t, "A1")

	receipt, err := f.alloc.Reserve(ctx, slot.ID, "U1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	profile, err := f.accounts.GetProfile(ctx, "U1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mine, err := f.alloc.GetSlotByDriver(ctx, "U1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	occupant := profile.Slot.Occupant
	if occupant == nil {
		t.Fatalf("profile slot has no occupant: %+v", profile.Slot)
	}
	if occupant.UserID != "U1" || occupant.OwnerName != "Owner U1" {
		t.Fatalf("profile occupant missing driver fields: %+v", occupant)
	}
	if !occupant.EntryTime.Equal(receipt.EntryTime) {
		t.Fatalf("profile entry %v, want %v", occupant.EntryTime, receipt.EntryTime)
	}
	if occupant.VehicleName != mine.Occupant.VehicleName || !occupant.EntryTime.Equal(mine.Occupant.EntryTime) {
		t.Fatalf("profile occupant %+v differs from my slot %+v", occupant, mine.Occupant)
	}
}
