package services

import (
	"context"
	"errors"
	"strings"

	"smart-parking/internal/adapters/persistence/models"
	"smart-parking/internal/adapters/persistence/repositories"
	"smart-parking/internal/config"
	"smart-parking/internal/core/domain"
	"smart-parking/internal/pkg/jwt"
	"smart-parking/internal/pkg/password"
	"smart-parking/internal/pkg/validator"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// DriverService handles driver accounts. It never writes entry or exit times.
type DriverService struct {
	driverRepo repositories.DriverRepository
	slotRepo   repositories.SlotRepository
	cfg        *config.Config
}

// NewDriverService creates a new driver service
func NewDriverService(
	driverRepo repositories.DriverRepository,
	slotRepo repositories.SlotRepository,
	cfg *config.Config,
) *DriverService {
	return &DriverService{
		driverRepo: driverRepo,
		slotRepo:   slotRepo,
		cfg:        cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	UserID      string `json:"user_id" validate:"required,max=100"`
	Password    string `json:"password" validate:"required,min=8"`
	OwnerName   string `json:"owner_name" validate:"required,max=255"`
	VehicleName string `json:"vehicle_name" validate:"required,max=255"`
	BankNumber  string `json:"bank_number" validate:"required,max=255"`
}

// LoginInput represents login input
type LoginInput struct {
	UserID   string `json:"user_id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileInput represents a self-service profile update.
// Changing the password requires the old one.
type UpdateProfileInput struct {
	OwnerName   *string `json:"owner_name" validate:"omitempty,min=1,max=255"`
	VehicleName *string `json:"vehicle_name" validate:"omitempty,min=1,max=255"`
	BankNumber  *string `json:"bank_number" validate:"omitempty,min=1,max=255"`
	OldPassword string  `json:"old_password"`
	NewPassword string  `json:"new_password" validate:"omitempty,min=8"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Driver      *domain.Driver `json:"driver"`
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresIn   int            `json:"expires_in"`
}

// ListDriversOutput represents one page of drivers
type ListDriversOutput struct {
	Drivers []*domain.Driver `json:"drivers"`
	Total   int64            `json:"total"`
}

// Register creates a new driver account
func (s *DriverService) Register(ctx context.Context, input *RegisterInput) (*domain.Driver, error) {
	input.UserID = strings.TrimSpace(input.UserID)
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	exists, err := s.driverRepo.ExistsByUserID(ctx, input.UserID)
	if err != nil {
		return nil, asDomainError("register", err)
	}
	if exists {
		return nil, domain.ErrUserIDTaken
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, asDomainError("hash password", err)
	}

	driver := &models.Driver{
		UserID:      input.UserID,
		OwnerName:   input.OwnerName,
		VehicleName: input.VehicleName,
		BankNumber:  input.BankNumber,
		Password:    hashedPassword,
		Role:        models.RoleUser,
	}
	if err := s.driverRepo.Create(ctx, driver); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrUserIDTaken
		}
		return nil, asDomainError("register", err)
	}

	log.Infof("✅ Driver registered: %s", driver.UserID)
	return driver.ToDomain(), nil
}

// Login verifies credentials and issues an access token
func (s *DriverService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	driver, err := s.driverRepo.GetByUserID(ctx, strings.TrimSpace(input.UserID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, asDomainError("login", err)
	}

	if !password.Verify(input.Password, driver.Password) {
		log.Warnf("⚠️ Failed login for %s", driver.UserID)
		return nil, domain.ErrInvalidCredentials
	}

	token, err := jwt.GenerateAccessToken(
		driver.ID,
		driver.UserID,
		driver.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, asDomainError("sign token", err)
	}

	return &AuthResponse{
		Driver:      driver.ToDomain(),
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   s.cfg.JWT.AccessTokenMins * 60,
	}, nil
}

// GetProfile returns a driver with the slot currently held, if any
func (s *DriverService) GetProfile(ctx context.Context, userID string) (*domain.Driver, error) {
	driver, err := s.driverRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, asDomainError("get profile", notFoundOr(err, domain.ErrDriverNotFound))
	}

	profile := driver.ToDomain()
	slot, err := s.slotRepo.GetSnapshotByDriverID(ctx, driver.ID)
	switch {
	case err == nil:
		profile.Slot = slot.ToDomain()
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, asDomainError("get profile", err)
	}

	return profile, nil
}

// UpdateProfile changes profile fields and optionally the password
func (s *DriverService) UpdateProfile(ctx context.Context, userID string, input *UpdateProfileInput) (*domain.Driver, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	driver, err := s.driverRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, asDomainError("update profile", notFoundOr(err, domain.ErrDriverNotFound))
	}

	if input.OwnerName != nil {
		driver.OwnerName = *input.OwnerName
	}
	if input.VehicleName != nil {
		driver.VehicleName = *input.VehicleName
	}
	if input.BankNumber != nil {
		driver.BankNumber = *input.BankNumber
	}

	if input.NewPassword != "" {
		if !password.Verify(input.OldPassword, driver.Password) {
			return nil, domain.ErrOldPasswordWrong
		}
		hashedPassword, err := password.Hash(input.NewPassword)
		if err != nil {
			return nil, asDomainError("hash password", err)
		}
		driver.Password = hashedPassword
	}

	if err := s.driverRepo.UpdateProfile(ctx, driver); err != nil {
		return nil, asDomainError("update profile", err)
	}

	log.Infof("✅ Driver profile updated: %s", driver.UserID)
	return s.GetProfile(ctx, userID)
}

// ResolveID maps an external user id to the internal driver id
func (s *DriverService) ResolveID(ctx context.Context, userID string) (uint, error) {
	driver, err := s.driverRepo.GetByUserID(ctx, userID)
	if err != nil {
		return 0, asDomainError("resolve driver", notFoundOr(err, domain.ErrDriverNotFound))
	}
	return driver.ID, nil
}

// List returns a page of drivers, each with the slot it holds
func (s *DriverService) List(ctx context.Context, offset, limit int) (*ListDriversOutput, error) {
	rows, total, err := s.driverRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, asDomainError("list drivers", err)
	}

	ids := make([]uint, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	held, err := s.slotRepo.ListByDriverIDs(ctx, ids)
	if err != nil {
		return nil, asDomainError("list drivers", err)
	}
	slotByDriver := make(map[uint]*models.Slot, len(held))
	for _, slot := range held {
		slotByDriver[*slot.DriverID] = slot
	}

	drivers := make([]*domain.Driver, len(rows))
	for i, row := range rows {
		drivers[i] = row.ToDomain()
		if slot, ok := slotByDriver[row.ID]; ok {
			drivers[i].Slot = slot.ToDomain()
		}
	}

	return &ListDriversOutput{Drivers: drivers, Total: total}, nil
}
