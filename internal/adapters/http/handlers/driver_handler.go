package handlers

import (
	"smart-parking/internal/adapters/http/middleware"
	"smart-parking/internal/core/services"
	"smart-parking/internal/pkg/pagination"
	"smart-parking/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DriverHandler handles driver self-service and directory endpoints
type DriverHandler struct {
	driverService     *services.DriverService
	allocationService *services.AllocationService
}

// NewDriverHandler creates a new driver handler
func NewDriverHandler(driverService *services.DriverService, allocationService *services.AllocationService) *DriverHandler {
	return &DriverHandler{
		driverService:     driverService,
		allocationService: allocationService,
	}
}

// MySlot handles getting the slot held by the signed in driver
// @Summary My slot
// @Description Get the slot the signed in driver currently occupies
// @Tags Me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /me/slot [get]
func (h *DriverHandler) MySlot(c *fiber.Ctx) error {
	slot, err := h.allocationService.GetSlotByDriver(c.Context(), middleware.CurrentUserID(c))
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Success(c, "Booked slot retrieved successfully", slot)
}

// GetProfile handles getting own profile
// @Summary Get profile
// @Description Get the signed in driver's profile and current slot
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /profile [get]
func (h *DriverHandler) GetProfile(c *fiber.Ctx) error {
	driver, err := h.driverService.GetProfile(c.Context(), middleware.CurrentUserID(c))
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Success(c, "Profile retrieved successfully", driver)
}

// UpdateProfile handles updating own profile
// @Summary Update profile
// @Description Update profile fields; a new password requires the old one
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Profile data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /profile [put]
func (h *DriverHandler) UpdateProfile(c *fiber.Ctx) error {
	var req services.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	driver, err := h.driverService.UpdateProfile(c.Context(), middleware.CurrentUserID(c), &req)
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Success(c, "User updated successfully", driver)
}

// ResolveID handles mapping a user id to the internal driver id
// @Summary Resolve driver id
// @Description Get the internal id of a driver by user id
// @Tags Drivers
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "Driver user id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /drivers/{user_id}/id [get]
func (h *DriverHandler) ResolveID(c *fiber.Ctx) error {
	id, err := h.driverService.ResolveID(c.Context(), c.Params("user_id"))
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Success(c, "Driver id retrieved successfully", fiber.Map{
		"id": id,
	})
}

// ListDrivers handles listing drivers (Admin only)
// @Summary List drivers
// @Description Get a paginated list of drivers with their current slot (Admin only)
// @Tags Drivers
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/drivers [get]
func (h *DriverHandler) ListDrivers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	result, err := h.driverService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Success(c, "Drivers retrieved successfully", pagination.NewResponse(result.Drivers, params, result.Total))
}
