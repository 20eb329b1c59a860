package handlers

import (
	"strconv"

	"smart-parking/internal/adapters/http/middleware"
	"smart-parking/internal/core/services"
	"smart-parking/internal/pkg/pagination"
	"smart-parking/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SlotHandler handles slot occupancy and inventory endpoints
type SlotHandler struct {
	allocationService *services.AllocationService
}

// NewSlotHandler creates a new slot handler
func NewSlotHandler(allocationService *services.AllocationService) *SlotHandler {
	return &SlotHandler{
		allocationService: allocationService,
	}
}

// OccupancyRequest names the driver for reserve and exit.
// Only administrators may act on behalf of another driver.
type OccupancyRequest struct {
	UserID string `json:"user_id"`
}

// SlotRequest represents add/edit slot request body
type SlotRequest struct {
	SlotNumber string `json:"slot_number"`
	Status     string `json:"status"`
}

// parseID parses the :id path parameter
func parseID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// actingUserID resolves whose occupancy a request changes
func actingUserID(c *fiber.Ctx) string {
	if middleware.IsAdmin(c) {
		var req OccupancyRequest
		if err := c.BodyParser(&req); err == nil && req.UserID != "" {
			return req.UserID
		}
	}
	return middleware.CurrentUserID(c)
}

// ListSlots handles listing slots
// @Summary List slots
// @Description List every slot with its occupant. Pass page or limit for a paginated result.
// @Tags Slots
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /slots [get]
func (h *SlotHandler) ListSlots(c *fiber.Ctx) error {
	if c.Query("page") == "" && c.Query("limit") == "" && c.Query("per_page") == "" {
		slots, err := h.allocationService.ListSlots(c.Context())
		if err != nil {
			return response.Fail(c, err)
		}
		return response.Success(c, "Slots retrieved successfully", slots)
	}

	params := pagination.GetParams(c)
	slots, total, err := h.allocationService.ListSlotsPage(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Success(c, "Slots retrieved successfully", pagination.NewResponse(slots, params, total))
}

// GetSlot handles getting a slot snapshot
// @Summary Get slot
// @Description Get a slot and its current occupant
// @Tags Slots
// @Produce json
// @Security BearerAuth
// @Param id path int true "Slot ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /slots/{id} [get]
func (h *SlotHandler) GetSlot(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid slot ID")
	}

	slot, err := h.allocationService.GetSlot(c.Context(), id)
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Success(c, "Slot retrieved successfully", slot)
}

// Reserve handles reserving a slot
// @Summary Reserve slot
// @Description Bind a free slot to the signed in driver (administrators may pass user_id)
// @Tags Slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Slot ID"
// @Param body body OccupancyRequest false "Driver (admin only)"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /slots/{id}/reserve [post]
func (h *SlotHandler) Reserve(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid slot ID")
	}

	receipt, err := h.allocationService.Reserve(c.Context(), id, actingUserID(c))
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Success(c, "Slot booked successfully", receipt)
}

// Exit handles leaving a slot
// @Summary Exit slot
// @Description End the occupancy of the signed in driver and archive it as a booking
// @Tags Slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Slot ID"
// @Param body body OccupancyRequest false "Driver (admin only)"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /slots/{id}/exit [post]
func (h *SlotHandler) Exit(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid slot ID")
	}

	booking, err := h.allocationService.Exit(c.Context(), id, actingUserID(c))
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Success(c, "Exit recorded successfully", booking)
}

// Release handles the administrative cancel
// @Summary Release slot
// @Description Free a slot without recording a booking (Admin only). Releasing a free slot is a no-op.
// @Tags Admin Slots
// @Produce json
// @Security BearerAuth
// @Param id path int true "Slot ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/slots/{id}/release [post]
func (h *SlotHandler) Release(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid slot ID")
	}

	released, err := h.allocationService.Release(c.Context(), id)
	if err != nil {
		return response.Fail(c, err)
	}

	message := "Slot released successfully"
	if !released {
		message = "Slot was already free"
	}
	return response.Success(c, message, fiber.Map{
		"released": released,
	})
}

// AddSlot handles creating a slot
// @Summary Add slot
// @Description Create a free slot (Admin only)
// @Tags Admin Slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SlotRequest true "Slot"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/slots [post]
func (h *SlotHandler) AddSlot(c *fiber.Ctx) error {
	var req SlotRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	slot, err := h.allocationService.AddSlot(c.Context(), req.SlotNumber)
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Created(c, "Slot added successfully", slot)
}

// EditSlot handles renaming a slot or changing its status
// @Summary Edit slot
// @Description Rename a slot; status "free" clears the occupant (Admin only)
// @Tags Admin Slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Slot ID"
// @Param body body SlotRequest true "Slot"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/slots/{id} [put]
func (h *SlotHandler) EditSlot(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid slot ID")
	}

	var req SlotRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	slot, err := h.allocationService.EditSlot(c.Context(), id, services.EditSlotInput{
		Number: req.SlotNumber,
		Status: req.Status,
	})
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Success(c, "Slot updated successfully", slot)
}

// DeleteSlot handles removing a slot
// @Summary Delete slot
// @Description Delete a free slot (Admin only)
// @Tags Admin Slots
// @Produce json
// @Security BearerAuth
// @Param id path int true "Slot ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/slots/{id} [delete]
func (h *SlotHandler) DeleteSlot(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid slot ID")
	}

	if err := h.allocationService.DeleteSlot(c.Context(), id); err != nil {
		return response.Fail(c, err)
	}

	return response.Success(c, "Slot deleted successfully", nil)
}
