package handlers

import (
	"fmt"

	"smart-parking/internal/adapters/http/middleware"
	"smart-parking/internal/core/domain"
	"smart-parking/internal/core/services"
	"smart-parking/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BookingHandler handles booking ledger endpoints
type BookingHandler struct {
	bookingService *services.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// ListBookings handles the booking history
// @Summary Booking history
// @Description Administrators get every booking, or one driver's with user_id (the all-bookings sentinel also lists everything). Drivers get their own.
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "Driver user id or the all-bookings sentinel"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /bookings [get]
func (h *BookingHandler) ListBookings(c *fiber.Ctx) error {
	requested := c.Query("user_id")
	self := middleware.CurrentUserID(c)

	var (
		records []domain.BookingRecord
		err     error
	)
	switch {
	case middleware.IsAdmin(c) && requested == "":
		records, err = services.Collect(h.bookingService.ListAll(c.Context()))
	case middleware.IsAdmin(c):
		records, err = h.bookingService.List(c.Context(), requested)
	case requested == "" || requested == self:
		records, err = services.Collect(h.bookingService.ListByDriver(c.Context(), self))
	default:
		return response.Forbidden(c, "You can only view your own bookings")
	}
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Success(c, "Bookings retrieved successfully", records)
}

// MyBookings handles the signed in driver's booking history
// @Summary My bookings
// @Description Get the signed in driver's bookings, oldest first
// @Tags Me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /me/bookings [get]
func (h *BookingHandler) MyBookings(c *fiber.Ctx) error {
	records, err := services.Collect(h.bookingService.ListByDriver(c.Context(), middleware.CurrentUserID(c)))
	if err != nil {
		return response.Fail(c, err)
	}

	return response.Success(c, "Bookings retrieved successfully", records)
}

// GetBooking handles getting one booking
// @Summary Get booking
// @Description Get a booking record. Drivers can only read their own.
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid booking ID")
	}

	record, err := h.bookingService.Get(c.Context(), id)
	if err != nil {
		return response.Fail(c, err)
	}
	if !canRead(c, record) {
		return response.Fail(c, domain.ErrBookingNotFound)
	}

	return response.Success(c, "Booking retrieved successfully", record)
}

// Receipt handles downloading a booking receipt
// @Summary Booking receipt
// @Description Download the PDF receipt of a booking
// @Tags Bookings
// @Produce application/pdf
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 200 {file} file
// @Failure 404 {object} response.Response
// @Router /bookings/{id}/receipt [get]
func (h *BookingHandler) Receipt(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid booking ID")
	}

	record, pdf, err := h.bookingService.Receipt(c.Context(), id, func(record *domain.BookingRecord) bool {
		return canRead(c, record)
	})
	if err != nil {
		return response.Fail(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=receipt-%d.pdf", record.ID))
	return c.Send(pdf)
}

// canRead hides other drivers' bookings from non-admins
func canRead(c *fiber.Ctx, record *domain.BookingRecord) bool {
	return middleware.IsAdmin(c) || record.UserID == middleware.CurrentUserID(c)
}
