package transport

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	bookingsdomain "dareNowConsole/internal/modules/bookings/domain"
	bookingsuc "dareNowConsole/internal/modules/bookings/application/usecase"
	"dareNowConsole/internal/modules/session/domain"
	"dareNowConsole/internal/modules/session/infrastructure"
)

type createBookingRequest struct {
	Date       string `json:"date"`
	SlotTime   string `json:"slotTime"`
	MealType   string `json:"mealType"`
	GuestCount int    `json:"guestCount"`
}

// BookingHandlers serves the restaurant views' data. Every call goes through the request
// pipeline, so a 401 here tears the restaurant session down.
type BookingHandlers struct {
	bookings  *bookingsuc.Bookings
	navigator *infrastructure.Navigator
}

func NewBookingHandlers(uc *bookingsuc.Bookings, navigator *infrastructure.Navigator) *BookingHandlers {
	return &BookingHandlers{bookings: uc, navigator: navigator}
}

// List handles GET /api/bookings?page=&size=.
func (h *BookingHandlers) List(c echo.Context) error {
	page, err := h.bookings.List(c.Request().Context(), pageQuery(c))
	if err != nil {
		return respondError(c, h.navigator, err)
	}
	return c.JSON(http.StatusOK, page)
}

// Cancel handles DELETE /api/bookings/:id.
func (h *BookingHandlers) Cancel(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return respondError(c, nil, domain.NewAuthError(domain.ErrValidation, "Booking id is required."))
	}
	if err := h.bookings.Cancel(c.Request().Context(), id); err != nil {
		return respondError(c, h.navigator, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Meals handles GET /api/meals.
func (h *BookingHandlers) Meals(c echo.Context) error {
	meals, err := h.bookings.Meals(c.Request().Context())
	if err != nil {
		return respondError(c, h.navigator, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"meals": meals})
}

// Slots handles GET /api/slots?date=YYYY-MM-DD&meal=.
func (h *BookingHandlers) Slots(c echo.Context) error {
	date, err := bookingsdomain.ParseDate(c.QueryParam("date"))
	if err != nil {
		return respondError(c, nil, domain.NewAuthError(domain.ErrValidation, "Invalid date."))
	}
	meal, err := bookingsdomain.ParseMealType(c.QueryParam("meal"))
	if err != nil {
		return respondError(c, nil, err)
	}
	slots, err := h.bookings.OpenSlots(c.Request().Context(), date, meal)
	if err != nil {
		return respondError(c, h.navigator, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"date": bookingsdomain.FormatSlotDate(date), "meal": meal, "slots": slots})
}

// Create handles POST /api/bookings.
func (h *BookingHandlers) Create(c echo.Context) error {
	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, nil, domain.NewAuthError(domain.ErrValidation, "Invalid request body."))
	}
	meal, err := bookingsdomain.ParseMealType(req.MealType)
	if err != nil {
		return respondError(c, nil, err)
	}
	booking := bookingsdomain.NewBooking{SlotTime: req.SlotTime, MealType: meal, GuestCount: req.GuestCount}
	if req.Date != "" {
		if booking.Date, err = bookingsdomain.ParseDate(req.Date); err != nil {
			return respondError(c, nil, domain.NewAuthError(domain.ErrValidation, "Invalid date."))
		}
	}
	if err := h.bookings.Create(c.Request().Context(), booking); err != nil {
		return respondError(c, h.navigator, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "Booking created successfully."})
}

// Search handles GET /api/places?term=. It needs no session.
func (h *BookingHandlers) Search(c echo.Context) error {
	list, err := h.bookings.Search(c.Request().Context(), c.QueryParam("term"), pageQuery(c))
	if err != nil {
		return respondError(c, h.navigator, err)
	}
	return c.JSON(http.StatusOK, list)
}

func pageQuery(c echo.Context) bookingsdomain.PageQuery {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	return bookingsdomain.PageQuery{Page: page, Size: size}.Normalize()
}
