package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"dareNowConsole/internal/shared/normalization"
)

// BookedFromConsole tags bookings created from this console.
const BookedFromConsole = "DARENOW"

// DefaultGuestCount is used when a new booking names no party size.
const DefaultGuestCount = 2

var (
	ErrMissingPlace = errors.New("restaurant id not found")
	ErrMissingSlot  = errors.New("please select a slot time")
)

// Booking is a table booking of a place.
type Booking struct {
	ID          string    `json:"id"`
	BookingDate string    `json:"bookingDate,omitempty"`
	SlotTime    string    `json:"slotTime,omitempty"`
	MealType    string    `json:"mealType,omitempty"`
	GuestCount  int       `json:"guestCount,omitempty"`
	BookedFrom  string    `json:"bookedFrom,omitempty"`
	Date        time.Time `json:"-"`
}

// NormalizeBooking builds a Booking from a loosely typed map. The id is read from
// tableBookingId, then bookingId, then id.
func NormalizeBooking(raw map[string]any) (Booking, bool) {
	id := normalization.FirstString(raw, "tableBookingId", "bookingId", "id")
	if id == "" {
		return Booking{}, false
	}
	booking := Booking{
		ID:          id,
		BookingDate: normalization.AsString(raw["bookingDate"]),
		SlotTime:    normalization.AsString(raw["slotTime"]),
		MealType:    normalization.AsString(raw["mealType"]),
		GuestCount:  normalization.AsInt(raw["guestCount"]),
		BookedFrom:  normalization.AsString(raw["bookedFrom"]),
	}
	if parsed, err := time.Parse(time.RFC3339, booking.BookingDate); err == nil {
		booking.Date = parsed
	}
	return booking, true
}

// BookingPage is one page of a place's bookings.
type BookingPage struct {
	Items         []Booking `json:"items"`
	Page          int       `json:"page"`
	PageSize      int       `json:"pageSize"`
	TotalPages    int       `json:"totalPages"`
	TotalElements int       `json:"totalElements"`
}

// BuildBookingPage reads the bookings list in any of the shapes the API answers with:
// {data:{content:[...], totalPages, totalElements}}, {data:[...]} or a bare list, with
// totals taken from data, then the root (totalPages, total).
func BuildBookingPage(payload any, query PageQuery) *BookingPage {
	query = query.Normalize()
	root := normalization.AsMap(payload)
	data := normalization.AsMap(root["data"])

	var rawItems []any
	switch {
	case data != nil && normalization.AsInterfaceSlice(data["content"]) != nil:
		rawItems = normalization.AsInterfaceSlice(data["content"])
	case normalization.AsInterfaceSlice(root["data"]) != nil:
		rawItems = normalization.AsInterfaceSlice(root["data"])
	default:
		rawItems = normalization.AsInterfaceSlice(payload)
	}

	page := &BookingPage{Items: make([]Booking, 0, len(rawItems)), Page: query.Page, PageSize: query.Size}
	for _, item := range rawItems {
		if booking, ok := NormalizeBooking(normalization.AsMap(item)); ok {
			page.Items = append(page.Items, booking)
		}
	}

	switch {
	case data != nil && data["totalPages"] != nil:
		page.TotalPages = normalization.AsInt(data["totalPages"])
		page.TotalElements = normalization.AsInt(data["totalElements"])
	case normalization.AsInt(root["totalPages"]) > 0:
		page.TotalPages = normalization.AsInt(root["totalPages"])
		page.TotalElements = normalization.AsInt(root["total"])
	case normalization.AsInt(root["total"]) > 0:
		page.TotalElements = normalization.AsInt(root["total"])
		page.TotalPages = int(math.Ceil(float64(page.TotalElements) / float64(query.Size)))
	default:
		page.TotalElements = len(page.Items)
		page.TotalPages = 1
	}
	return page
}

// NewBooking is the payload of a booking created from the console.
type NewBooking struct {
	PlaceID    string
	Date       time.Time
	SlotTime   string
	MealType   MealType
	GuestCount int
}

// Validate checks the fields the API requires.
func (b NewBooking) Validate() error {
	if strings.TrimSpace(b.PlaceID) == "" {
		return ErrMissingPlace
	}
	if strings.TrimSpace(b.SlotTime) == "" {
		return ErrMissingSlot
	}
	if !b.MealType.Valid() {
		return ErrUnknownMeal
	}
	return nil
}

// Payload renders the request body. Numeric place ids are sent as numbers.
func (b NewBooking) Payload() map[string]any {
	guests := b.GuestCount
	if guests <= 0 {
		guests = DefaultGuestCount
	}
	date := b.Date
	if date.IsZero() {
		date = time.Now()
	}
	var placeID any = strings.TrimSpace(b.PlaceID)
	if n, err := strconv.Atoi(b.PlaceID); err == nil {
		placeID = n
	}
	return map[string]any{
		"placeId":     placeID,
		"bookingDate": time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC).Format("2006-01-02T15:04:05.000Z"),
		"slotTime":    strings.TrimSpace(b.SlotTime),
		"mealType":    string(b.MealType),
		"guestCount":  guests,
		"bookedFrom":  BookedFromConsole,
	}
}
