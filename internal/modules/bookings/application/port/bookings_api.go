package port

import (
	"context"
	"time"

	"dareNowConsole/internal/modules/bookings/domain"
)

// BookingsAPI is the slice of the remote API used by the restaurant views and place search.
type BookingsAPI interface {
	ListBookings(ctx context.Context, placeID string, query domain.PageQuery) (*domain.BookingPage, error)
	CancelBooking(ctx context.Context, bookingID string) error
	CreateBooking(ctx context.Context, booking domain.NewBooking) error
	Slots(ctx context.Context, placeID string, date time.Time, meal domain.MealType) ([]domain.Slot, error)
	SearchPlaces(ctx context.Context, term string, query domain.PageQuery) (*domain.PlaceList, error)
}
