package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dareNowConsole/internal/modules/bookings/application/port"
	"dareNowConsole/internal/modules/bookings/domain"
	sessionport "dareNowConsole/internal/modules/session/application/port"
	sessiondomain "dareNowConsole/internal/modules/session/domain"
)

// Bookings serves the restaurant views. The place is always the one of the stored
// restaurant session.
type Bookings struct {
	api   port.BookingsAPI
	store sessionport.SessionStore
}

func NewBookings(api port.BookingsAPI, store sessionport.SessionStore) *Bookings {
	return &Bookings{api: api, store: store}
}

// Place returns the signed-in restaurant's place data.
func (b *Bookings) Place(ctx context.Context) (sessiondomain.RestaurantProfile, error) {
	session, ok := b.store.Read(ctx, sessiondomain.VariantRestaurant)
	if !ok {
		return sessiondomain.RestaurantProfile{}, sessiondomain.NewAuthError(sessiondomain.ErrUnauthorized, "Please sign in as a restaurant.")
	}
	profile := sessiondomain.RestaurantProfileFrom(session.Profile)
	if profile.PlaceID == "" {
		return sessiondomain.RestaurantProfile{}, domain.ErrMissingPlace
	}
	return profile, nil
}

func (b *Bookings) List(ctx context.Context, query domain.PageQuery) (*domain.BookingPage, error) {
	place, err := b.Place(ctx)
	if err != nil {
		return nil, err
	}
	page, err := b.api.ListBookings(ctx, place.PlaceID, query)
	if err != nil {
		return nil, fmt.Errorf("list bookings of place %s: %w", place.PlaceID, err)
	}
	return page, nil
}

func (b *Bookings) Cancel(ctx context.Context, bookingID string) error {
	if bookingID == "" {
		return errors.New("booking id is required")
	}
	if _, err := b.Place(ctx); err != nil {
		return err
	}
	if err := b.api.CancelBooking(ctx, bookingID); err != nil {
		return fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}
	slog.Info("booking cancelled", slog.String("bookingId", bookingID))
	return nil
}

// Meals lists the meals the signed-in place serves.
func (b *Bookings) Meals(ctx context.Context) ([]domain.MealType, error) {
	place, err := b.Place(ctx)
	if err != nil {
		return nil, err
	}
	return domain.AvailableMeals(place.Place), nil
}

// OpenSlots returns the unbooked slot times of a meal on date.
func (b *Bookings) OpenSlots(ctx context.Context, date time.Time, meal domain.MealType) ([]string, error) {
	if !meal.Valid() {
		return nil, domain.ErrUnknownMeal
	}
	place, err := b.Place(ctx)
	if err != nil {
		return nil, err
	}
	slots, err := b.api.Slots(ctx, place.PlaceID, date, meal)
	if err != nil {
		return nil, fmt.Errorf("slots of place %s: %w", place.PlaceID, err)
	}
	return domain.OpenSlots(slots), nil
}

func (b *Bookings) Create(ctx context.Context, booking domain.NewBooking) error {
	place, err := b.Place(ctx)
	if err != nil {
		return err
	}
	booking.PlaceID = place.PlaceID
	if err := booking.Validate(); err != nil {
		return err
	}
	if err := b.api.CreateBooking(ctx, booking); err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	slog.Info("booking created", slog.String("placeId", place.PlaceID), slog.String("meal", string(booking.MealType)))
	return nil
}

// Search lists places matching term; it needs no session.
func (b *Bookings) Search(ctx context.Context, term string, query domain.PageQuery) (*domain.PlaceList, error) {
	return b.api.SearchPlaces(ctx, term, query)
}
