package infrastructure

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apiinfra "dareNowConsole/internal/modules/api/infrastructure"
	"dareNowConsole/internal/modules/bookings/application/port"
	"dareNowConsole/internal/modules/bookings/domain"
)

// BookingsClient calls the booking, slot and search endpoints through the request pipeline,
// which signs them with the session their path belongs to.
type BookingsClient struct {
	pipeline *apiinfra.Pipeline
}

func NewBookingsClient(pipeline *apiinfra.Pipeline) *BookingsClient {
	return &BookingsClient{pipeline: pipeline}
}

func (c *BookingsClient) ListBookings(ctx context.Context, placeID string, query domain.PageQuery) (*domain.BookingPage, error) {
	query = query.Normalize()
	resp, err := c.pipeline.Do(ctx, apiinfra.Request{
		Method: http.MethodGet,
		Path:   "/table-booking/place/" + url.PathEscape(placeID),
		Query:  query.Values(),
	})
	if err != nil {
		return nil, err
	}
	payload, err := resp.Raw()
	if err != nil {
		return nil, err
	}
	return domain.BuildBookingPage(payload, query), nil
}

func (c *BookingsClient) CancelBooking(ctx context.Context, bookingID string) error {
	_, err := c.pipeline.Do(ctx, apiinfra.Request{Method: http.MethodDelete, Path: "/table-booking/" + url.PathEscape(bookingID)})
	return err
}

func (c *BookingsClient) CreateBooking(ctx context.Context, booking domain.NewBooking) error {
	_, err := c.pipeline.Do(ctx, apiinfra.Request{Method: http.MethodPost, Path: "/table-booking", Body: booking.Payload()})
	return err
}

func (c *BookingsClient) Slots(ctx context.Context, placeID string, date time.Time, meal domain.MealType) ([]domain.Slot, error) {
	query := url.Values{}
	query.Set("date", domain.FormatSlotDate(date))
	query.Set("meal", string(meal))
	payload, err := c.pipeline.GetJSON(ctx, "/place/"+url.PathEscape(placeID)+"/slots", query)
	if err != nil {
		return nil, err
	}
	return domain.BuildSlots(payload), nil
}

func (c *BookingsClient) SearchPlaces(ctx context.Context, term string, query domain.PageQuery) (*domain.PlaceList, error) {
	query = query.Normalize()
	path := "/place/search/" + url.PathEscape(domain.SearchTerm(term)) +
		"/pageNo/" + strconv.Itoa(query.Page) +
		"/pageSize/" + strconv.Itoa(query.Size)
	resp, err := c.pipeline.Do(ctx, apiinfra.Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return nil, err
	}
	payload, err := resp.Raw()
	if err != nil {
		return nil, err
	}
	return domain.BuildPlaceList(payload, query), nil
}

var _ port.BookingsAPI = (*BookingsClient)(nil)
