package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apiinfra "dareNowConsole/internal/modules/api/infrastructure"
	"dareNowConsole/internal/modules/bookings/domain"
	"dareNowConsole/internal/modules/session/application/usecase"
	sessiondomain "dareNowConsole/internal/modules/session/domain"
	sessioninfra "dareNowConsole/internal/modules/session/infrastructure"
)

type seenRequest struct {
	method string
	uri    string
	auth   string
	body   map[string]any
}

func newClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*BookingsClient, *usecase.SessionStore, chan seenRequest) {
	t.Helper()
	seen := make(chan seenRequest, 4)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := seenRequest{method: r.Method, uri: r.URL.RequestURI(), auth: r.Header.Get("Authorization")}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req.body)
		}
		seen <- req
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	store := usecase.NewSessionStore(sessioninfra.NewMemoryStorage().Context("test"))
	pipeline := apiinfra.NewPipeline(apiinfra.NewRESTClient(server.URL, time.Second, nil), nil, store, nil, nil)
	return NewBookingsClient(pipeline), store, seen
}

func TestBookingsClient_ListBookings(t *testing.T) {
	t.Parallel()

	client, store, seen := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"content":[{"tableBookingId":1}],"totalPages":1,"totalElements":1}}`))
	})
	require.NoError(t, store.Write(context.Background(), sessiondomain.VariantRestaurant, "REST", sessiondomain.Profile{"id": "P1"}))

	page, err := client.ListBookings(context.Background(), "P1", domain.PageQuery{Page: 2, Size: 5})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	req := <-seen
	require.Equal(t, http.MethodGet, req.method)
	require.Equal(t, "/table-booking/place/P1?pageNo=2&pageSize=5", req.uri)
	require.Equal(t, "Bearer REST", req.auth)
}

func TestBookingsClient_SlotsAndCreate(t *testing.T) {
	t.Parallel()

	client, store, seen := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"message":"created"}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"slot":"07:00 PM","booked":false},{"slot":"07:30 PM","booked":true}]}`))
	})
	require.NoError(t, store.Write(context.Background(), sessiondomain.VariantAdmin, "ADMIN", sessiondomain.Profile{"username": "alice"}))

	slots, err := client.Slots(context.Background(), "P1", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), domain.Dinner)
	require.NoError(t, err)
	require.Equal(t, []string{"07:00 PM"}, domain.OpenSlots(slots))

	req := <-seen
	require.Equal(t, "/place/P1/slots?date=01-02-2026&meal=dinner", req.uri)
	require.Equal(t, "Bearer ADMIN", req.auth, "restaurant calls fall back to the admin token")

	err = client.CreateBooking(context.Background(), domain.NewBooking{PlaceID: "7", SlotTime: "07:00 PM", MealType: domain.Dinner, GuestCount: 3})
	require.NoError(t, err)
	req = <-seen
	require.Equal(t, http.MethodPost, req.method)
	require.Equal(t, "/table-booking", req.uri)
	require.Equal(t, 7.0, req.body["placeId"])
	require.Equal(t, 3.0, req.body["guestCount"])
}

func TestBookingsClient_SearchIsPublic(t *testing.T) {
	t.Parallel()

	client, store, seen := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	require.NoError(t, store.Write(context.Background(), sessiondomain.VariantAdmin, "ADMIN", sessiondomain.Profile{"username": "alice"}))

	_, err := client.SearchPlaces(context.Background(), "", domain.PageQuery{Page: 1, Size: 12})
	require.ErrorIs(t, err, sessiondomain.ErrUnauthorized)

	req := <-seen
	require.Equal(t, "/place/search/Res/pageNo/1/pageSize/12", req.uri)
	require.Empty(t, req.auth)

	_, ok := store.Read(context.Background(), sessiondomain.VariantAdmin)
	require.True(t, ok, "a public 401 leaves sessions alone")
}

func TestBookingsClient_CancelUnauthorizedClearsRestaurant(t *testing.T) {
	t.Parallel()

	client, store, seen := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	require.NoError(t, store.Write(context.Background(), sessiondomain.VariantRestaurant, "REST", sessiondomain.Profile{"id": "P1"}))

	err := client.CancelBooking(context.Background(), "42")
	require.ErrorIs(t, err, sessiondomain.ErrUnauthorized)
	require.Equal(t, http.MethodDelete, (<-seen).method)

	_, ok := store.Read(context.Background(), sessiondomain.VariantRestaurant)
	require.False(t, ok)
}
