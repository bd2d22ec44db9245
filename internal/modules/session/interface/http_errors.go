package transport

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	bookings "dareNowConsole/internal/modules/bookings/domain"
	"dareNowConsole/internal/modules/session/domain"
	"dareNowConsole/internal/modules/session/infrastructure"
	"dareNowConsole/internal/shared/httputil"
)

var errorMapper = httputil.NewErrorMapper().
	WithMapping(domain.ErrValidation, http.StatusBadRequest, "").
	WithMapping(domain.ErrUnknownVariant, http.StatusNotFound, "").
	WithMapping(domain.ErrUnsupportedVariant, http.StatusForbidden, "").
	WithMapping(domain.ErrInvalidCredentials, http.StatusUnauthorized, "").
	WithMapping(domain.ErrUnauthorized, http.StatusUnauthorized, "").
	WithMapping(domain.ErrMalformedResponse, http.StatusBadGateway, "").
	WithMapping(domain.ErrUnreachable, http.StatusBadGateway, "").
	WithMapping(bookings.ErrMissingPlace, http.StatusConflict, "").
	WithMapping(bookings.ErrMissingSlot, http.StatusBadRequest, "").
	WithMapping(bookings.ErrUnknownMeal, http.StatusBadRequest, "").
	WithDefault(http.StatusInternalServerError, "Something went wrong")

// errorBody is the JSON shape of every failed console call. Redirect is set when the call
// tore a session down and the view has to move to a login page.
type errorBody struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

func respondError(c echo.Context, navigator *infrastructure.Navigator, err error) error {
	info := errorMapper.Map(err)
	message := info.Message
	var authErr *domain.AuthError
	if errors.As(err, &authErr) || info.Status < http.StatusInternalServerError {
		message = domain.UserMessage(err)
	}
	body := errorBody{Error: message}
	if navigator != nil {
		if location, ok := navigator.TakeRedirect(); ok {
			body.Redirect = location
		}
	}
	if info.Status >= http.StatusInternalServerError {
		slog.Error("console request failed", slog.String("path", c.Request().URL.Path), slog.Int("status", info.Status), slog.Any("error", err))
	} else {
		slog.Debug("console request rejected", slog.String("path", c.Request().URL.Path), slog.Int("status", info.Status), slog.Any("error", err))
	}
	return c.JSON(info.Status, body)
}
