package transport

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"dareNowConsole/internal/modules/session/application/port"
	"dareNowConsole/internal/modules/session/application/usecase"
	"dareNowConsole/internal/modules/session/domain"
	"dareNowConsole/internal/modules/session/infrastructure"
)

type loginRequest struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

func (r loginRequest) credentials() port.Credentials {
	identifier := r.Identifier
	for _, candidate := range []string{r.Username, r.Email} {
		if strings.TrimSpace(identifier) != "" {
			break
		}
		identifier = candidate
	}
	return port.Credentials{Identifier: identifier, Password: r.Password}
}

type loginResponse struct {
	Variant  string           `json:"variant"`
	Redirect string           `json:"redirect"`
	Profile  domain.Profile   `json:"profile"`
	Presence usecase.Presence `json:"presence"`
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// SessionHandlers serves the login, logout, password and presence endpoints.
type SessionHandlers struct {
	lifecycle *usecase.Lifecycle
	presence  *usecase.PresenceCache
	navigator *infrastructure.Navigator
}

func NewSessionHandlers(lifecycle *usecase.Lifecycle, presence *usecase.PresenceCache, navigator *infrastructure.Navigator) *SessionHandlers {
	return &SessionHandlers{lifecycle: lifecycle, presence: presence, navigator: navigator}
}

// Login handles POST /api/session/:variant/login.
func (h *SessionHandlers) Login(c echo.Context) error {
	variant, err := domain.ParseVariant(c.Param("variant"))
	if err != nil {
		return respondError(c, nil, err)
	}
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, nil, domain.NewAuthError(domain.ErrValidation, "Invalid request body."))
	}

	ctx := c.Request().Context()
	result, err := h.lifecycle.Login(ctx, variant, req.credentials())
	if err != nil {
		return respondError(c, nil, err)
	}
	h.navigator.Visit(result.Landing)
	return c.JSON(http.StatusOK, loginResponse{
		Variant:  variant.String(),
		Redirect: result.Landing,
		Profile:  result.Session.Profile,
		Presence: h.presence.Refresh(ctx),
	})
}

// Logout handles POST /api/session/:variant/logout.
func (h *SessionHandlers) Logout(c echo.Context) error {
	variant, err := domain.ParseVariant(c.Param("variant"))
	if err != nil {
		return respondError(c, nil, err)
	}
	ctx := c.Request().Context()
	location, err := h.lifecycle.Logout(ctx, variant)
	if err != nil {
		return respondError(c, nil, err)
	}
	h.navigator.Visit(location)
	return c.JSON(http.StatusOK, map[string]any{
		"redirect": location,
		"presence": h.presence.Refresh(ctx),
	})
}

// UpdatePassword handles POST /api/session/:variant/password.
func (h *SessionHandlers) UpdatePassword(c echo.Context) error {
	variant, err := domain.ParseVariant(c.Param("variant"))
	if err != nil {
		return respondError(c, nil, err)
	}
	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, nil, domain.NewAuthError(domain.ErrValidation, "Invalid request body."))
	}
	if err := usecase.ValidatePasswordChange(req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, nil, err)
	}
	if err := usecase.ConfirmPassword(req.NewPassword, req.ConfirmPassword); err != nil {
		return respondError(c, nil, err)
	}
	if err := h.lifecycle.UpdatePassword(c.Request().Context(), variant, req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, h.navigator, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Password updated successfully."})
}

// Presence handles GET /api/session.
func (h *SessionHandlers) Presence(c echo.Context) error {
	return c.JSON(http.StatusOK, h.presence.Refresh(c.Request().Context()))
}
