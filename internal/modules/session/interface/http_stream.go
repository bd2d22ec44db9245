package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"dareNowConsole/internal/modules/session/application/usecase"
	"dareNowConsole/internal/modules/session/domain"
	"dareNowConsole/internal/modules/session/infrastructure"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// connectedMessage is the first frame of a session stream.
type connectedMessage struct {
	Topic     string           `json:"topic"`
	ClientID  string           `json:"clientId"`
	Variant   string           `json:"variant,omitempty"`
	Presence  usecase.Presence `json:"presence"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewSessionStreamHandler exposes /ws/session?variant=. Open views follow session changes
// through it and may send {"action":"recheck"} or {"action":"presence"}.
func NewSessionStreamHandler(hub *infrastructure.Hub, synchronizer *usecase.Synchronizer, presence *usecase.PresenceCache) echo.HandlerFunc {
	return func(c echo.Context) error {
		var variant domain.Variant
		if raw := c.QueryParam("variant"); raw != "" {
			parsed, err := domain.ParseVariant(raw)
			if err != nil {
				return respondError(c, nil, err)
			}
			variant = parsed
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("session ws upgrade failed", slog.String("ip", c.RealIP()), slog.Any("error", err))
			return err
		}

		commands := func(_ *infrastructure.Client, cmd infrastructure.Command) any {
			// The request context ends with the upgrade; commands outlive it.
			ctx := context.Background()
			switch cmd.Action {
			case "recheck":
				synchronizer.Recheck(ctx, domain.SourceRecheck)
				return presence.Refresh(ctx)
			case "presence":
				return presence.Current()
			default:
				return map[string]string{"error": "unknown action " + cmd.Action}
			}
		}

		client := infrastructure.NewClient(hub, conn, variant, 16, commands)
		hub.Attach(client)
		go client.WritePump()
		go client.ReadPump()

		client.SendJSON(connectedMessage{
			Topic:     "system.connected",
			ClientID:  client.ID(),
			Variant:   variant.String(),
			Presence:  presence.Current(),
			Timestamp: time.Now().UTC(),
		})
		slog.Info("session ws connected", slog.String("clientId", client.ID()), slog.String("variant", variant.String()), slog.String("ip", c.RealIP()))
		return nil
	}
}
