package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"dareNowConsole/internal/modules/session/application/port"
	"dareNowConsole/internal/modules/session/domain"
)

const DefaultSessionTopic = "darenow.session"

// SessionBridge relays session events between consoles over Kafka. Every console reads the
// topic with its own consumer group so each one sees every event.
type SessionBridge struct {
	brokers []string
	topic   string
	groupID string
	writer  *kafka.Writer
}

// NewSessionBridge returns nil when no brokers are configured.
func NewSessionBridge(brokers []string, topic, groupID string) *SessionBridge {
	cleaned := make([]string, 0, len(brokers))
	for _, b := range brokers {
		if trimmed := strings.TrimSpace(b); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	if strings.TrimSpace(topic) == "" {
		topic = DefaultSessionTopic
	}
	return &SessionBridge{
		brokers: cleaned,
		topic:   topic,
		groupID: groupID,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cleaned...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
	}
}

func (b *SessionBridge) Topic() string {
	return b.topic
}

func (b *SessionBridge) Publish(ctx context.Context, event domain.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode session event: %w", err)
	}
	if err := b.writer.WriteMessages(ctx, kafka.Message{Key: []byte(event.Variant), Value: value}); err != nil {
		return fmt.Errorf("publish session event: %w", err)
	}
	slog.Debug("session event published", slog.String("topic", b.topic), slog.String("variant", event.Variant.String()), slog.String("kind", string(event.Kind)))
	return nil
}

// Consume delivers decoded events to fn until ctx is done. Undecodable messages are skipped.
func (b *SessionBridge) Consume(ctx context.Context, fn func(domain.Event)) error {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     b.brokers,
		GroupID:     b.groupID,
		Topic:       b.topic,
		StartOffset: kafka.LastOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		m, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			slog.Warn("kafka read error", slog.Any("error", err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}
		event, ok := decodeEvent(m)
		if !ok {
			slog.Debug("kafka message skipped", slog.String("topic", m.Topic), slog.Int64("offset", m.Offset))
			continue
		}
		slog.Info("kafka session event consumed",
			slog.String("topic", m.Topic),
			slog.Int("partition", m.Partition),
			slog.Int64("offset", m.Offset),
			slog.String("variant", event.Variant.String()),
			slog.String("kind", string(event.Kind)),
			slog.String("origin", event.Origin),
		)
		fn(event)
	}
}

func (b *SessionBridge) Close() error {
	return b.writer.Close()
}

type rawEvent struct {
	Variant   string    `json:"variant"`
	Kind      string    `json:"kind"`
	Action    string    `json:"action"`
	Origin    string    `json:"origin"`
	Timestamp time.Time `json:"timestamp"`
}

// decodeEvent accepts the JSON form of domain.Event. The variant falls back to the message
// key and the kind to "action" or the topic suffix (e.g. "darenow.session.logout").
func decodeEvent(m kafka.Message) (domain.Event, bool) {
	var raw rawEvent
	if err := json.Unmarshal(m.Value, &raw); err != nil {
		return domain.Event{}, false
	}

	variant, err := domain.ParseVariant(firstNonEmpty(raw.Variant, string(m.Key)))
	if err != nil {
		return domain.Event{}, false
	}

	kind := domain.EventKind(strings.ToLower(firstNonEmpty(raw.Kind, raw.Action, topicSuffix(m.Topic))))
	if kind != domain.EventLogin && kind != domain.EventLogout {
		return domain.Event{}, false
	}

	timestamp := raw.Timestamp
	if timestamp.IsZero() {
		timestamp = m.Time
	}
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	return domain.Event{
		Variant:   variant,
		Kind:      kind,
		Source:    domain.SourceRemote,
		Origin:    strings.TrimSpace(raw.Origin),
		Timestamp: timestamp,
	}, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func topicSuffix(topic string) string {
	if idx := strings.LastIndex(topic, "."); idx >= 0 {
		return strings.TrimSpace(topic[idx+1:])
	}
	return ""
}

var _ port.EventBridge = (*SessionBridge)(nil)
