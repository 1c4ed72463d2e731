// Package mqtt ingests ambulance telemetry from an MQTT broker. Units publish
// to ambulances/<id>/telemetry and every message updates that ambulance.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/appstate"
)

// TelemetryTopic is the subscription filter for all units.
const TelemetryTopic = "ambulances/+/telemetry"

// Telemetry is the payload published by a unit.
type Telemetry struct {
	Status  string   `json:"status"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Address string   `json:"address"`
}

// TelemetryUpdater applies a telemetry reading to an ambulance. A nil fix
// leaves the stored location unchanged.
type TelemetryUpdater interface {
	ApplyTelemetry(ctx context.Context, ambulanceID, status string, fix *appstate.LocationFix) error
}

// Config holds broker connection settings.
type Config struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

// AmbulanceID extracts the unit ID from a telemetry topic.
func AmbulanceID(topic string) (string, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != "ambulances" || parts[2] != "telemetry" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Decode parses a telemetry payload. The fix carries only the location
// fields the payload contains.
func Decode(payload []byte) (string, *appstate.LocationFix, error) {
	var t Telemetry
	if err := json.Unmarshal(payload, &t); err != nil {
		return "", nil, fmt.Errorf("decoding telemetry: %w", err)
	}
	if t.Lat == nil && t.Lng == nil && t.Address == "" {
		return t.Status, nil, nil
	}
	return t.Status, &appstate.LocationFix{Lat: t.Lat, Lng: t.Lng, Address: t.Address}, nil
}

// NewMessageHandler routes telemetry messages to updater.
func NewMessageHandler(updater TelemetryUpdater, logger zerolog.Logger) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		id, ok := AmbulanceID(msg.Topic())
		if !ok {
			logger.Warn().Str("topic", msg.Topic()).Msg("unknown topic")
			return
		}
		status, fix, err := Decode(msg.Payload())
		if err != nil {
			logger.Warn().Err(err).Str("ambulance_id", id).Msg("malformed telemetry")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := updater.ApplyTelemetry(ctx, id, status, fix); err != nil {
			logger.Warn().Err(err).Str("ambulance_id", id).Msg("telemetry rejected")
			return
		}
		logger.Debug().Str("ambulance_id", id).Str("status", status).Msg("telemetry applied")
	}
}

// Connect dials the broker and subscribes to TelemetryTopic on every
// (re)connect.
func Connect(cfg Config, updater TelemetryUpdater, logger zerolog.Logger) (pahomqtt.Client, error) {
	handler := NewMessageHandler(updater, logger)

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetDefaultPublishHandler(handler)
	opts.OnConnect = func(c pahomqtt.Client) {
		logger.Info().Str("broker", cfg.Broker).Msg("connected to MQTT broker")
		token := c.Subscribe(TelemetryTopic, 1, handler)
		token.Wait()
		if err := token.Error(); err != nil {
			logger.Error().Err(err).Str("topic", TelemetryTopic).Msg("subscribe failed")
			return
		}
		logger.Info().Str("topic", TelemetryTopic).Msg("subscribed")
	}
	opts.OnConnectionLost = func(_ pahomqtt.Client, err error) {
		logger.Warn().Err(err).Msg("MQTT connection lost")
	}

	client := pahomqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return client, nil
}
