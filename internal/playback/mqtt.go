package playback

import (
	"context"
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/hallister/belfry/internal/model"
)

const fireTopic = "belfry/play"

// MQTT connection handler
var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

// MQTT connection lost handler
var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Error().Err(err).Msg("MQTT connection lost")
}

// MQTTSink publishes fire events as JSON to the player topic. Devices
// subscribe to belfry/play and act on the track sequence themselves.
type MQTTSink struct {
	client mqtt.Client
}

func NewMQTTSink(brokerURL, clientID string) (*MQTTSink, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler
	opts.SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	log.Info().Str("broker", brokerURL).Msg("MQTT playback sink initialized")
	return &MQTTSink{client: client}, nil
}

func (s *MQTTSink) Fire(ctx context.Context, ev model.FireEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode fire event: %w", err)
	}
	token := s.client.Publish(fireTopic, 1, false, payload)
	select {
	case <-token.Done():
		if token.Error() != nil {
			return fmt.Errorf("publish fire event: %w", token.Error())
		}
	case <-ctx.Done():
		return ctx.Err()
	}
	log.Debug().Str("event_id", ev.ID).Str("topic", fireTopic).Msg("fire event published")
	return nil
}

func (s *MQTTSink) Close() {
	s.client.Disconnect(250)
}
