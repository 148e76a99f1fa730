package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/jgoulah/gridassist/internal/config"
	"github.com/jgoulah/gridassist/pkg/models"
)

const mqttPublishTimeout = 10 * time.Second

// ErrNoTarget is returned by Publish when neither Home Assistant nor MQTT is enabled
var ErrNoTarget = errors.New("no publish target enabled in config (home_assistant or mqtt)")

// Publisher sends forecast rows to Home Assistant and/or an MQTT broker
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
	haConfig    config.HAConfig
	http        *http.Client
}

// New creates a new publisher (supports both MQTT and HA HTTP API)
func New(mqttCfg config.MQTTConfig, haCfg config.HAConfig) (*Publisher, error) {
	if haCfg.Enabled {
		if haCfg.URL == "" {
			return nil, fmt.Errorf("Home Assistant URL is required when enabled")
		}
		if haCfg.Token == "" {
			return nil, fmt.Errorf("Home Assistant token is required when enabled")
		}
		if haCfg.EntityID == "" {
			return nil, fmt.Errorf("Home Assistant entity_id is required when enabled")
		}
	}

	var client mqtt.Client
	var topicPrefix string

	if mqttCfg.Enabled {
		if mqttCfg.Broker == "" {
			return nil, fmt.Errorf("MQTT broker address is required when enabled")
		}

		topicPrefix = mqttCfg.TopicPrefix
		if topicPrefix == "" {
			topicPrefix = "gridassist"
		}

		opts := mqtt.NewClientOptions()
		opts.AddBroker(fmt.Sprintf("tcp://%s", mqttCfg.Broker))
		opts.SetClientID("gridassist")
		opts.SetAutoReconnect(true)
		opts.SetConnectRetry(true)
		opts.SetConnectTimeout(10 * time.Second)

		if mqttCfg.Username != "" {
			opts.SetUsername(mqttCfg.Username)
		}
		if mqttCfg.Password != "" {
			opts.SetPassword(mqttCfg.Password)
		}

		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
		}
	}

	return &Publisher{
		client:      client,
		topicPrefix: topicPrefix,
		haConfig:    haCfg,
		http:        &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// HAPayload matches the Home Assistant backfill service call data
type HAPayload struct {
	EntityID    string            `json:"entity_id"`
	State       string            `json:"state"`
	LastChanged string            `json:"last_changed"`
	LastUpdated string            `json:"last_updated"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// ForecastMessage is the retained MQTT payload for one forecast day
type ForecastMessage struct {
	CustomerID   string  `json:"customer_id"`
	Date         string  `json:"date"`
	Condition    string  `json:"condition"`
	PredictedKWh float64 `json:"predicted_kwh"`
}

// Publish sends one forecast row to every enabled target
func (p *Publisher) Publish(ctx context.Context, row models.ForecastRow) error {
	if !p.haConfig.Enabled && p.client == nil {
		return ErrNoTarget
	}

	if p.haConfig.Enabled {
		if err := p.publishHA(ctx, row); err != nil {
			return err
		}
	}
	if p.client != nil {
		if err := p.publishMQTT(row); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) publishHA(ctx context.Context, row models.ForecastRow) error {
	// AppDaemon API endpoint
	apiURL := strings.TrimRight(p.haConfig.URL, "/") + "/api/appdaemon/backfill_state"

	timestamp := row.Date.Format(time.RFC3339)
	payload := HAPayload{
		EntityID:    p.haConfig.EntityID,
		State:       fmt.Sprintf("%.2f", row.PredictedKWh),
		LastChanged: timestamp,
		LastUpdated: timestamp,
		Attributes: map[string]string{
			"customer_id": row.CustomerID,
			"condition":   row.Condition,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.haConfig.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Read error response body for debugging
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP error: status %d, response: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// Topic returns the MQTT topic for a customer's forecast day
func (p *Publisher) Topic(row models.ForecastRow) string {
	return fmt.Sprintf("%s/%s/forecast/%s", p.topicPrefix, row.CustomerID, row.Date.Format("2006-01-02"))
}

func (p *Publisher) publishMQTT(row models.ForecastRow) error {
	body, err := json.Marshal(ForecastMessage{
		CustomerID:   row.CustomerID,
		Date:         row.Date.Format("2006-01-02"),
		Condition:    row.Condition,
		PredictedKWh: row.PredictedKWh,
	})
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}

	token := p.client.Publish(p.Topic(row), 1, true, body)
	if !token.WaitTimeout(mqttPublishTimeout) {
		return fmt.Errorf("publishing to %s: timed out", p.Topic(row))
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing to %s: %w", p.Topic(row), err)
	}
	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
