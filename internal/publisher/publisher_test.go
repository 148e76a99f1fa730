package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/gridassist/internal/config"
	"github.com/jgoulah/gridassist/pkg/models"
)

var sampleRow = models.ForecastRow{
	ID:           7,
	CustomerID:   "C001",
	Date:         time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	Condition:    "Sunny",
	PredictedKWh: 12.5,
}

func TestNewValidation(t *testing.T) {
	_, err := New(config.MQTTConfig{}, config.HAConfig{Enabled: true})
	assert.ErrorContains(t, err, "URL is required")

	_, err = New(config.MQTTConfig{}, config.HAConfig{Enabled: true, URL: "http://ha"})
	assert.ErrorContains(t, err, "token is required")

	_, err = New(config.MQTTConfig{}, config.HAConfig{Enabled: true, URL: "http://ha", Token: "t"})
	assert.ErrorContains(t, err, "entity_id is required")

	_, err = New(config.MQTTConfig{Enabled: true}, config.HAConfig{})
	assert.ErrorContains(t, err, "broker address is required")
}

func TestPublishNoTarget(t *testing.T) {
	p, err := New(config.MQTTConfig{}, config.HAConfig{})
	require.NoError(t, err)
	assert.ErrorIs(t, p.Publish(context.Background(), sampleRow), ErrNoTarget)
}

func TestPublishHomeAssistant(t *testing.T) {
	var got HAPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/appdaemon/backfill_state", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p, err := New(config.MQTTConfig{}, config.HAConfig{
		Enabled: true, URL: srv.URL + "/", Token: "secret", EntityID: "sensor.energy_forecast",
	})
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), sampleRow))
	assert.Equal(t, "sensor.energy_forecast", got.EntityID)
	assert.Equal(t, "12.50", got.State)
	assert.Equal(t, "2024-02-01T00:00:00Z", got.LastChanged)
	assert.Equal(t, "Sunny", got.Attributes["condition"])
	assert.Equal(t, "C001", got.Attributes["customer_id"])
}

func TestPublishHomeAssistantError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad entity", http.StatusBadRequest)
	}))
	defer srv.Close()

	p, err := New(config.MQTTConfig{}, config.HAConfig{Enabled: true, URL: srv.URL, Token: "t", EntityID: "sensor.x"})
	require.NoError(t, err)

	err = p.Publish(context.Background(), sampleRow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "bad entity")
}

type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// fakeClient records publishes; other mqtt.Client methods are not used.
type fakeClient struct {
	mqtt.Client
	err  error
	sent []published
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.sent = append(c.sent, published{topic: topic, qos: qos, retained: retained, payload: payload.([]byte)})
	return &fakeToken{err: c.err}
}

func (c *fakeClient) IsConnected() bool { return true }

func (c *fakeClient) Disconnect(uint) {}

func TestPublishMQTT(t *testing.T) {
	client := &fakeClient{}
	p := &Publisher{client: client, topicPrefix: "gridassist"}

	require.NoError(t, p.Publish(context.Background(), sampleRow))
	require.Len(t, client.sent, 1)

	msg := client.sent[0]
	assert.Equal(t, "gridassist/C001/forecast/2024-02-01", msg.topic)
	assert.Equal(t, byte(1), msg.qos)
	assert.True(t, msg.retained)

	var body ForecastMessage
	require.NoError(t, json.Unmarshal(msg.payload, &body))
	assert.Equal(t, ForecastMessage{CustomerID: "C001", Date: "2024-02-01", Condition: "Sunny", PredictedKWh: 12.5}, body)

	p.Close()
}

func TestPublishMQTTError(t *testing.T) {
	p := &Publisher{client: &fakeClient{err: errors.New("not authorized")}, topicPrefix: "gridassist"}
	err := p.Publish(context.Background(), sampleRow)
	assert.ErrorContains(t, err, "not authorized")
}
