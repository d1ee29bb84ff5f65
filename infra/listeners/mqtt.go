package listeners

import (
	"errors"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/kilianp07/waterlog/core/logging"
	"github.com/kilianp07/waterlog/infra/logger"
)

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// MQTTConfig defines the connection parameters of an MQTT listener.
type MQTTConfig struct {
	Broker         string
	Topic          string
	ClientID       string
	Username       string
	Password       string
	QoS            byte
	Retain         bool
	ConnectTimeout time.Duration
	// PublishTimeout bounds the wait for a publish acknowledgement.
	PublishTimeout time.Duration
}

// MQTT publishes every line to a topic. The connection is opened on the
// first write so that building a configuration never dials a broker.
type MQTT struct {
	*logging.Base
	Config MQTTConfig

	mu     sync.Mutex
	cli    pahoClient
	logger logger.Logger
}

// NewMQTT returns an MQTT listener for broker and topic.
func NewMQTT(name, broker, topic string) *MQTT {
	return &MQTT{
		Base: logging.NewBase(name),
		Config: MQTTConfig{
			Broker:         broker,
			Topic:          topic,
			ConnectTimeout: 10 * time.Second,
			PublishTimeout: 5 * time.Second,
		},
		logger: logger.New("mqtt_listener"),
	}
}

// NewClientOptions builds paho options from the listener configuration.
func (m *MQTT) NewClientOptions() *paho.ClientOptions {
	cfg := m.Config
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "waterlog-" + uuid.NewString()
	}
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(clientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		m.logger.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		m.logger.Warnf("reconnecting to MQTT broker")
	}
	return opts
}

func (m *MQTT) client() (pahoClient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cli != nil {
		return m.cli, nil
	}
	c := newMQTTClient(m.NewClientOptions())
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", m.Config.Broker, token.Error())
	}
	m.logger.Infof("MQTT connected to %s", m.Config.Broker)
	m.cli = c
	return c, nil
}

func (m *MQTT) Write(message, _ string) error {
	if m.Config.Topic == "" {
		return errors.New("mqtt topic is empty")
	}
	c, err := m.client()
	if err != nil {
		return err
	}
	token := c.Publish(m.Config.Topic, m.Config.QoS, m.Config.Retain, message)
	if m.Config.PublishTimeout > 0 && !token.WaitTimeout(m.Config.PublishTimeout) {
		return fmt.Errorf("mqtt publish to %s timed out", m.Config.Topic)
	}
	return token.Error()
}

// Close disconnects from the broker if a connection was opened.
func (m *MQTT) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cli != nil {
		m.cli.Disconnect(250)
		m.cli = nil
	}
	return nil
}
