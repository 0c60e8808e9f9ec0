package mqtt

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/roxaskeyheart/rgbnet-core/internal/infrastructure/config"
)

// Client wraps paho.mqtt.golang for publishing LED frames and receiving
// colour commands. It is safe for concurrent use; subscriptions are
// restored after a reconnect.
type Client struct {
	client pahomqtt.Client
	cfg    config.MQTTConfig
	topics Topics

	subscriptions map[string]subscription
	subMu         sync.RWMutex

	connected atomic.Bool
	logger    atomic.Pointer[Logger]

	published     atomic.Uint64
	publishFailed atomic.Uint64
	received      atomic.Uint64
	handlerFailed atomic.Uint64
}

// Logger is the subset of logging.Logger the client uses.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Stats counts messages since Connect.
type Stats struct {
	Published     uint64 `json:"published"`
	PublishFailed uint64 `json:"publish_failed"`
	Received      uint64 `json:"received"`
	HandlerFailed uint64 `json:"handler_failed"`
}

type subscription struct {
	qos     byte
	handler MessageHandler
}

// MessageHandler processes one received message. Returned errors are
// logged; the message is acknowledged either way.
type MessageHandler func(topic string, payload []byte) error

// Connect establishes a connection to the MQTT broker. A retained offline
// will is registered on Topics.Status and a retained online status is
// published on every (re)connect. It returns ErrConnectionFailed when the
// broker is unreachable.
func Connect(cfg config.MQTTConfig) (*Client, error) {
	c := &Client{
		cfg:           cfg,
		topics:        Topics{Prefix: cfg.TopicPrefix},
		subscriptions: make(map[string]subscription),
	}

	opts := buildClientOptions(cfg)
	configureLWT(opts, c.topics, cfg.Broker.ClientID)
	opts.SetOnConnectHandler(func(pahomqtt.Client) { c.handleConnect() })
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) { c.handleDisconnect(err) })

	c.client = pahomqtt.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	// The connect handler runs asynchronously.
	c.connected.Store(true)
	return c, nil
}

// Topics returns the topic builder for the configured prefix.
func (c *Client) Topics() Topics { return c.topics }

// Stats returns the message counters.
func (c *Client) Stats() Stats {
	return Stats{
		Published:     c.published.Load(),
		PublishFailed: c.publishFailed.Load(),
		Received:      c.received.Load(),
		HandlerFailed: c.handlerFailed.Load(),
	}
}

func (c *Client) handleConnect() {
	c.connected.Store(true)

	c.subMu.RLock()
	for topic, sub := range c.subscriptions {
		c.client.Subscribe(topic, sub.qos, c.wrapHandler(sub.handler))
	}
	restored := len(c.subscriptions)
	c.subMu.RUnlock()

	c.client.Publish(c.topics.Status(), byte(c.cfg.QoS), true,
		buildStatusPayload("online", c.cfg.Broker.ClientID, ""))

	c.log(func(l Logger) { l.Info("mqtt connected", "broker", c.cfg.Broker.Host, "subscriptions", restored) })
}

func (c *Client) handleDisconnect(err error) {
	c.connected.Store(false)
	c.log(func(l Logger) { l.Warn("mqtt connection lost", "error", err) })
}

// Close publishes a graceful offline status and disconnects.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	if c.IsConnected() {
		token := c.client.Publish(c.topics.Status(), byte(c.cfg.QoS), true,
			buildStatusPayload("offline", c.cfg.Broker.ClientID, "graceful_shutdown"))
		token.WaitTimeout(defaultPublishTimeout)
	}
	c.client.Disconnect(defaultDisconnectQuiesce)
	c.connected.Store(false)
	return nil
}

// HealthCheck reports ErrNotConnected while the broker connection is down.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mqtt health check: %w", err)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}
	return nil
}

// IsConnected returns the last known connection state.
func (c *Client) IsConnected() bool {
	return c.client != nil && c.connected.Load() && c.client.IsConnected()
}

// SetLogger sets a logger for connection events and handler failures.
func (c *Client) SetLogger(logger Logger) {
	if logger == nil {
		c.logger.Store(nil)
		return
	}
	c.logger.Store(&logger)
}

func (c *Client) log(fn func(Logger)) {
	if l := c.logger.Load(); l != nil {
		fn(*l)
	}
}

// wrapHandler counts messages and adds panic recovery and error logging.
func (c *Client) wrapHandler(handler MessageHandler) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		c.received.Add(1)
		defer func() {
			if r := recover(); r != nil {
				c.handlerFailed.Add(1)
				c.log(func(l Logger) { l.Error("mqtt handler panic recovered", "topic", msg.Topic(), "panic", r) })
			}
		}()

		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			c.handlerFailed.Add(1)
			c.log(func(l Logger) { l.Warn("mqtt handler returned error", "topic", msg.Topic(), "error", err) })
		}
	}
}
