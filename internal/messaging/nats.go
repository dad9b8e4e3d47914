// Package messaging provides a NATS client wrapper for pub/sub messaging
// between the comment API and the moderation worker. It handles connection
// lifecycle, subject-based subscriptions, and convenience methods for the
// moderation channels.
package messaging

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// NATS subject patterns used by the moderation worker and its callers.
const (
	SubjectCheck          = "moderation.check"
	SubjectCheckResult    = "moderation.result" // + .<request_id>
	SubjectRemoderate     = "moderation.remoderate"
	SubjectRemoderateDone = "moderation.remoderate.done"
	SubjectFlagged        = "moderation.flagged"
	SubjectStats          = "moderation.stats"          // request/reply
	SubjectRecentFlags    = "moderation.flagged.recent" // request/reply
)

// NATSClient wraps the NATS connection with helper methods for pub/sub.
type NATSClient struct {
	conn *nats.Conn
	mu   sync.Mutex
	subs map[string]*nats.Subscription
}

// NATSConfig holds NATS connection settings.
type NATSConfig struct {
	URL           string        // nats://localhost:4222
	Name          string        // client name for identification
	ReconnectWait time.Duration // time between reconnect attempts
	MaxReconnects int           // max reconnect attempts (-1 for infinite)
}

// DefaultNATSConfig returns sensible defaults.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           "nats://localhost:4222",
		Name:          "comment-app",
		ReconnectWait: 2 * time.Second,
		MaxReconnects: -1, // infinite reconnects
	}
}

// NewNATSClient connects to NATS with the given config and returns a ready client.
// It returns an error if the initial connection fails.
func NewNATSClient(config NATSConfig) (*NATSClient, error) {
	opts := []nats.Option{
		nats.Name(config.Name),
		nats.ReconnectWait(config.ReconnectWait),
		nats.MaxReconnects(config.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("[nats] disconnected: %v", err)
			} else {
				log.Printf("[nats] disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("[nats] reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			log.Printf("[nats] connection closed")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	log.Printf("[nats] connected to %s", nc.ConnectedUrl())

	return &NATSClient{
		conn: nc,
		subs: make(map[string]*nats.Subscription),
	}, nil
}

// Publish sends data to the given NATS subject.
func (c *NATSClient) Publish(subject string, data []byte) error {
	return c.conn.Publish(subject, data)
}

// Subscribe registers a handler for the given subject and stores the
// subscription internally for later cleanup.
func (c *NATSClient) Subscribe(subject string, handler func(msg *nats.Msg)) error {
	sub, err := c.conn.Subscribe(subject, handler)
	if err != nil {
		return fmt.Errorf("nats subscribe %s: %w", subject, err)
	}

	c.mu.Lock()
	c.subs[subject] = sub
	c.mu.Unlock()

	return nil
}

// PublishCheckRequest publishes a moderation check request.
func (c *NATSClient) PublishCheckRequest(data []byte) error {
	return c.Publish(SubjectCheck, data)
}

// SubscribeCheckRequests subscribes to moderation check requests.
func (c *NATSClient) SubscribeCheckRequests(handler func(data []byte)) error {
	return c.Subscribe(SubjectCheck, func(msg *nats.Msg) {
		handler(msg.Data)
	})
}

// PublishCheckResult publishes a verdict for a specific check request.
func (c *NATSClient) PublishCheckResult(requestID string, data []byte) error {
	return c.Publish(SubjectCheckResult+"."+requestID, data)
}

// SubscribeCheckResult subscribes to the verdict for a specific request.
func (c *NATSClient) SubscribeCheckResult(requestID string, handler func(data []byte)) error {
	subject := SubjectCheckResult + "." + requestID
	return c.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
}

// UnsubscribeCheckResult drops the verdict subscription for a request.
func (c *NATSClient) UnsubscribeCheckResult(requestID string) error {
	return c.unsubscribe(SubjectCheckResult + "." + requestID)
}

// PublishRemoderate asks the worker to re-moderate all stored comments.
func (c *NATSClient) PublishRemoderate(data []byte) error {
	return c.Publish(SubjectRemoderate, data)
}

// SubscribeRemoderate subscribes to batch re-moderation triggers.
func (c *NATSClient) SubscribeRemoderate(handler func(data []byte)) error {
	return c.Subscribe(SubjectRemoderate, func(msg *nats.Msg) {
		handler(msg.Data)
	})
}

// PublishRemoderateDone publishes a finished batch run summary.
func (c *NATSClient) PublishRemoderateDone(data []byte) error {
	return c.Publish(SubjectRemoderateDone, data)
}

// SubscribeRemoderateDone subscribes to batch run summaries.
func (c *NATSClient) SubscribeRemoderateDone(handler func(data []byte)) error {
	return c.Subscribe(SubjectRemoderateDone, func(msg *nats.Msg) {
		handler(msg.Data)
	})
}

// PublishFlagged publishes a flagged-verdict event to the dashboard stream.
func (c *NATSClient) PublishFlagged(data []byte) error {
	return c.Publish(SubjectFlagged, data)
}

// SubscribeFlagged subscribes to the flagged-verdict event stream.
func (c *NATSClient) SubscribeFlagged(handler func(data []byte)) error {
	return c.Subscribe(SubjectFlagged, func(msg *nats.Msg) {
		handler(msg.Data)
	})
}

// SubscribeRequest registers a request/reply handler on a subject. The
// handler's return value is sent back to the requester; handler errors are
// logged and the request goes unanswered (the requester times out).
func (c *NATSClient) SubscribeRequest(subject string, handler func() ([]byte, error)) error {
	return c.Subscribe(subject, func(msg *nats.Msg) {
		data, err := handler()
		if err != nil {
			log.Printf("[nats] request handler %s: %v", subject, err)
			return
		}
		if err := msg.Respond(data); err != nil {
			log.Printf("[nats] respond %s: %v", subject, err)
		}
	})
}

// Request performs a request/reply round-trip with the given timeout.
func (c *NATSClient) Request(subject string, data []byte, timeout time.Duration) ([]byte, error) {
	msg, err := c.conn.Request(subject, data, timeout)
	if err != nil {
		return nil, fmt.Errorf("nats request %s: %w", subject, err)
	}
	return msg.Data, nil
}

// Close drains all active subscriptions and closes the NATS connection.
func (c *NATSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for subject, sub := range c.subs {
		if err := sub.Drain(); err != nil {
			log.Printf("[nats] drain %s: %v", subject, err)
		}
	}
	c.subs = make(map[string]*nats.Subscription)

	if err := c.conn.Drain(); err != nil {
		log.Printf("[nats] connection drain: %v", err)
	}

	log.Printf("[nats] client closed")
}

// unsubscribe removes and unsubscribes from a specific subject.
func (c *NATSClient) unsubscribe(subject string) error {
	c.mu.Lock()
	sub, ok := c.subs[subject]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("nats: no subscription for subject %s", subject)
	}
	delete(c.subs, subject)
	c.mu.Unlock()

	if err := sub.Unsubscribe(); err != nil {
		return fmt.Errorf("nats unsubscribe %s: %w", subject, err)
	}
	return nil
}
