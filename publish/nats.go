package publish

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Connect dials a NATS server with reconnect settings suited to a long-running
// desktop client.
func Connect(url string) (*nats.Conn, error) {
	return nats.Connect(
		url,
		nats.Name("hrm-go"),
		nats.Timeout(3*time.Second),
		nats.ReconnectWait(500*time.Millisecond),
		nats.MaxReconnects(-1),
	)
}

// NATSPublisher publishes readings as JSON on a subject.
type NATSPublisher struct {
	nc      *nats.Conn
	subject string
}

// NewNATSPublisher connects to url and publishes on subject.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	nc, err := Connect(url)
	if err != nil {
		return nil, fmt.Errorf("publish: nats connect %s: %w", url, err)
	}
	return &NATSPublisher{nc: nc, subject: subject}, nil
}

func (p *NATSPublisher) Publish(r Reading) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if err := p.nc.Publish(p.subject, b); err != nil {
		return fmt.Errorf("publish: nats: %w", err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.nc == nil {
		return nil
	}
	return p.nc.Drain()
}
