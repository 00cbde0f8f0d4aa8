package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/shutter-rig/internal/rig"
)

// backlogCapacity bounds how many messages park while the broker is away.
// At the default sample cadence this covers well over an hour of outage.
const backlogCapacity = 10000

// RealPublisher publishes to an actual MQTT broker. While the connection is
// down, messages accumulate in a ring buffer and drain in order on reconnect.
type RealPublisher struct {
	client paho.Client

	mu      sync.Mutex
	backlog *ringBuffer
}

// NewRealPublisher creates a publisher connected to the given broker.
func NewRealPublisher(broker string) (*RealPublisher, error) {
	p := &RealPublisher{
		backlog: newRingBuffer(backlogCapacity),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("shutter-rig").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(paho.Client) { p.drainBacklog() })

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return p, nil
}

// PublishSample sends a sample record to the broker.
func (p *RealPublisher) PublishSample(rec rig.Record) error {
	payload, err := FormatSamplePayload(rec)
	if err != nil {
		return fmt.Errorf("format sample payload: %w", err)
	}

	// QoS 0 (at-most-once), not retained
	return p.publish(TopicSamples, 0, false, payload)
}

// PublishSystem sends a lifecycle or fault event to the broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for fault and shutdown events - we want to
	// ensure delivery
	return p.publish(TopicSystem, 1, event.Retained, payload)
}

// publish sends one message, parking it in the backlog if the broker is
// currently unreachable. A parked message is not an error.
func (p *RealPublisher) publish(topic string, qos byte, retained bool, payload []byte) error {
	if !p.client.IsConnected() {
		p.mu.Lock()
		p.backlog.push(queuedMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		n := p.backlog.len()
		p.mu.Unlock()
		log.Printf("mqtt: broker unreachable, buffered message (%d pending)", n)
		return nil
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// drainBacklog replays buffered messages after a reconnect. Runs on the paho
// connect callback goroutine.
func (p *RealPublisher) drainBacklog() {
	p.mu.Lock()
	msgs := p.backlog.drainAll()
	p.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	log.Printf("mqtt: reconnected, draining %d buffered messages", len(msgs))
	for _, m := range msgs {
		token := p.client.Publish(m.topic, m.qos, m.retained, m.payload)
		token.WaitTimeout(5 * time.Second)
	}
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
