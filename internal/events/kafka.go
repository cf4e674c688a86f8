package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	defaultQueueSize = 256
	writeTimeout     = 5 * time.Second
)

var (
	ErrQueueFull = errors.New("event queue full")
	ErrClosed    = errors.New("event publisher closed")
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events keyed by user id so one user's events stay
// ordered. Publish only enqueues; a single goroutine delivers to the broker
// and logs failures.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	queue  chan kafka.Message
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
	return newKafkaPublisher(writer, topic, defaultQueueSize)
}

func newKafkaPublisher(writer messageWriter, topic string, queueSize int) *KafkaPublisher {
	p := &KafkaPublisher{
		writer: writer,
		topic:  topic,
		queue:  make(chan kafka.Message, queueSize),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *KafkaPublisher) run() {
	defer close(p.done)
	for msg := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := p.writer.WriteMessages(ctx, msg)
		cancel()
		if err != nil {
			log.Printf("[Events] Failed to deliver event (key=%s): %v", msg.Key, err)
		}
	}
}

// Publish never waits on the broker. It fails with ErrQueueFull when
// delivery has fallen behind.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.UserID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	select {
	case p.queue <- msg:
		return nil
	default:
		return fmt.Errorf("failed to enqueue event %s: %w", event.Type, ErrQueueFull)
	}
}

// Close flushes queued events and closes the producer.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	log.Printf("[Events] kafka publisher for topic '%s' closed", p.topic)
	return nil
}

// NewPublisher returns a kafka publisher, or a no-op one when brokers is empty.
func NewPublisher(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		log.Println("[Events] KAFKA_BROKERS not set, event publishing disabled")
		return NopPublisher{}
	}
	log.Printf("[Events] publishing to kafka topic '%s' via %v", topic, brokers)
	return NewKafkaPublisher(brokers, topic)
}
