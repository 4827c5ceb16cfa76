// Package events ingests interaction events from Kafka as an alternative to
// the synchronous /event endpoint. Browser extensions that batch events
// offline publish them to the events topic; this consumer applies them to
// profiles with the same semantics as the HTTP path.
package events

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/IBM/sarama"
)

// DefaultTopic is the Kafka topic interaction events are published to.
const DefaultTopic = "interestlens.events"

// Consumer reads interaction events from a Kafka consumer group and hands
// each message to an Applier.
type Consumer struct {
	group   sarama.ConsumerGroup
	applier *Applier
	topic   string
	groupID string
	ready   chan bool
}

// ConsumerConfig holds Kafka consumer configuration.
type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	Applier *Applier
}

// NewConsumerFromEnv builds a consumer when KAFKA_BROKERS is set, otherwise
// returns nil so the service can run HTTP-only.
func NewConsumerFromEnv(applier *Applier) (*Consumer, error) {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		return nil, nil
	}

	topic := os.Getenv("KAFKA_EVENTS_TOPIC")
	if topic == "" {
		topic = DefaultTopic
	}
	groupID := os.Getenv("KAFKA_GROUP_ID")
	if groupID == "" {
		groupID = "interestlens-engine"
	}

	return NewConsumer(ConsumerConfig{
		Brokers: strings.Split(brokers, ","),
		Topic:   topic,
		GroupID: groupID,
		Applier: applier,
	})
}

// NewConsumer creates a Kafka consumer for interaction events.
func NewConsumer(config ConsumerConfig) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Return.Errors = true

	client, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		group:   client,
		applier: config.Applier,
		topic:   config.Topic,
		groupID: config.GroupID,
		ready:   make(chan bool),
	}, nil
}

// Start begins consuming in the background and returns once the group session
// is established.
func (c *Consumer) Start(ctx context.Context) error {
	handler := &groupHandler{
		applier: c.applier,
		ready:   c.ready,
	}

	go func() {
		for {
			if err := c.group.Consume(ctx, []string{c.topic}, handler); err != nil {
				if err == context.Canceled {
					log.Println("Kafka consumer context canceled")
					return
				}
				log.Printf("Error from Kafka consumer: %v", err)
			}

			if ctx.Err() != nil {
				return
			}
			handler.ready = make(chan bool)
		}
	}()

	<-c.ready
	log.Printf("Kafka event consumer started (group: %s, topic: %s)", c.groupID, c.topic)

	go func() {
		for err := range c.group.Errors() {
			log.Printf("Kafka consumer error: %v", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the consumer.
func (c *Consumer) Close() error {
	log.Println("Closing Kafka event consumer...")
	return c.group.Close()
}

// groupHandler implements sarama.ConsumerGroupHandler.
type groupHandler struct {
	applier *Applier
	ready   chan bool
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error {
	close(h.ready)
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim applies each event and marks it. Malformed or anonymous events
// are marked and skipped; only transient apply failures are left unmarked so
// the group redelivers them.
func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			shouldMark, err := h.applier.Apply(session.Context(), message.Value)
			if err != nil {
				log.Printf("Failed to apply event (partition=%d offset=%d): %v",
					message.Partition, message.Offset, err)
			}
			if shouldMark {
				session.MarkMessage(message, "")
			}

		case <-session.Context().Done():
			return nil
		}
	}
}
