package kafka

import (
	"context"
	"fmt"
	"strings"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/samber/lo"
	"github.com/segmentio/kafka-go"
)

const headerEventID = "event_id"

type Client struct {
	Brokers []string
}

func NewClient(brokersCSV string) *Client {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return &Client{Brokers: brokers}
}

func (c *Client) Enabled() bool {
	return len(c.Brokers) > 0
}

// NewWriter returns a writer without a default topic; every message names its own.
func (c *Client) NewWriter() *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(c.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// Publisher sends outbox records keyed by their aggregate id, so events of
// one order stay on one partition.
type Publisher struct {
	writer messageWriter
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewPublisher(client *Client) (*Publisher, error) {
	if client == nil || !client.Enabled() {
		return nil, fmt.Errorf("kafka client is not configured")
	}

	return &Publisher{writer: client.NewWriter()}, nil
}

func (p *Publisher) Publish(ctx context.Context, records []domain.OutboxRecord) error {
	if len(records) == 0 {
		return nil
	}

	if err := p.writer.WriteMessages(ctx, toMessages(records)...); err != nil {
		return fmt.Errorf("writer.WriteMessages: %w", err)
	}

	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func toMessages(records []domain.OutboxRecord) []kafka.Message {
	return lo.Map(records, func(record domain.OutboxRecord, _ int) kafka.Message {
		return kafka.Message{
			Topic: record.Topic,
			Key:   []byte(record.Key),
			Value: record.Payload,
			Time:  record.CreatedAt.UTC(),
			Headers: []kafka.Header{
				{Key: headerEventID, Value: []byte(record.EventID.String())},
			},
		}
	})
}
