package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type Publisher interface {
	Publish(ctx context.Context, records []domain.OutboxRecord) error
}

// Relay moves pending outbox records to the publisher. Delivery is at least
// once: a crash between Publish and commit resends the batch.
type Relay struct {
	tx        port.Transactor
	publisher Publisher
	interval  time.Duration
	batchSize int
}

func NewRelay(tx port.Transactor, publisher Publisher, interval time.Duration, batchSize int) (*Relay, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx is nil")
	}
	if publisher == nil {
		return nil, fmt.Errorf("publisher is nil")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("interval is not positive")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size is not positive")
	}

	return &Relay{
		tx:        tx,
		publisher: publisher,
		interval:  interval,
		batchSize: batchSize,
	}, nil
}

// Run flushes on every tick until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		// drain the backlog before waiting for the next tick
		for {
			sent, err := r.Flush(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Error().Err(err).Str("method", "Relay.Run").Msg("outbox flush failed")
				}
				break
			}
			if sent < r.batchSize {
				break
			}
		}
	}
}

// Flush publishes one batch and marks it sent in the same transaction.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	var sent int

	err := r.tx.InTx(ctx, func(ctx context.Context, repos port.Repositories) error {
		records, err := repos.Outbox.FetchPending(ctx, r.batchSize)
		if err != nil {
			return fmt.Errorf("repos.Outbox.FetchPending: %w", err)
		}
		if len(records) == 0 {
			return nil
		}

		if err := r.publisher.Publish(ctx, records); err != nil {
			return fmt.Errorf("r.publisher.Publish: %w", err)
		}

		ids := lo.Map(records, func(record domain.OutboxRecord, _ int) int64 {
			return record.ID
		})
		if err := repos.Outbox.MarkSent(ctx, ids); err != nil {
			return fmt.Errorf("repos.Outbox.MarkSent: %w", err)
		}

		sent = len(records)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("r.tx.InTx: %w", err)
	}

	if sent > 0 {
		log.Debug().Int("sent", sent).Msg("outbox records published")
	}

	return sent, nil
}
