package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/samber/lo"
)

type outboxRepository struct {
	q *db.Queries
}

func NewOutbox(pool *pgxpool.Pool) port.OutboxRepository {
	return &outboxRepository{q: db.New(pool)}
}

func NewOutboxWithTx(tx pgx.Tx) port.OutboxRepository {
	return &outboxRepository{q: db.New(tx)}
}

func (r *outboxRepository) InsertRecord(ctx context.Context, record domain.OutboxRecord) error {
	if record.Topic == "" {
		return fmt.Errorf("topic is empty")
	}

	err := r.q.InsertOutbox(ctx, db.InsertOutboxParams{
		EventID: record.EventID,
		Topic:   record.Topic,
		Key:     record.Key,
		Payload: record.Payload,
	})
	if err != nil {
		return fmt.Errorf("q.InsertOutbox: %w", err)
	}

	return nil
}

func (r *outboxRepository) FetchPending(ctx context.Context, limit int) ([]domain.OutboxRecord, error) {
	rows, err := r.q.FetchPendingOutbox(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("q.FetchPendingOutbox: %w", err)
	}

	return lo.Map(rows, func(row db.Outbox, _ int) domain.OutboxRecord {
		return domain.OutboxRecord{
			ID:        row.ID,
			EventID:   row.EventID,
			Topic:     row.Topic,
			Key:       row.Key,
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt,
			SentAt:    row.SentAt,
		}
	}), nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	if _, err := r.q.MarkOutboxSent(ctx, ids); err != nil {
		return fmt.Errorf("q.MarkOutboxSent: %w", err)
	}

	return nil
}
