package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

type OutboxRepository interface {
	InsertRecord(ctx context.Context, record domain.OutboxRecord) error

	// FetchPending skips rows locked by a concurrent relay.
	FetchPending(ctx context.Context, limit int) ([]domain.OutboxRecord, error)
	MarkSent(ctx context.Context, ids []int64) error
}
