package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/nikolayk812/storefront/internal/domain"
)

func (v *view) InsertRecord(_ context.Context, record domain.OutboxRecord) error {
	if record.Topic == "" {
		return fmt.Errorf("topic is empty")
	}

	err := v.write("InsertRecord", func(st *state) error {
		st.outboxSeq++
		record.ID = st.outboxSeq
		record.CreatedAt = v.now()
		record.SentAt = nil
		st.outbox = append(st.outbox, record)
		return nil
	})
	if err != nil {
		return fmt.Errorf("InsertRecord: %w", err)
	}

	return nil
}

func (v *view) FetchPending(_ context.Context, limit int) ([]domain.OutboxRecord, error) {
	var pending []domain.OutboxRecord

	_ = v.read(func(st *state) error {
		for _, r := range st.outbox {
			if len(pending) == limit {
				break
			}
			if r.SentAt == nil {
				pending = append(pending, r)
			}
		}
		return nil
	})

	return pending, nil
}

func (v *view) MarkSent(_ context.Context, ids []int64) error {
	err := v.write("MarkSent", func(st *state) error {
		now := v.now()
		for i := range st.outbox {
			if slices.Contains(ids, st.outbox[i].ID) {
				st.outbox[i].SentAt = &now
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("MarkSent: %w", err)
	}

	return nil
}
