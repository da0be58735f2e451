package outbox_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/outbox"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakePublisher struct {
	mu        sync.Mutex
	published []domain.OutboxRecord
	err       error
}

func (p *fakePublisher) Publish(_ context.Context, records []domain.OutboxRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, records...)
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.published)
}

func insertRecords(t *testing.T, repos port.Repositories, n int) {
	t.Helper()

	for i := range n {
		require.NoError(t, repos.Outbox.InsertRecord(context.Background(), domain.OutboxRecord{
			EventID: uuid.New(),
			Topic:   "orders",
			Key:     fmt.Sprintf("key-%d", i),
			Payload: []byte(`{}`),
		}))
	}
}

func TestRelay_Flush(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()
	publisher := &fakePublisher{}

	relay, err := outbox.NewRelay(store, publisher, time.Second, 2)
	require.NoError(t, err)

	insertRecords(t, repos, 3)

	sent, err := relay.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	sent, err = relay.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	sent, err = relay.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	require.Equal(t, 3, publisher.count())
	assert.Equal(t, "key-0", publisher.published[0].Key)
	assert.Equal(t, "key-2", publisher.published[2].Key)
}

func TestRelay_FlushKeepsRecordsOnPublishFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()
	publisher := &fakePublisher{err: errors.New("broker down")}

	relay, err := outbox.NewRelay(store, publisher, time.Second, 10)
	require.NoError(t, err)

	insertRecords(t, repos, 2)

	_, err = relay.Flush(ctx)
	require.ErrorIs(t, err, publisher.err)

	pending, err := repos.Outbox.FetchPending(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestRelay_RunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := memory.NewStore()
	publisher := &fakePublisher{}

	relay, err := outbox.NewRelay(store, publisher, 10*time.Millisecond, 2)
	require.NoError(t, err)

	insertRecords(t, store.Repositories(), 5)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		relay.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return publisher.count() == 5
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestNewRelay(t *testing.T) {
	store := memory.NewStore()

	_, err := outbox.NewRelay(nil, &fakePublisher{}, time.Second, 1)
	require.Error(t, err)

	_, err = outbox.NewRelay(store, nil, time.Second, 1)
	require.Error(t, err)

	_, err = outbox.NewRelay(store, &fakePublisher{}, 0, 1)
	require.Error(t, err)

	_, err = outbox.NewRelay(store, &fakePublisher{}, time.Second, 0)
	require.Error(t, err)
}
