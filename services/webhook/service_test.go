package webhook

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/payblock/payblock-go/libs/clients/payblock"
	appctx "github.com/payblock/payblock-go/libs/context"
	"github.com/payblock/payblock-go/libs/inputs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent(requestID string) payblock.WebhookEvent {
	return payblock.WebhookEvent{
		RequestID:     requestID,
		Symbol:        "ETH",
		TransactionID: "0xfeed",
		Status:        payblock.WebhookStatusConfirmed,
		Confirmations: 12,
		Timestamp:     1724572800,
	}
}

func TestProcessEventDeduplicates(t *testing.T) {
	ctx := context.Background()
	var calls int
	s := NewService(ctx, testSecret, time.Hour,
		func(ctx context.Context, event payblock.WebhookEvent) error {
			calls++
			return nil
		})

	processed, err := s.ProcessEvent(ctx, testEvent("req-1"))
	require.NoError(t, err)
	assert.True(t, processed)

	processed, err = s.ProcessEvent(ctx, testEvent("req-1"))
	require.NoError(t, err)
	assert.False(t, processed)

	assert.Equal(t, 1, calls)
}

func TestProcessEventHandlerFailureReleases(t *testing.T) {
	ctx := context.Background()
	var calls int
	s := NewService(ctx, testSecret, time.Hour,
		func(ctx context.Context, event payblock.WebhookEvent) error {
			calls++
			if calls == 1 {
				return errors.New("downstream unavailable")
			}
			return nil
		})

	_, err := s.ProcessEvent(ctx, testEvent("req-1"))
	require.Error(t, err)

	processed, err := s.ProcessEvent(ctx, testEvent("req-1"))
	require.NoError(t, err)
	assert.True(t, processed, "a failed delivery must stay eligible for retry")
	assert.Equal(t, 2, calls)
}

func TestListEventsPagination(t *testing.T) {
	ctx := context.Background()
	s := NewService(ctx, testSecret, time.Hour, LogEventHandler)
	for i := 1; i <= 5; i++ {
		processed, err := s.ProcessEvent(ctx, testEvent(fmt.Sprintf("req-%d", i)))
		require.NoError(t, err)
		require.True(t, processed)
	}

	events, total := s.ListEvents(ctx, &inputs.Pagination{Page: 0, Items: 2})
	assert.Equal(t, 5, total)
	require.Len(t, events, 2)
	assert.Equal(t, "req-5", events[0].RequestID)
	assert.Equal(t, "req-4", events[1].RequestID)

	events, _ = s.ListEvents(ctx, &inputs.Pagination{Page: 1, Items: 2})
	require.Len(t, events, 2)
	assert.Equal(t, "req-3", events[0].RequestID)
	assert.Equal(t, "req-2", events[1].RequestID)

	events, _ = s.ListEvents(ctx, &inputs.Pagination{Page: 2, Items: 2})
	require.Len(t, events, 1)
	assert.Equal(t, "req-1", events[0].RequestID)

	events, _ = s.ListEvents(ctx, &inputs.Pagination{Page: 3, Items: 2})
	assert.Len(t, events, 0)

	events, _ = s.ListEvents(ctx, &inputs.Pagination{
		Page:  0,
		Items: 3,
		Order: []inputs.PageOrder{{Attribute: "receivedAt", Direction: inputs.Ascending}},
	})
	require.Len(t, events, 3)
	assert.Equal(t, "req-1", events[0].RequestID)
	assert.Equal(t, "req-3", events[2].RequestID)
}

func TestRunPruneExpiredEventsJob(t *testing.T) {
	ctx := context.Background()
	var calls int
	s := NewService(ctx, testSecret, 10*time.Millisecond,
		func(ctx context.Context, event payblock.WebhookEvent) error {
			calls++
			return nil
		})

	processed, err := s.ProcessEvent(ctx, testEvent("req-1"))
	require.NoError(t, err)
	require.True(t, processed)

	<-time.After(25 * time.Millisecond)

	attempted, err := s.RunPruneExpiredEventsJob(ctx)
	require.NoError(t, err)
	assert.True(t, attempted)

	_, total := s.ListEvents(ctx, &inputs.Pagination{Page: 0, Items: 10})
	assert.Equal(t, 0, total)

	// the reservation went with the retention window
	processed, err = s.ProcessEvent(ctx, testEvent("req-1"))
	require.NoError(t, err)
	assert.True(t, processed)
	assert.Equal(t, 2, calls)
}

func TestInitService(t *testing.T) {
	ctx := context.WithValue(context.Background(), appctx.WebhookSecretCTXKey, testSecret)
	ctx = context.WithValue(ctx, appctx.WebhookRetentionDurationCTXKey, time.Hour)

	_, s, err := InitService(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, testSecret, s.secret)
	assert.Equal(t, time.Hour, s.retention)
	assert.Len(t, s.Jobs(), 1)

	_, _, err = InitService(context.Background(), nil)
	assert.Error(t, err, "the webhook secret is required")
}
