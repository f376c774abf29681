package webhook

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/payblock/payblock-go/libs/clients/payblock"
	appctx "github.com/payblock/payblock-go/libs/context"
	"github.com/payblock/payblock-go/libs/inputs"
	"github.com/payblock/payblock-go/libs/logging"
	srv "github.com/payblock/payblock-go/libs/service"
	"github.com/payblock/payblock-go/libs/set"
	"github.com/shopspring/decimal"
)

const defaultRetention = 24 * time.Hour

// EventHandler processes a verified webhook event. A returned error rejects the
// delivery with a 500 so the gateway redelivers it later.
type EventHandler func(ctx context.Context, event payblock.WebhookEvent) error

// EventRecord - a verified event retained for the operator listing endpoint
type EventRecord struct {
	RequestID     string          `json:"requestId"`
	Symbol        string          `json:"symbol"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transactionId"`
	Status        string          `json:"status"`
	Confirmations int             `json:"confirmations"`
	Timestamp     int64           `json:"timestamp"`
	ReferenceID   *string         `json:"referenceId,omitempty"`
	ReceivedAt    time.Time       `json:"receivedAt" db:"received_at"`
}

// NewService - create a new webhook service structure
func NewService(ctx context.Context, secret string, retention time.Duration, handler EventHandler) *Service {
	return &Service{
		jobs:      []srv.Job{},
		secret:    secret,
		retention: retention,
		handler:   handler,
		seen:      set.NewTimedSet(),
	}
}

// Service holds the callback verification secret and the registered event handler
type Service struct {
	jobs []srv.Job
	// shared secret the gateway signs callback bodies with
	secret    string
	retention time.Duration
	handler   EventHandler

	// request ids already handed to the handler
	seen set.TimedSet

	mu     sync.RWMutex
	events []EventRecord
}

// Jobs - Implement srv.JobService interface
func (s *Service) Jobs() []srv.Job {
	return s.jobs
}

// InitService creates a service using the passed context, a nil handler falls
// back to LogEventHandler
func InitService(ctx context.Context, handler EventHandler) (context.Context, *Service, error) {
	// get logger from context
	logger := logging.Logger(ctx, "webhook.InitService")

	secret, err := appctx.GetStringFromContext(ctx, appctx.WebhookSecretCTXKey)
	if err != nil {
		return ctx, nil, logging.LogAndError(logger, "failed to get the webhook secret",
			fmt.Errorf("failed to get webhook secret: %w", err))
	}
	if secret == "" {
		return ctx, nil, logging.LogAndError(logger, "the webhook secret must not be empty",
			errors.New("webhook secret must not be empty"))
	}

	retention, err := appctx.GetDurationFromContext(ctx, appctx.WebhookRetentionDurationCTXKey)
	if err != nil {
		if !errors.Is(err, appctx.ErrNotInContext) {
			return ctx, nil, fmt.Errorf("failed to get webhook retention: %w", err)
		}
		retention = defaultRetention
	}

	if handler == nil {
		handler = LogEventHandler
	}

	service := NewService(ctx, secret, retention, handler)

	service.jobs = []srv.Job{
		{
			Func:    service.RunPruneExpiredEventsJob,
			Cadence: time.Hour,
			Workers: 1,
		},
	}

	return ctx, service, nil
}

// LogEventHandler logs the verified event and acknowledges it
func LogEventHandler(ctx context.Context, event payblock.WebhookEvent) error {
	logger := logging.Logger(ctx, "webhook.LogEventHandler")
	logger.Info().
		Str("request_id", event.RequestID).
		Str("symbol", event.Symbol).
		Str("amount", event.Amount.String()).
		Str("transaction_id", event.TransactionID).
		Str("status", event.Status).
		Int("confirmations", event.Confirmations).
		Msg("webhook event received")
	return nil
}

// ProcessEvent runs the registered handler for a verified event once per request
// id. The request id is reserved before the handler runs so a concurrent
// redelivery is not handed to the handler twice; a handler failure releases the
// reservation so the gateway retry is processed again.
func (s *Service) ProcessEvent(ctx context.Context, event payblock.WebhookEvent) (bool, error) {
	fresh, err := s.seen.Add(event.RequestID)
	if err != nil {
		return false, fmt.Errorf("failed to track webhook request id: %w", err)
	}
	if !fresh {
		return false, nil
	}

	if err := s.handler(ctx, event); err != nil {
		if _, rerr := s.seen.Remove(event.RequestID); rerr != nil {
			return false, fmt.Errorf("failed to release webhook request id: %w", rerr)
		}
		return false, err
	}

	s.mu.Lock()
	s.events = append(s.events, EventRecord{
		RequestID:     event.RequestID,
		Symbol:        event.Symbol,
		Amount:        event.Amount,
		TransactionID: event.TransactionID,
		Status:        event.Status,
		Confirmations: event.Confirmations,
		Timestamp:     event.Timestamp,
		ReferenceID:   event.ReferenceID,
		ReceivedAt:    time.Now(),
	})
	s.mu.Unlock()

	return true, nil
}

// ListEvents returns one page of retained events plus the total retained count.
// Events come back newest first unless the pagination order asks for ascending
// receipt order.
func (s *Service) ListEvents(ctx context.Context, pagination *inputs.Pagination) ([]EventRecord, int) {
	s.mu.RLock()
	events := make([]EventRecord, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	ascending := false
	for _, po := range pagination.Order {
		if po.Attribute == "receivedAt" && po.Direction == inputs.Ascending {
			ascending = true
		}
	}
	// events append in arrival order, so descending is a reversal
	if !ascending {
		for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
			events[i], events[j] = events[j], events[i]
		}
	}

	total := len(events)
	start := pagination.Page * pagination.Items
	if start > total {
		start = total
	}
	end := start + pagination.Items
	if end > total {
		end = total
	}
	return events[start:end], total
}

// RunPruneExpiredEventsJob drops events and request id reservations older than
// the retention window
func (s *Service) RunPruneExpiredEventsJob(ctx context.Context) (bool, error) {
	logger := logging.Logger(ctx, "webhook.RunPruneExpiredEventsJob")
	cutoff := time.Now().Add(-s.retention)

	removed, err := s.seen.Prune(cutoff)
	if err != nil {
		return true, fmt.Errorf("failed to prune webhook request ids: %w", err)
	}

	s.mu.Lock()
	kept := s.events[:0]
	for _, event := range s.events {
		if !event.ReceivedAt.Before(cutoff) {
			kept = append(kept, event)
		}
	}
	dropped := len(s.events) - len(kept)
	s.events = kept
	s.mu.Unlock()

	logger.Debug().
		Int("request_ids", removed).
		Int("events", dropped).
		Msg("pruned expired webhook events")
	return true, nil
}
