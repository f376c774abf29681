package payblock

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/asaskevich/govalidator"
	"github.com/shopspring/decimal"

	"github.com/payblock/payblock-go/libs/cryptography"
	"github.com/payblock/payblock-go/libs/inputs"
)

// Deposit statuses carried on webhook events.
const (
	WebhookStatusPending   = "pending"
	WebhookStatusConfirmed = "confirmed"
	WebhookStatusFailed    = "failed"
)

// WebhookEvent is the deposit notification the gateway posts to the callback
// url registered on a deposit address. RequestID identifies the notification
// itself and repeats on redelivery, TransactionID identifies the on chain
// transfer.
type WebhookEvent struct {
	RequestID     string          `json:"requestId" valid:"required"`
	Symbol        string          `json:"symbol" valid:"required"`
	Amount        decimal.Decimal `json:"amount" valid:"-"`
	TransactionID string          `json:"transactionId" valid:"required"`
	Status        string          `json:"status" valid:"in(pending|confirmed|failed)"`
	Confirmations int             `json:"confirmations" valid:"-"`
	Timestamp     int64           `json:"timestamp" valid:"-"`
	ReferenceID   *string         `json:"referenceId,omitempty" valid:"-"`
}

// Decode implements inputs.Decodable
func (we *WebhookEvent) Decode(ctx context.Context, input []byte) error {
	if err := inputs.DecodeJSON(ctx, input, we); err != nil {
		return fmt.Errorf("failed to decode webhook event: %w", err)
	}
	return nil
}

// Validate implements inputs.Validatable
func (we *WebhookEvent) Validate(ctx context.Context) error {
	if _, err := govalidator.ValidateStruct(we); err != nil {
		return err
	}
	if we.Amount.IsNegative() {
		return errors.New("webhook event amount must not be negative")
	}
	if we.Confirmations < 0 {
		return errors.New("webhook event confirmations must not be negative")
	}
	return nil
}

// ParseWebhookEvent decodes and validates a callback body. Callers must
// verify the signature first, parsing says nothing about authenticity.
func ParseWebhookEvent(ctx context.Context, body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := inputs.DecodeAndValidate(ctx, &event, body); err != nil {
		return nil, err
	}
	return &event, nil
}

// WebhookSignature computes the hex encoded hmac sha256 of body under secret,
// the signature scheme the gateway applies to callback deliveries.
func WebhookSignature(secret string, body []byte) (string, error) {
	hasher := cryptography.NewHMACHasher([]byte(secret))
	mac, err := hasher.HMACSha256(body)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(mac), nil
}

// VerifyWebhookSignature checks a gateway supplied signature against the one
// computed locally over the raw body. The comparison is plain string
// equality, which is what the gateway documents for callback verification.
func VerifyWebhookSignature(secret string, body []byte, signature string) (bool, error) {
	expected, err := WebhookSignature(secret, body)
	if err != nil {
		return false, err
	}
	return expected == signature, nil
}
