package payblock

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookBody = `{"requestId":"req-1","symbol":"ETH","amount":"2.5","transactionId":"0xfeed","status":"confirmed","confirmations":12,"timestamp":1724572800}`

func TestWebhookSignature_KnownVector(t *testing.T) {
	signature, err := WebhookSignature("wh-secret", []byte(testWebhookBody))

	require.NoError(t, err)
	assert.Equal(t, "7fb641a1004b82e25aaa455548b4e5bf790696d762d64d8d52f0c910f70630b6", signature)
}

func TestVerifyWebhookSignature_RoundTrip(t *testing.T) {
	body := []byte(testWebhookBody)

	signature, err := WebhookSignature("wh-secret", body)
	require.NoError(t, err)

	ok, err := VerifyWebhookSignature("wh-secret", body, signature)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyWebhookSignature_TamperedBody(t *testing.T) {
	body := []byte(testWebhookBody)

	signature, err := WebhookSignature("wh-secret", body)
	require.NoError(t, err)

	tampered := append([]byte{}, body...)
	tampered[len(tampered)-2] = '9'

	ok, err := VerifyWebhookSignature("wh-secret", tampered, signature)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyWebhookSignature_WrongSecret(t *testing.T) {
	body := []byte(testWebhookBody)

	signature, err := WebhookSignature("wh-secret", body)
	require.NoError(t, err)

	ok, err := VerifyWebhookSignature("other-secret", body, signature)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyWebhookSignature_EmptySignature(t *testing.T) {
	ok, err := VerifyWebhookSignature("wh-secret", []byte(testWebhookBody), "")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseWebhookEvent(t *testing.T) {
	event, err := ParseWebhookEvent(context.Background(), []byte(testWebhookBody))

	require.NoError(t, err)
	assert.Equal(t, "req-1", event.RequestID)
	assert.Equal(t, "ETH", event.Symbol)
	assert.True(t, event.Amount.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, "0xfeed", event.TransactionID)
	assert.Equal(t, WebhookStatusConfirmed, event.Status)
	assert.Equal(t, 12, event.Confirmations)
	assert.Equal(t, int64(1724572800), event.Timestamp)
	assert.Nil(t, event.ReferenceID)
}

func TestParseWebhookEvent_ReferenceID(t *testing.T) {
	body := `{"requestId":"req-2","symbol":"BTC","amount":"0.01","transactionId":"tx-9","status":"pending","confirmations":0,"timestamp":1724572801,"referenceId":"R-42"}`

	event, err := ParseWebhookEvent(context.Background(), []byte(body))

	require.NoError(t, err)
	require.NotNil(t, event.ReferenceID)
	assert.Equal(t, "R-42", *event.ReferenceID)
}

func TestParseWebhookEvent_Statuses(t *testing.T) {
	for _, status := range []string{WebhookStatusPending, WebhookStatusConfirmed, WebhookStatusFailed} {
		body := `{"requestId":"req-3","symbol":"ETH","amount":"1","transactionId":"tx","status":"` + status + `","confirmations":1,"timestamp":1}`
		_, err := ParseWebhookEvent(context.Background(), []byte(body))
		assert.NoError(t, err, status)
	}
}

func TestParseWebhookEvent_UnknownStatus(t *testing.T) {
	body := `{"requestId":"req-4","symbol":"ETH","amount":"1","transactionId":"tx","status":"settled","confirmations":1,"timestamp":1}`

	_, err := ParseWebhookEvent(context.Background(), []byte(body))

	assert.Error(t, err)
}

func TestParseWebhookEvent_MissingRequestID(t *testing.T) {
	body := `{"symbol":"ETH","amount":"1","transactionId":"tx","status":"pending","confirmations":1,"timestamp":1}`

	_, err := ParseWebhookEvent(context.Background(), []byte(body))

	assert.Error(t, err)
}

func TestParseWebhookEvent_NegativeConfirmations(t *testing.T) {
	body := `{"requestId":"req-5","symbol":"ETH","amount":"1","transactionId":"tx","status":"pending","confirmations":-1,"timestamp":1}`

	_, err := ParseWebhookEvent(context.Background(), []byte(body))

	assert.Error(t, err)
}

func TestParseWebhookEvent_Malformed(t *testing.T) {
	_, err := ParseWebhookEvent(context.Background(), []byte(`{not json`))

	assert.Error(t, err)
}
