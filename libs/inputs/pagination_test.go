package inputs

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type eventRecord struct {
	RequestID     string          `json:"requestId" db:"request_id"`
	Symbol        string          `json:"symbol" db:"symbol"`
	TransactionID string          `json:"transactionId" db:"transaction_id"`
	Status        string          `json:"status" db:"status"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	ReceivedAt    time.Time       `json:"receivedAt" db:"received_at"`
}

func TestNewPagination(t *testing.T) {
	var ctx = context.Background()
	ctx, p, err := NewPagination(ctx, "?order=receivedAt.asc&order=requestId.desc", new(eventRecord))
	if err != nil {
		t.Error("failed to create a new pagination: ", err)
		return
	}
	var orderBy = p.GetOrderBy(ctx)
	if !strings.Contains(orderBy, "received_at  ASC") ||
		!strings.Contains(orderBy, "request_id  DESC") {
		t.Logf("P: %+v\n", p.GetOrderBy(ctx))
		t.Error("order by statement not what was expected")
		return
	}
	// test some invalid pagination
	_, _, err = NewPagination(context.Background(), "?order=received_at.asc&order=requestId.BLAH", new(eventRecord))
	if err == nil {
		t.Error("new pagination should have failed", err)
		return
	}
	fmt.Println(err.Error())
	if !strings.Contains(err.Error(), "received_at") || !strings.Contains(err.Error(), "BLAH") {
		t.Error("new pagination should have complained about received_at and BLAH")
		return
	}
}
