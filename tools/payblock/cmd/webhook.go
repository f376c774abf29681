package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	cmdutils "github.com/payblock/payblock-go/cmd"
	rootcmd "github.com/payblock/payblock-go/cmd"
	"github.com/payblock/payblock-go/libs/clients"
	"github.com/payblock/payblock-go/libs/clients/payblock"
	"github.com/payblock/payblock-go/libs/logging"
	"github.com/payblock/payblock-go/libs/ptr"
	"github.com/payblock/payblock-go/libs/requestutils"
	"github.com/payblock/payblock-go/libs/responses"
	"github.com/google/go-querystring/query"
	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	// WebhookCmd is the root webhook integration command
	WebhookCmd = &cobra.Command{
		Use:   "webhook",
		Short: "payment callback integration helpers",
	}
	// WebhookFireCmd signs and delivers a payment callback
	WebhookFireCmd = &cobra.Command{
		Use:   "fire",
		Short: "sign a payment callback and deliver it to an endpoint",
		Run:   rootcmd.Perform("webhook fire", RunWebhookFire),
	}
	// WebhookEventsCmd lists the events a callback service has accepted
	WebhookEventsCmd = &cobra.Command{
		Use:   "events",
		Short: "page through the events a callback service has accepted",
		Run:   rootcmd.Perform("webhook events", RunWebhookEvents),
	}
)

func init() {
	WebhookCmd.AddCommand(
		WebhookFireCmd,
		WebhookEventsCmd,
	)
	rootcmd.RootCmd.AddCommand(WebhookCmd)

	fireBuilder := cmdutils.NewFlagBuilder(WebhookFireCmd)

	fireBuilder.Flag().String("target", "http://localhost:8080/v2/callbacks",
		"the callback endpoint to deliver to").
		Bind("target")

	fireBuilder.Flag().String("secret", "",
		"the shared secret to sign the callback body with").
		Bind("secret").
		Require()

	fireBuilder.Flag().String("request-id", "",
		"request id for the event, generated per delivery when not supplied").
		Bind("request-id")

	fireBuilder.Flag().String("symbol", "ETH",
		"the asset symbol of the payment").
		Bind("symbol")

	fireBuilder.Flag().String("amount", "1.25",
		"the payment amount").
		Bind("amount")

	fireBuilder.Flag().String("transaction-id", "0xdeadbeef",
		"the on chain transaction id of the payment").
		Bind("transaction-id")

	fireBuilder.Flag().String("status", "confirmed",
		"the payment status, one of pending confirmed failed").
		Bind("status")

	fireBuilder.Flag().Int("confirmations", 12,
		"the number of confirmations the payment has").
		Bind("confirmations")

	fireBuilder.Flag().String("reference-id", "",
		"optional reference id of the deposit address paid into").
		Bind("reference-id")

	fireBuilder.Flag().Int("count", 1,
		"how many events to deliver").
		Bind("count")

	eventsBuilder := cmdutils.NewFlagBuilder(WebhookEventsCmd)

	eventsBuilder.Flag().String("service", "http://localhost:8080",
		"the base url of the callback service").
		Bind("service")

	eventsBuilder.Flag().String("token", "",
		"bearer token authorized for the event listing").
		Bind("token").
		Require()

	eventsBuilder.Flag().Int("page", 0,
		"the page to fetch").
		Bind("page")

	eventsBuilder.Flag().Int("items", 10,
		"how many events per page").
		Bind("items")

	eventsBuilder.Flag().String("order", "",
		"ordering attribute, receivedAt or receivedAt.asc").
		Bind("order")
}

// webhookEventsParams is the query for the event listing api
type webhookEventsParams struct {
	Page  int    `url:"page"`
	Items int    `url:"items"`
	Order string `url:"order,omitempty"`
}

// GenerateQueryString - implement the QueryStringBody interface
func (p *webhookEventsParams) GenerateQueryString() (url.Values, error) {
	return query.Values(p)
}

// RunWebhookFire runs the webhook fire command. With a fixed request id and a
// count above one every delivery after the first should be acknowledged as
// already received, which makes for a quick dedupe check against a running
// callback service.
func RunWebhookFire(command *cobra.Command, args []string) error {
	target, err := command.Flags().GetString("target")
	if err != nil {
		return err
	}
	secret, err := command.Flags().GetString("secret")
	if err != nil {
		return err
	}
	requestID, err := command.Flags().GetString("request-id")
	if err != nil {
		return err
	}
	symbol, err := command.Flags().GetString("symbol")
	if err != nil {
		return err
	}
	amountRaw, err := command.Flags().GetString("amount")
	if err != nil {
		return err
	}
	transactionID, err := command.Flags().GetString("transaction-id")
	if err != nil {
		return err
	}
	status, err := command.Flags().GetString("status")
	if err != nil {
		return err
	}
	confirmations, err := command.Flags().GetInt("confirmations")
	if err != nil {
		return err
	}
	referenceID, err := command.Flags().GetString("reference-id")
	if err != nil {
		return err
	}
	count, err := command.Flags().GetInt("count")
	if err != nil {
		return err
	}

	amount, err := decimal.NewFromString(amountRaw)
	if err != nil {
		return err
	}

	ctx := command.Context()
	logger := logging.FromContext(ctx)

	client := &http.Client{Timeout: 10 * time.Second}

	for i := 0; i < count; i++ {
		event := payblock.WebhookEvent{
			RequestID:     requestID,
			Symbol:        symbol,
			Amount:        amount,
			TransactionID: transactionID,
			Status:        status,
			Confirmations: confirmations,
			Timestamp:     time.Now().Unix(),
		}
		if event.RequestID == "" {
			event.RequestID = uuid.NewV4().String()
		}
		if referenceID != "" {
			event.ReferenceID = ptr.FromString(referenceID)
		}

		body, err := json.Marshal(&event)
		if err != nil {
			return err
		}
		signature, err := payblock.WebhookSignature(secret, body)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("content-type", "application/json")
		req.Header.Set("X-Signature", signature)

		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		ack, err := requestutils.Read(ctx, resp.Body)
		if err != nil {
			return err
		}

		logger.Info().
			Str("requestId", event.RequestID).
			Int("status", resp.StatusCode).
			Str("response", string(ack)).
			Msg("delivered webhook event")

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected response status %d from %s", resp.StatusCode, target)
		}
	}
	return nil
}

// RunWebhookEvents runs the webhook events command
func RunWebhookEvents(command *cobra.Command, args []string) error {
	service, err := command.Flags().GetString("service")
	if err != nil {
		return err
	}
	token, err := command.Flags().GetString("token")
	if err != nil {
		return err
	}
	page, err := command.Flags().GetInt("page")
	if err != nil {
		return err
	}
	items, err := command.Flags().GetInt("items")
	if err != nil {
		return err
	}
	order, err := command.Flags().GetString("order")
	if err != nil {
		return err
	}

	client, err := clients.New(service, token)
	if err != nil {
		return err
	}

	req, err := client.NewRequest(command.Context(), http.MethodGet, "/v2/callbacks/events", nil,
		&webhookEventsParams{
			Page:  page,
			Items: items,
			Order: order,
		})
	if err != nil {
		return err
	}

	var listing responses.PaginationResponse
	if _, err := client.Do(command.Context(), req, &listing); err != nil {
		return err
	}
	return printJSON(&listing)
}
