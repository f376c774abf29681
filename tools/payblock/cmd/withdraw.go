package cmd

import (
	"errors"

	cmdutils "github.com/payblock/payblock-go/cmd"
	rootcmd "github.com/payblock/payblock-go/cmd"
	"github.com/payblock/payblock-go/libs/clients/payblock"
	"github.com/payblock/payblock-go/libs/logging"
	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	// WithdrawCmd submits a withdrawal to the gateway
	WithdrawCmd = &cobra.Command{
		Use:   "withdraw",
		Short: "submit a withdrawal from the merchant account",
		Run:   rootcmd.Perform("withdraw", RunWithdraw),
	}
)

func init() {
	rootcmd.RootCmd.AddCommand(WithdrawCmd)

	withdrawBuilder := cmdutils.NewFlagBuilder(WithdrawCmd)

	withdrawBuilder.Flag().String("symbol", "",
		"the asset symbol to withdraw").
		Bind("symbol").
		Require()

	withdrawBuilder.Flag().String("amount", "",
		"the amount to withdraw").
		Bind("amount").
		Require()

	withdrawBuilder.Flag().String("address", "",
		"the destination address").
		Bind("address").
		Require()

	withdrawBuilder.Flag().String("merchant-transaction-id", "",
		"idempotency key for the withdrawal, generated when not supplied").
		Bind("merchant-transaction-id")
}

// RunWithdraw runs the withdraw command. A failed submission is never retried
// here, resubmit with the same merchant transaction id instead and let the
// gateway deduplicate on it.
func RunWithdraw(command *cobra.Command, args []string) error {
	symbol, err := command.Flags().GetString("symbol")
	if err != nil {
		return err
	}
	amountRaw, err := command.Flags().GetString("amount")
	if err != nil {
		return err
	}
	address, err := command.Flags().GetString("address")
	if err != nil {
		return err
	}
	merchantTransactionID, err := command.Flags().GetString("merchant-transaction-id")
	if err != nil {
		return err
	}

	ctx := command.Context()
	logger := logging.FromContext(ctx)

	amount, err := decimal.NewFromString(amountRaw)
	if err != nil || !amount.IsPositive() {
		return errors.New("must pass --amount greater than 0")
	}

	if merchantTransactionID == "" {
		merchantTransactionID = uuid.NewV4().String()
		logger.Info().
			Str("merchantTransactionId", merchantTransactionID).
			Msg("generated a merchant transaction id for this withdrawal")
	}

	client, err := newPayblockClient()
	if err != nil {
		return err
	}

	withdrawal, err := client.CreateWithdrawal(ctx, payblock.CreateWithdrawalPayload{
		Symbol:                symbol,
		Amount:                amount,
		Address:               address,
		MerchantTransactionID: merchantTransactionID,
	})
	if err != nil {
		return err
	}
	return printJSON(withdrawal)
}
