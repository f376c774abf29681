package cmd

import (
	"errors"

	cmdutils "github.com/payblock/payblock-go/cmd"
	rootcmd "github.com/payblock/payblock-go/cmd"
	"github.com/payblock/payblock-go/libs/clients/payblock"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	// VerifyCmd is the root address verification command
	VerifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "verify ownership of an external address",
	}
	// VerifyStartCmd starts an address verification session
	VerifyStartCmd = &cobra.Command{
		Use:   "start",
		Short: "start an ownership verification for an address",
		Run:   rootcmd.Perform("verify start", RunVerifyStart),
	}
	// VerifyConfirmCmd confirms an address verification session
	VerifyConfirmCmd = &cobra.Command{
		Use:   "confirm",
		Short: "confirm a verification with the amount received",
		Run:   rootcmd.Perform("verify confirm", RunVerifyConfirm),
	}
)

func init() {
	VerifyCmd.AddCommand(
		VerifyStartCmd,
		VerifyConfirmCmd,
	)
	rootcmd.RootCmd.AddCommand(VerifyCmd)

	startBuilder := cmdutils.NewFlagBuilder(VerifyStartCmd)

	startBuilder.Flag().String("symbol", "",
		"the asset symbol the address belongs to").
		Bind("symbol").
		Require()

	startBuilder.Flag().String("network-id", "",
		"the network the address lives on").
		Bind("network-id").
		Require()

	startBuilder.Flag().String("address", "",
		"the external address to verify").
		Bind("address").
		Require()

	startBuilder.Flag().String("reference-id", "",
		"merchant assigned reference id for the verification").
		Bind("reference-id").
		Require()

	confirmBuilder := cmdutils.NewFlagBuilder(VerifyConfirmCmd)

	confirmBuilder.Flag().String("symbol", "",
		"the asset symbol the verification was started for").
		Bind("symbol").
		Require()

	confirmBuilder.Flag().String("network-id", "",
		"the network the verification was started on").
		Bind("network-id").
		Require()

	confirmBuilder.Flag().String("amount", "",
		"the amount received from the address under verification").
		Bind("amount").
		Require()

	confirmBuilder.Flag().String("reference-id", "",
		"merchant assigned reference id of the verification").
		Bind("reference-id").
		Require()
}

// RunVerifyStart runs the verify start command
func RunVerifyStart(command *cobra.Command, args []string) error {
	symbol, err := command.Flags().GetString("symbol")
	if err != nil {
		return err
	}
	networkID, err := command.Flags().GetString("network-id")
	if err != nil {
		return err
	}
	address, err := command.Flags().GetString("address")
	if err != nil {
		return err
	}
	referenceID, err := command.Flags().GetString("reference-id")
	if err != nil {
		return err
	}

	client, err := newPayblockClient()
	if err != nil {
		return err
	}

	session, err := client.StartAddressVerification(command.Context(), payblock.StartVerificationPayload{
		Symbol:      symbol,
		NetworkID:   networkID,
		Address:     address,
		ReferenceID: referenceID,
	})
	if err != nil {
		return err
	}
	return printJSON(session)
}

// RunVerifyConfirm runs the verify confirm command
func RunVerifyConfirm(command *cobra.Command, args []string) error {
	symbol, err := command.Flags().GetString("symbol")
	if err != nil {
		return err
	}
	networkID, err := command.Flags().GetString("network-id")
	if err != nil {
		return err
	}
	amountRaw, err := command.Flags().GetString("amount")
	if err != nil {
		return err
	}
	referenceID, err := command.Flags().GetString("reference-id")
	if err != nil {
		return err
	}

	amount, err := decimal.NewFromString(amountRaw)
	if err != nil || !amount.IsPositive() {
		return errors.New("must pass --amount greater than 0")
	}

	client, err := newPayblockClient()
	if err != nil {
		return err
	}

	result, err := client.ConfirmAddressVerification(command.Context(), payblock.ConfirmVerificationPayload{
		Symbol:      symbol,
		NetworkID:   networkID,
		Amount:      amount,
		ReferenceID: referenceID,
	})
	if err != nil {
		return err
	}
	return printJSON(result)
}
