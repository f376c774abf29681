package cmd

import (
	cmdutils "github.com/payblock/payblock-go/cmd"
	rootcmd "github.com/payblock/payblock-go/cmd"
	"github.com/payblock/payblock-go/libs/clients/payblock"
	"github.com/payblock/payblock-go/libs/logging"
	"github.com/payblock/payblock-go/libs/ptr"
	"github.com/spf13/cobra"
)

var (
	// DepositCmd is the root deposit address command
	DepositCmd = &cobra.Command{
		Use:   "deposit",
		Short: "manage gateway deposit addresses",
	}
	// DepositCreateCmd creates a deposit address
	DepositCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "create a new deposit address under the merchant account",
		Run:   rootcmd.Perform("deposit create", RunDepositCreate),
	}
	// DepositGetCmd looks up a deposit address
	DepositGetCmd = &cobra.Command{
		Use:   "get",
		Short: "look up a deposit address by reference id",
		Run:   rootcmd.Perform("deposit get", RunDepositGet),
	}
)

func init() {
	DepositCmd.AddCommand(
		DepositCreateCmd,
		DepositGetCmd,
	)
	rootcmd.RootCmd.AddCommand(DepositCmd)

	createBuilder := cmdutils.NewFlagBuilder(DepositCreateCmd)

	createBuilder.Flag().String("symbol", "",
		"the asset symbol to create the address for").
		Bind("symbol").
		Require()

	createBuilder.Flag().String("label", "",
		"optional label to attach to the address").
		Bind("label")

	createBuilder.Flag().String("reference-id", "",
		"merchant assigned reference id for later lookup").
		Bind("reference-id")

	createBuilder.Flag().String("callback-url", "",
		"url the gateway delivers payment callbacks for this address to").
		Bind("callback-url")

	getBuilder := cmdutils.NewFlagBuilder(DepositGetCmd)

	getBuilder.Flag().String("reference-id", "",
		"merchant assigned reference id of the address").
		Bind("reference-id").
		Require()
}

// RunDepositCreate runs the deposit create command
func RunDepositCreate(command *cobra.Command, args []string) error {
	symbol, err := command.Flags().GetString("symbol")
	if err != nil {
		return err
	}
	label, err := command.Flags().GetString("label")
	if err != nil {
		return err
	}
	referenceID, err := command.Flags().GetString("reference-id")
	if err != nil {
		return err
	}
	callbackURL, err := command.Flags().GetString("callback-url")
	if err != nil {
		return err
	}

	client, err := newPayblockClient()
	if err != nil {
		return err
	}

	payload := payblock.CreateDepositAddressPayload{
		Symbol: symbol,
	}
	if label != "" {
		payload.Label = ptr.FromString(label)
	}
	if referenceID != "" {
		payload.ReferenceID = ptr.FromString(referenceID)
	}
	if callbackURL != "" {
		payload.CallbackURL = ptr.FromString(callbackURL)
	}

	address, err := client.CreateDepositAddress(command.Context(), payload)
	if err != nil {
		return err
	}
	return printJSON(address)
}

// RunDepositGet runs the deposit get command
func RunDepositGet(command *cobra.Command, args []string) error {
	referenceID, err := command.Flags().GetString("reference-id")
	if err != nil {
		return err
	}

	ctx := command.Context()
	logging.AddReferenceIDToContext(ctx, referenceID)

	client, err := newPayblockClient()
	if err != nil {
		return err
	}

	address, err := client.GetDepositAddress(ctx, referenceID)
	if err != nil {
		return err
	}
	return printJSON(address)
}
