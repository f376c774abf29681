package cmd

import (
	"errors"
	"net/http"

	cmdutils "github.com/payblock/payblock-go/cmd"
	rootcmd "github.com/payblock/payblock-go/cmd"
	"github.com/payblock/payblock-go/libs/backoff"
	"github.com/payblock/payblock-go/libs/backoff/retrypolicy"
	"github.com/payblock/payblock-go/libs/clients/payblock"
	"github.com/payblock/payblock-go/libs/logging"
	"github.com/payblock/payblock-go/libs/middleware"
	"github.com/spf13/cobra"
)

var (
	// AssetsCmd lists the withdrawable assets
	AssetsCmd = &cobra.Command{
		Use:   "assets",
		Short: "list the assets withdrawals are currently enabled for",
		Run:   rootcmd.Perform("assets", RunAssets),
	}
	// BalancesCmd lists the merchant account balances
	BalancesCmd = &cobra.Command{
		Use:   "balances",
		Short: "list the per asset balances of the merchant account",
		Run:   rootcmd.Perform("balances", RunBalances),
	}
)

var (
	retryPolicy = retrypolicy.DefaultRetry
)

// canRetry refuses a retry once the gateway has answered with an application
// level error, only transport failures are worth another attempt
func canRetry(err error) bool {
	var apiError *payblock.APIError
	return !errors.As(err, &apiError)
}

func init() {
	rootcmd.RootCmd.AddCommand(
		AssetsCmd,
		BalancesCmd,
	)

	balancesBuilder := cmdutils.NewFlagBuilder(BalancesCmd)

	balancesBuilder.Flag().Duration("monitor", 0,
		"keep polling balances on this interval and export the balance gauge").
		Bind("monitor")

	balancesBuilder.Flag().String("metrics-address", ":9090",
		"the address to expose prometheus metrics on while monitoring").
		Bind("metrics-address")
}

// RunAssets runs the assets command
func RunAssets(command *cobra.Command, args []string) error {
	client, err := newPayblockClient()
	if err != nil {
		return err
	}

	ctx := command.Context()
	listAssets := func() (interface{}, error) {
		return client.WithdrawableAssets(ctx)
	}

	assets, err := backoff.Retry(ctx, listAssets, retryPolicy, canRetry)
	if err != nil {
		return err
	}
	return printJSON(assets)
}

// RunBalances runs the balances command, optionally staying up to keep the
// account balance gauge current
func RunBalances(command *cobra.Command, args []string) error {
	monitor, err := command.Flags().GetDuration("monitor")
	if err != nil {
		return err
	}
	metricsAddr, err := command.Flags().GetString("metrics-address")
	if err != nil {
		return err
	}

	client, err := newPayblockClient()
	if err != nil {
		return err
	}

	ctx := command.Context()
	listBalances := func() (interface{}, error) {
		return client.Balances(ctx)
	}

	balances, err := backoff.Retry(ctx, listBalances, retryPolicy, canRetry)
	if err != nil {
		return err
	}
	if err := printJSON(balances); err != nil {
		return err
	}

	if monitor <= 0 {
		return nil
	}

	logger := logging.FromContext(ctx)
	logger.Info().
		Str("metrics_address", metricsAddr).
		Dur("interval", monitor).
		Msg("monitoring payblock balances")

	go func() {
		if err := http.ListenAndServe(metricsAddr, middleware.Metrics()); err != nil {
			logger.Error().Err(err).Msg("metrics listener failed")
		}
	}()

	return payblock.WatchPayblockBalance(ctx, client, monitor)
}
