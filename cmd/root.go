package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/payblock/payblock-go/libs/clients"
	appctx "github.com/payblock/payblock-go/libs/context"
	errorutils "github.com/payblock/payblock-go/libs/errors"
	"github.com/payblock/payblock-go/libs/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// RootCmd is the base command (what the binary is called)
	RootCmd = &cobra.Command{
		Use:   "payblock",
		Short: "payblock provides the payblock gateway client and callback services",
	}
	ctx = context.Background()
)

// Execute - the main entrypoint for all subcommands in payblock
func Execute(version, commit, buildTime string) {
	// setup context with logging, but first we need to setup the environment
	var logger *zerolog.Logger
	ctx = context.WithValue(ctx, appctx.EnvironmentCTXKey, viper.Get("environment"))
	ctx = context.WithValue(ctx, appctx.DebugLoggingCTXKey, viper.GetBool("debug"))
	ctx, logger = logging.SetupLogger(ctx)

	ctx = context.WithValue(ctx, appctx.VersionCTXKey, version)
	ctx = context.WithValue(ctx, appctx.CommitCTXKey, commit)
	ctx = context.WithValue(ctx, appctx.BuildTimeCTXKey, buildTime)

	// execute the root cmd
	if err := RootCmd.ExecuteContext(ctx); err != nil {
		logger.Error().Err(err).Msg("./payblock command encountered an error")
		os.Exit(1)
	}
}

func init() {
	// pprof-enabled - defaults to ""
	RootCmd.PersistentFlags().String("pprof-enabled", "",
		"pprof enablement")
	Must(viper.BindPFlag("pprof-enabled", RootCmd.PersistentFlags().Lookup("pprof-enabled")))
	Must(viper.BindEnv("pprof-enabled", "PPROF_ENABLED"))

	// env - defaults to local
	RootCmd.PersistentFlags().String("environment", "local",
		"the default environment")
	Must(viper.BindPFlag("environment", RootCmd.PersistentFlags().Lookup("environment")))
	Must(viper.BindEnv("environment", "ENV"))

	// debug logging - defaults to off
	RootCmd.PersistentFlags().Bool("debug", false, "turn on debug logging")
	Must(viper.BindPFlag("debug", RootCmd.PersistentFlags().Lookup("debug")))
	Must(viper.BindEnv("debug", "DEBUG"))

	// payblockServer (required by the gateway commands)
	RootCmd.PersistentFlags().String("payblock-server", "",
		"the payblock gateway base url")
	Must(viper.BindPFlag("payblock-server", RootCmd.PersistentFlags().Lookup("payblock-server")))
	Must(viper.BindEnv("payblock-server", "PAYBLOCK_SERVER"))

	// payblockPublicKey (required by the gateway commands)
	RootCmd.PersistentFlags().String("payblock-public-key", "",
		"the payblock api public key identifying the merchant account")
	Must(viper.BindPFlag("payblock-public-key", RootCmd.PersistentFlags().Lookup("payblock-public-key")))
	Must(viper.BindEnv("payblock-public-key", "PAYBLOCK_PUBLIC_KEY"))

	// payblockSecretKey (required by the gateway commands)
	RootCmd.PersistentFlags().String("payblock-secret-key", "",
		"the payblock api secret key the request hashes are computed with")
	Must(viper.BindPFlag("payblock-secret-key", RootCmd.PersistentFlags().Lookup("payblock-secret-key")))
	Must(viper.BindEnv("payblock-secret-key", "PAYBLOCK_SECRET_KEY"))

	// payblockSigningKeyFile - pem file holding the request signing key
	RootCmd.PersistentFlags().String("payblock-signing-key-file", "",
		"path to a pem encoded rsa key used to sign request bodies")
	Must(viper.BindPFlag("payblock-signing-key-file", RootCmd.PersistentFlags().Lookup("payblock-signing-key-file")))
	Must(viper.BindEnv("payblock-signing-key-file", "PAYBLOCK_SIGNING_KEY_FILE"))

	// payblockSigningKeyEnv - env var holding the request signing key
	RootCmd.PersistentFlags().String("payblock-signing-key-env", "",
		"name of the env var holding a pem encoded rsa signing key")
	Must(viper.BindPFlag("payblock-signing-key-env", RootCmd.PersistentFlags().Lookup("payblock-signing-key-env")))
	Must(viper.BindEnv("payblock-signing-key-env", "PAYBLOCK_SIGNING_KEY_ENV"))

	// payblockProxy - proxy the gateway requests
	RootCmd.PersistentFlags().String("payblock-proxy", "",
		"the proxy to reach the payblock gateway through")
	Must(viper.BindPFlag("payblock-proxy", RootCmd.PersistentFlags().Lookup("payblock-proxy")))
	Must(viper.BindEnv("payblock-proxy", "HTTP_PROXY"))

	// payblockCacheExpiry
	RootCmd.PersistentFlags().Duration("payblock-cache-expiry", 5*time.Minute,
		"the withdrawable assets cache default eviction duration")
	Must(viper.BindPFlag("payblock-cache-expiry", RootCmd.PersistentFlags().Lookup("payblock-cache-expiry")))
	Must(viper.BindEnv("payblock-cache-expiry", "PAYBLOCK_CACHE_EXPIRY"))

	// payblockCachePurge
	RootCmd.PersistentFlags().Duration("payblock-cache-purge", 10*time.Minute,
		"the withdrawable assets cache default purge duration")
	Must(viper.BindPFlag("payblock-cache-purge", RootCmd.PersistentFlags().Lookup("payblock-cache-purge")))
	Must(viper.BindEnv("payblock-cache-purge", "PAYBLOCK_CACHE_PURGE"))

	RootCmd.AddCommand(VersionCmd)
}

// VersionCmd is the command to get the code's version information
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "get the version of this binary",
	Run:   versionRun,
}

func versionRun(command *cobra.Command, args []string) {
	version := command.Context().Value(appctx.VersionCTXKey).(string)
	commit := command.Context().Value(appctx.CommitCTXKey).(string)
	buildTime := command.Context().Value(appctx.BuildTimeCTXKey).(string)
	fmt.Printf("version: %s\ncommit: %s\nbuild time: %s\n",
		version, commit, buildTime,
	)
}

// Perform performs a run
func Perform(action string, fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		err := fn(cmd, args)
		if err != nil {
			logger, lerr := appctx.GetLogger(cmd.Context())
			if lerr != nil {
				_, logger = logging.SetupLogger(cmd.Context())
			}

			log := logger.Err(err).Str("action", action)
			httpError, ok := err.(*errorutils.ErrorBundle)
			if ok {
				state, ok := httpError.Data().(clients.HTTPState)
				if ok {
					log = log.Int("status", state.Status).
						Str("path", state.Path).
						Interface("data", state.Body)
				}
			}
			log.Msg("failed")
		}
		<-time.After(10 * time.Millisecond)
		if err != nil {
			os.Exit(1)
		}
	}
}
