package cmd

import (
	"context"
	"net/http"
	"time"

	// pprof imports
	_ "net/http/pprof"

	sentry "github.com/getsentry/sentry-go"
	"github.com/go-chi/chi"
	cmdutils "github.com/payblock/payblock-go/cmd"
	appctx "github.com/payblock/payblock-go/libs/context"
	"github.com/payblock/payblock-go/libs/middleware"
	"github.com/payblock/payblock-go/services/cmd"
	"github.com/payblock/payblock-go/services/webhook"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RestRun - Main entrypoint of the REST subcommand
// This function takes a cobra command and starts up the
// webhook callback rest microservice.
func RestRun(command *cobra.Command, args []string) {
	ctx := command.Context()
	logger, err := appctx.GetLogger(ctx)
	cmdutils.Must(err)
	// add profiling flag to enable profiling routes
	if viper.GetString("pprof-enabled") != "" {
		// pprof attaches routes to default serve mux
		// host:6061/debug/pprof/
		go func() {
			logger.Error().Err(http.ListenAndServe(":6061", http.DefaultServeMux))
		}()
	}

	// add our command line params to context
	ctx = context.WithValue(ctx, appctx.WebhookSecretCTXKey, viper.GetString("webhook-secret"))
	ctx = context.WithValue(ctx, appctx.WebhookRetentionDurationCTXKey, viper.GetDuration("webhook-retention"))

	// setup the service now
	ctx, s, err := webhook.InitService(ctx, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize webhook service")
	}

	// do rest endpoints
	r := cmd.SetupRouter(ctx)
	r.Mount("/v2/callbacks", webhook.Router(s))

	err = cmd.SetupJobWorkers(command.Context(), s.Jobs())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize job workers")
	}

	// make sure exceptions go to sentry
	defer sentry.Flush(time.Second * 2)

	go func() {
		err := http.ListenAndServe(":9090", middleware.Metrics())
		if err != nil {
			sentry.CaptureException(err)
			logger.Panic().Err(err).Msg("metrics HTTP server start failed!")
		}
	}()

	// setup server, and run
	srv := http.Server{
		Addr:         viper.GetString("address"),
		Handler:      chi.ServerBaseContext(ctx, r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	if err = srv.ListenAndServe(); err != nil {
		sentry.CaptureException(err)
		logger.Fatal().Err(err).Msg("HTTP server start failed!")
	}
}
