package cmd

import (
	"time"

	// pprof imports
	_ "net/http/pprof"

	cmdutils "github.com/payblock/payblock-go/cmd"
	"github.com/payblock/payblock-go/services/cmd"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// add the rest command
	webhookCmd.AddCommand(restCmd)

	// add this command as a serve subcommand
	cmd.ServeCmd.AddCommand(webhookCmd)

	// setup the flags

	webhookCmd.PersistentFlags().String("webhook-secret", "",
		"the shared secret callback bodies are signed with")
	cmdutils.Must(viper.BindPFlag("webhook-secret", webhookCmd.PersistentFlags().Lookup("webhook-secret")))
	cmdutils.Must(viper.BindEnv("webhook-secret", "PAYBLOCK_WEBHOOK_SECRET"))

	webhookCmd.PersistentFlags().Duration("webhook-retention", 24*time.Hour,
		"how long processed request ids and events are retained")
	cmdutils.Must(viper.BindPFlag("webhook-retention", webhookCmd.PersistentFlags().Lookup("webhook-retention")))
	cmdutils.Must(viper.BindEnv("webhook-retention", "PAYBLOCK_WEBHOOK_RETENTION"))
}

var (
	webhookCmd = &cobra.Command{
		Use:   "webhook",
		Short: "provides the payblock callback micro-service entrypoint",
	}

	restCmd = &cobra.Command{
		Use:   "rest",
		Short: "provides REST api services",
		Run:   RestRun,
	}
)
