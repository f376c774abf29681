// main - main entry-point to payblock commands through cobra
// individual commands are outlined in ./cmd/
package main

import (
	"github.com/payblock/payblock-go/cmd"
	"github.com/payblock/payblock-go/libs/logging"

	// pull in the gateway client commands. setup code is in init
	_ "github.com/payblock/payblock-go/tools/payblock/cmd"

	// pull in the webhook service. setup code is in init
	_ "github.com/payblock/payblock-go/services/webhook/cmd"
)

var (
	// variables will be overwritten at build time
	version   string
	commit    string
	buildTime string
)

func main() {
	defer func() {
		if logging.Writer != nil {
			logging.Writer.Close()
		}
	}()
	cmd.Execute(version, commit, buildTime)
}
