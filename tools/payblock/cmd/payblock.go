package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/payblock/payblock-go/libs/clients/payblock"
	"github.com/spf13/viper"
)

// newPayblockClient builds a gateway client from the root command persistent
// flags, env vars fill in whatever was left unset
func newPayblockClient() (payblock.Client, error) {
	server := viper.GetString("payblock-server")
	if len(server) == 0 {
		return nil, errors.New("the --payblock-server flag or PAYBLOCK_SERVER must be set")
	}
	publicKey := viper.GetString("payblock-public-key")
	if len(publicKey) == 0 {
		return nil, errors.New("the --payblock-public-key flag or PAYBLOCK_PUBLIC_KEY must be set")
	}
	secretKey := viper.GetString("payblock-secret-key")
	if len(secretKey) == 0 {
		return nil, errors.New("the --payblock-secret-key flag or PAYBLOCK_SECRET_KEY must be set")
	}

	return payblock.NewWithConf(payblock.Conf{
		Server:    server,
		PublicKey: publicKey,
		SecretKey: secretKey,
		Proxy:     viper.GetString("payblock-proxy"),
		SigningKey: payblock.SigningKeyConfig{
			KeyFile: viper.GetString("payblock-signing-key-file"),
			KeyEnv:  viper.GetString("payblock-signing-key-env"),
		},
		AssetsCacheExpiry: viper.GetDuration("payblock-cache-expiry"),
		AssetsCachePurge:  viper.GetDuration("payblock-cache-purge"),
	})
}

// printJSON writes v to stdout indented
func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
