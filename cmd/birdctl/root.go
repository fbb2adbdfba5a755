package main

import (
	"github.com/asquebay/bird-events-service/internal/client"
	"github.com/asquebay/bird-events-service/internal/config"

	"github.com/spf13/cobra"
)

type options struct {
	apiURL     string
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "birdctl",
		Short:        "Bird events CLI",
		Long:         "birdctl lists and adds birds through the /birds API and seeds the bird storage.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.apiURL, "api", "http://localhost:8080", "base URL of the bird service")
	root.PersistentFlags().StringVar(&opts.configPath, "config", config.Path(), "path to the service config (seed only)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level for direct storage access")

	root.AddCommand(newListCmd(opts))
	root.AddCommand(newAddCmd(opts))
	root.AddCommand(newSeedCmd(opts))

	return root
}

func (o *options) client() *client.Client {
	return client.New(o.apiURL)
}
