package main

import (
	"fmt"
	"os"

	"github.com/asquebay/bird-events-service/internal/config"
	"github.com/asquebay/bird-events-service/internal/lib/logger"
	"github.com/asquebay/bird-events-service/internal/repository/cache"
	"github.com/asquebay/bird-events-service/internal/service"
	"github.com/asquebay/bird-events-service/internal/storage"

	"github.com/spf13/cobra"
)

func newSeedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace all birds with the seed set",
		Long:  "Delete every stored bird and insert the seed birds. Talks to the storage from the config file directly.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}

			log := logger.NewWithWriter(os.Stderr, opts.logLevel, cfg.Logger.Format)

			repo, closeRepo, err := storage.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			// события о сидировании не публикуются
			svc := service.NewBirdService(repo, cache.NewBirdCache(), nil, log)
			birds, err := svc.Seed(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d birds\n", len(birds))
			return printBirds(cmd.OutOrStdout(), birds)
		},
	}
}
