package main

import (
	"os"

	"github.com/Sternrassler/catalog-pager/internal/config"
	"github.com/Sternrassler/catalog-pager/pkg/logging"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "catalog-pager",
		Short:        "Page through a remote product catalog",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}

			if opts.logLevel != "" {
				level, err := logging.ParseLevel(opts.logLevel)
				if err != nil {
					return err
				}
				cfg.Log.Level = string(level)
			}

			logging.Setup(logging.Config{
				Level:  logging.LogLevel(cfg.Log.Level),
				Pretty: cfg.Log.Pretty,
				Output: os.Stderr,
			})

			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd(opts), newBrowseCmd(opts))
	return cmd
}
