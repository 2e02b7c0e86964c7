package main

import (
	"github.com/spf13/cobra"

	"quickcal/internal/config"
	appLog "quickcal/internal/log"
)

const defaultConfigPath = "/etc/quickcal/config.yaml"

// rootOptions holds persistent flag values shared by all subcommands.
type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "quickcal",
		Short: "Turn a few loose fields into a calendar event",
		Long: `quickcal builds a single calendar event from free-form title, description,
location, start, end and duration fields. Missing times default to a one hour
event; the result is served over HTTP as .ics, a QR code or JSON.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.logLevel == "" {
				return nil
			}
			lvl, err := appLog.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			appLog.SetLevel(lvl)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	cmd.AddCommand(newServeCmd(opts), newRenderCmd(opts), newInspectCmd())
	return cmd
}

// loadConfig loads the config file and applies its log level unless
// --log-level was given.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	conf, err := config.Load(opts.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", opts.configPath)
		return nil, err
	}
	if opts.logLevel == "" {
		if lvl, err := appLog.ParseLevel(conf.LogLevel); err == nil {
			appLog.SetLevel(lvl)
		}
	}
	return conf, nil
}
