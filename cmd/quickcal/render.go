package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"quickcal/internal/clock"
	"quickcal/internal/config"
	"quickcal/internal/event"
	"quickcal/internal/ics"
	"quickcal/internal/model"
	"quickcal/internal/qr"
)

var eventFlagNames = []string{
	model.FieldTitle,
	model.FieldDescription,
	model.FieldStart,
	model.FieldEnd,
	model.FieldDuration,
	model.FieldLocation,
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	var (
		values = make(map[string]*string, len(eventFlagNames))
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write one event as .ics or a QR code PNG",
		Example: `  quickcal render --title "Lunch" --start 2023-06-01T12:30 --duration 45m
  quickcal render --end "2023-06-01 18:00" --format qr -o event.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := config.DefaultConfig()
			if cmd.Flags().Changed("config") {
				var err error
				if conf, err = loadConfig(root); err != nil {
					return err
				}
			}

			// Only flags that were set count as present fields.
			fields := model.Fields{}
			for _, name := range eventFlagNames {
				if cmd.Flags().Changed(name) {
					fields[name] = *values[name]
				}
			}

			now := clock.NewSystem().Now()
			a := event.NewAssembler(
				event.NewResolver(conf.ResolverOptions()),
				event.Defaults{Title: conf.DefaultTitle, Description: conf.DefaultDescription},
			)
			draft, err := a.Assemble(fields, now)
			if err != nil {
				return err
			}
			text := ics.Render(draft, ics.RenderOptions{ProductID: conf.ProductID, Stamp: now})

			var out []byte
			switch format {
			case "ics":
				out = []byte(text)
			case "qr":
				level, err := qr.ParseLevel(conf.QR.Recovery)
				if err != nil {
					return err
				}
				if out, err = qr.Encode(text, conf.QR.Size, level); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format %q (want ics or qr)", format)
			}

			return writeOutput(cmd.OutOrStdout(), output, out)
		},
	}

	help := map[string]string{
		model.FieldTitle:       "Event title",
		model.FieldDescription: "Event description",
		model.FieldStart:       "Start time (ISO 8601, RFC 3339 or YYYY-MM-DDTHH:MM, UTC if no offset)",
		model.FieldEnd:         "End time (same formats as --start)",
		model.FieldDuration:    "Duration, e.g. 90m, 1h30m, 2 days",
		model.FieldLocation:    "Event location",
	}
	for _, name := range eventFlagNames {
		values[name] = cmd.Flags().String(name, "", help[name])
	}
	cmd.Flags().StringVar(&format, "format", "ics", "Output format: ics or qr")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file, - for stdout")
	return cmd
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
