package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"quickcal/internal/ics"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the event stored in an .ics file (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				body []byte
				err  error
			)
			if args[0] == "-" {
				body, err = io.ReadAll(cmd.InOrStdin())
			} else {
				body, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			ev, err := ics.Parse(body)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "uid:         %s\n", ev.UID)
			fmt.Fprintf(w, "title:       %s\n", ev.Draft.Title)
			fmt.Fprintf(w, "description: %s\n", ev.Draft.Description)
			if ev.Draft.Location != nil {
				fmt.Fprintf(w, "location:    %s\n", *ev.Draft.Location)
			}
			fmt.Fprintf(w, "start:       %s\n", ev.Draft.Interval.Start.Format(time.RFC3339))
			fmt.Fprintf(w, "end:         %s\n", ev.Draft.Interval.End.Format(time.RFC3339))
			fmt.Fprintf(w, "duration:    %s\n", ev.Draft.Interval.Duration())
			return nil
		},
	}
}
