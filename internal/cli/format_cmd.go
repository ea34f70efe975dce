package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newFormatCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "format [date]",
		Short: "Show how the configured date handler formats a date",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.loadConfig()
			if err != nil {
				return err
			}
			construct, err := cfg.Constructor()
			if err != nil {
				return err
			}

			h := construct(nil)
			if len(args) == 1 {
				if h, err = parseDateArg(args[0], construct); err != nil {
					return err
				}
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "handler:\t%s\n", cfg.Handler)
			fmt.Fprintf(tw, "format:\t%s\n", h.Format())
			fmt.Fprintf(tw, "date:\t%s\n", h.FormatDate())
			fmt.Fprintf(tw, "time:\t%s\n", h.FormatTime())
			fmt.Fprintf(tw, "signature:\t%s\n", h.DateString(nil))
			fmt.Fprintf(tw, "weekday:\t%s\n", h.WeekDay())
			fmt.Fprintf(tw, "days in month:\t%d\n", h.DaysInMonth())
			fmt.Fprintf(tw, "location:\t%s\n", h.Location())
			return tw.Flush()
		},
	}
}
