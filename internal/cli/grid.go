package cli

import (
	"context"
	"time"

	"github.com/MikeBiancalana/calpick/internal/blackout"
	"github.com/MikeBiancalana/calpick/internal/calendar"
	"github.com/MikeBiancalana/calpick/internal/config"
	"github.com/MikeBiancalana/calpick/internal/logger"
	"github.com/spf13/cobra"
)

func newGridCommand(g *globalFlags) *cobra.Command {
	var modeFlag, formatFlag string

	cmd := &cobra.Command{
		Use:   "grid [date]",
		Short: "Print the picker grid around a date",
		Long: `Print the cells the picker shows for a date (today by default).

Disabled cells are shown in parentheses and the date itself in brackets.
Use --format json, tsv or csv for machine-readable output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := calendar.ParseMode(modeFlag)
			if err != nil {
				return err
			}
			format, err := parseFormat(formatFlag)
			if err != nil {
				return err
			}

			cfg, _, err := g.loadConfig()
			if err != nil {
				return err
			}
			construct, err := cfg.Constructor()
			if err != nil {
				return err
			}

			view := construct(nil)
			if len(args) == 1 {
				if view, err = parseDateArg(args[0], construct); err != nil {
					return err
				}
			}

			params := cfg.Params()
			selected := view.Time()
			params.SelectionStart = &selected
			params.SelectionEnd = &selected
			params.InclusiveSingleDay = true
			if mode == calendar.ModeDay {
				from, to := blackout.Window(selected)
				params.DisabledDates = resolveBlackouts(commandContext(cmd), cfg, view.Location(), from, to)
			}

			cells := calendar.Cells(view, mode, params)
			out := cmd.OutOrStdout()
			switch format {
			case FormatJSON:
				return formatCellsJSON(out, cells)
			case FormatTSV:
				return formatCellsTSV(out, cells)
			case FormatCSV:
				return formatCellsCSV(out, cells)
			default:
				return formatCellsText(out, cells, mode, params)
			}
		},
	}

	cmd.Flags().StringVarP(&modeFlag, "mode", "m", string(calendar.ModeDay), "grid to print: day, month, year, hour or minute")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "text", "output format: text, json, tsv or csv")

	return cmd
}

// resolveBlackouts collects the disabled dates of every configured source.
// Sources that fail are logged and skipped.
func resolveBlackouts(ctx context.Context, cfg *config.Picker, loc *time.Location, from, to time.Time) []time.Time {
	repo, closeDB, err := openRepository()
	if err != nil {
		logger.Warn("blackout database unavailable", "error", err)
	} else {
		defer closeDB()
	}

	resolver, err := blackout.FromConfig(cfg, repo, loc)
	if err != nil {
		logger.Warn("failed to configure blackout dates", "error", err)
		return nil
	}
	dates, err := resolver.Dates(ctx, from, to)
	if err != nil {
		logger.Warn("some blackout sources failed", "error", err)
	}
	return dates
}
