package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MikeBiancalana/calpick/internal/blackout"
	"github.com/MikeBiancalana/calpick/internal/datehandler"
	"github.com/MikeBiancalana/calpick/internal/logger"
	"github.com/MikeBiancalana/calpick/internal/storage"
	"github.com/MikeBiancalana/calpick/internal/tui/components"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newBlackoutCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blackout",
		Short: "Manage dates that cannot be picked",
		Long: `Manage blacked-out dates stored in the calpick database.

Dates from the config file, recurrence rules, ICS files and holiday calendars
are shown with 'blackout list --resolve'.`,
	}

	cmd.AddCommand(newBlackoutAddCommand(g))
	cmd.AddCommand(newBlackoutRemoveCommand())
	cmd.AddCommand(newBlackoutListCommand(g))

	return cmd
}

func newBlackoutAddCommand(g *globalFlags) *cobra.Command {
	var pick bool

	cmd := &cobra.Command{
		Use:   "add [date] [reason...]",
		Short: "Black out a date",
		Long: `Black out a date. Without arguments an interactive form asks for the date
and reason; with --pick the date is chosen in the calendar.

Examples:
  calpick blackout add 2024-12-25 Christmas
  calpick blackout add +1w "team offsite"
  calpick blackout add --pick`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.loadConfig()
			if err != nil {
				return err
			}
			construct, err := cfg.Constructor()
			if err != nil {
				return err
			}

			repo, closeDB, err := openRepository()
			if err != nil {
				return err
			}
			defer closeDB()

			var (
				date   time.Time
				reason string
			)
			switch {
			case len(args) > 0:
				h, err := parseDateArg(args[0], construct)
				if err != nil {
					return err
				}
				date = h.Time()
				reason = strings.Join(args[1:], " ")
			case pick:
				resolver, err := blackout.FromConfig(cfg, repo, construct(nil).Location())
				if err != nil {
					return fmt.Errorf("failed to configure blackout dates: %w", err)
				}
				var canceled bool
				date, canceled, err = PickDate("Black out a date", construct, cfg.Params(), time.Time{}, pickerBlackouts(commandContext(cmd), resolver))
				if err != nil {
					return err
				}
				if canceled {
					return ErrCancelled
				}
			default:
				date, reason, err = runBlackoutForm(construct)
				if err != nil {
					return err
				}
			}

			d, err := repo.Add(commandContext(cmd), date, reason)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Blacked out %s (%s)\n", d.Date, d.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&pick, "pick", false, "choose the date in the calendar")
	return cmd
}

// pickerBlackouts adapts resolver for the inline picker. Sources that fail
// are logged; dates from the others still keep taken days unpickable.
func pickerBlackouts(ctx context.Context, resolver *blackout.Resolver) components.DisabledFunc {
	return func(from, to time.Time) []time.Time {
		dates, err := resolver.Dates(ctx, from, to)
		if err != nil {
			logger.Warn("some blackout sources failed", "from", from, "to", to, "error", err)
		}
		return dates
	}
}

// runBlackoutForm asks for a date and an optional reason.
func runBlackoutForm(construct datehandler.Constructor) (time.Time, string, error) {
	var dateInput, reason string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date").
				Description("2024-12-25, t, tm, +3d, fri ...").
				Value(&dateInput).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("date is required")
					}
					_, err := parseDateArg(s, construct)
					return err
				}),
			huh.NewInput().
				Title("Reason (optional)").
				Value(&reason),
		),
	)

	if err := form.Run(); err != nil {
		return time.Time{}, "", fmt.Errorf("form cancelled: %w", err)
	}

	h, err := parseDateArg(dateInput, construct)
	if err != nil {
		return time.Time{}, "", err
	}
	return h.Time(), strings.TrimSpace(reason), nil
}

func newBlackoutRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a stored blackout",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeDB, err := openRepository()
			if err != nil {
				return err
			}
			defer closeDB()

			if err := repo.Remove(commandContext(cmd), args[0]); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return fmt.Errorf("no blackout with id %s: %w", args[0], storage.ErrNotFound)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}

func newBlackoutListCommand(g *globalFlags) *cobra.Command {
	var (
		formatFlag string
		resolve    bool
		fromFlag   string
		toFlag     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List blacked-out dates",
		Long: `List the blackouts stored in the database.

With --resolve, every configured source is consulted and the resulting dates
between --from and --to are listed (default: the previous, current and next
month).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(formatFlag)
			if err != nil {
				return err
			}

			var records []blackoutRecord
			if resolve {
				records, err = resolvedRecords(cmd, g, fromFlag, toFlag)
			} else {
				records, err = storedRecords(commandContext(cmd))
			}
			if err != nil {
				return err
			}

			if len(records) == 0 && format == FormatText {
				fmt.Fprintln(cmd.OutOrStdout(), "No blackouts")
				return nil
			}
			return writeBlackouts(cmd.OutOrStdout(), records, format)
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "text", "output format: text, json, tsv or csv")
	cmd.Flags().BoolVar(&resolve, "resolve", false, "include every configured blackout source")
	cmd.Flags().StringVar(&fromFlag, "from", "", "first date for --resolve")
	cmd.Flags().StringVar(&toFlag, "to", "", "last date for --resolve")

	return cmd
}

func storedRecords(ctx context.Context) ([]blackoutRecord, error) {
	repo, closeDB, err := openRepository()
	if err != nil {
		return nil, err
	}
	defer closeDB()

	dates, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]blackoutRecord, len(dates))
	for i, d := range dates {
		records[i] = blackoutRecord{ID: d.ID, Date: d.Date, Reason: d.Reason}
	}
	return records, nil
}

func resolvedRecords(cmd *cobra.Command, g *globalFlags, fromFlag, toFlag string) ([]blackoutRecord, error) {
	cfg, _, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	construct, err := cfg.Constructor()
	if err != nil {
		return nil, err
	}

	now := construct(nil)
	from, to := blackout.Window(now.Time())
	if fromFlag != "" {
		h, err := parseDateArg(fromFlag, construct)
		if err != nil {
			return nil, err
		}
		from = h.Time()
	}
	if toFlag != "" {
		h, err := parseDateArg(toFlag, construct)
		if err != nil {
			return nil, err
		}
		to = h.Time()
	}
	if to.Before(from) {
		return nil, fmt.Errorf("--to %s is before --from %s", to.Format(storage.DateLayout), from.Format(storage.DateLayout))
	}

	dates := resolveBlackouts(commandContext(cmd), cfg, now.Location(), from, to)
	records := make([]blackoutRecord, len(dates))
	for i, d := range dates {
		records[i] = blackoutRecord{Date: d.Format(storage.DateLayout)}
	}
	return records, nil
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
