package cli

import (
	"errors"
	"fmt"

	"github.com/MikeBiancalana/calpick/internal/calendar"
	"github.com/MikeBiancalana/calpick/internal/config"
	"github.com/MikeBiancalana/calpick/internal/datehandler"
	"github.com/MikeBiancalana/calpick/internal/logger"
	"github.com/MikeBiancalana/calpick/internal/storage"
	"github.com/MikeBiancalana/calpick/internal/tui"
	"github.com/MikeBiancalana/calpick/internal/tui/components"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// ErrCancelled is returned when the picker closes without a value. main
// turns it into exit code 1 without printing anything.
var ErrCancelled = errors.New("cancelled")

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	handler    string
	timezone   string
	weekStart  string
}

// overrides reports whether any flag replaces a config file setting.
func (g *globalFlags) overrides() bool {
	return g.handler != "" || g.timezone != "" || g.weekStart != ""
}

// loadConfig reads the picker configuration and applies the flag overrides.
// It returns the path the configuration was read from.
func (g *globalFlags) loadConfig() (*config.Picker, string, error) {
	path := g.configPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return nil, "", fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	cfg, err := config.LoadPicker(path)
	if err != nil {
		if cfg == nil {
			return nil, "", err
		}
		// The defaults are usable even when they could not be written out.
		logger.Warn("failed to write default config", "path", path, "error", err)
	}

	if g.handler != "" {
		cfg.Handler = g.handler
	}
	if g.timezone != "" {
		cfg.Timezone = g.timezone
	}
	if g.weekStart != "" {
		if _, err := config.ParseWeekday(g.weekStart); err != nil {
			return nil, "", err
		}
		cfg.WeekStart = g.weekStart
	}
	return cfg, path, nil
}

// openRepository opens the blackout database in the data directory. The
// returned func closes it.
func openRepository() (*storage.BlackoutRepository, func(), error) {
	dbPath, err := config.DatabasePath()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get database path: %w", err)
	}
	db, err := storage.NewDatabase(dbPath)
	if err != nil {
		return nil, nil, err
	}
	return storage.NewBlackoutRepository(db), func() { db.Close() }, nil
}

// parseDateArg accepts everything the picker's entry line does.
func parseDateArg(s string, construct datehandler.Constructor) (datehandler.Handler, error) {
	h, err := components.ParseRelativeDate(s, construct(nil), construct)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return h, nil
}

// NewRootCommand builds the calpick command tree.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}
	var printFormat string

	cmd := &cobra.Command{
		Use:   "calpick [date]",
		Short: "calpick - terminal date and time picker",
		Long: `A terminal date and time picker. Run without a subcommand to pick a value
interactively; the chosen value is printed to stdout.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPicker(cmd, g, args, printFormat)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "config file (default ~/.calpick/config.yaml)")
	pf.StringVar(&g.handler, "handler", "", fmt.Sprintf("date handler %v", datehandler.Names()))
	pf.StringVar(&g.timezone, "tz", "", "IANA time zone (calendar handler)")
	pf.StringVar(&g.weekStart, "week-start", "", "first day of the week, name or 0-6")
	cmd.Flags().StringVar(&printFormat, "print-format", "", "Go time layout for the printed value")

	cmd.AddCommand(newGridCommand(g))
	cmd.AddCommand(newFormatCommand(g))
	cmd.AddCommand(newBlackoutCommand(g))

	return cmd
}

func runPicker(cmd *cobra.Command, g *globalFlags, args []string, printFormat string) error {
	cfg, path, err := g.loadConfig()
	if err != nil {
		return err
	}
	construct, err := cfg.Constructor()
	if err != nil {
		return err
	}

	var initial datehandler.Handler = construct(nil)
	if len(args) == 1 {
		if initial, err = parseDateArg(args[0], construct); err != nil {
			return err
		}
	}

	if err := logger.InitializeWithConfig(logger.Config{
		Level:   logger.GetLevel().String(),
		Format:  logger.GetFormat(),
		TUIMode: true,
	}); err != nil {
		return err
	}
	defer logger.Close()

	repo, closeDB, err := openRepository()
	if err != nil {
		// Stored blackouts are optional for picking.
		logger.Warn("blackout database unavailable", "error", err)
	} else {
		defer closeDB()
	}

	// Live reload would drop the flag overrides.
	watchPath := path
	if g.overrides() {
		watchPath = ""
	}

	model, err := tui.NewModel(cfg, initial.Time(), repo, watchPath)
	if err != nil {
		return err
	}
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("failed to run picker: %w", err)
	}

	result, ok := final.(*tui.Model).Result()
	if !ok {
		return ErrCancelled
	}

	cal := &calendar.Calendar{New: construct, Options: cfg.Options()}
	fmt.Fprintln(cmd.OutOrStdout(), formatResult(cal, result, printFormat))
	return nil
}

// formatResult renders a committed value, or "start<TAB>end" for a range.
// An empty layout uses the picker's own display string.
func formatResult(cal *calendar.Calendar, result components.DatePickerSelectMsg, layout string) string {
	format := func(h datehandler.Handler) string {
		if layout != "" {
			return h.Time().Format(layout)
		}
		return cal.FormatValue(h)
	}
	value := format(cal.New(result.Value))
	if result.RangeStart == nil {
		return value
	}
	return format(cal.New(*result.RangeStart)) + "\t" + value
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}
