package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amaumene/testenv/pkg/device"
	"github.com/amaumene/testenv/pkg/models"
	"github.com/amaumene/testenv/pkg/repository"
	"github.com/amaumene/testenv/pkg/services"
)

// Colors for terminal output
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

type colorizer func(color, text string) string

type historyOptions struct {
	dbPath    string
	device    string
	platform  string
	limit     int
	statsOnly bool
	noColor   bool
	prune     time.Duration
}

func newHistoryCmd(_ *rootOptions) *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded test runs",
		Example: `  testenv history --db testenv.db --stats
  testenv history --db testenv.db --device ios71 --limit 10
  testenv history --db testenv.db --prune 720h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.dbPath, "db", "testenv.db", "run history database")
	cmd.Flags().StringVar(&opts.device, "device", "", "only runs for this device")
	cmd.Flags().StringVar(&opts.platform, "platform", "", "only runs for this platform (iOS, Android, Desktop)")
	cmd.Flags().IntVar(&opts.limit, "limit", 20, "maximum runs to show (0 for all)")
	cmd.Flags().BoolVar(&opts.statsOnly, "stats", false, "show only statistics")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	cmd.Flags().DurationVar(&opts.prune, "prune", 0, "delete runs older than this before listing")
	return cmd
}

func runHistory(w io.Writer, opts *historyOptions) error {
	filter := services.HistoryFilter{
		Platform: opts.platform,
		Limit:    opts.limit,
	}
	if opts.device != "" {
		sel, err := device.ParseSelector(opts.device)
		if err != nil {
			return err
		}
		filter.Device = sel.String()
	}

	repo, err := repository.Open(opts.dbPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	svc := services.NewRunService(repo)
	colorize := getColorizer(opts.noColor)

	if opts.prune > 0 {
		removed, err := svc.Prune(opts.prune)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %d runs older than %s\n\n", colorize("red", "Pruned"), removed, opts.prune)
	}

	total, err := repo.FindRuns(0)
	if err != nil {
		return err
	}
	runs, err := svc.History(filter)
	if err != nil {
		return err
	}

	printHeader(w, colorize, opts.dbPath, len(runs), len(total))
	printStatistics(w, colorize, services.Stats(runs))
	if opts.statsOnly {
		return nil
	}
	printRuns(w, colorize, runs)
	return nil
}

func getColorizer(noColor bool) colorizer {
	if noColor {
		return func(color, text string) string { return text }
	}

	colors := map[string]string{
		"red":    colorRed,
		"green":  colorGreen,
		"yellow": colorYellow,
		"blue":   colorBlue,
		"purple": colorPurple,
		"cyan":   colorCyan,
		"bold":   colorBold,
	}

	return func(color, text string) string {
		if c, ok := colors[color]; ok {
			return c + text + colorReset
		}
		return text
	}
}

func printHeader(w io.Writer, colorize colorizer, dbPath string, shown, total int) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w, colorize("bold", rule))
	fmt.Fprintln(w, colorize("cyan", "  TEST RUN HISTORY"))
	fmt.Fprintln(w, colorize("bold", rule))
	fmt.Fprintf(w, "%s%s\n", colorize("yellow", "Database: "), filepath.Base(dbPath))
	fmt.Fprintf(w, "%s%d of %d runs\n\n", colorize("yellow", "Showing:  "), shown, total)
}

func printStatistics(w io.Writer, colorize colorizer, stats services.RunStats) {
	fmt.Fprintln(w, colorize("bold", "STATISTICS"))
	fmt.Fprintf(w, "  Total Runs:      %s\n", colorize("bold", fmt.Sprintf("%d", stats.Total)))
	fmt.Fprintf(w, "  Cloud:           %s\n", colorize("blue", fmt.Sprintf("%d", stats.Cloud)))
	fmt.Fprintf(w, "  Real Device:     %s\n", colorize("purple", fmt.Sprintf("%d", stats.RealDevice)))
	for _, platform := range services.SortedKeys(stats.ByPlatform) {
		fmt.Fprintf(w, "  %-17s%s\n", platform+":", colorize("green", fmt.Sprintf("%d", stats.ByPlatform[platform])))
	}
	if len(stats.ByDevice) > 0 {
		parts := make([]string, 0, len(stats.ByDevice))
		for _, dev := range services.SortedKeys(stats.ByDevice) {
			parts = append(parts, fmt.Sprintf("%s=%d", dev, stats.ByDevice[dev]))
		}
		fmt.Fprintf(w, "  Devices:         %s\n", strings.Join(parts, " "))
	}
	fmt.Fprintln(w)
}

func printRuns(w io.Writer, colorize colorizer, runs []*models.RunRecord) {
	fmt.Fprintln(w, colorize("bold", "RUNS"))
	if len(runs) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for i, run := range runs {
		printRun(w, colorize, run, i+1)
	}
}

func printRun(w io.Writer, colorize colorizer, run *models.RunRecord, index int) {
	target := "local"
	if run.Sauce {
		target = colorize("blue", "sauce")
	}
	if run.RealDevice {
		target += "," + colorize("purple", "real")
	}

	fmt.Fprintf(w, "%3d. %s %s [%s] %s\n",
		index,
		colorize("cyan", run.Label()),
		colorize("bold", run.Device),
		target,
		run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
	)

	caps := run.Caps
	name := caps.DeviceName
	if name == "" {
		name = caps.Device
	}
	fmt.Fprintf(w, "     %s %s %s  launchTimeout=%s\n",
		run.Platform, caps.PlatformVersion, name, caps.LaunchTimeout.String())
	if app := caps.AppPath(); app != "" {
		fmt.Fprintf(w, "     app: %s\n", app)
	}
}
