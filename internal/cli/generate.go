package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/monorkin/classroom-datagen/internal/config"
	"github.com/monorkin/classroom-datagen/internal/export"
	"github.com/monorkin/classroom-datagen/internal/generator"
	"github.com/monorkin/classroom-datagen/internal/globals"
	"github.com/monorkin/classroom-datagen/internal/models"
)

const previewPrecision = 6

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var generateOpts = &generateOptions{}

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"g", "gen"},
	Short:   "Generate the classroom sensor dataset",
	Long: `Generate one reading per interval between start and end (both inclusive),
apply the class-hour pattern, clip to the configured bounds and write the result.

Examples:
  classroom-datagen generate
  classroom-datagen generate --start 2024-11-04 --end "2024-11-08 23:00" --seed 7
  classroom-datagen generate -f xlsx -o classroom_data.xlsx --stats`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, generateOpts)
	},
}

type generateOptions struct {
	start     string
	end       string
	interval  time.Duration
	seed      uint64
	output    string
	format    string
	room      string
	precision int
	stats     bool
}

func (o *generateOptions) register(flags *pflag.FlagSet) {
	flags.StringVar(&o.start, "start", "", "First timestamp (RFC 3339, YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	flags.StringVar(&o.end, "end", "", "Last timestamp, inclusive")
	flags.DurationVar(&o.interval, "interval", time.Hour, "Sampling interval")
	flags.Uint64Var(&o.seed, "seed", config.DefaultSeed, "Random seed")
	flags.StringVarP(&o.output, "output", "o", config.DefaultOutput, "Output file path")
	flags.StringVarP(&o.format, "format", "f", config.DefaultFormat, "Output format: csv, xlsx, lp, sqlite or influx")
	flags.StringVar(&o.room, "room", config.DefaultRoom, "Room tag used by the lp and influx formats")
	flags.IntVar(&o.precision, "precision", config.DefaultPrecision, "Decimal places for CSV floats, -1 for shortest")
	flags.BoolVar(&o.stats, "stats", false, "Print per-field statistics after generating")
}

// apply overrides settings with the flags the user actually set.
func (o *generateOptions) apply(flags *pflag.FlagSet, settings *config.Settings) error {
	if flags.Changed("start") {
		start, err := parseTime("start", o.start)
		if err != nil {
			return err
		}
		settings.Start = start
	}
	if flags.Changed("end") {
		end, err := parseTime("end", o.end)
		if err != nil {
			return err
		}
		settings.End = end
	}
	if flags.Changed("interval") {
		settings.Interval = o.interval
	}
	if flags.Changed("seed") {
		settings.Seed = o.seed
	}
	if flags.Changed("output") {
		settings.Output.Path = o.output
	}
	if flags.Changed("format") {
		settings.Output.Format = o.format
	}
	if flags.Changed("room") {
		settings.Room = o.room
	}
	if flags.Changed("precision") {
		settings.Output.FloatPrecision = o.precision
	}

	return nil
}

func parseTime(field, value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.ParseInLocation(layout, strings.TrimSpace(value), time.UTC); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, &generator.ConfigurationError{
		Field:  field,
		Reason: fmt.Sprintf("cannot parse %q as a timestamp", value),
	}
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	if err := opts.apply(cmd.Flags(), settings); err != nil {
		return err
	}

	return generate(cmd.Context(), settings, cmd.OutOrStdout(), opts.stats)
}

// generate runs the whole pipeline and reports to out.
func generate(ctx context.Context, settings *config.Settings, out io.Writer, showStats bool) error {
	logger := globals.L()

	if err := generator.Validate(settings); err != nil {
		return err
	}

	timestamps, err := generator.Timeline(settings.Start, settings.End, settings.Interval)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Generating %d samples...\n", len(timestamps))

	readings, err := generator.NewWithLogger(settings, generator.NewSource(settings.Seed), logger).Generate()
	if err != nil {
		return err
	}

	sink, err := export.NewSink(settings)
	if err != nil {
		return err
	}

	logger.Debug("Writing readings", "format", settings.Output.Format, "location", sink.Location())
	if err := sink.Write(ctx, readings); err != nil {
		return err
	}

	fmt.Fprintf(out, "Data saved to %s\n", sink.Location())
	fmt.Fprintf(out, "Shape: (%d, %d)\n", len(readings), len(models.Columns))

	previewRows := min(settings.Output.PreviewRows, len(readings))
	if previewRows > 0 {
		fmt.Fprintf(out, "\nFirst %d rows:\n", previewRows)
		printPreview(out, readings[:previewRows])
	}

	summary := generator.Summarize(settings.ClassHours, readings)
	if showStats {
		fmt.Fprintln(out)
		printSummary(out, summary)
	}

	logger.Info("Generation completed",
		"rows", summary.Rows,
		"class_hours", summary.ClassHours,
		"seed", settings.Seed,
		"format", settings.Output.Format,
	)

	return nil
}

func printPreview(out io.Writer, readings []models.Reading) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	defer w.Flush()

	fmt.Fprintln(w, "\t"+strings.Join(models.Columns, "\t")+"\t")
	for i, reading := range readings {
		fmt.Fprintf(w, "%d\t%s\t\n", i, strings.Join(export.FormatRow(reading, previewPrecision), "\t"))
	}
}

func printSummary(out io.Writer, summary generator.Summary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Rows: %d, class hours: %d\n", summary.Rows, summary.ClassHours)
	fmt.Fprintln(w, "FIELD\tMEAN\tSTDDEV\tMIN\tMAX")
	fmt.Fprintln(w, "-----\t----\t------\t---\t---")
	for _, field := range summary.Fields {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.2f\n",
			field.Field,
			field.Mean,
			field.StdDev,
			field.Min,
			field.Max,
		)
	}
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateOpts.register(generateCmd.Flags())
}
