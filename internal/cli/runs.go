package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/monorkin/classroom-datagen/internal/config"
	"github.com/monorkin/classroom-datagen/internal/database"
	"github.com/monorkin/classroom-datagen/internal/generator"
	"github.com/monorkin/classroom-datagen/internal/globals"
)

// runsCmd represents the runs command
var runsCmd = &cobra.Command{
	Use:     "runs",
	Aliases: []string{"r", "run"},
	Short:   "Inspect runs stored by the sqlite format",
	Long:    `Commands for listing and inspecting datasets stored in the SQLite run store.`,
}

// runsListCmd represents the runs list command
var runsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored runs",
	Long:    `List stored runs with their ID, room, seed, window, row count and creation time.`,
	Args:    cobra.NoArgs,
	RunE:    runRunsList,
}

// runsShowCmd represents the runs show command
var runsShowCmd = &cobra.Command{
	Use:   "show <run_id>",
	Short: "Show a stored run and its field statistics",
	Long: `Show a stored run as JSON, including per-field statistics of its readings.

Examples:
  classroom-datagen runs show 1`,
	Args: cobra.ExactArgs(1),
	RunE: runRunsShow,
}

// openRunStore returns the run store connection; tests replace it.
var openRunStore = func() (*gorm.DB, error) {
	if err := database.Init(); err != nil {
		return nil, fmt.Errorf("failed to open run store %s: %w", config.DBPath(), err)
	}
	return database.DB, nil
}

func runRunsList(cmd *cobra.Command, args []string) error {
	db, err := openRunStore()
	if err != nil {
		return err
	}

	globals.L().Debug("Fetching runs from database")
	runs, err := database.ListRuns(cmd.Context(), db)
	if err != nil {
		return fmt.Errorf("failed to fetch runs: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs found.")
		return nil
	}

	// Create tabwriter for aligned output
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ID\tROOM\tSEED\tSTART\tEND\tROWS\tCREATED")
	fmt.Fprintln(w, "--\t----\t----\t-----\t---\t----\t-------")
	for _, run := range runs {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%d\t%s\n",
			run.ID,
			run.Room,
			uint64(run.Seed),
			run.WindowStart.Format(time.RFC3339),
			run.WindowEnd.Format(time.RFC3339),
			run.RowCount,
			run.CreatedAt.Format(time.RFC3339),
		)
	}

	globals.L().Debug("Run list completed", "count", len(runs))
	return nil
}

// RunInfo represents run information for JSON output
type RunInfo struct {
	ID          uint   `json:"id"`
	Room        string `json:"room"`
	Seed        uint64 `json:"seed"`
	WindowStart string `json:"window_start"`
	WindowEnd   string `json:"window_end"`
	Interval    string `json:"interval"`
	RowCount    int    `json:"row_count"`
	CreatedAt   string `json:"created_at"`
}

// FieldInfo represents per-field statistics for JSON output
type FieldInfo struct {
	Field  string  `json:"field"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	runID, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", args[0], err)
	}

	db, err := openRunStore()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	run, err := database.FindRun(ctx, db, uint(runID))
	if err != nil {
		return fmt.Errorf("run %d not found: %w", runID, err)
	}

	readings, err := database.ReadingsForRun(ctx, db, run.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch readings for run %d: %w", run.ID, err)
	}

	// Statistics use the default class-hour rule; runs do not store it.
	summary := generator.Summarize(config.DefaultSettings().ClassHours, readings)

	response := struct {
		Run        RunInfo     `json:"run"`
		ClassHours int         `json:"class_hours"`
		Fields     []FieldInfo `json:"fields"`
	}{
		Run: RunInfo{
			ID:          run.ID,
			Room:        run.Room,
			Seed:        uint64(run.Seed),
			WindowStart: run.WindowStart.Format(time.RFC3339),
			WindowEnd:   run.WindowEnd.Format(time.RFC3339),
			Interval:    run.Interval.String(),
			RowCount:    run.RowCount,
			CreatedAt:   run.CreatedAt.Format(time.RFC3339),
		},
		ClassHours: summary.ClassHours,
	}
	for _, field := range summary.Fields {
		response.Fields = append(response.Fields, FieldInfo(field))
	}

	output, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(output))
	return nil
}

func init() {
	// Add runs command to root
	rootCmd.AddCommand(runsCmd)

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
}
