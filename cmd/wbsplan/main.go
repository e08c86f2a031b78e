package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/IBE160/SG-Gruppe-14-d2/internal/calendar"
	"github.com/IBE160/SG-Gruppe-14-d2/internal/config"
	"github.com/IBE160/SG-Gruppe-14-d2/internal/cpm"
	"github.com/IBE160/SG-Gruppe-14-d2/internal/duration"
	"github.com/IBE160/SG-Gruppe-14-d2/internal/planner"
	"github.com/IBE160/SG-Gruppe-14-d2/internal/reporter"
	"github.com/IBE160/SG-Gruppe-14-d2/internal/store"
	"github.com/IBE160/SG-Gruppe-14-d2/internal/ui"
	"github.com/IBE160/SG-Gruppe-14-d2/internal/wbs"
	"github.com/spf13/cobra"
)

var (
	flagCatalog      string
	flagCommitments  string
	flagDSN          string
	flagSession      string
	flagStart        string
	flagDeadline     string
	flagFallbackDays int
	flagJSON         bool
	flagQuiet        bool

	cfg *config.Config
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wbsplan",
		Short: "Compute critical path timelines for a work breakdown structure",
		Long: `wbsplan reads a WBS catalog and the negotiated commitments of a session,
computes the critical path schedule, maps it onto calendar dates and checks
the projected completion against the project deadline.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			if !flagJSON && !flagQuiet {
				ui.PrintLogo(cmd.ErrOrStderr())
			}
			_ = cmd.Help()
		},
	}

	// Global flags; unset flags fall back to WBSPLAN_* env and .env values
	rootCmd.PersistentFlags().StringVar(&flagCatalog, "catalog", "", "WBS catalog file (.json, .yaml)")
	rootCmd.PersistentFlags().StringVar(&flagCommitments, "commitments", "", "Commitments JSON file")
	rootCmd.PersistentFlags().StringVar(&flagDSN, "dsn", "", "Postgres DSN for the commitment store")
	rootCmd.PersistentFlags().StringVar(&flagSession, "session", "", "Negotiation session id (empty = all)")
	rootCmd.PersistentFlags().StringVar(&flagStart, "start", "", "Project start date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&flagDeadline, "deadline", "", "Project deadline (YYYY-MM-DD)")
	rootCmd.PersistentFlags().IntVar(&flagFallbackDays, "fallback-days", -1, "Days assumed for activities without a duration (0 disables)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")

	rootCmd.AddCommand(scheduleCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(ganttCmd())
	rootCmd.AddCommand(vizCmd())
	rootCmd.AddCommand(commitCmd())
	rootCmd.AddCommand(commitmentsCmd())

	return rootCmd
}

// printError writes err to stderr with a hint for the scheduling failures a
// user can fix in the catalog.
func printError(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", ui.BoldRed("Error:"), err)

	var cycle *cpm.CyclicDependencyError
	var missing *duration.MissingDurationError
	var invalid *wbs.ValidationError
	switch {
	case errors.As(err, &cycle):
		fmt.Fprintf(os.Stderr, "  %s remove one of the dependencies in %s\n",
			ui.Dim("hint:"), ui.BoldMagenta(strings.Join(cycle.Cycle, " → ")))
	case errors.As(err, &missing):
		fmt.Fprintf(os.Stderr, "  %s set a %s duration for %s or pass --fallback-days\n",
			ui.Dim("hint:"), missing.Source, ui.BoldMagenta(missing.ActivityID))
	case errors.As(err, &invalid):
		for _, p := range invalid.Problems {
			fmt.Fprintf(os.Stderr, "  %s %s\n", ui.Red("✗"), p)
		}
	}
}

// setup loads configuration, applies flag overrides and installs the logger.
func setup(cmd *cobra.Command) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("catalog") {
		cfg.CatalogPath = flagCatalog
	}
	if flags.Changed("commitments") {
		cfg.CommitmentsPath = flagCommitments
	}
	if flags.Changed("dsn") {
		cfg.DatabaseURL = flagDSN
	}
	if flags.Changed("session") {
		cfg.SessionID = flagSession
	}
	if flags.Changed("start") {
		if cfg.ProjectStart, err = calendar.ParseDate(flagStart); err != nil {
			return fmt.Errorf("--start: %w", err)
		}
	}
	if flags.Changed("deadline") {
		if cfg.Deadline, err = calendar.ParseDate(flagDeadline); err != nil {
			return fmt.Errorf("--deadline: %w", err)
		}
	}
	if flags.Changed("fallback-days") {
		if flagFallbackDays < 0 {
			return fmt.Errorf("--fallback-days must be >= 0, got %d", flagFallbackDays)
		}
		cfg.FallbackDays = flagFallbackDays
	}

	level := cfg.LogLevel
	if flagQuiet {
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadInputs is shared logic for the schedule-producing commands.
func loadInputs(ctx context.Context) (*wbs.Catalog, []wbs.Commitment, error) {
	cat, err := wbs.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, nil, err
	}
	if len(cat.Activities) == 0 {
		return nil, nil, fmt.Errorf("catalog %s has no activities", cfg.CatalogPath)
	}

	src, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	commitments, err := src.List(ctx, cfg.SessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("list commitments: %w", err)
	}
	slog.Debug("inputs loaded", "activities", len(cat.Activities), "commitments", len(commitments), "session", cfg.SessionID)
	return cat, commitments, nil
}

func openStore() (store.Source, error) {
	return store.Open(store.Options{DatabaseURL: cfg.DatabaseURL, FilePath: cfg.CommitmentsPath})
}

func plannerConfig(cat *wbs.Catalog) planner.Config {
	return planner.Config{
		Project:      cat.Project,
		ProjectStart: cfg.ProjectStart,
		Deadline:     cfg.Deadline,
		FallbackDays: cfg.FallbackDays,
	}
}

func buildTimeline(ctx context.Context) (*planner.Timeline, error) {
	cat, commitments, err := loadInputs(ctx)
	if err != nil {
		return nil, err
	}
	return planner.Build(cat.Activities, commitments, plannerConfig(cat))
}

func scheduleCmd() *cobra.Command {
	var flagOutput string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Compute the schedule and print the timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			tl, err := buildTimeline(cmd.Context())
			if err != nil {
				return err
			}

			rpt := reporter.New(tl)
			if flagJSON || flagOutput != "" {
				data, err := rpt.JSON()
				if err != nil {
					return err
				}
				if flagOutput != "" {
					return os.WriteFile(flagOutput, data, 0644)
				}
				fmt.Println(string(data))
				return nil
			}

			rpt.PrintTimeline(os.Stdout)
			rpt.PrintTable(os.Stdout)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagOutput, "output", "", "Save timeline JSON to file")

	return cmd
}

func validateCmd() *cobra.Command {
	var flagTemplate string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the projected completion against the deadline",
		Long: `Prints the plan validation summary. Exits with status 1 when the projected
completion date falls after the deadline.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tl, err := buildTimeline(cmd.Context())
			if err != nil {
				return err
			}

			if flagJSON {
				if err := outputJSON(validation{
					MeetsDeadline:       tl.MeetsDeadline,
					ProjectedCompletion: tl.ProjectedCompletion,
					Deadline:            tl.Deadline,
					DaysBeforeDeadline:  tl.DaysBeforeDeadline,
					TotalDurationDays:   tl.TotalDurationDays,
					CriticalPath:        tl.CriticalPath,
				}); err != nil {
					return err
				}
			} else {
				summary, err := planner.RenderSummary(tl, flagTemplate)
				if err != nil {
					return fmt.Errorf("render summary: %w", err)
				}
				fmt.Print(summary)
			}

			if !tl.MeetsDeadline {
				return fmt.Errorf("projected completion %s is %d days after the deadline %s",
					tl.ProjectedCompletion, -tl.DaysBeforeDeadline, tl.Deadline)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagTemplate, "template", "", "Custom summary template path (text/template)")

	return cmd
}

type validation struct {
	MeetsDeadline       bool     `json:"meets_deadline"`
	ProjectedCompletion string   `json:"projected_completion_date"`
	Deadline            string   `json:"deadline"`
	DaysBeforeDeadline  int      `json:"days_before_deadline"`
	TotalDurationDays   int      `json:"total_duration_days"`
	CriticalPath        []string `json:"critical_path"`
}

func ganttCmd() *cobra.Command {
	var (
		flagWidth         int
		flagAllowDegraded bool
	)

	cmd := &cobra.Command{
		Use:   "gantt",
		Short: "Print an ASCII Gantt chart of the timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, commitments, err := loadInputs(cmd.Context())
			if err != nil {
				return err
			}

			pc := plannerConfig(cat)
			tl, err := planner.Build(cat.Activities, commitments, pc)
			if err != nil {
				if !flagAllowDegraded {
					return err
				}
				slog.Error("schedule failed, rendering degraded chart", "err", err)
				tl, err = planner.BuildDegraded(cat.Activities, commitments, pc)
				if err != nil {
					return err
				}
			}

			rpt := reporter.New(tl)
			if flagJSON {
				data, err := rpt.JSON()
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}
			rpt.PrintGantt(os.Stdout, flagWidth)
			return nil
		},
	}

	cmd.Flags().IntVar(&flagWidth, "width", reporter.DefaultGanttWidth, "Chart width in columns")
	cmd.Flags().BoolVar(&flagAllowDegraded, "allow-degraded", false, "Render a dependency-free chart when scheduling fails")

	return cmd
}

func vizCmd() *cobra.Command {
	var flagFormat string

	cmd := &cobra.Command{
		Use:   "viz",
		Short: "Print the precedence diagram",
		RunE: func(cmd *cobra.Command, args []string) error {
			tl, err := buildTimeline(cmd.Context())
			if err != nil {
				return err
			}

			rpt := reporter.New(tl)
			switch flagFormat {
			case "dot":
				rpt.PrintDOT(os.Stdout)
			case "ascii":
				rpt.PrintDAG(os.Stdout)
			default:
				return fmt.Errorf("unsupported format: %s (use dot or ascii)", flagFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagFormat, "format", "dot", "Output format (dot, ascii)")

	return cmd
}

func commitCmd() *cobra.Command {
	var (
		flagDays int
		flagCost float64
	)

	cmd := &cobra.Command{
		Use:   "commit <activity-id>",
		Short: "Record a negotiated duration for an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := strings.TrimSpace(args[0])

			cat, err := wbs.LoadCatalog(cfg.CatalogPath)
			if err != nil {
				return err
			}
			a, ok := cat.Lookup(id)
			if !ok {
				return fmt.Errorf("activity %s is not in catalog %s", id, cfg.CatalogPath)
			}
			if !a.IsNegotiable {
				slog.Warn("committing a duration for a locked activity", "activity", id, "locked_days", a.LockedDuration)
			}

			src, err := openStore()
			if err != nil {
				return err
			}
			defer src.Close()

			c, err := src.Record(ctx, wbs.Commitment{
				SessionID:         cfg.SessionID,
				ActivityID:        id,
				CommittedDuration: flagDays,
				CommittedCost:     flagCost,
			})
			if err != nil {
				return fmt.Errorf("record commitment: %w", err)
			}

			commitments, err := src.List(ctx, cfg.SessionID)
			if err != nil {
				return fmt.Errorf("list commitments: %w", err)
			}
			tl, err := planner.Build(cat.Activities, commitments, plannerConfig(cat))
			if err != nil {
				return err
			}

			if flagJSON {
				return outputJSON(struct {
					Commitment wbs.Commitment    `json:"commitment"`
					Timeline   *planner.Timeline `json:"timeline"`
				}{c, tl})
			}

			fmt.Printf("%s %s committed at %s days %s\n",
				ui.Green("✓"), ui.BoldMagenta(id), ui.Bold(c.CommittedDuration), ui.Dim("("+c.ID+")"))
			fmt.Printf("Completion: %s", ui.Bold(tl.ProjectedCompletion))
			if tl.Deadline != "" {
				fmt.Printf("  %s", reporter.DeadlineStatus(tl))
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().IntVar(&flagDays, "days", 0, "Committed duration in days")
	cmd.Flags().Float64Var(&flagCost, "cost", 0, "Committed cost")
	_ = cmd.MarkFlagRequired("days")

	return cmd
}

func commitmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commitments",
		Short: "List the commitments of the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := openStore()
			if err != nil {
				return err
			}
			defer src.Close()

			commitments, err := src.List(cmd.Context(), cfg.SessionID)
			if err != nil {
				return fmt.Errorf("list commitments: %w", err)
			}

			if flagJSON {
				if commitments == nil {
					commitments = []wbs.Commitment{}
				}
				return outputJSON(commitments)
			}

			if len(commitments) == 0 {
				fmt.Println(ui.Dim("No commitments recorded."))
				return nil
			}
			for _, c := range commitments {
				at := ""
				if !c.CommittedAt.IsZero() {
					at = c.CommittedAt.Local().Format(time.DateTime)
				}
				fmt.Printf("  %s  %-8s %4d days  %12.0f  %s %s\n",
					ui.Green("✓"), ui.BoldMagenta(c.ActivityID), c.CommittedDuration, c.CommittedCost,
					ui.Dim(at), ui.Dim(c.SessionID))
			}
			return nil
		},
	}

	return cmd
}

// --- Output helpers ---

func outputJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

