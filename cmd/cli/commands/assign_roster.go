package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mhollins/dutyroster/pkg/core/engine"
	"github.com/mhollins/dutyroster/pkg/core/services"
	"github.com/mhollins/dutyroster/pkg/core/sorter"
)

// sortedUtilization flattens the per-employee utilization map into a slice
// ordered by employee ID so report output is stable across runs
func sortedUtilization(m map[string]engine.Utilization) []engine.Utilization {
	out := make([]engine.Utilization, 0, len(m))
	for _, u := range m {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}

// AssignRosterCmd creates the assignRoster command
func AssignRosterCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assignRoster <start> <end>",
		Short: "Generate shifts for a date range and auto-assign staff",
		Long:  "Expand the shift template over the inclusive date range, then run the assignment engine against the department's employee pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDate(args[0])
			if err != nil {
				return err
			}
			end, err := parseDate(args[1])
			if err != nil {
				return err
			}

			template, _ := cmd.Flags().GetString("template")
			strategy, _ := cmd.Flags().GetString("strategy")
			seed, _ := cmd.Flags().GetInt64("seed")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			app.Logger.Debug("assignRoster command",
				zap.String("template", template),
				zap.String("strategy", strategy),
				zap.Bool("dry_run", dryRun))

			override := func(opts *engine.Options) {
				if strategy != "" {
					opts.Strategy = sorter.Strategy(strategy)
				}
				opts.Seed = seed
			}

			result, err := services.AssignRoster(
				app.Ctx, app.Database, app.Cfg, app.Logger,
				template, start, end, override, dryRun,
			)
			if err != nil {
				return fmt.Errorf("roster assignment failed: %w", err)
			}

			run := result.Run

			fmt.Printf("\nRoster Assignment Results\n\n")
			fmt.Printf("Department:  %s\n", result.DepartmentID)
			fmt.Printf("Template:    %s\n", result.Template)
			fmt.Printf("Range:       %s to %s\n",
				result.Start.Format("2006-01-02"), result.End.Format("2006-01-02"))
			if dryRun {
				fmt.Printf("Mode:        DRY RUN (not saved)\n")
			} else if result.Saved {
				fmt.Printf("Mode:        saved to database\n")
			}
			fmt.Println()

			fmt.Printf("Assignments: %d\n", run.AssignmentsCreated)
			fmt.Printf("Coverage:    %.1f%%\n", run.CoveragePercent)
			fmt.Printf("Understaffed shifts: %d\n", len(run.Understaffed))
			fmt.Printf("Unfilled shifts:     %d\n", run.UnassignedShifts)
			fmt.Println()

			if len(run.Errors) > 0 {
				fmt.Printf("Commit errors (%d):\n", len(run.Errors))
				for _, e := range run.Errors {
					fmt.Printf("  - %s\n", e)
				}
				fmt.Println()
			}

			for _, s := range run.Shifts {
				marker := " "
				if s.Understaffed() {
					marker = "!"
				}
				fmt.Printf("%s %s  %d/%d\n", marker, s, s.Assigned, s.Required)
			}
			fmt.Println()

			fmt.Printf("Staff utilization:\n")
			for _, u := range sortedUtilization(run.Utilization) {
				fmt.Printf("  %-12s %d shifts, %.1f h (%.0f%%)\n",
					u.EmployeeID, u.ShiftsAssigned, u.Hours, u.Percent)
			}

			return nil
		},
	}

	cmd.Flags().String("template", "standard", "Shift template to expand")
	cmd.Flags().String("strategy", "", "Sort strategy (balanced, seniority, availability, random)")
	cmd.Flags().Int64("seed", 0, "Seed for random tie-breaking (0 = unseeded)")
	cmd.Flags().Bool("dry-run", false, "Run without saving to database")

	return cmd
}
