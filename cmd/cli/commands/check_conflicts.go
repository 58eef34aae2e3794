package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mhollins/dutyroster/pkg/core/model"
	"github.com/mhollins/dutyroster/pkg/core/services"
)

// CheckConflictsCmd creates the checkConflicts command
func CheckConflictsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkConflicts <employee_id> <date> <start> <end>",
		Short: "Check whether an employee could take a candidate shift",
		Long:  "Evaluate every scheduling constraint for assigning the employee to a shift on the given date and time window, without assigning anything",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			employeeID := args[0]
			date, err := parseDate(args[1])
			if err != nil {
				return err
			}
			start, err := time.Parse("15:04", args[2])
			if err != nil {
				return fmt.Errorf("invalid start time %q (expected HH:MM): %w", args[2], err)
			}
			end, err := time.Parse("15:04", args[3])
			if err != nil {
				return fmt.Errorf("invalid end time %q (expected HH:MM): %w", args[3], err)
			}

			kind, _ := cmd.Flags().GetString("kind")
			overnight, _ := cmd.Flags().GetBool("overnight")

			app.Logger.Debug("checkConflicts command",
				zap.String("employee_id", employeeID),
				zap.String("date", date.Format("2006-01-02")))

			shift := model.Shift{
				Date:      date,
				Start:     start,
				End:       end,
				Overnight: overnight,
				Kind:      model.ShiftKind(kind),
				Required:  1,
			}

			result, err := services.CheckConflicts(
				app.Ctx, app.Database, app.Cfg, app.Logger,
				employeeID, shift,
			)
			if err != nil {
				return fmt.Errorf("conflict check failed: %w", err)
			}

			fmt.Printf("\nConflict check for employee %s on %s:\n\n", employeeID, shift)

			if len(result.Conflicts) == 0 {
				fmt.Println("No conflicts found.")
			}
			for _, c := range result.Conflicts {
				fmt.Printf("  [%s] %s: %s\n", c.Severity, c.Kind, c.Description)
			}
			fmt.Println()

			if result.Assignable {
				fmt.Println("Employee can take this shift.")
			} else {
				fmt.Println("Employee cannot take this shift (blocking conflicts).")
			}

			return nil
		},
	}

	cmd.Flags().String("kind", string(model.KindDay), "Shift kind (day, evening, night, weekend, holiday)")
	cmd.Flags().Bool("overnight", false, "Shift wraps past midnight")

	return cmd
}
