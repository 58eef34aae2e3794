package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mhollins/dutyroster/pkg/core/services"
)

// GenerateShiftsCmd creates the generateShifts command
func GenerateShiftsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generateShifts <start> <end>",
		Short: "Expand a shift template over a date range",
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
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			app.Logger.Debug("generateShifts command",
				zap.String("template", template),
				zap.Bool("dry_run", dryRun))

			result, err := services.GenerateShifts(
				app.Ctx, app.Database, app.Cfg, app.Logger,
				template, start, end, dryRun,
			)
			if err != nil {
				return fmt.Errorf("shift generation failed: %w", err)
			}

			fmt.Printf("\nGenerated %d shifts from template %q:\n\n", len(result.Shifts), result.Template)
			for _, s := range result.Shifts {
				fmt.Printf("  %s  (%d required)\n", s, s.Required)
			}
			fmt.Println()
			if dryRun {
				fmt.Println("This was a dry run. Use without --dry-run to save shifts.")
			} else if result.Saved {
				fmt.Println("Shifts have been saved to the database.")
			}

			return nil
		},
	}

	cmd.Flags().String("template", "standard", "Shift template to expand")
	cmd.Flags().Bool("dry-run", false, "Run without saving to database")

	return cmd
}
