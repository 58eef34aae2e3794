package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// ListTemplatesCmd creates the listTemplates command
func ListTemplatesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listTemplates",
		Short: "List available shift templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := app.Cfg.TemplateNames()
			sort.Strings(names)

			fmt.Printf("\nAvailable shift templates:\n\n")
			for _, name := range names {
				tmpl, err := app.Cfg.Template(name)
				if err != nil {
					return err
				}
				weekends := "all days"
				if tmpl.SkipWeekends {
					weekends = "weekdays only"
				}
				fmt.Printf("  %s (%s)\n", name, weekends)
				for _, e := range tmpl.Entries {
					extra := ""
					if e.Overnight {
						extra = ", overnight"
					}
					if e.RRule != "" {
						extra += fmt.Sprintf(", rrule %s", e.RRule)
					}
					fmt.Printf("    - %s %s-%s %s x%d%s\n",
						e.Label, e.Start, e.End, e.Kind, e.Required, extra)
				}
			}
			fmt.Println()

			return nil
		},
	}
}
