package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/picogrid/robot-arena/pkg/roster"
	"github.com/picogrid/robot-arena/pkg/utils"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List bots and scenarios",
	Long:  `List the registered bots and the scenarios found under ./scenarios`,
	RunE:  listAll,
}

func listAll(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "BOT\tDESCRIPTION")
	_, _ = fmt.Fprintln(w, "---\t-----------")
	for _, entry := range roster.DefaultRegistry.List() {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", entry.Name, entry.Description)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	scenarios, err := utils.DiscoverScenarios()
	if err != nil {
		return fmt.Errorf("failed to discover scenarios: %w", err)
	}

	fmt.Println()
	if len(scenarios) == 0 {
		fmt.Println("No scenarios found")
		return nil
	}

	_, _ = fmt.Fprintln(w, "SCENARIO\tVERSION\tCOMPETITORS\tDESCRIPTION")
	_, _ = fmt.Fprintln(w, "--------\t-------\t-----------\t-----------")
	for _, info := range scenarios {
		programs := make([]string, len(info.Scenario.Competitors))
		for i, c := range info.Scenario.Competitors {
			programs[i] = c.Program
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			info.Scenario.Name,
			info.Scenario.Version,
			strings.Join(programs, ", "),
			info.Scenario.Description,
		)
	}

	return w.Flush()
}
