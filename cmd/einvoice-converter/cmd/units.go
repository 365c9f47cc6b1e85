package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List the unit and document code tables",
	Long: `Print the tables translating ERP units to unit codes, unit codes back
to ERP units, and ERP document types to document codes.

Set CODE_TABLES_FILE or --code-tables to use your own tables.`,
	Args: cobra.NoArgs,
	RunE: runUnits,
}

func init() {
	rootCmd.AddCommand(unitsCmd)
}

func runUnits(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ERP UNIT\tCODE")
	for _, p := range tables.Units.Forward {
		fmt.Fprintf(w, "%s\t%s\n", p.Unit, p.Code)
	}
	fmt.Fprintf(w, "(other)\t%s\n\n", tables.Units.Default)

	fmt.Fprintln(w, "CODE\tERP UNIT")
	for _, p := range tables.Units.Reverse {
		fmt.Fprintf(w, "%s\t%s\n", p.Code, p.Unit)
	}
	fmt.Fprintf(w, "(other)\t%s\n\n", tables.Units.ReverseDefault)

	fmt.Fprintln(w, "DOCUMENT TYPE\tCODE")
	kinds := make([]string, 0, len(tables.Documents.Forward))
	for kind := range tables.Documents.Forward {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(w, "%s\t%s\n", kind, tables.Documents.Forward[kind])
	}
	fmt.Fprintf(w, "(other)\t%s\n", tables.Documents.Default)

	return w.Flush()
}
