// orectl runs the compliance toolchain from the command line: audit a
// normalized report file, map it to a standard, or emit its correction
// plan, without going through the server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "orectl",
		Short:         "Mining technical report compliance toolchain",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newAuditCmd())
	root.AddCommand(newMapCmd())
	root.AddCommand(newPlanCmd())
	root.AddCommand(newFieldsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
