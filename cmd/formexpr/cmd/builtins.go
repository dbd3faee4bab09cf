package cmd

import (
	"fmt"

	"github.com/cwbudde/formexpr/pkg/formlang"
	"github.com/spf13/cobra"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "List the standard library functions, grouped by category",
	Run: func(cmd *cobra.Command, args []string) {
		lastCategory := ""
		for _, e := range formlang.ListBuiltins() {
			if e.Category != lastCategory {
				fmt.Printf("%s:\n", e.Category)
				lastCategory = e.Category
			}
			fmt.Printf("  %-10s %s\n", e.Name, e.Description)
		}
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
