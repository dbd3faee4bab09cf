package cmd

import (
	"fmt"

	"github.com/cwbudde/formexpr/pkg/formlang"
	"github.com/spf13/cobra"
)

var (
	canonicalExpr    string
	canonicalReverse bool
)

var canonicalCmd = &cobra.Command{
	Use:   "canonical [file]",
	Short: "Convert between source syntax and the canonical on-wire form",
	Long: `By default, parses source syntax and prints the canonical serialized
form. With --reverse, parses canonical form instead and prints it
back as source syntax.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCanonical,
}

func init() {
	rootCmd.AddCommand(canonicalCmd)
	canonicalCmd.Flags().StringVarP(&canonicalExpr, "expr", "e", "", "input source (otherwise read from file/stdin)")
	canonicalCmd.Flags().BoolVar(&canonicalReverse, "reverse", false, "convert canonical form back to source syntax")
}

func runCanonical(cmd *cobra.Command, args []string) error {
	source, err := readInput(args, canonicalExpr)
	if err != nil {
		return err
	}
	if canonicalReverse {
		expr, err := formlang.FromCanonical(source)
		if err != nil {
			return err
		}
		fmt.Println(formlang.PrintExpr(expr))
		return nil
	}
	expr, err := formlang.Parse(source, "<canonical>")
	if err != nil {
		return err
	}
	fmt.Println(formlang.ToCanonical(expr))
	return nil
}
