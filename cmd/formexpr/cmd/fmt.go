package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/formexpr/pkg/formlang"
	"github.com/spf13/cobra"
)

var (
	fmtExpr  string
	fmtWrite bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [file]",
	Short: "Pretty-print an expression with minimal parenthesization",
	Long: `Parses an expression and prints it back using the canonical precedence
and sugar rules: desugared unary minus/not print as prefix
operators, object()/string() calls reprint as {...} and backtick
templates.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().StringVarP(&fmtExpr, "expr", "e", "", "expression source (otherwise read from file/stdin)")
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "overwrite the named file with the formatted result")
}

func runFmt(cmd *cobra.Command, args []string) error {
	source, err := readInput(args, fmtExpr)
	if err != nil {
		return err
	}
	expr, err := formlang.Parse(source, "<fmt>")
	if err != nil {
		return err
	}
	formatted := formlang.PrintExpr(expr)

	if fmtWrite {
		if fmtExpr != "" || len(args) == 0 {
			return fmt.Errorf("-w requires a file argument")
		}
		return os.WriteFile(args[0], []byte(formatted+"\n"), 0644)
	}
	fmt.Println(formatted)
	return nil
}
