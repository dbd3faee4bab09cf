package cmd

import (
	"fmt"

	"github.com/cwbudde/formexpr/internal/ast"
	"github.com/cwbudde/formexpr/internal/runtime"
	"github.com/cwbudde/formexpr/pkg/formlang"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var (
	evalExpr string
	evalData string
	evalMode string
	evalSets []string
)

var evalCmd = &cobra.Command{
	Use:   "eval [file]",
	Short: "Evaluate an expression against a JSON document",
	Long: `Evaluate an expression in full or reactive mode against a JSON document
loaded with --data, optionally patched first with one or more --set
path=value flags (sjson patch syntax).

If no expression is given with -e and no file is named, the expression is
read from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVarP(&evalExpr, "expr", "e", "", "expression source (otherwise read from file/stdin)")
	evalCmd.Flags().StringVar(&evalData, "data", "", "JSON document file to bind as `_`")
	evalCmd.Flags().StringVar(&evalMode, "mode", "full", "evaluation mode: full or reactive")
	evalCmd.Flags().StringArrayVar(&evalSets, "set", nil, "patch the data document before evaluating, path=value (repeatable)")
}

func runEval(cmd *cobra.Command, args []string) error {
	source, err := readInput(args, evalExpr)
	if err != nil {
		return err
	}
	expr, err := formlang.Parse(source, "<eval>")
	if err != nil {
		return err
	}

	json, err := readDataFile(evalData)
	if err != nil {
		return err
	}
	json, err = applySets(json, evalSets)
	if err != nil {
		return err
	}
	native := gjson.Parse(json).Value()
	root := formlang.FromNative(native, ast.RootPath)

	var result *ast.Value
	switch evalMode {
	case "full", "":
		env := formlang.BasicEnv(root)
		result = formlang.Evaluate(env, expr)
	case "reactive":
		cell := runtime.NewInputCell(native)
		env := formlang.ReactiveEnv(cell)
		result = formlang.Evaluate(env, expr)
	default:
		return fmt.Errorf("unknown --mode %q (want full or reactive)", evalMode)
	}

	fmt.Println(result.String())
	if formlang.HasErrors(result) {
		fmt.Println(formlang.FormatErrors(result, source))
	}
	return nil
}
