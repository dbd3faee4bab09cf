package cmd

import (
	"fmt"

	"github.com/cwbudde/formexpr/internal/ast"
	"github.com/cwbudde/formexpr/pkg/formlang"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var (
	partialExpr    string
	partialKnown   string
	partialUninlin bool
)

var partialCmd = &cobra.Command{
	Use:   "partial [file]",
	Short: "Partially evaluate an expression against known constants",
	Long: `Partially evaluate an expression under a partial_env seeded with the
name/value pairs in a --known JSON object. Each known name resolves both
as a $name variable and as a bare property; variables and properties not
present in --known are left symbolic in the printed residual.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPartial,
}

func init() {
	rootCmd.AddCommand(partialCmd)
	partialCmd.Flags().StringVarP(&partialExpr, "expr", "e", "", "expression source (otherwise read from file/stdin)")
	partialCmd.Flags().StringVar(&partialKnown, "known", "", "JSON object file of $name -> value bindings")
	partialCmd.Flags().BoolVar(&partialUninlin, "uninline", false, "re-hoist duplicated residual subexpressions into let bindings")
}

func runPartial(cmd *cobra.Command, args []string) error {
	source, err := readInput(args, partialExpr)
	if err != nil {
		return err
	}
	expr, err := formlang.Parse(source, "<partial>")
	if err != nil {
		return err
	}

	known, err := loadKnown(partialKnown)
	if err != nil {
		return err
	}
	env := formlang.PartialEnv(known)
	val, residual := formlang.EvaluatePartial(env, expr)
	if val != nil {
		fmt.Println(val.String())
		return nil
	}
	if partialUninlin {
		residual = formlang.Uninline(residual)
	}
	fmt.Println(formlang.PrintExpr(residual))
	return nil
}

func loadKnown(path string) (map[string]*ast.Value, error) {
	if path == "" {
		return nil, nil
	}
	json, err := readDataFile(path)
	if err != nil {
		return nil, err
	}
	obj := gjson.Parse(json)
	if !obj.IsObject() {
		return nil, fmt.Errorf("--known must be a JSON object")
	}
	out := map[string]*ast.Value{}
	obj.ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = formlang.FromNative(value.Value(), ast.RootPath)
		return true
	})
	return out, nil
}
