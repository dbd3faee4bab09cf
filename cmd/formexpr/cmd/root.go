package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "formexpr",
	Short: "Embeddable expression language for data-driven form definitions",
	Long: `formexpr parses and evaluates the three-mode expression language used to
drive data-driven form definitions: full evaluation against a JSON
document, partial evaluation against known constants, and reactive
evaluation against a live data cell.`,
	Version: Version,
}

// Execute runs the root command, exiting non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))
}

// readInput returns exprFlag if set, otherwise the first positional
// argument read as a file, otherwise stdin.
func readInput(args []string, exprFlag string) (string, error) {
	if exprFlag != "" {
		return exprFlag, nil
	}
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

// readDataFile loads a JSON document from path, or returns "null" if path
// is empty.
func readDataFile(path string) (string, error) {
	if path == "" {
		return "null", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading data file: %w", err)
	}
	return string(data), nil
}
