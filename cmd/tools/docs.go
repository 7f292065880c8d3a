package tools

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mewais/archtools.io/pkg/isa"
	pc "github.com/mewais/archtools.io/pkg/pseudocode"
	"github.com/mewais/archtools.io/pkg/utils"
)

var module string
var supportedModules = map[string]func() string{
	"isa.formats":         func() string { return isa.FormatsDocString() },
	"pseudocode.dialects": func() string { return pc.DialectsDocString() },
}

var docsCmd = &cobra.Command{
	Use:   "docs module",
	Short: "Show archtools documentation",
	Long: `Dumps the documentation of the specified archtools module.
By default the tool dumps the documentation to stdout, but it can be redirected to a file using the --output flag.

Supported modules:
` + strings.Join(utils.Map(utils.SortedKeys(supportedModules), func(module string) string { return "  " + module }), "\n"),
	Args:      cobra.MatchAll(cobra.OnlyValidArgs, cobra.MaximumNArgs(1), cobra.MinimumNArgs(1)),
	ValidArgs: utils.SortedKeys(supportedModules),
	Run: func(cmd *cobra.Command, args []string) {
		module = args[0]
		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			file, err := os.Create(outputFile)
			if err != nil {
				fmt.Println("Error creating file:", err)
				os.Exit(1)
			}
			defer file.Close()
			fmt.Fprintln(file, supportedModules[module]())
		} else {
			fmt.Println(supportedModules[module]())
		}
	},
}

func init() {
	ToolsCmd.AddCommand(docsCmd)
	docsCmd.Flags().StringP("output", "o", "", "Output file. If not specified, the documentation is dumped to stdout.")
}
