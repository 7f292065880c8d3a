package pseudocode

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	pc "github.com/mewais/archtools.io/pkg/pseudocode"
	"github.com/mewais/archtools.io/pkg/pseudocode/sail"
)

var (
	fmtDialect string
	fmtConvert bool
	fmtOutput  string
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [FILE]",
	Short: "Pretty-print a pseudocode snippet",
	Long: `Formats a pseudocode snippet read from FILE or standard input. The
dialect is detected from the text unless --dialect forces one. With
--convert, Sail input is run through the translator first and the result
is formatted as the C-style dialect.

Examples:
  echo 'x[rd]=x[rs1]&~x[rs2];' | archtools pseudocode fmt
  archtools pseudocode fmt snippet.txt --convert -o formatted.txt`,
	Args: cobra.MaximumNArgs(1),
	Run:  runFmt,
}

func init() {
	PseudocodeCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().StringVar(&fmtDialect, "dialect", "", "Force the input dialect (sail, c, expansion) instead of detecting it")
	fmtCmd.Flags().BoolVar(&fmtConvert, "convert", false, "Translate Sail input to the C-style dialect before formatting")
	fmtCmd.Flags().StringVarP(&fmtOutput, "output", "o", "", "Write the result to this file instead of standard output")
}

func runFmt(cmd *cobra.Command, args []string) {
	var raw []byte
	var err error
	if len(args) == 1 {
		raw, err = os.ReadFile(args[0])
	} else {
		raw, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(2)
	}
	text := string(raw)

	dialect, err := pc.ParseDialect(fmtDialect)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if fmtDialect == "" {
		dialect = pc.Detect(text)
	}

	if fmtConvert && dialect == pc.DialectSail {
		text = sail.Convert(text)
		dialect = pc.DialectC
	}

	formatted := pc.FormatDialect(text, dialect)
	if !strings.HasSuffix(formatted, "\n") {
		formatted += "\n"
	}

	if fmtOutput == "" {
		fmt.Print(formatted)
		return
	}
	if err := os.WriteFile(fmtOutput, []byte(formatted), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", fmtOutput, err)
		os.Exit(4)
	}
}
