package db

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	encodingsDatabase   string
	encodingsExtensions []string
	encodingsValidate   bool
	encodingsUpdate     bool
	encodingsVerbose    bool
)

var colorFailed = color.New(color.FgRed)

var encodingsCmd = &cobra.Command{
	Use:   "encodings",
	Short: "Decompose instruction encodings into named bit fields",
	Long: `Runs every record's encoding pattern through its format's field table,
checking that fixed bits match and that the fields tile the encoding.
With --update the decomposed fields are stored on the records and the
database is saved. With --validate the command fails when any record
does not decompose cleanly.

Examples:
  archtools db encodings -d instructions.json --validate
  archtools db encodings -d instructions.json -e RV32B --update`,
	Run: runEncodings,
}

func init() {
	DbCmd.AddCommand(encodingsCmd)
	encodingsCmd.Flags().StringVarP(&encodingsDatabase, "database", "d", "", "Instruction database JSON file")
	encodingsCmd.Flags().StringSliceVarP(&encodingsExtensions, "extensions", "e", nil, "Only process records of these extensions (substring match)")
	encodingsCmd.Flags().BoolVar(&encodingsValidate, "validate", false, "Fail when any record does not decompose cleanly")
	encodingsCmd.Flags().BoolVar(&encodingsUpdate, "update", false, "Store the decomposed fields on the records and save")
	encodingsCmd.Flags().BoolVarP(&encodingsVerbose, "verbose", "v", false, "Print every record that fails to decompose")
}

func runEncodings(cmd *cobra.Command, args []string) {
	database := loadDatabase(encodingsDatabase)

	var decoded, skipped, failed int
	for _, ins := range database.Filter(encodingsExtensions...) {
		if strings.TrimSpace(ins.Encoding) == "" || strings.TrimSpace(ins.Format) == "" {
			skipped++
			continue
		}
		if err := ins.DecodeFields(); err != nil {
			failed++
			if encodingsVerbose {
				colorFailed.Printf("  %s (%s): %v\n", ins.Mnemonic, ins.Extension, err)
			}
			continue
		}
		decoded++
	}

	fmt.Printf("Decoded %d encodings, skipped %d without encoding or format\n", decoded, skipped)
	if failed > 0 {
		colorFailed.Printf("%d records failed to decompose", failed)
		if !encodingsVerbose {
			colorFailed.Print(" (use --verbose for details)")
		}
		fmt.Println()
	}

	if encodingsUpdate && decoded > 0 {
		backupPath, err := database.Backup()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing backup: %v\n", err)
			os.Exit(4)
		}
		fmt.Printf("Backup written to %s\n", backupPath)

		if err := database.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving database: %v\n", err)
			os.Exit(4)
		}
		colorApplied.Printf("Saved field breakdowns for %d records to %s\n", decoded, database.Path)
	}

	if encodingsValidate && failed > 0 {
		os.Exit(3)
	}
}
