package pseudocode

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mewais/archtools.io/pkg/isa"
	"github.com/mewais/archtools.io/pkg/pseudocode/sail"
)

// Color definitions for conversion output
var (
	colorHeader    = color.New(color.FgWhite, color.Bold, color.Underline)
	colorMnemonic  = color.New(color.FgYellow, color.Bold)
	colorExtension = color.New(color.FgCyan)
	colorBefore    = color.New(color.FgRed)
	colorAfter     = color.New(color.FgGreen)
	colorSuccess   = color.New(color.FgGreen)
	colorWarning   = color.New(color.FgYellow)
	colorMuted     = color.New(color.FgHiBlack)
)

var (
	convertDatabase   string
	convertExtensions []string
	convertDryRun     bool
	convertNoBackup   bool
	convertReportFile string
	convertOverrides  string
	convertVerbose    bool
)

// Shown on dry runs so the output stays readable on large databases.
const maxSampleConversions = 3

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert Sail pseudocode to the C-style dialect across the database",
	Long: `Runs the Sail translator over every database record whose pseudocode is
written in the Sail dialect and stores the C-style result. Records already
in C style, and records without pseudocode, are left alone. A record is
only overwritten when the translation actually changed its text.

A timestamped backup of the database is written before saving unless
--no-backup is given. Manual fixes from an overrides file are applied
after the conversion and take precedence over anything it produced.

Examples:
  archtools pseudocode convert -d instructions.json -e RV32B,RV64B --dry-run
  archtools pseudocode convert -d instructions.json --overrides fixes.yaml --report report.json`,
	Run: runConvert,
}

func init() {
	PseudocodeCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVarP(&convertDatabase, "database", "d", "", "Instruction database JSON file")
	convertCmd.Flags().StringSliceVarP(&convertExtensions, "extensions", "e", nil, "Only convert records of these extensions (substring match, e.g. RV32B)")
	convertCmd.Flags().BoolVar(&convertDryRun, "dry-run", false, "Report what would change without touching the database")
	convertCmd.Flags().BoolVar(&convertNoBackup, "no-backup", false, "Skip the timestamped database backup before saving")
	convertCmd.Flags().StringVar(&convertReportFile, "report", "", "Write the conversion report as JSON to this file")
	convertCmd.Flags().StringVar(&convertOverrides, "overrides", "", "YAML file with manual fixes to apply after conversion")
	convertCmd.Flags().BoolVarP(&convertVerbose, "verbose", "v", false, "Print every conversion with before and after text")
}

func runConvert(cmd *cobra.Command, args []string) {
	database := loadDatabase(convertDatabase)
	fmt.Printf("Loaded %d instructions from %s\n", len(database.Instructions), database.Path)

	translator := sail.New()
	if convertVerbose {
		translator.Logger = slog.Default()
	}

	report := database.ConvertSail(translator, convertDryRun, convertExtensions...)

	changed := report.Converted
	if convertOverrides != "" {
		if convertDryRun {
			colorWarning.Println("Skipping overrides on a dry run.")
		} else {
			overrides, err := isa.LoadOverrides(convertOverrides)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading overrides: %v\n", err)
				os.Exit(2)
			}
			applied, unmatched := database.ApplyOverrides(overrides)
			changed += applied
			colorSuccess.Printf("Applied %d manual fixes from %s\n", applied, convertOverrides)
			for _, encoding := range unmatched {
				colorWarning.Printf("No record matches override encoding %s\n", encoding)
			}
		}
	}

	printConversionSummary(report)

	if convertReportFile != "" {
		if err := report.WriteJSON(convertReportFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			os.Exit(4)
		}
		fmt.Printf("Report written to %s\n", convertReportFile)
	}

	if convertDryRun || changed == 0 {
		if changed == 0 {
			fmt.Println("Nothing to save.")
		}
		return
	}

	if !convertNoBackup {
		backupPath, err := database.Backup()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing backup: %v\n", err)
			os.Exit(4)
		}
		fmt.Printf("Backup written to %s\n", backupPath)
	}

	if err := database.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving database: %v\n", err)
		os.Exit(4)
	}
	colorSuccess.Printf("Saved %d changes to %s\n", changed, database.Path)
}

func printConversionSummary(report *isa.ConversionReport) {
	colorHeader.Println("Conversion summary:")
	fmt.Printf("  Records:   %d\n", report.Total)
	fmt.Printf("  Converted: %s\n", colorSuccess.Sprintf("%d", report.Converted))
	fmt.Printf("  Skipped:   %s\n", colorMuted.Sprintf("%d", report.Skipped))
	if report.Unchanged > 0 {
		fmt.Printf("  Unchanged: %s\n", colorWarning.Sprintf("%d", report.Unchanged))
	}

	if !convertVerbose && !convertDryRun {
		return
	}

	shown := 0
	for _, conversion := range report.Conversions {
		if conversion.Status != isa.StatusConverted {
			continue
		}
		if !convertVerbose && shown >= maxSampleConversions {
			colorMuted.Printf("  ... and %d more (use --verbose for all)\n", report.Converted-shown)
			break
		}
		shown++

		fmt.Printf("\n%s (%s)\n",
			colorMnemonic.Sprint(conversion.Mnemonic),
			colorExtension.Sprint(conversion.Extension))
		colorBefore.Printf("--- %s\n", firstLine(conversion.Original))
		colorAfter.Printf("+++ %s\n", firstLine(conversion.Converted))
	}
}

// Returns the first line of a blob, marking truncation.
func firstLine(text string) string {
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			return text[:i] + " ..."
		}
	}
	return text
}
