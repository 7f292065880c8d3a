package db

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mewais/archtools.io/pkg/isa"
	pc "github.com/mewais/archtools.io/pkg/pseudocode"
)

var (
	applyDatabase   string
	applyDiff       string
	applyDryRun     bool
	applyNoBackup   bool
	applyReportFile string
)

var (
	colorApplied = color.New(color.FgGreen)
	colorSkipped = color.New(color.FgYellow)
	colorKey     = color.New(color.FgCyan)
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a reviewed diff back onto the database",
	Long: `Extracts record changes from a unified diff of the database file and
applies them. The diff is the one a reviewer produced by editing a copy
of the database: filled-in pseudocode, corrected encodings and corrected
operand lists are picked up; anything else in the diff is ignored.

Pseudocode from the diff only lands on records whose field is still
empty. Pseudocode written with colon blocks is converted to braces
before it is applied.

Example:
  archtools db apply -d instructions.json --diff review.diff --report applied.json`,
	Run: runApply,
}

func init() {
	DbCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringVarP(&applyDatabase, "database", "d", "", "Instruction database JSON file")
	applyCmd.Flags().StringVar(&applyDiff, "diff", "", "Unified diff file to apply (required)")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Report what would change without touching the database")
	applyCmd.Flags().BoolVar(&applyNoBackup, "no-backup", false, "Skip the timestamped database backup before saving")
	applyCmd.Flags().StringVar(&applyReportFile, "report", "", "Write the application report as JSON to this file")
	applyCmd.MarkFlagRequired("diff")
}

func runApply(cmd *cobra.Command, args []string) {
	raw, err := os.ReadFile(applyDiff)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading diff: %v\n", err)
		os.Exit(2)
	}

	patch := isa.ParsePatch(string(raw))
	for encoding, pseudocode := range patch.Pseudocode {
		if pc.HasColonBlocks(pseudocode) {
			patch.Pseudocode[encoding] = pc.ConvertColonBlocks(pseudocode)
		}
	}

	fmt.Printf("Diff contains %d changes: %d pseudocode, %d encodings, %d operand lists\n",
		patch.Size(), len(patch.Pseudocode), len(patch.Encodings), len(patch.Operands))
	if patch.Size() == 0 {
		return
	}

	database := loadDatabase(applyDatabase)
	report := database.ApplyPatch(patch, applyDryRun)

	for _, entry := range report.Entries {
		if entry.Status == "applied" {
			colorApplied.Printf("  applied  %s %s\n", entry.Field, colorKey.Sprint(entry.Key))
		} else {
			colorSkipped.Printf("  skipped  %s %s (field already set)\n", entry.Field, colorKey.Sprint(entry.Key))
		}
	}
	fmt.Printf("Applied %d changes, skipped %d\n", report.Applied, report.Skipped)

	if applyReportFile != "" {
		if err := report.WriteJSON(applyReportFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			os.Exit(4)
		}
		fmt.Printf("Report written to %s\n", applyReportFile)
	}

	if applyDryRun || report.Applied == 0 {
		return
	}

	if !applyNoBackup {
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
	colorApplied.Printf("Saved to %s\n", database.Path)
}
