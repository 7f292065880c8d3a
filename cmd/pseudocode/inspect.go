package pseudocode

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/mewais/archtools.io/pkg/isa"
	pc "github.com/mewais/archtools.io/pkg/pseudocode"
	"github.com/mewais/archtools.io/pkg/utils"
)

var (
	inspectDatabase   string
	inspectExtensions []string
	inspectDump       bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect MODE [ARG]",
	Short: "Inspect pseudocode coverage of the instruction database",
	Long: `Answers questions about the state of the pseudocode in the database.

Modes:
  stats          Coverage counts per extension
  show MNEMONIC  Full detail of one record
  missing        Records without pseudocode
  sample N       N random records that have pseudocode

Examples:
  archtools pseudocode inspect stats -d instructions.json
  archtools pseudocode inspect show add.uw -d instructions.json --dump
  archtools pseudocode inspect sample 5 -d instructions.json -e RV32B`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runInspect,
}

func init() {
	PseudocodeCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&inspectDatabase, "database", "d", "", "Instruction database JSON file")
	inspectCmd.Flags().StringSliceVarP(&inspectExtensions, "extensions", "e", nil, "Only inspect records of these extensions (substring match)")
	inspectCmd.Flags().BoolVar(&inspectDump, "dump", false, "Dump the raw record structure instead of the formatted view")
}

func runInspect(cmd *cobra.Command, args []string) {
	mode := args[0]
	database := loadDatabase(inspectDatabase)

	switch mode {
	case "stats":
		inspectStats(database)
	case "show":
		if len(args) < 2 {
			fmt.Fprintf(os.Stderr, "Mode show needs a mnemonic, e.g. inspect show add.uw\n")
			os.Exit(1)
		}
		inspectShow(database, args[1])
	case "missing":
		inspectMissing(database)
	case "sample":
		if len(args) < 2 {
			fmt.Fprintf(os.Stderr, "Mode sample needs a count, e.g. inspect sample 5\n")
			os.Exit(1)
		}
		count, err := strconv.Atoi(args[1])
		if err != nil || count < 1 {
			fmt.Fprintf(os.Stderr, "Invalid sample count %q\n", args[1])
			os.Exit(1)
		}
		inspectSample(database, count)
	default:
		fmt.Fprintf(os.Stderr, "Unknown mode %q, expected stats, show, missing or sample\n", mode)
		os.Exit(1)
	}
}

func inspectStats(database *isa.Database) {
	stats := database.Coverage(inspectExtensions...)
	if len(stats) == 0 {
		fmt.Println("No records match.")
		return
	}

	colorHeader.Printf("%-12s %8s %8s %8s %9s\n", "Extension", "Total", "Done", "Missing", "Coverage")
	var total, done int
	for _, ext := range stats {
		line := fmt.Sprintf("%-12s %8d %8d %8d %8.1f%%",
			ext.Extension, ext.Total, ext.WithPseudocode, ext.Missing(), ext.Percent())
		switch {
		case ext.Missing() == 0:
			colorSuccess.Println(line)
		case ext.WithPseudocode == 0:
			colorBefore.Println(line)
		default:
			colorWarning.Println(line)
		}
		total += ext.Total
		done += ext.WithPseudocode
	}
	if total > 0 {
		fmt.Printf("%-12s %8d %8d %8d %8.1f%%\n",
			"all", total, done, total-done, float64(done)/float64(total)*100)
	}
}

func inspectShow(database *isa.Database, mnemonic string) {
	matched := database.FindMnemonic(mnemonic)
	if len(matched) == 0 {
		fmt.Fprintf(os.Stderr, "No record with mnemonic %q\n", mnemonic)
		os.Exit(3)
	}
	for i, ins := range matched {
		if i > 0 {
			fmt.Println()
		}
		if inspectDump {
			spew.Dump(ins)
			continue
		}
		printInstruction(ins)
	}
}

func inspectMissing(database *isa.Database) {
	missing := 0
	for _, ins := range database.Filter(inspectExtensions...) {
		if ins.HasPseudocode() {
			continue
		}
		missing++
		fmt.Printf("%s (%s): %s\n",
			colorMnemonic.Sprint(ins.Mnemonic),
			colorExtension.Sprint(ins.Extension),
			ins.Description)
	}
	fmt.Printf("%d records without pseudocode\n", missing)
}

func inspectSample(database *isa.Database, count int) {
	var candidates []*isa.Instruction
	for _, ins := range database.Filter(inspectExtensions...) {
		if ins.HasPseudocode() {
			candidates = append(candidates, ins)
		}
	}
	if len(candidates) == 0 {
		fmt.Println("No records with pseudocode match.")
		return
	}

	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if count > len(candidates) {
		count = len(candidates)
	}
	for i := 0; i < count; i++ {
		if i > 0 {
			fmt.Println()
		}
		printInstruction(candidates[i])
	}
}

func printInstruction(ins *isa.Instruction) {
	fmt.Printf("%s (%s)\n", colorMnemonic.Sprint(ins.Mnemonic), colorExtension.Sprint(ins.Extension))
	fmt.Printf("  Category:  %s\n", ins.Category)
	fmt.Printf("  Format:    %s\n", ins.Format)
	fmt.Printf("  Encoding:  %s\n", ins.Encoding)

	if mask, match, err := isa.MaskMatch(ins.Encoding); err == nil {
		digits := len(ins.Encoding) / 4
		fmt.Printf("  Mask:      %s  Match: %s\n",
			utils.FormatUintHex(uint64(mask), digits),
			utils.FormatUintHex(uint64(match), digits))
	}
	if fields, err := isa.ParseEncodingFields(ins.Encoding, ins.Format); err == nil {
		if width, ok := isa.FormatWidth(ins.Format); ok {
			if diagram, err := isa.EncodingDiagram(fields, width, 2); err == nil {
				fmt.Print(diagram)
			}
		}
	}

	if len(ins.Operands) > 0 {
		fmt.Printf("  Operands:  %s\n", utils.FormatSlice(ins.Operands, ", "))
	}
	if ins.Description != "" {
		fmt.Printf("  %s\n", ins.Description)
	}

	if ins.HasPseudocode() {
		dialect := pc.Detect(ins.Pseudocode)
		fmt.Printf("  Pseudocode (%s):\n", dialect)
		for _, line := range strings.Split(strings.TrimRight(ins.Pseudocode, "\n"), "\n") {
			if dialect == pc.DialectC {
				fmt.Printf("    %s\n", utils.HighlightCCode(line))
			} else {
				colorAfter.Printf("    %s\n", line)
			}
		}
	} else {
		colorMuted.Println("  No pseudocode.")
	}
}
