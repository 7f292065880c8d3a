package pseudocode

import (
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"

	"github.com/mewais/archtools.io/pkg/isa"
	pc "github.com/mewais/archtools.io/pkg/pseudocode"
	"github.com/mewais/archtools.io/pkg/pseudocode/sail"
	"github.com/mewais/archtools.io/pkg/utils"
)

var (
	browseDatabase   string
	browseExtensions []string
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the instruction database interactively",
	Long: `Opens a terminal browser over the instruction database. The left pane
lists the records, the right pane shows the selected record in full.

Keys:
  /        Focus the filter field
  c        Toggle the Sail to C-style conversion preview
  q, ESC   Quit

Example:
  archtools pseudocode browse -d instructions.json -e RV32B,RV64B`,
	Run: runBrowse,
}

func init() {
	PseudocodeCmd.AddCommand(browseCmd)
	browseCmd.Flags().StringVarP(&browseDatabase, "database", "d", "", "Instruction database JSON file")
	browseCmd.Flags().StringSliceVarP(&browseExtensions, "extensions", "e", nil, "Only list records of these extensions (substring match)")
}

// browser holds the widgets and the record subset currently on screen.
type browser struct {
	app        *tview.Application
	filter     *tview.InputField
	list       *tview.List
	detail     *tview.TextView
	translator *sail.Translator

	records []*isa.Instruction
	visible []*isa.Instruction
	preview bool
}

func runBrowse(cmd *cobra.Command, args []string) {
	database := loadDatabase(browseDatabase)
	records := database.Filter(browseExtensions...)
	if len(records) == 0 {
		fmt.Fprintf(os.Stderr, "No records match the given extensions\n")
		os.Exit(1)
	}

	b := &browser{
		app:        tview.NewApplication(),
		filter:     tview.NewInputField().SetLabel(" Filter: "),
		list:       tview.NewList().ShowSecondaryText(true),
		detail:     tview.NewTextView().SetDynamicColors(true).SetWordWrap(true),
		translator: sail.New(),
		records:    records,
	}
	b.detail.SetBorder(true).SetTitle(" Record ")
	b.list.SetBorder(true).SetTitle(fmt.Sprintf(" Instructions (%d) ", len(records)))

	b.filter.SetChangedFunc(func(text string) {
		b.populate(text)
	})
	b.list.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		b.showDetail(index)
	})
	b.app.SetInputCapture(b.handleKey)

	b.populate("")

	body := tview.NewFlex().
		AddItem(b.list, 0, 1, true).
		AddItem(b.detail, 0, 2, false)
	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(b.filter, 1, 0, false).
		AddItem(body, 0, 1, true)

	if err := b.app.SetRoot(root, true).EnableMouse(true).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running browser: %v\n", err)
		os.Exit(3)
	}
}

func (b *browser) handleKey(event *tcell.EventKey) *tcell.EventKey {
	if b.app.GetFocus() == b.filter {
		if event.Key() == tcell.KeyEscape || event.Key() == tcell.KeyEnter {
			b.app.SetFocus(b.list)
			return nil
		}
		return event
	}

	switch event.Key() {
	case tcell.KeyEscape:
		b.app.Stop()
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			b.app.Stop()
			return nil
		case '/':
			b.app.SetFocus(b.filter)
			return nil
		case 'c':
			b.preview = !b.preview
			b.showDetail(b.list.GetCurrentItem())
			return nil
		}
	}
	return event
}

// populate fills the list with records matching the filter text. Matching
// is a case-insensitive substring search over mnemonic, extension and
// description.
func (b *browser) populate(filter string) {
	needle := strings.ToLower(strings.TrimSpace(filter))
	b.visible = b.visible[:0]
	b.list.Clear()

	for _, ins := range b.records {
		if needle != "" &&
			!strings.Contains(strings.ToLower(ins.Mnemonic), needle) &&
			!strings.Contains(strings.ToLower(ins.Extension), needle) &&
			!strings.Contains(strings.ToLower(ins.Description), needle) {
			continue
		}
		b.visible = append(b.visible, ins)
		b.list.AddItem(
			tview.Escape(ins.Mnemonic),
			tview.Escape(fmt.Sprintf("%s  %s", ins.Extension, ins.Description)),
			0, nil)
	}

	b.list.SetTitle(fmt.Sprintf(" Instructions (%d/%d) ", len(b.visible), len(b.records)))
	b.showDetail(b.list.GetCurrentItem())
}

func (b *browser) showDetail(index int) {
	if index < 0 || index >= len(b.visible) {
		b.detail.SetText("[gray]No records match.")
		return
	}
	ins := b.visible[index]

	var sb strings.Builder
	fmt.Fprintf(&sb, "[yellow::b]%s[-:-:-]  [aqua]%s[-]\n\n", tview.Escape(ins.Mnemonic), tview.Escape(ins.Extension))
	fmt.Fprintf(&sb, "[white]Category:[-]  %s\n", tview.Escape(ins.Category))
	fmt.Fprintf(&sb, "[white]Format:[-]    %s\n", tview.Escape(ins.Format))
	fmt.Fprintf(&sb, "[white]Encoding:[-]  %s\n", tview.Escape(ins.Encoding))
	if mask, match, err := isa.MaskMatch(ins.Encoding); err == nil {
		digits := len(ins.Encoding) / 4
		fmt.Fprintf(&sb, "[white]Mask:[-]      %s  [white]Match:[-] %s\n",
			utils.FormatUintHex(uint64(mask), digits),
			utils.FormatUintHex(uint64(match), digits))
	}
	if len(ins.Operands) > 0 {
		fmt.Fprintf(&sb, "[white]Operands:[-]  %s\n", tview.Escape(strings.Join(ins.Operands, ", ")))
	}
	if ins.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", tview.Escape(ins.Description))
	}

	if ins.HasPseudocode() {
		fmt.Fprintf(&sb, "\n[white]Pseudocode (%s):[-]\n", pc.Detect(ins.Pseudocode))
		fmt.Fprintf(&sb, "[green]%s[-]\n", tview.Escape(strings.TrimRight(ins.Pseudocode, "\n")))

		if b.preview && pc.Detect(ins.Pseudocode) == pc.DialectSail {
			converted := b.translator.Convert(ins.Pseudocode)
			fmt.Fprintf(&sb, "\n[white]Converted:[-]\n")
			fmt.Fprintf(&sb, "[lime]%s[-]\n", tview.Escape(strings.TrimRight(converted, "\n")))
		}
	} else {
		sb.WriteString("\n[gray]No pseudocode.[-]\n")
	}

	b.detail.SetText(sb.String())
	b.detail.ScrollToBeginning()
}
