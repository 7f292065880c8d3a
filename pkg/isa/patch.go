package isa

import (
	"encoding/json"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/mewais/archtools.io/pkg/utils"
)

// How far above a changed line the parser searches for the record the
// change belongs to.
const patchLookBack = 100

var (
	hunkHeaderRe    = regexp.MustCompile(`@@ -(\d+),?\d* \+(\d+),?\d* @@`)
	encodingKeyRe   = regexp.MustCompile(`"encoding":\s*"([01x]+)"`)
	mnemonicKeyRe   = regexp.MustCompile(`"mnemonic":\s*"([^"]+)"`)
	extensionKeyRe  = regexp.MustCompile(`"extension":\s*"([^"]+)"`)
	operandsArrayRe = regexp.MustCompile(`"operands":\s*\[(.*?)\]`)
)

// InstructionKey identifies a record by mnemonic and extension.
type InstructionKey struct {
	Mnemonic  string
	Extension string
}

// Patch is the set of record changes extracted from a unified diff of a
// database file. Pseudocode changes are keyed by encoding, which stays
// stable across reordering; encoding and operand fixes are keyed by
// mnemonic and extension since the encoding itself is what changes.
type Patch struct {
	Pseudocode map[string]string
	Encodings  map[InstructionKey]string
	Operands   map[InstructionKey][]string
}

// ParsePatch extracts record changes from a unified diff of a database
// file. A pseudocode change is recorded only when the diff fills a
// previously empty field; encoding and operand changes are recorded
// whenever an added line differs from the removed one.
func ParsePatch(diff string) *Patch {
	lines := strings.Split(diff, "\n")
	encodingAt, instructionAt := buildLineMaps(lines)

	patch := &Patch{
		Pseudocode: make(map[string]string),
		Encodings:  make(map[InstructionKey]string),
		Operands:   make(map[InstructionKey][]string),
	}

	for i := 0; i < len(lines); {
		if strings.HasPrefix(lines[i], "@@") {
			i = patch.parseHunk(lines, encodingAt, instructionAt, i)
		} else {
			i++
		}
	}

	return patch
}

// Size returns how many individual changes the patch carries.
func (patch *Patch) Size() int {
	return len(patch.Pseudocode) + len(patch.Encodings) + len(patch.Operands)
}

// buildLineMaps walks the whole diff once and records, for every line,
// which encoding and which record the diff context has most recently
// named. Hunk headers are skipped; removed lines still update the
// context, a removed encoding line is exactly what identifies the record
// a pseudocode change next to it belongs to.
func buildLineMaps(lines []string) (map[int]string, map[int]InstructionKey) {
	encodingAt := make(map[int]string)
	instructionAt := make(map[int]InstructionKey)

	encoding := ""
	mnemonic := ""
	extension := ""

	for i, line := range lines {
		if strings.HasPrefix(line, "@@") {
			continue
		}

		if match := encodingKeyRe.FindStringSubmatch(line); match != nil {
			encoding = match[1]
		}
		if match := mnemonicKeyRe.FindStringSubmatch(line); match != nil {
			mnemonic = match[1]
		}
		if match := extensionKeyRe.FindStringSubmatch(line); match != nil {
			extension = match[1]
		}

		if encoding != "" {
			encodingAt[i] = encoding
		}
		if mnemonic != "" && extension != "" {
			instructionAt[i] = InstructionKey{Mnemonic: mnemonic, Extension: extension}
		}
	}

	return encodingAt, instructionAt
}

// parseHunk consumes one hunk starting at its @@ header and returns the
// index of the next header (or the end of the diff).
func (patch *Patch) parseHunk(lines []string, encodingAt map[int]string, instructionAt map[int]InstructionKey, start int) int {
	var removedPseudocode *string
	removedLine := -1
	var removedEncoding *string
	removedOperands := false

	i := start + 1
	for ; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(line, "@@") {
			return i
		}

		switch {
		case strings.HasPrefix(line, "-") && strings.Contains(line, `"pseudocode":`):
			value := extractJSONString(line, "pseudocode")
			removedPseudocode = &value
			removedLine = i

		case strings.HasPrefix(line, "-") && strings.Contains(line, `"encoding":`):
			value := extractJSONString(line, "encoding")
			removedEncoding = &value

		case strings.HasPrefix(line, "-") && strings.Contains(line, `"operands":`):
			removedOperands = true

		case strings.HasPrefix(line, "+") && strings.Contains(line, `"encoding":`):
			added := extractJSONString(line, "encoding")
			if removedEncoding != nil && added != *removedEncoding {
				if key, ok := lookBack(instructionAt, i); ok {
					patch.Encodings[key] = added
					slog.Debug("patch: encoding fix", "mnemonic", key.Mnemonic, "extension", key.Extension)
				} else {
					slog.Warn("patch: encoding fix with no record in range", "line", i+1)
				}
			}
			removedEncoding = nil

		case strings.HasPrefix(line, "+") && strings.Contains(line, `"operands":`):
			if removedOperands {
				if match := operandsArrayRe.FindStringSubmatch(line); match != nil {
					operands := splitOperandList(match[1])
					if key, ok := lookBack(instructionAt, i); ok && len(operands) > 0 {
						patch.Operands[key] = operands
						slog.Debug("patch: operand fix", "mnemonic", key.Mnemonic, "extension", key.Extension)
					}
				}
			}
			removedOperands = false

		case strings.HasPrefix(line, "+") && strings.Contains(line, `"pseudocode":`):
			added := extractJSONString(line, "pseudocode")
			if removedPseudocode != nil && *removedPseudocode == "" && added != "" {
				encoding, ok := encodingAt[removedLine]
				if !ok {
					encoding, ok = encodingAt[i]
				}
				if !ok {
					encoding, ok = lookBack(encodingAt, i)
				}
				if ok {
					patch.Pseudocode[encoding] = decodeJSONString(added)
					slog.Debug("patch: pseudocode change", "encoding", encoding)
				} else {
					slog.Warn("patch: pseudocode change with no encoding in range", "line", i+1)
				}
			}
			removedPseudocode = nil
			removedLine = -1
		}
	}

	return i
}

// lookBack searches upward from a line for the nearest map entry, within
// the look back window.
func lookBack[Value any](at map[int]Value, from int) (Value, bool) {
	stop := from - patchLookBack
	if stop < 0 {
		stop = 0
	}
	for i := from - 1; i > stop; i-- {
		if value, ok := at[i]; ok {
			return value, true
		}
	}
	var zero Value
	return zero, false
}

// extractJSONString pulls the raw, still escaped value of a `"key": "..."`
// pair out of a diff line, honoring escaped quotes. Returns "" when the
// key is absent or its string never closes.
func extractJSONString(line, key string) string {
	marker := `"` + key + `":`
	pos := strings.Index(line, marker)
	if pos < 0 {
		return ""
	}

	i := pos + len(marker)
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	if i >= len(line) || line[i] != '"' {
		return ""
	}

	start := i + 1
	for i = start; i < len(line); {
		switch line[i] {
		case '\\':
			i += 2
		case '"':
			return line[start:i]
		default:
			i++
		}
	}

	return ""
}

// decodeJSONString expands the escape sequences diff lines carry for
// multi line pseudocode. Escaped backslashes go last so the replacements
// cannot manufacture new sequences.
func decodeJSONString(value string) string {
	value = strings.ReplaceAll(value, `\n`, "\n")
	value = strings.ReplaceAll(value, `\t`, "\t")
	value = strings.ReplaceAll(value, `\r`, "\r")
	value = strings.ReplaceAll(value, `\"`, `"`)
	return strings.ReplaceAll(value, `\\`, `\`)
}

func splitOperandList(list string) []string {
	var operands []string
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		operands = append(operands, strings.Trim(part, `"`))
	}
	return operands
}

// PatchEntry is the outcome of one patch change against the database.
type PatchEntry struct {
	Key    string `json:"key"`
	Field  string `json:"field"`
	Status string `json:"status"`
}

// PatchReport summarizes a patch application run.
type PatchReport struct {
	Timestamp string       `json:"timestamp"`
	Applied   int          `json:"applied"`
	Skipped   int          `json:"skipped"`
	Entries   []PatchEntry `json:"entries"`
}

// WriteJSON saves the report with indentation.
func (report *PatchReport) WriteJSON(path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return utils.MakeError(ErrWriteReport, "%v", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return utils.MakeError(ErrWriteReport, "%v", err)
	}

	return nil
}

func (report *PatchReport) add(key, field, status string) {
	if status == "applied" {
		report.Applied++
	} else {
		report.Skipped++
	}
	report.Entries = append(report.Entries, PatchEntry{Key: key, Field: field, Status: status})
}

// ApplyPatch fills the parsed changes into the database. Pseudocode lands
// only on records whose field is still empty, so a patch can never
// clobber text that arrived through another channel; encoding and operand
// fixes replace the current values. With dryRun the report is collected
// but no record changes.
func (db *Database) ApplyPatch(patch *Patch, dryRun bool) *PatchReport {
	report := &PatchReport{
		Timestamp: time.Now().Format(time.RFC3339),
	}

	for i := range db.Instructions {
		ins := &db.Instructions[i]

		if pseudocode, ok := patch.Pseudocode[ins.Encoding]; ok {
			if ins.Pseudocode == "" {
				if !dryRun {
					ins.Pseudocode = pseudocode
				}
				report.add(ins.Encoding, "pseudocode", "applied")
			} else {
				report.add(ins.Encoding, "pseudocode", "skipped")
			}
		}

		key := InstructionKey{Mnemonic: ins.Mnemonic, Extension: ins.Extension}
		if encoding, ok := patch.Encodings[key]; ok {
			if !dryRun {
				ins.Encoding = encoding
			}
			report.add(ins.Mnemonic+"/"+ins.Extension, "encoding", "applied")
		}
		if operands, ok := patch.Operands[key]; ok {
			if !dryRun {
				ins.Operands = operands
			}
			report.add(ins.Mnemonic+"/"+ins.Extension, "operands", "applied")
		}
	}

	return report
}
