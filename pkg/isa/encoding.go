package isa

import (
	"errors"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/mewais/archtools.io/pkg/utils"
)

var (
	ErrBadEncoding   = errors.New("malformed encoding pattern")
	ErrUnknownFormat = errors.New("unknown instruction format")
)

// EncodingField is one decomposed bit field of an instruction encoding.
// Bit positions follow the usual convention, LSB is bit 0.
type EncodingField struct {
	Name        string `json:"name"`
	StartBit    int    `json:"startBit"`
	EndBit      int    `json:"endBit"`
	Value       string `json:"value"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type fieldSpec struct {
	startBit    int
	endBit      int
	name        string
	description string
	category    string
}

// Standard 32 bit instruction formats, fields listed MSB to LSB.
var standardFormats = map[string][]fieldSpec{
	"R-Type": {
		{25, 31, "funct7", "Function code 7", "funct"},
		{20, 24, "rs2", "Source register 2", "rs2"},
		{15, 19, "rs1", "Source register 1", "rs1"},
		{12, 14, "funct3", "Function code 3", "funct"},
		{7, 11, "rd", "Destination register", "rd"},
		{0, 6, "opcode", "Operation code", "opcode"},
	},
	"R4-Type": {
		{27, 31, "rs3", "Source register 3", "rs3"},
		{25, 26, "fmt", "Format field (2 bits)", "funct"},
		{20, 24, "rs2", "Source register 2", "rs2"},
		{15, 19, "rs1", "Source register 1", "rs1"},
		{12, 14, "rm", "Rounding mode (3 bits)", "rm"},
		{7, 11, "rd", "Destination register", "rd"},
		{0, 6, "opcode", "Operation code", "opcode"},
	},
	"R-Atomic": {
		{27, 31, "funct5", "AMO function code (5 bits)", "funct"},
		{26, 26, "aq", "Acquire ordering bit", "aq"},
		{25, 25, "rl", "Release ordering bit", "rl"},
		{20, 24, "rs2", "Source register 2 (0 for LR)", "rs2"},
		{15, 19, "rs1", "Base address register", "rs1"},
		{12, 14, "funct3", "Width: 010=W, 011=D", "funct"},
		{7, 11, "rd", "Destination register", "rd"},
		{0, 6, "opcode", "Operation code (0101111)", "opcode"},
	},
	"FENCE-Type": {
		{28, 31, "fm", "Fence mode (4 bits)", "funct"},
		{24, 27, "pred", "Predecessor set (IORW)", "pred"},
		{20, 23, "succ", "Successor set (IORW)", "succ"},
		{15, 19, "rs1", "Source register (usually 0)", "rs1"},
		{12, 14, "funct3", "Function code", "funct"},
		{7, 11, "rd", "Destination register (usually 0)", "rd"},
		{0, 6, "opcode", "Operation code (0001111)", "opcode"},
	},
	"I-Type": {
		{20, 31, "imm[11:0]", "Immediate value [11:0]", "immediate"},
		{15, 19, "rs1", "Source register 1", "rs1"},
		{12, 14, "funct3", "Function code (3 bits)", "funct"},
		{7, 11, "rd", "Destination register", "rd"},
		{0, 6, "opcode", "Operation code", "opcode"},
	},
	"S-Type": {
		{25, 31, "imm[11:5]", "Immediate value [11:5]", "immediate"},
		{20, 24, "rs2", "Source register 2 (data)", "rs2"},
		{15, 19, "rs1", "Source register 1 (base)", "rs1"},
		{12, 14, "funct3", "Width selector (3 bits)", "funct"},
		{7, 11, "imm[4:0]", "Immediate value [4:0]", "immediate"},
		{0, 6, "opcode", "Operation code", "opcode"},
	},
	"B-Type": {
		{31, 31, "imm[12]", "Immediate bit [12] (sign)", "immediate"},
		{25, 30, "imm[10:5]", "Immediate bits [10:5]", "immediate"},
		{20, 24, "rs2", "Source register 2", "rs2"},
		{15, 19, "rs1", "Source register 1", "rs1"},
		{12, 14, "funct3", "Branch condition (3 bits)", "funct"},
		{8, 11, "imm[4:1]", "Immediate bits [4:1]", "immediate"},
		{7, 7, "imm[11]", "Immediate bit [11]", "immediate"},
		{0, 6, "opcode", "Operation code", "opcode"},
	},
	"U-Type": {
		{12, 31, "imm[31:12]", "Immediate value [31:12]", "immediate"},
		{7, 11, "rd", "Destination register", "rd"},
		{0, 6, "opcode", "Operation code", "opcode"},
	},
	"J-Type": {
		{31, 31, "imm[20]", "Immediate bit [20] (sign)", "immediate"},
		{21, 30, "imm[10:1]", "Immediate bits [10:1]", "immediate"},
		{20, 20, "imm[11]", "Immediate bit [11]", "immediate"},
		{12, 19, "imm[19:12]", "Immediate bits [19:12]", "immediate"},
		{7, 11, "rd", "Destination register", "rd"},
		{0, 6, "opcode", "Operation code", "opcode"},
	},
	"CSR-Type": {
		{20, 31, "csr", "CSR address", "csr"},
		{15, 19, "rs1", "Source register 1", "rs1"},
		{12, 14, "funct3", "Function code (3 bits)", "funct"},
		{7, 11, "rd", "Destination register", "rd"},
		{0, 6, "opcode", "Operation code", "opcode"},
	},
	"CSRI-Type": {
		{20, 31, "csr", "CSR address", "csr"},
		{15, 19, "uimm", "5-bit unsigned immediate", "immediate"},
		{12, 14, "funct3", "Function code (3 bits)", "funct"},
		{7, 11, "rd", "Destination register", "rd"},
		{0, 6, "opcode", "Operation code", "opcode"},
	},
	"V-Type": {
		{26, 31, "funct6", "Vector function code (6 bits)", "funct"},
		{25, 25, "vm", "Vector mask bit (0=masked, 1=unmasked)", "vm"},
		{20, 24, "vs2", "Vector source register 2", "rs2"},
		{15, 19, "vs1", "Vector source register 1 / scalar rs1", "rs1"},
		{12, 14, "funct3", "Vector width encoding", "funct"},
		{7, 11, "vd", "Vector destination register", "rd"},
		{0, 6, "opcode", "Operation code", "opcode"},
	},
	"VLS-Type": {
		{29, 31, "nf", "Number of fields (NFIELDS-1)", "funct"},
		{28, 28, "mew", "Extended memory width", "funct"},
		{26, 27, "mop", "Memory operation (unit/strided/indexed)", "funct"},
		{25, 25, "vm", "Vector mask bit", "vm"},
		{20, 24, "rs2/vs2", "Stride/index register", "rs2"},
		{15, 19, "rs1", "Base address register", "rs1"},
		{12, 14, "width", "Element width", "funct"},
		{7, 11, "vd/vs3", "Vector destination/source register", "rd"},
		{0, 6, "opcode", "Operation code", "opcode"},
	},
	"VSETVL-Type": {
		{31, 31, "funct1", "Fixed bit", "funct"},
		{20, 30, "zimm", "Vector type immediate (vtype)", "immediate"},
		{15, 19, "rs1/uimm", "AVL source register or immediate", "rs1"},
		{12, 14, "funct3", "Function code", "funct"},
		{7, 11, "rd", "Destination register (new vl)", "rd"},
		{0, 6, "opcode", "Operation code", "opcode"},
	},
}

// Compressed 16 bit instruction formats.
var compressedFormats = map[string][]fieldSpec{
	"CR-Type": {
		{12, 15, "funct4", "Function code (4 bits)", "funct"},
		{7, 11, "rd/rs1", "Dest/source register (5-bit)", "rd"},
		{2, 6, "rs2", "Source register 2 (5-bit)", "rs2"},
		{0, 1, "op", "Opcode quadrant", "opcode"},
	},
	"CI-Type": {
		{13, 15, "funct3", "Function code (3 bits)", "funct"},
		{12, 12, "imm[5]/nzimm[5]", "Immediate bit [5] or other", "immediate"},
		{7, 11, "rd/rs1", "Dest/source register (5-bit)", "rd"},
		{2, 6, "imm[4:0]/nzimm[4:0]", "Immediate bits [4:0]", "immediate"},
		{0, 1, "op", "Opcode quadrant", "opcode"},
	},
	"CSS-Type": {
		{13, 15, "funct3", "Function code (3 bits)", "funct"},
		{7, 12, "imm[5:0]/uimm", "Immediate (6 bits, scaled)", "immediate"},
		{2, 6, "rs2", "Source register 2 (5-bit)", "rs2"},
		{0, 1, "op", "Opcode quadrant", "opcode"},
	},
	"CIW-Type": {
		{13, 15, "funct3", "Function code (3 bits)", "funct"},
		{5, 12, "nzuimm[9:2]", "Non-zero immediate [9:2]", "immediate"},
		{2, 4, "rd'", "Dest register (3-bit, x8-x15)", "rd"},
		{0, 1, "op", "Opcode quadrant", "opcode"},
	},
	"CL-Type": {
		{13, 15, "funct3", "Function code (3 bits)", "funct"},
		{10, 12, "imm[5:3]/uimm[5:3]", "Immediate bits [5:3]", "immediate"},
		{7, 9, "rs1'", "Base register (3-bit, x8-x15)", "rs1"},
		{5, 6, "imm[7:6]/uimm[2:1]", "Immediate bits (varies)", "immediate"},
		{2, 4, "rd'", "Dest register (3-bit, x8-x15)", "rd"},
		{0, 1, "op", "Opcode quadrant", "opcode"},
	},
	"CS-Type": {
		{13, 15, "funct3", "Function code (3 bits)", "funct"},
		{10, 12, "imm[5:3]/uimm[5:3]", "Immediate bits [5:3]", "immediate"},
		{7, 9, "rs1'", "Base register (3-bit, x8-x15)", "rs1"},
		{5, 6, "imm[7:6]/uimm[2:1]", "Immediate bits (varies)", "immediate"},
		{2, 4, "rs2'", "Source register (3-bit, x8-x15)", "rs2"},
		{0, 1, "op", "Opcode quadrant", "opcode"},
	},
	"CA-Type": {
		{10, 15, "funct6", "Function code (6 bits)", "funct"},
		{7, 9, "rd'/rs1'", "Dest/source reg (3-bit, x8-x15)", "rd"},
		{5, 6, "funct2", "Function code (2 bits)", "funct"},
		{2, 4, "rs2'", "Source reg 2 (3-bit, x8-x15)", "rs2"},
		{0, 1, "op", "Opcode quadrant", "opcode"},
	},
	"CB-Type": {
		{13, 15, "funct3", "Function code (3 bits)", "funct"},
		{10, 12, "offset[8:6]/imm[5:3]", "Offset/immediate high", "immediate"},
		{7, 9, "rs1'", "Source register (3-bit, x8-x15)", "rs1"},
		{2, 6, "offset[5:1]/imm[2:0|7:6]", "Offset/immediate low", "immediate"},
		{0, 1, "op", "Opcode quadrant", "opcode"},
	},
	"CJ-Type": {
		{13, 15, "funct3", "Function code (3 bits)", "funct"},
		{2, 12, "jump_target[11:1]", "Jump offset (11 bits)", "immediate"},
		{0, 1, "op", "Opcode quadrant", "opcode"},
	},
}

// FieldValue extracts the bits [startBit..endBit] from an MSB-first
// encoding pattern. Returns "" when the range falls outside the pattern.
func FieldValue(encoding string, startBit, endBit int) string {
	length := len(encoding)
	if startBit < 0 || startBit > endBit || endBit >= length {
		return ""
	}
	return encoding[length-1-endBit : length-startBit]
}

// ParseEncodingFields decomposes a binary encoding pattern into the bit
// fields its instruction format defines. Format names are normalized
// ("r-type" works as well as "R-Type"), and the generic "C-Type" falls
// back to the CR layout for 16 bit patterns.
func ParseEncodingFields(encoding, format string) ([]EncodingField, error) {
	if encoding == "" {
		return nil, utils.MakeError(ErrBadEncoding, "empty pattern")
	}

	encoding = strings.ReplaceAll(encoding, " ", "")
	encoding = strings.ReplaceAll(encoding, "\n", "")
	for _, c := range encoding {
		if c != '0' && c != '1' && c != 'x' {
			return nil, utils.MakeError(ErrBadEncoding, "%q contains characters other than 0, 1 and x", encoding)
		}
	}

	format = normalizeFormat(strings.TrimSpace(format))
	if format == "C-Type" {
		if len(encoding) != 16 {
			return nil, utils.MakeError(ErrUnknownFormat, "generic C-Type needs a 16 bit pattern, got %d bits", len(encoding))
		}
		format = "CR-Type"
	}

	spec, expectedLen, ok := formatSpec(format)
	if !ok {
		return nil, utils.MakeError(ErrUnknownFormat, "%q (known formats: %s)", format, strings.Join(SupportedFormats(), ", "))
	}
	if len(encoding) != expectedLen {
		return nil, utils.MakeError(ErrBadEncoding, "%s expects %d bits, pattern has %d", format, expectedLen, len(encoding))
	}

	fields := make([]EncodingField, 0, len(spec))
	for _, field := range spec {
		fields = append(fields, EncodingField{
			Name:        field.name,
			StartBit:    field.startBit,
			EndBit:      field.endBit,
			Value:       FieldValue(encoding, field.startBit, field.endBit),
			Description: field.description,
			Category:    field.category,
		})
	}

	return fields, nil
}

// ValidateFields checks a field decomposition against its encoding: valid
// bit ranges, no overlap, full coverage, and values that match the bits
// they claim to describe.
func ValidateFields(fields []EncodingField, encoding string) error {
	if len(fields) == 0 {
		return utils.MakeError(ErrBadEncoding, "no fields to check")
	}

	covered := make([]bool, len(encoding))
	for _, field := range fields {
		if field.StartBit < 0 || field.EndBit >= len(encoding) || field.StartBit > field.EndBit {
			return utils.MakeError(ErrBadEncoding, "field %s claims bits [%d:%d] of a %d bit pattern", field.Name, field.EndBit, field.StartBit, len(encoding))
		}
		for bit := field.StartBit; bit <= field.EndBit; bit++ {
			if covered[bit] {
				return utils.MakeError(ErrBadEncoding, "field %s overlaps bit %d", field.Name, bit)
			}
			covered[bit] = true
		}
		if expected := FieldValue(encoding, field.StartBit, field.EndBit); field.Value != expected {
			return utils.MakeError(ErrBadEncoding, "field %s has value %q, pattern says %q", field.Name, field.Value, expected)
		}
	}

	for bit, ok := range covered {
		if !ok {
			return utils.MakeError(ErrBadEncoding, "bit %d is not covered by any field", bit)
		}
	}

	return nil
}

// DecodeFields decomposes the record's encoding with its format table and
// stores the result on the record.
func (ins *Instruction) DecodeFields() error {
	fields, err := ParseEncodingFields(ins.Encoding, ins.Format)
	if err != nil {
		return err
	}
	if err := ValidateFields(fields, ins.Encoding); err != nil {
		return err
	}
	ins.Fields = fields
	return nil
}

// SupportedFormats returns the known format names, sorted.
func SupportedFormats() []string {
	names := append(utils.SortedKeys(standardFormats), utils.SortedKeys(compressedFormats)...)
	slices.Sort(names)
	return names
}

// FormatWidth returns the bit width a format expects.
func FormatWidth(format string) (int, bool) {
	_, width, ok := formatSpec(normalizeFormat(format))
	return width, ok
}

// IsCompressedFormat reports whether the format is a 16 bit compressed one.
func IsCompressedFormat(format string) bool {
	_, ok := compressedFormats[normalizeFormat(format)]
	return ok
}

func formatSpec(format string) ([]fieldSpec, int, bool) {
	if spec, ok := standardFormats[format]; ok {
		return spec, 32, true
	}
	if spec, ok := compressedFormats[format]; ok {
		return spec, 16, true
	}
	return nil, 0, false
}

func normalizeFormat(format string) string {
	if _, _, ok := formatSpec(format); ok || format == "C-Type" {
		return format
	}
	parts := strings.Split(format, "-")
	if len(parts) != 2 || parts[1] == "" {
		return format
	}
	return strings.ToUpper(parts[0]) + "-" + strings.ToUpper(parts[1][:1]) + strings.ToLower(parts[1][1:])
}
