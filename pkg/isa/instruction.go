// Package isa models the instruction database: JSON instruction records,
// encoding bit-field decomposition, batch pseudocode conversion, patch
// application from review diffs and manual overrides.
package isa

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/mewais/archtools.io/pkg/utils"
)

// Instruction is one record of the instruction database. The field set
// mirrors the database schema; keys the struct does not model are kept
// verbatim so an untouched database survives a load/save round trip.
type Instruction struct {
	Mnemonic     string
	Category     string
	Format       string
	Encoding     string
	Description  string
	Operands     []string
	OperandTypes []string
	Extension    string
	Pseudocode   string
	Fields       []EncodingField

	extra map[string]json.RawMessage
}

// Wire layout of the known keys, in database order.
type instructionJSON struct {
	Mnemonic     string          `json:"mnemonic"`
	Category     string          `json:"category"`
	Format       string          `json:"format"`
	Encoding     string          `json:"encoding"`
	Description  string          `json:"description"`
	Operands     []string        `json:"operands"`
	OperandTypes []string        `json:"operandTypes"`
	Extension    string          `json:"extension"`
	Pseudocode   string          `json:"pseudocode"`
	Fields       []EncodingField `json:"encodingFields,omitempty"`
}

var knownInstructionKeys = []string{
	"mnemonic", "category", "format", "encoding", "description",
	"operands", "operandTypes", "extension", "pseudocode", "encodingFields",
}

func (ins *Instruction) UnmarshalJSON(data []byte) error {
	var shadow instructionJSON
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range knownInstructionKeys {
		delete(raw, key)
	}

	*ins = Instruction{
		Mnemonic:     shadow.Mnemonic,
		Category:     shadow.Category,
		Format:       shadow.Format,
		Encoding:     shadow.Encoding,
		Description:  shadow.Description,
		Operands:     shadow.Operands,
		OperandTypes: shadow.OperandTypes,
		Extension:    shadow.Extension,
		Pseudocode:   shadow.Pseudocode,
		Fields:       shadow.Fields,
	}
	if len(raw) > 0 {
		ins.extra = raw
	}

	return nil
}

func (ins Instruction) MarshalJSON() ([]byte, error) {
	shadow := instructionJSON{
		Mnemonic:     ins.Mnemonic,
		Category:     ins.Category,
		Format:       ins.Format,
		Encoding:     ins.Encoding,
		Description:  ins.Description,
		Operands:     ins.Operands,
		OperandTypes: ins.OperandTypes,
		Extension:    ins.Extension,
		Pseudocode:   ins.Pseudocode,
		Fields:       ins.Fields,
	}
	if shadow.Operands == nil {
		shadow.Operands = []string{}
	}
	if shadow.OperandTypes == nil {
		shadow.OperandTypes = []string{}
	}

	base, err := json.Marshal(shadow)
	if err != nil {
		return nil, err
	}
	if len(ins.extra) == 0 {
		return base, nil
	}

	// Splice the preserved unknown keys in after the known ones, in a
	// stable order.
	var buf bytes.Buffer
	buf.Write(base[:len(base)-1])
	for _, key := range utils.SortedKeys(ins.extra) {
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(ins.extra[key])
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// HasPseudocode reports whether the record carries non-blank pseudocode.
func (ins *Instruction) HasPseudocode() bool {
	return strings.TrimSpace(ins.Pseudocode) != ""
}

// MatchesExtension reports whether the record belongs to the named
// extension. Matching is by substring, so "RV32B" selects exactly that
// extension while "B" selects the whole family.
func (ins *Instruction) MatchesExtension(name string) bool {
	if name == "" {
		return true
	}
	return strings.Contains(ins.Extension, name)
}
