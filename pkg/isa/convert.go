package isa

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/mewais/archtools.io/pkg/pseudocode"
	"github.com/mewais/archtools.io/pkg/pseudocode/sail"
	"github.com/mewais/archtools.io/pkg/utils"
)

var ErrWriteReport = errors.New("cannot write report")

// Conversion outcome of one record.
const (
	StatusConverted = "converted"
	StatusUnchanged = "unchanged"
)

// ConvertRecord is the outcome of converting one database record.
type ConvertRecord struct {
	Mnemonic  string `json:"mnemonic"`
	Extension string `json:"extension"`
	Status    string `json:"status"`
	Original  string `json:"original,omitempty"`
	Converted string `json:"converted,omitempty"`
}

// ConversionReport summarizes a batch conversion run.
type ConversionReport struct {
	Timestamp   string          `json:"timestamp"`
	Total       int             `json:"total"`
	Converted   int             `json:"converted"`
	Skipped     int             `json:"skipped"`
	Unchanged   int             `json:"unchanged"`
	Conversions []ConvertRecord `json:"conversions"`
}

// WriteJSON saves the report with indentation.
func (report *ConversionReport) WriteJSON(path string) error {
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

// ConvertSail runs the Sail translator over every matching record whose
// pseudocode the dialect detector classifies as Sail. Records without
// pseudocode or in another dialect are skipped; a record only changes
// when the translator actually rewrote its text. With dryRun the report
// is collected but the database is left untouched.
func (db *Database) ConvertSail(translator *sail.Translator, dryRun bool, extensions ...string) *ConversionReport {
	if translator == nil {
		translator = sail.New()
	}

	report := &ConversionReport{
		Timestamp: time.Now().Format(time.RFC3339),
	}

	for _, ins := range db.Filter(extensions...) {
		report.Total++

		if !ins.HasPseudocode() || pseudocode.Detect(ins.Pseudocode) != pseudocode.DialectSail {
			report.Skipped++
			continue
		}

		converted := translator.Convert(ins.Pseudocode)
		if converted == ins.Pseudocode {
			report.Unchanged++
			report.Conversions = append(report.Conversions, ConvertRecord{
				Mnemonic:  ins.Mnemonic,
				Extension: ins.Extension,
				Status:    StatusUnchanged,
			})
			continue
		}

		report.Converted++
		report.Conversions = append(report.Conversions, ConvertRecord{
			Mnemonic:  ins.Mnemonic,
			Extension: ins.Extension,
			Status:    StatusConverted,
			Original:  ins.Pseudocode,
			Converted: converted,
		})

		if !dryRun {
			ins.Pseudocode = converted
		}
	}

	return report
}
