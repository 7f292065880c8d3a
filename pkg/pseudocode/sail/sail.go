// Package sail converts Sail instruction pseudocode, as found in ISA
// description databases, into the C-like pseudocode dialect used by
// instruction reference material. The conversion inlines helper function
// definitions at their call sites, lowers foreach loops and if/then/else
// forms into for loops and ternaries, and normalizes register access and
// bit literal syntax.
//
// Conversion never fails: input the converter cannot handle comes back
// unchanged, so a database pass can run over arbitrary pseudocode without
// risking damage to entries it does not understand.
package sail

import (
	"log/slog"
	"strings"
)

// Translator converts Sail pseudocode to the C-like dialect. The zero
// value is ready to use and logs nothing.
type Translator struct {
	// Logger receives per-function extraction and inlining details at
	// debug level. Nil discards them.
	Logger *slog.Logger
}

func New() *Translator {
	return &Translator{}
}

// Convert translates code to the C-like dialect. On any internal failure
// the original input is returned untouched.
func (t *Translator) Convert(code string) (out string) {
	if strings.TrimSpace(code) == "" {
		return code
	}

	logger := t.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Warn("pseudocode conversion failed, keeping original", "panic", r)
			out = code
		}
	}()

	reg := &registry{}
	residual := extractFunctions(code, reg, logger)
	inlined := inlineCalls(residual, reg)
	return formatOutput(lowerStatements(inlined))
}

// Convert translates code using a default Translator.
func Convert(code string) string {
	return New().Convert(code)
}
