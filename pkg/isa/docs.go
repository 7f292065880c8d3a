package isa

import (
	"fmt"
	"strings"
)

// Dumps all the known encoding format tables as one big multiline string
func FormatsDocumentation(leftpad int) string {
	leftpadStr := strings.Repeat(" ", leftpad)

	var builder strings.Builder
	builder.WriteString(leftpadStr)
	builder.WriteString(fmt.Sprintf("total supported formats: %v\n\n", len(SupportedFormats())))

	for _, name := range SupportedFormats() {
		specs, width, _ := formatSpec(name)
		builder.WriteString(leftpadStr)
		builder.WriteString(fmt.Sprintf("%v (%v bits):\n\n", name, width))

		fields := make([]EncodingField, len(specs))
		for i, spec := range specs {
			fields[i] = EncodingField{
				Name:     spec.name,
				StartBit: spec.startBit,
				EndBit:   spec.endBit,
			}
		}
		if diagram, err := EncodingDiagram(fields, width, leftpad+2); err == nil {
			builder.WriteString(diagram)
			builder.WriteString("\n")
		}

		for _, spec := range specs {
			bits := fmt.Sprintf("%d:%d", spec.endBit, spec.startBit)
			if spec.startBit == spec.endBit {
				bits = fmt.Sprintf("%d", spec.startBit)
			}
			builder.WriteString(leftpadStr)
			builder.WriteString(fmt.Sprintf("  [%5s] %-16s %v\n", bits, spec.name, spec.description))
		}
		builder.WriteString("\n")
	}

	return builder.String()
}

// Like FormatsDocumentation(), but with zero leftpad
func FormatsDocString() string {
	return FormatsDocumentation(0)
}
