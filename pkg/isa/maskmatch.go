package isa

import (
	"strings"

	"golang.org/x/exp/slices"

	"github.com/mewais/archtools.io/pkg/utils"
)

// MaskMatch derives the decoder mask and match words of an encoding
// pattern. The mask has a 1 on every fixed bit and the match carries the
// fixed bit values, so a fetched word belongs to the instruction exactly
// when word&mask == match.
func MaskMatch(encoding string) (mask uint32, match uint32, err error) {
	cleaned := strings.ReplaceAll(strings.ReplaceAll(encoding, " ", ""), "\n", "")
	if len(cleaned) != 16 && len(cleaned) != 32 {
		return 0, 0, utils.MakeError(ErrBadEncoding, "encoding %q is %v bits long, expected 16 or 32", cleaned, len(cleaned))
	}

	maskView := utils.CreateBitView(&mask)
	matchView := utils.CreateBitView(&match)

	for i, char := range cleaned {
		bit := len(cleaned) - 1 - i
		switch char {
		case '0':
			maskView.SetBit(bit)
		case '1':
			maskView.SetBit(bit)
			matchView.SetBit(bit)
		case 'x':
		default:
			return 0, 0, utils.MakeError(ErrBadEncoding, "encoding %q contains %q, expected only 0, 1 and x", cleaned, char)
		}
	}

	return mask, match, nil
}

// EncodingDiagram renders decomposed encoding fields as an ascii frame
// diagram, most significant bit on the left.
func EncodingDiagram(fields []EncodingField, width int, leftpad int) (string, error) {
	frameFields := make([]utils.AsciiFrameField, len(fields))
	for i, field := range fields {
		frameFields[i] = utils.AsciiFrameField{
			Name:  field.Name,
			Begin: field.StartBit,
			Width: field.EndBit - field.StartBit + 1,
		}
	}
	slices.SortFunc(frameFields, func(a, b utils.AsciiFrameField) int {
		return a.Begin - b.Begin
	})

	return utils.AsciiFrame(frameFields, width, "bits", utils.AsciiFrameUnitLayout_RightToLeft, leftpad)
}
