package ald

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/OpenTraceLab/aldnet/pkg/diag"
)

// PinNames is the single-letter pin alphabet. I and O are left out so they are
// never mistaken for 1 and 0.
var PinNames = []string{"A", "B", "C", "D", "E", "F", "G", "H", "J", "K", "L", "M", "N", "P", "Q", "R"}

func validPinChar(c byte) bool {
	for _, n := range PinNames {
		if n[0] == c {
			return true
		}
	}
	return false
}

// ValidPinName reports whether name is a one or two letter pin id drawn from
// PinNames.
func ValidPinName(name string) bool {
	if len(name) == 0 || len(name) > 2 {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !validPinChar(name[i]) {
			return false
		}
	}
	return true
}

// IsPinRef reports whether ref addresses block pins ("<coo>.<pins>") rather
// than naming a signal.
func IsPinRef(ref string) bool { return strings.Contains(ref, ".") }

// BlockPin is one pin of the block at a coordinate on the same page.
type BlockPin struct {
	Coordinate string
	Pin        string
}

// RefLexer tokenizes a pin reference.
var RefLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Dot", Pattern: `\.`},
	{Name: "Word", Pattern: `[^.\s]+`},
})

// pinRef is the grammar of "<coordinate>.<pins>".
type pinRef struct {
	Coordinate string `parser:"@Word"`
	Pins       string `parser:"Dot @Word"`
}

var refParser = participle.MustBuild[pinRef](
	participle.Lexer(RefLexer),
)

// ParsePinRefs expands a pin reference into one BlockPin per pin letter, so
// "0000.CL" is pins C and L of the block at 0000.
func ParsePinRefs(ref string) ([]BlockPin, error) {
	parsed, err := refParser.ParseString("", ref)
	if err != nil {
		return nil, &diag.Error{Kind: diag.KindInvalidReference, Subject: ref, Err: err}
	}
	out := make([]BlockPin, 0, len(parsed.Pins))
	for i := 0; i < len(parsed.Pins); i++ {
		if !validPinChar(parsed.Pins[i]) {
			return nil, diag.Newf(diag.KindInvalidPinName, ref, "pin %q", parsed.Pins[i:i+1])
		}
		out = append(out, BlockPin{Coordinate: parsed.Coordinate, Pin: parsed.Pins[i : i+1]})
	}
	return out, nil
}
