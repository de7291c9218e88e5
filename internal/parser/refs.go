package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gotp/gotp/tp"
)

// refPattern matches R[i], PR[i], PR[i,j] and every signal family, each
// with an optional ":name" comment. PR is listed before R, and \b keeps
// R from matching inside PR or AR.
var refPattern = regexp.MustCompile(
	`\b(PR|R|DI|DO|RI|RO|GI|GO|AI|AO|UI|UO|SI|SO|F)\[\s*(\d+)\s*(?:,\s*\d+\s*)?(?::([^\]]*))?\]`)

// scanRefs returns every register and signal reference in text, in order
// of appearance.
func scanRefs(text string) []tp.Ref {
	matches := refPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	refs := make([]tp.Ref, 0, len(matches))
	for _, m := range matches {
		idx, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		refs = append(refs, newRef(m[1], idx, m[3]))
	}
	return refs
}

func newRef(family string, index int, name string) tp.Ref {
	ref := tp.Ref{Index: index, Name: strings.TrimSpace(name)}
	switch family {
	case "R":
		ref.Kind = tp.SymbolRegister
	case "PR":
		ref.Kind = tp.SymbolPositionRegister
	default:
		ref.Kind = tp.SymbolSignal
		ref.Signal = tp.SignalType(family)
	}
	return ref
}
