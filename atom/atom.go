package atom

import (
	"fmt"
	"strconv"
	"strings"
)

type Kind int

const (
	KindFloat Kind = iota
	KindSymbol
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindSymbol:
		return "symbol"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Atom is a single typed value exchanged with the host: either a float or a symbol.
type Atom struct {
	kind   Kind
	float  float64
	symbol string
}

func Float(f float64) Atom {
	return Atom{kind: KindFloat, float: f}
}

func Symbol(s string) Atom {
	return Atom{kind: KindSymbol, symbol: s}
}

func (a Atom) Kind() Kind {
	return a.kind
}

func (a Atom) IsFloat() bool {
	return a.kind == KindFloat
}

// FloatValue returns the float payload, or 0 for symbols.
func (a Atom) FloatValue() float64 {
	if a.kind != KindFloat {
		return 0
	}
	return a.float
}

// SymbolValue returns the symbol payload, or "" for floats.
func (a Atom) SymbolValue() string {
	if a.kind != KindSymbol {
		return ""
	}
	return a.symbol
}

// String returns the natural textual representation of the atom.
//
// Floats use %g with 6 significant digits (3, 0.5, 1e+06). Symbols are written
// verbatim except that characters which would split or re-type the token when
// read back (whitespace, ';', ',', '\' and a '$' before a digit) are escaped
// with a backslash.
func (a Atom) String() string {
	if a.kind == KindFloat {
		return FormatFloat(a.float)
	}
	return escapeSymbol(a.symbol)
}

// FormatFloat formats f the same way a float atom is written to a child's stdin.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}

func escapeSymbol(s string) string {
	if !strings.ContainsAny(s, " \t\n\r;,\\$") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 4)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ';' || c == ',' || c == '\\':
			b.WriteByte('\\')
		case c == '$' && i+1 < len(s) && isDigit(s[i+1]):
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}

	return b.String()
}

// FromString classifies a plain token: numeric tokens become floats, everything else a symbol.
func FromString(token string) Atom {
	if IsNumeric(token) {
		f, err := strconv.ParseFloat(token, 64)
		if err == nil {
			return Float(f)
		}
	}
	return Symbol(token)
}

// FromStrings classifies every token with FromString.
func FromStrings(tokens []string) []Atom {
	atoms := make([]Atom, len(tokens))
	for i, token := range tokens {
		atoms[i] = FromString(token)
	}
	return atoms
}

// Strings returns the natural textual representation of every atom.
func Strings(atoms []Atom) []string {
	result := make([]string, len(atoms))
	for i, a := range atoms {
		result[i] = a.String()
	}
	return result
}

// Join writes the atoms separated by single spaces without a trailing space.
// The result is cut at limit bytes; a limit <= 0 means no limit.
func Join(atoms []Atom, limit int) []byte {
	buf := make([]byte, 0, 64)

	for i, a := range atoms {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, a.String()...)

		if limit > 0 && len(buf) >= limit {
			return buf[:limit]
		}
	}

	return buf
}
