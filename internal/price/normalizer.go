// Package price parses free-form marketplace price text into numeric values.
package price

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultMaxPlausible is the cap for a single listing's price. Values above it
// are almost always data-entry errors (an extra digit) and would poison the
// category means, so they become missing instead.
const DefaultMaxPlausible = 20000.00

// thousandsTail matches three digits immediately followed by a comma or the
// end of the string. A period is a thousands separator exactly when the text
// after it contains such a group; otherwise it is the decimal point.
var thousandsTail = regexp.MustCompile(`[0-9]{3}(,|$)`)

// Normalizer converts raw price strings into capped numeric values.
type Normalizer struct {
	MaxPlausible float64
}

// NewNormalizer returns a Normalizer with the default individual price cap.
func NewNormalizer() *Normalizer {
	return &Normalizer{MaxPlausible: DefaultMaxPlausible}
}

// Normalize parses raw price text. It returns the parsed value, or nil when
// the text is blank, unparseable, or above the plausibility cap. The second
// result reports whether a successfully parsed value was dropped by the cap.
// Malformed input is missing data, never an error.
func (n *Normalizer) Normalize(raw string) (*float64, bool) {
	cleaned := Clean(raw)
	if cleaned == "" {
		return nil, false
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil, false
	}
	// ParseFloat accepts "nan" and "inf" spellings; a non-finite price is
	// missing data, and a NaN must never reach the category mean fold.
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, false
	}
	if v > n.MaxPlausible {
		return nil, true
	}
	return &v, false
}

// Clean strips currency markers and whitespace and converts Brazilian number
// formatting ("R$ 1.234,56") to a parseable decimal string ("1234.56").
func Clean(raw string) string {
	s := strings.ReplaceAll(raw, "R$", "")
	s = strings.Join(strings.Fields(s), "")
	s = stripThousandsSeparators(s)
	return strings.ReplaceAll(s, ",", ".")
}

// stripThousandsSeparators removes every period that acts as a thousands
// separator while preserving a period that is itself the decimal point.
func stripThousandsSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '.' && thousandsTail.MatchString(s[i+1:]) {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
