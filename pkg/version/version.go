package version

import "strings"

// TokenKind classifies a token within a comparison key.
type TokenKind int

const (
	// Numeric is a run of digits, zero-padded for comparison.
	Numeric TokenKind = iota
	// Tag is an alphabetic identifier, normalized so that conventional
	// pre-release spellings rank dev < alpha < beta < rc.
	Tag
	// SeparatorMark records a literal "-" ahead of a pre-release tag. Marks
	// that end up directly before a tag are dropped during tokenization.
	SeparatorMark
	// Terminal closes every key. It ranks above any pre-release tag, which
	// is what makes "1.0.0" compare greater than "1.0.0-rc1".
	Terminal
)

// numericWidth is the zero-padding applied to digit runs so lexicographic
// and numeric comparison coincide for realistic version magnitudes.
const numericWidth = 8

const (
	terminalValue  = "*final"
	separatorValue = "*final-"
	paddedZero     = "00000000"
)

// tagAliases maps pre-release spellings to single-character ranks. "@" sorts
// before "a", giving dev snapshots the lowest rank; "c" covers rc, pre, and
// preview, which all mean release-candidate.
var tagAliases = map[string]string{
	"dev":     "@",
	"alpha":   "a",
	"beta":    "b",
	"rc":      "c",
	"pre":     "c",
	"preview": "c",
}

// Token is one element of a comparison key. Value is the canonical
// comparable form; two tokens order by plain string comparison of Value.
type Token struct {
	Kind  TokenKind
	Value string
}

// Key is the comparable form of a version string.
type Key []Token

// IsStandardRelease reports whether s is a plain release version: every
// character an ASCII digit or ".". Anything else (letters, hyphens) marks a
// pre-release. The empty string is vacuously standard.
func IsStandardRelease(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && c != '.' {
			return false
		}
	}
	return true
}

// Tokenize parses a version string into its comparison key. It is total:
// any input yields a key, and malformed fragments are skipped rather than
// reported.
//
// The input is lower-cased and scanned into maximal digit runs, maximal
// letter runs, and literal "." and "-" characters; everything else (for
// example "+" and "_") is discarded. Dots only delimit digit runs and carry
// no token of their own. Digit runs are left-padded with zeros; letter runs
// are normalized via tagAliases and prefixed so they sort after padded
// numerics in the same position.
func Tokenize(s string) Key {
	lower := strings.ToLower(s)
	var key Key

	push := func(tok Token) {
		if tok.Kind == Tag && tok.Value < terminalValue {
			// A "-" right before a pre-release tag is pure separator
			// syntax: "1.0-rc1" and "1.0rc1" must order identically.
			for len(key) > 0 && key[len(key)-1].Kind == SeparatorMark {
				key = key[:len(key)-1]
			}
		}
		if tok.Kind != Numeric {
			// Trailing zero components carry no ordering weight; dropping
			// them keeps "1.0" and "1.0.0" equal and keeps pre-release
			// tags adjacent to the numeric run they qualify.
			for len(key) > 0 && key[len(key)-1].Value == paddedZero {
				key = key[:len(key)-1]
			}
		}
		key = append(key, tok)
	}

	for i := 0; i < len(lower); {
		c := lower[i]
		switch {
		case c >= '0' && c <= '9':
			j := i
			for j < len(lower) && lower[j] >= '0' && lower[j] <= '9' {
				j++
			}
			push(Token{Kind: Numeric, Value: padNumber(lower[i:j])})
			i = j
		case c >= 'a' && c <= 'z':
			j := i
			for j < len(lower) && lower[j] >= 'a' && lower[j] <= 'z' {
				j++
			}
			run := lower[i:j]
			if alias, ok := tagAliases[run]; ok {
				run = alias
			}
			push(Token{Kind: Tag, Value: "*" + run})
			i = j
		case c == '-':
			push(Token{Kind: SeparatorMark, Value: separatorValue})
			i++
		default:
			// "." delimits numeric runs and is dropped once those runs are
			// padded; unrecognized characters contribute nothing.
			i++
		}
	}

	push(Token{Kind: Terminal, Value: terminalValue})
	return key
}

// Compare orders two keys element-wise by token value, with shorter keys
// ranking below longer keys that share their prefix. Returns -1, 0, or 1.
func (k Key) Compare(other Key) int {
	n := len(k)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		if c := strings.Compare(k[i].Value, other[i].Value); c != 0 {
			return c
		}
	}
	switch {
	case len(k) < len(other):
		return -1
	case len(k) > len(other):
		return 1
	}
	return 0
}

// Compare orders two version strings. Returns -1 if a is older than b,
// 0 if they are equivalent, and 1 if a is newer than b.
func Compare(a, b string) int {
	return Tokenize(a).Compare(Tokenize(b))
}

func padNumber(digits string) string {
	if len(digits) >= numericWidth {
		return digits
	}
	return strings.Repeat("0", numericWidth-len(digits)) + digits
}
