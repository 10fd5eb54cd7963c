package usetlib

import (
	"fmt"
	"strings"
)

// RegexClass renders the resolved intervals as an explicit character class
// in the host regex hex-escape form, e.g. [\x{20}\x{2000}-\x{200A}].
func (u *UnicodeSet) RegexClass() string { return emitClass(u.res.Intervals) }

// ToRegexClass resolves a pattern and renders its character class.
func ToRegexClass(pattern string) (string, error) {
	u, err := Compile(pattern)
	if err != nil {
		return "", err
	}
	return u.RegexClass(), nil
}

func emitClass(iv IntervalSet) string {
	if len(iv) == 0 {
		// no codepoints; an empty class is not valid regex syntax
		return `[^\x{0}-\x{10FFFF}]`
	}
	var b strings.Builder
	b.WriteByte('[')
	for _, in := range iv {
		b.WriteString(hexEscape(in.Lo))
		if in.Hi > in.Lo {
			b.WriteByte('-')
			b.WriteString(hexEscape(in.Hi))
		}
	}
	b.WriteByte(']')
	return b.String()
}

func hexEscape(r rune) string { return fmt.Sprintf(`\x{%X}`, r) }

// RewriteRegex preprocesses a larger regular expression, replacing every
// \p{...}, \P{...} and [...] set reference with the equivalent explicit
// class so the result can go to a regex engine with no property support.
// Text outside those references is copied verbatim.
func RewriteRegex(text string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(text); {
		switch c := text[i]; {
		case c == '\\' && i+1 < len(text) && (text[i+1] == 'p' || text[i+1] == 'P'):
			end := strings.IndexByte(text[i:], '}')
			if end < 0 {
				return "", patErr(ErrUnbalancedBrace, i, `\%c{ not closed`, text[i+1])
			}
			cls, err := ToRegexClass(text[i : i+end+1])
			if err != nil {
				return "", shiftOffset(err, i)
			}
			b.WriteString(cls)
			i += end + 1
		case c == '\\':
			b.WriteByte(c)
			if i+1 < len(text) {
				b.WriteByte(text[i+1])
			}
			i += 2
		case c == '[':
			end, err := matchBracket(text, i)
			if err != nil {
				return "", err
			}
			cls, err := ToRegexClass(text[i : end+1])
			if err != nil {
				return "", shiftOffset(err, i)
			}
			b.WriteString(cls)
			i = end + 1
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}

// matchBracket finds the ] closing the [ at start, honoring backslash
// escapes and nesting. POSIX [: :] pairs balance on their own brackets.
func matchBracket(text string, start int) (int, error) {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, patErr(ErrUnbalancedBracket, start, "missing ]")
}

func shiftOffset(err error, by int) error {
	if pe, ok := err.(*PatternError); ok {
		shifted := *pe
		shifted.Offset += by
		return &shifted
	}
	return err
}
