package pyast

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Sumatoshi-tech/pystyle/pkg/textutil"
)

const (
	tripleQuoteLen = 3
	docTabSize     = 8
)

// DecodeLiteral returns the value of one Python string literal as written
// in source, prefix and quotes included. Byte strings and formatted strings
// have no plain text value and report false.
func DecodeLiteral(literal string) (string, bool) {
	prefixLen := strings.IndexAny(literal, `'"`)
	if prefixLen < 0 {
		return "", false
	}

	prefix := strings.ToLower(literal[:prefixLen])
	if strings.ContainsAny(prefix, "bft") {
		return "", false
	}

	body := literal[prefixLen:]
	quote := body[:1]

	if strings.HasPrefix(body, strings.Repeat(quote, tripleQuoteLen)) && len(body) >= 2*tripleQuoteLen {
		quote = strings.Repeat(quote, tripleQuoteLen)
	}

	body = strings.TrimPrefix(body, quote)
	body = strings.TrimSuffix(body, quote)

	if strings.Contains(prefix, "r") {
		return body, true
	}

	return unescape(body), true
}

// unescape decodes backslash escapes. Unknown escapes and unknown
// character names are kept verbatim.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var sb strings.Builder

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			sb.WriteByte(s[i])

			continue
		}

		next := s[i+1]

		if simple, ok := simpleEscapes[next]; ok {
			sb.WriteString(simple)

			i++

			continue
		}

		switch next {
		case '\n':
			i++
		case '0', '1', '2', '3', '4', '5', '6', '7':
			end := i + 2
			for end < len(s) && end < i+4 && s[end] >= '0' && s[end] <= '7' {
				end++
			}

			value, _ := strconv.ParseUint(s[i+1:end], 8, 32) //nolint:errcheck // digits are validated above.
			sb.WriteRune(rune(value))

			i = end - 1
		case 'x', 'u', 'U':
			width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[next]
			if r, ok := hexRune(s, i+2, width); ok {
				sb.WriteRune(r)

				i += 1 + width

				continue
			}

			sb.WriteByte(s[i])
		case 'N':
			if r, end, ok := namedRune(s, i+2); ok {
				sb.WriteRune(r)

				i = end

				continue
			}

			sb.WriteByte(s[i])
		default:
			sb.WriteByte(s[i])
		}
	}

	return sb.String()
}

var simpleEscapes = map[byte]string{
	'\\': `\`,
	'\'': `'`,
	'"':  `"`,
	'a':  "\a",
	'b':  "\b",
	'f':  "\f",
	'n':  "\n",
	'r':  "\r",
	't':  "\t",
	'v':  "\v",
}

// namedRune decodes "{NAME}" at start and returns the index of the closing
// brace.
func namedRune(s string, start int) (rune, int, bool) {
	if start >= len(s) || s[start] != '{' {
		return 0, 0, false
	}

	closing := strings.IndexByte(s[start:], '}')
	if closing < 0 {
		return 0, 0, false
	}

	end := start + closing

	r, ok := lookupRuneName(s[start+1 : end])

	return r, end, ok
}

func hexRune(s string, start, width int) (rune, bool) {
	if start+width > len(s) {
		return 0, false
	}

	value, err := strconv.ParseUint(s[start:start+width], 16, 32)
	if err != nil || value > math.MaxInt32 {
		return 0, false
	}

	return rune(value), true
}

// CleanDoc normalizes docstring indentation: tabs are expanded, the first
// line is left-stripped, the common leading whitespace of the remaining
// lines is removed, and leading and trailing blank lines are dropped.
func CleanDoc(doc string) string {
	lines := strings.Split(textutil.ExpandTabs(doc, docTabSize), "\n")

	margin := math.MaxInt

	for _, line := range lines[1:] {
		content := utf8.RuneCountInString(textutil.LeftStrip(line))
		if content > 0 {
			margin = min(margin, utf8.RuneCountInString(line)-content)
		}
	}

	lines[0] = textutil.LeftStrip(lines[0])

	if margin < math.MaxInt {
		for i := 1; i < len(lines); i++ {
			runes := []rune(lines[i])
			if len(runes) > margin {
				lines[i] = string(runes[margin:])
			} else {
				lines[i] = ""
			}
		}
	}

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}

	return strings.Join(lines, "\n")
}
