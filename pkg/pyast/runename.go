package pyast

import (
	"strconv"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/unicode/runenames"
)

const cjkIdeographPrefix = "CJK UNIFIED IDEOGRAPH-"

var (
	runeNamesOnce sync.Once
	runesByName   map[string]rune
)

// lookupRuneName resolves the character name of a \N{...} escape. Names are
// matched case-insensitively, as Python does.
func lookupRuneName(name string) (rune, bool) {
	key := strings.ToUpper(name)

	if hexDigits, ok := strings.CutPrefix(key, cjkIdeographPrefix); ok {
		value, err := strconv.ParseUint(hexDigits, 16, 32)
		if err != nil {
			return 0, false
		}

		r := rune(value)
		if !strings.HasPrefix(runenames.Name(r), "<CJK Ideograph") {
			return 0, false
		}

		return r, true
	}

	runeNamesOnce.Do(func() {
		runesByName = make(map[string]rune)

		for r := rune(0); r <= unicode.MaxRune; r++ {
			n := runenames.Name(r)
			if n == "" || n[0] == '<' {
				continue
			}

			runesByName[n] = r
		}
	})

	r, ok := runesByName[key]

	return r, ok
}
