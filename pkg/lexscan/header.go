package lexscan

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Sumatoshi-tech/pystyle/pkg/textutil"
)

// ErrMalformedHeader is returned when a class or def header has no
// extractable identifier.
var ErrMalformedHeader = errors.New("malformed header")

// HeaderName returns the identifier that follows the class or def keyword
// on text, stopping at "(" or ":".
func HeaderName(text string) (string, error) {
	fields := strings.FieldsFunc(textutil.Strip(text), textutil.IsSpace)
	if len(fields) < 2 {
		return "", fmt.Errorf("%w: %q", ErrMalformedHeader, text)
	}

	name := fields[1]
	if cut := strings.IndexAny(name, "(:"); cut >= 0 {
		name = name[:cut]
	}

	if name == "" {
		return "", fmt.Errorf("%w: %q", ErrMalformedHeader, text)
	}

	return name, nil
}

var fromImportRe = regexp.MustCompile(`^from\s+(\S+)\s+import\b(.*)$`)

// ImportDisplay derives the display string of an import line from its text
// alone: "a, b" for a plain import and "module: a, b" for a from-import.
// Only the first physical line is seen, so names continued on later lines
// are missing. It returns false when the line does not look like an import.
func ImportDisplay(text string) (string, bool) {
	stmt := textutil.Strip(text)

	if cut := strings.IndexAny(stmt, "#;"); cut >= 0 {
		stmt = textutil.Strip(stmt[:cut])
	}

	if rest, ok := strings.CutPrefix(stmt, importPrefix); ok {
		names := importedNames(rest)
		if len(names) == 0 {
			return "", false
		}

		return strings.Join(names, ", "), true
	}

	match := fromImportRe.FindStringSubmatch(stmt)
	if match == nil {
		return "", false
	}

	module := strings.TrimLeft(match[1], ".")

	return module + ": " + strings.Join(importedNames(match[2]), ", "), true
}

// importedNames splits a comma separated import list and drops aliases.
func importedNames(list string) []string {
	list = strings.NewReplacer("(", " ", ")", " ", "\\", " ").Replace(list)

	var names []string

	for part := range strings.SplitSeq(list, ",") {
		fields := strings.FieldsFunc(part, textutil.IsSpace)
		if len(fields) == 0 {
			continue
		}

		names = append(names, fields[0])
	}

	return names
}
