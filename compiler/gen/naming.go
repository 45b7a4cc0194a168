package gen

import (
	"go/token"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// reserved names cannot be used as setter parameters because setter bodies
// refer to them.
var reserved = map[string]struct{}{
	"b":      {},
	"append": {},
	"slices": {},
}

// exportName returns the exported method name for a field or accumulator
// name: currentDir and current_dir both become CurrentDir.
func exportName(name string) string {
	if strings.Contains(strings.Trim(name, "_"), "_") {
		name = inflect.Camelize(name)
	}
	// A Caser is stateful, so one is created per call.
	return cases.Title(language.Und, cases.NoLower).String(name)
}

// unexport lowers the leading upper-case run of name, keeping the last
// letter of an acronym that starts the next word: URLPath becomes urlPath.
func unexport(name string) string {
	r := []rune(name)
	n := 0
	for n < len(r) && unicode.IsUpper(r[n]) {
		n++
	}
	if n > 1 && n < len(r) && unicode.IsLower(r[n]) {
		n--
	}
	for i := range n {
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}

// localName returns an unexported camel-case identifier for name that is
// neither a Go keyword nor a reserved name.
func localName(name string) string {
	s := unexport(exportName(name))
	if _, ok := reserved[s]; ok || token.Lookup(s).IsKeyword() {
		return "_" + s
	}
	return s
}

// reportedName returns the name of a field in the missing-field list.
func reportedName(name string, mode FieldNames) string {
	if mode == FieldNamesSnake {
		return inflect.Underscore(name)
	}
	return name
}
