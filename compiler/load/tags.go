package load

import (
	"errors"
	"fmt"
	"go/token"
	"strconv"
	"strings"
)

// Directive is one namespaced annotation attached to a field. In Go source it
// is one key:"value" entry of the field's struct tag.
type Directive struct {
	// Namespace is the tag key, e.g. "builder".
	Namespace string
	// Raw is the unquoted tag value.
	Raw string
	// Options are the comma-separated entries of Raw in source order.
	Options []Option
	// Pos is the position of the struct tag literal.
	Pos token.Position
	// Err is set when the tag entry could not be split into options.
	Err error
}

// Option is one entry of a directive. Flags (no '=') have HasValue unset.
type Option struct {
	Key      string
	Value    string
	HasValue bool
}

// String returns the option in key=value form.
func (o Option) String() string {
	if !o.HasValue {
		return o.Key
	}
	return o.Key + "=" + o.Value
}

// ErrTagSyntax is reported when a struct tag does not follow the
// conventional key:"value" layout.
var ErrTagSyntax = errors.New("bad struct tag syntax")

// ParseTag splits a raw struct tag (without the surrounding backquotes) into
// directives, one per key:"value" entry, keeping duplicates and source order.
// Scanning stops at the first syntax error, which is returned together with
// the directives read so far.
func ParseTag(tag string) ([]*Directive, error) {
	var ds []*Directive
	for tag != "" {
		// Skip leading space.
		i := 0
		for i < len(tag) && tag[i] == ' ' {
			i++
		}
		tag = tag[i:]
		if tag == "" {
			break
		}
		// Scan to colon. A space, a quote or a control character is a syntax error.
		i = 0
		for i < len(tag) && tag[i] > ' ' && tag[i] != ':' && tag[i] != '"' && tag[i] != 0x7f {
			i++
		}
		if i == 0 || i+1 >= len(tag) || tag[i] != ':' || tag[i+1] != '"' {
			err := fmt.Errorf("%w: %q", ErrTagSyntax, tag)
			if i > 0 && i < len(tag) && tag[i] == ':' {
				// The key is known, so the entry can still be attributed.
				ds = append(ds, &Directive{Namespace: tag[:i], Raw: tag[i+1:], Err: err})
			}
			return ds, err
		}
		name := tag[:i]
		tag = tag[i+1:]

		// Scan quoted string to find value.
		i = 1
		for i < len(tag) && tag[i] != '"' {
			if tag[i] == '\\' {
				i++
			}
			i++
		}
		if i >= len(tag) {
			return append(ds, &Directive{Namespace: name, Raw: tag, Err: fmt.Errorf("%w: unterminated value for %q", ErrTagSyntax, name)}),
				fmt.Errorf("%w: unterminated value for %q", ErrTagSyntax, name)
		}
		qvalue := tag[:i+1]
		tag = tag[i+1:]
		value, err := strconv.Unquote(qvalue)
		if err != nil {
			ds = append(ds, &Directive{Namespace: name, Raw: qvalue, Err: fmt.Errorf("%w: %v", ErrTagSyntax, err)})
			continue
		}
		d := &Directive{Namespace: name, Raw: value}
		d.Options, d.Err = ParseOptions(value)
		ds = append(ds, d)
	}
	return ds, nil
}

// ParseOptions splits a directive value into its comma-separated options.
// Options are either flags (key) or pairs (key=value); values may be
// double-quoted to protect commas and spaces.
func ParseOptions(s string) ([]Option, error) {
	var (
		opts     []Option
		key, val strings.Builder
		inValue  bool
		inQuote  bool
		quoted   bool
	)
	flush := func() error {
		k := strings.TrimSpace(key.String())
		v := val.String()
		if !quoted {
			v = strings.TrimSpace(v)
		}
		defer func() {
			key.Reset()
			val.Reset()
			inValue, quoted = false, false
		}()
		if k == "" {
			if inValue || v != "" {
				return fmt.Errorf("%w: option without a key", ErrTagSyntax)
			}
			return nil
		}
		opts = append(opts, Option{Key: k, Value: v, HasValue: inValue})
		return nil
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, r := range s {
		switch {
		case inQuote:
			if r == '"' {
				inQuote = false
				continue
			}
			val.WriteRune(r)
		case r == ',':
			if err := flush(); err != nil {
				return opts, err
			}
		case !inValue && r == '=':
			inValue = true
		case inValue && r == '"' && strings.TrimSpace(val.String()) == "" && !quoted:
			val.Reset()
			inQuote, quoted = true, true
		default:
			if inValue {
				val.WriteRune(r)
			} else {
				key.WriteRune(r)
			}
		}
	}
	if inQuote {
		return opts, fmt.Errorf("%w: unterminated quoted value", ErrTagSyntax)
	}
	if err := flush(); err != nil {
		return opts, err
	}
	return opts, nil
}
