// Package diag prints generator diagnostics and drift reports for humans.
package diag

import (
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/syssam/derive/compiler"
	"github.com/syssam/derive/compiler/gen"
)

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Printer writes diagnostics as file:line:col: kind: message lines.
// Positions under Dir are printed relative to it.
type Printer struct {
	w   io.Writer
	dir string

	pos, warn, fail, added, removed, bold *color.Color
}

// NewPrinter returns a printer writing to w. colored forces ANSI colours
// on or off regardless of the environment.
func NewPrinter(w io.Writer, dir string, colored bool) *Printer {
	p := &Printer{
		w:       w,
		dir:     dir,
		pos:     color.New(color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		fail:    color.New(color.FgRed, color.Bold),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
		bold:    color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.pos, p.warn, p.fail, p.added, p.removed, p.bold} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Directive prints one field-level directive error.
func (p *Printer) Directive(d *gen.DirectiveError) {
	fmt.Fprintf(p.w, "%s: %s: %s\n", p.pos.Sprint(p.position(d.Pos)), p.warn.Sprint(d.Kind.String()), d.Diagnostic())
}

// Directives prints ds in order.
func (p *Printer) Directives(ds []*gen.DirectiveError) {
	for _, d := range ds {
		p.Directive(d)
	}
}

// Error prints err, one line per joined error.
func (p *Printer) Error(err error) {
	for _, e := range flatten(err) {
		var se *gen.StructuralError
		if errors.As(e, &se) {
			fmt.Fprintf(p.w, "%s: %s: type %s: %s\n", p.pos.Sprint(p.position(se.Pos)), p.fail.Sprint("StructuralMismatch"), se.Type, se.Message)
			continue
		}
		fmt.Fprintf(p.w, "%s: %v\n", p.fail.Sprint("error"), e)
	}
}

// Drift prints a drift report with its line diff.
func (p *Printer) Drift(d *compiler.Drift) {
	verb := "out of date"
	if d.Action == gen.ActionRemove {
		verb = "stale"
	}
	fmt.Fprintf(p.w, "%s: %s\n", p.bold.Sprint(p.path(d.Path)), verb)
	for _, line := range strings.SplitAfter(d.Diff, "\n") {
		switch {
		case line == "":
		case strings.HasPrefix(line, "+"):
			p.added.Fprint(p.w, line)
		case strings.HasPrefix(line, "-"):
			p.removed.Fprint(p.w, line)
		default:
			fmt.Fprint(p.w, line)
		}
	}
}

func (p *Printer) position(pos token.Position) string {
	if !pos.IsValid() {
		return "-"
	}
	pos.Filename = p.path(pos.Filename)
	return pos.String()
}

func (p *Printer) path(name string) string {
	if p.dir == "" || !filepath.IsAbs(name) {
		return name
	}
	rel, err := filepath.Rel(p.dir, name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return name
	}
	return rel
}

// flatten returns the leaves of a tree of joined errors.
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	var errs []error
	for _, e := range joined.Unwrap() {
		errs = append(errs, flatten(e)...)
	}
	return errs
}
