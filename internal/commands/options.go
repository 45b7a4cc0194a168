package commands

import (
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/syssam/derive/compiler/gen"
	"github.com/syssam/derive/internal/config"
	"github.com/syssam/derive/internal/ctxlog"
	"github.com/syssam/derive/internal/diag"
)

// options holds the persistent flags shared by every command.
type options struct {
	getenv func(string) string

	configPath string
	header     string
	tag        string
	output     string
	fieldNames string
	workers    int
	buildFlags []string
	strict     bool
	verbose    bool
	noColor    bool
}

func (o *options) register(fs *pflag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "path to a "+config.FileName+" file (default: searched from dir up to go.mod)")
	fs.StringVar(&o.header, "header", gen.DefaultHeader, "header comment identifying generated files")
	fs.StringVar(&o.tag, "tag", gen.DefaultTagKey, "struct tag key holding builder directives")
	fs.StringVar(&o.output, "output", gen.DefaultOutputFile, "name of the generated file in each package")
	fs.StringVar(&o.fieldNames, "field-names", string(gen.FieldNamesGo), "names reported for missing fields: go or snake")
	fs.IntVar(&o.workers, "workers", 0, "packages rendered in parallel (default: GOMAXPROCS)")
	fs.StringSliceVar(&o.buildFlags, "build-flags", nil, "flags passed to the go build system, e.g. -tags=integration")
	fs.BoolVar(&o.strict, "strict", false, "fail when a field carries a directive error")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "log debug output")
	fs.BoolVar(&o.noColor, "no-color", false, "disable coloured diagnostics")
}

// setup installs the logger on the command context.
func (o *options) setup(cmd *cobra.Command, _ []string) error {
	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), ctxlog.New(cmd.ErrOrStderr(), o.verbose)))
	return nil
}

// run is the resolved input of one generation run.
type run struct {
	cfg      *gen.Config
	dir      string
	patterns []string
}

// resolve merges the project file and the flags. Flags that were set
// explicitly win over the file.
func (o *options) resolve(cmd *cobra.Command, args []string) (*run, error) {
	r := &run{dir: "."}
	if len(args) > 0 {
		r.dir = args[0]
		r.patterns = args[1:]
	}
	path := o.configPath
	if path == "" {
		found, err := config.Find(r.dir)
		if err != nil {
			return nil, err
		}
		path = found
	}
	var opts []gen.Option
	if path != "" {
		fc, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		if err := fc.Validate(); err != nil {
			return nil, err
		}
		ctxlog.FromContext(cmd.Context()).Debug("loaded config", "path", path)
		opts = fc.Options()
		if len(r.patterns) == 0 {
			r.patterns = fc.Patterns
		}
	}
	flags := cmd.Flags()
	if flags.Changed("header") {
		opts = append(opts, gen.WithHeader(o.header))
	}
	if flags.Changed("tag") {
		opts = append(opts, gen.WithTagKey(o.tag))
	}
	if flags.Changed("output") {
		opts = append(opts, gen.WithOutputFile(o.output))
	}
	if flags.Changed("field-names") {
		opts = append(opts, gen.WithFieldNames(gen.FieldNames(o.fieldNames)))
	}
	if flags.Changed("workers") {
		opts = append(opts, gen.WithWorkers(o.workers))
	}
	if flags.Changed("build-flags") {
		opts = append(opts, gen.WithBuildFlags(o.buildFlags...))
	}
	if flags.Changed("strict") {
		opts = append(opts, gen.WithStrict(o.strict))
	}
	// Every bad setting is reported at once, not just the first.
	cfg := gen.MustNewConfig()
	if err := cfg.ApplyAll(opts...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r.cfg = cfg
	return r, nil
}

// printer returns a diagnostics printer for cmd's error stream.
func (o *options) printer(cmd *cobra.Command, dir string) *diag.Printer {
	return o.printerTo(cmd.ErrOrStderr(), dir)
}

func (o *options) printerTo(w io.Writer, dir string) *diag.Printer {
	colored := !o.noColor && o.getenv("NO_COLOR") == "" && diag.IsTerminal(w)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return diag.NewPrinter(w, dir, colored)
}
