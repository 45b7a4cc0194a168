package gen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/derive/compiler/load"
)

// listRenderer renders a plan as its builder and enum names, one per line.
func listRenderer(calls *atomic.Int32) Renderer {
	return RendererFunc(func(p *Plan) ([]byte, error) {
		if calls != nil {
			calls.Add(1)
		}
		var b strings.Builder
		fmt.Fprintf(&b, "// %s\n\npackage %s\n", p.Header, p.Package)
		for _, bl := range p.Builders {
			fmt.Fprintf(&b, "// builder %s\n", bl.Name)
		}
		for _, e := range p.Enums {
			fmt.Fprintf(&b, "// enum %s\n", e.Type)
		}
		return []byte(b.String()), nil
	})
}

func newTestGenerator(t *testing.T, r Renderer, opts ...Option) *Generator {
	t.Helper()
	cfg, err := NewConfig(append([]Option{WithRenderer(r), WithWorkers(2)}, opts...)...)
	require.NoError(t, err)
	g, err := NewGenerator(cfg)
	require.NoError(t, err)
	return g
}

func testPackage(dir string, records ...*load.Record) *load.Package {
	return &load.Package{
		Name:    "command",
		Path:    "example.com/" + filepath.Base(dir),
		Dir:     dir,
		Records: records,
	}
}

func TestNewGenerator(t *testing.T) {
	t.Run("requires a config", func(t *testing.T) {
		_, err := NewGenerator(nil)
		assert.True(t, IsConfigError(err))
	})

	t.Run("requires a renderer", func(t *testing.T) {
		_, err := NewGenerator(MustNewConfig())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "WithRenderer")
	})

	t.Run("validates the config", func(t *testing.T) {
		cfg := MustNewConfig(WithRenderer(listRenderer(nil)))
		cfg.OutputFile = "x.txt"
		_, err := NewGenerator(cfg)
		assert.True(t, IsConfigError(err))
	})
}

func TestGenerator_Plan(t *testing.T) {
	g := newTestGenerator(t, listRenderer(nil))
	seq := load.SliceOf(stringType)

	t.Run("collects builders, enums and diagnostics", func(t *testing.T) {
		pkg := testPackage("/src/command",
			commandRecord(),
			newRecord("Job", newField("Steps", seq, `builder:"each"`, 12)),
		)
		pkg.Enums = []*load.Enum{{Name: "PathConf", Underlying: "int32", Basic: true}}

		p, err := g.Plan(pkg)
		require.NoError(t, err)
		assert.Equal(t, "/src/command/derive_gen.go", p.File)
		assert.Equal(t, DefaultRuntime, p.Runtime)
		assert.Len(t, p.Builders, 2)
		assert.Len(t, p.Enums, 1)
		assert.False(t, p.Empty())
		require.Len(t, p.Diagnostics(), 1)
		assert.Equal(t, "Steps", p.Diagnostics()[0].Field)
	})

	t.Run("structural errors fail the package", func(t *testing.T) {
		pkg := testPackage("/src/command",
			commandRecord(),
			&load.Record{Name: "Mode", Underlying: "int"},
			&load.Record{Name: "Empty", Struct: true},
		)
		pkg.Enums = []*load.Enum{{Name: "Flags", Underlying: "[]int"}}

		p, err := g.Plan(pkg)
		assert.Nil(t, p)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrStructuralMismatch))
		for _, name := range []string{"Mode", "Empty", "Flags"} {
			assert.Contains(t, err.Error(), "on type "+name)
		}
	})

	t.Run("empty package", func(t *testing.T) {
		p, err := g.Plan(testPackage("/src/empty"))
		require.NoError(t, err)
		assert.True(t, p.Empty())
	})
}

func TestGenerator_GenerateAndWrite(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	g := newTestGenerator(t, listRenderer(&calls))

	dirA, dirB := t.TempDir(), t.TempDir()
	pkgs := []*load.Package{
		testPackage(dirA, commandRecord()),
		testPackage(dirB, newRecord("Job", newField("Name", stringType, "", 4))),
	}

	results, err := g.Generate(ctx, pkgs)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, filepath.Join(dirA, DefaultOutputFile), results[0].Path)
	assert.Equal(t, ActionWrite, results[0].Action)
	assert.Contains(t, string(results[1].Content), "// builder JobBuilder")

	require.NoError(t, g.Write(ctx, results))
	got, err := os.ReadFile(filepath.Join(dirA, DefaultOutputFile))
	require.NoError(t, err)
	assert.Equal(t, results[0].Content, got)

	t.Run("unchanged files are left alone", func(t *testing.T) {
		path := filepath.Join(dirB, DefaultOutputFile)
		before, err := os.Stat(path)
		require.NoError(t, err)
		require.NoError(t, g.Write(ctx, results))
		after, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, before.ModTime(), after.ModTime())
	})

	t.Run("stale generated file is removed", func(t *testing.T) {
		results, err := g.Generate(ctx, []*load.Package{testPackage(dirA)})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, ActionRemove, results[0].Action)

		require.NoError(t, g.Write(ctx, results))
		_, err = os.Stat(filepath.Join(dirA, DefaultOutputFile))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("missing file is skipped", func(t *testing.T) {
		results, err := g.Generate(ctx, []*load.Package{testPackage(dirA)})
		require.NoError(t, err)
		assert.Equal(t, ActionSkip, results[0].Action)
		assert.NoError(t, g.Write(ctx, results))
	})
}

func TestGenerator_ForeignFiles(t *testing.T) {
	ctx := context.Background()
	g := newTestGenerator(t, listRenderer(nil))
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultOutputFile)
	require.NoError(t, os.WriteFile(path, []byte("package command\n"), 0o644))

	t.Run("never overwritten", func(t *testing.T) {
		results, err := g.Generate(ctx, []*load.Package{testPackage(dir, commandRecord())})
		require.NoError(t, err)
		err = g.Write(ctx, results)
		require.Error(t, err)
		assert.True(t, IsGenerationError(err))
		assert.Contains(t, err.Error(), "refusing to overwrite")
	})

	t.Run("never removed", func(t *testing.T) {
		results, err := g.Generate(ctx, []*load.Package{testPackage(dir)})
		require.NoError(t, err)
		assert.Equal(t, ActionSkip, results[0].Action)
		require.NoError(t, g.Write(ctx, results))
		_, err = os.Stat(path)
		assert.NoError(t, err)
	})
}

func TestGenerator_PartialFailure(t *testing.T) {
	g := newTestGenerator(t, listRenderer(nil))
	good := testPackage(t.TempDir(), commandRecord())
	bad := testPackage(t.TempDir(), &load.Record{Name: "Mode", Underlying: "int"})

	results, err := g.Generate(context.Background(), []*load.Package{bad, good})
	require.Error(t, err)
	assert.True(t, IsStructuralError(err))
	require.Len(t, results, 1)
	assert.Equal(t, good.Path, results[0].Package)
}

func TestGenerator_RenderError(t *testing.T) {
	boom := errors.New("boom")
	g := newTestGenerator(t, RendererFunc(func(*Plan) ([]byte, error) { return nil, boom }))

	_, err := g.Generate(context.Background(), []*load.Package{testPackage(t.TempDir(), commandRecord())})
	require.Error(t, err)
	assert.True(t, IsGenerationError(err))
	assert.True(t, errors.Is(err, boom))
}

func TestGenerator_Cancelled(t *testing.T) {
	g := newTestGenerator(t, listRenderer(nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, []*load.Package{testPackage(t.TempDir(), commandRecord())})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "write", ActionWrite.String())
	assert.Equal(t, "remove", ActionRemove.String())
	assert.Equal(t, "skip", ActionSkip.String())
	assert.Equal(t, "unknown", Action(0).String())
}
