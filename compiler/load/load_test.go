package load

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	pkgs, err := Load(context.Background(), &Config{Dir: "testdata/valid"})
	require.NoError(t, err)
	require.Len(t, pkgs, 1)

	pkg := pkgs[0]
	assert.Equal(t, "valid", pkg.Name)
	assert.Equal(t, "github.com/syssam/derive/compiler/load/testdata/valid", pkg.Path)
	abs, err := filepath.Abs("testdata/valid")
	require.NoError(t, err)
	assert.Equal(t, abs, pkg.Dir)
	assert.Len(t, pkg.Files, 3)

	require.Len(t, pkg.Records, 1)
	cmd := pkg.Records[0]
	assert.Equal(t, "Command", cmd.Name)
	require.Len(t, cmd.Fields, 5)
	timeout := cmd.Fields[4]
	assert.Equal(t, "time", timeout.Type.Elem().PkgPath)

	require.Len(t, pkg.Enums, 1)
	level := pkg.Enums[0]
	var variants []string
	for _, v := range level.Variants {
		variants = append(variants, v.Name)
	}
	assert.Equal(t, []string{"Debug", "Info", "Warn", "Error"}, variants)
}

func TestLoadBuildFlags(t *testing.T) {
	records := func(flags ...string) []string {
		pkgs, err := Load(context.Background(), &Config{Dir: "testdata/buildflags", BuildFlags: flags})
		require.NoError(t, err)
		require.Len(t, pkgs, 1)
		var names []string
		for _, r := range pkgs[0].Records {
			names = append(names, r.Name)
		}
		return names
	}
	assert.Equal(t, []string{"Group", "User"}, records())
	assert.Equal(t, []string{"User"}, records("-tags", "hidegroups"))
}

func TestLoadMissingImport(t *testing.T) {
	pkgs, err := Load(context.Background(), &Config{Dir: "testdata/failure"})
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	require.Len(t, pkgs[0].Records, 1)
	srv := pkgs[0].Records[0]
	assert.Equal(t, "Server", srv.Name)
	cfg := srv.Fields[1].Type.Elem()
	assert.Equal(t, "config", cfg.Pkg)
	assert.Equal(t, "example.com/missing/config", cfg.PkgPath)
}

func TestLoadNoPackages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/empty\n\ngo 1.24\n"), 0o644))
	_, err := Load(context.Background(), &Config{Dir: dir, Patterns: []string{"./..."}})
	assert.ErrorIs(t, err, ErrNoPackages)
}

func TestLoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Load(ctx, &Config{Dir: "testdata/valid"})
	assert.Error(t, err)
}
