package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/derive/compiler/gen"
)

func TestConfig_LoadAndSave(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), FileName)

	cfg := Config{
		Version:    1,
		Tag:        "make",
		FieldNames: "snake",
		BuildFlags: []string{"-tags", "integration"},
		Patterns:   []string{"./..."},
	}
	require.NoError(t, cfg.Save(cfgPath))

	loaded, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfg, *loaded)
}

func TestConfig_LoadUnknownKey(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(cfgPath, []byte("version: 1\ntags: builder\n"), 0o644))

	_, err := Load(cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tags")
}

func TestConfig_LoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "valid config", cfg: Config{Version: 1}},
		{name: "snake names", cfg: Config{Version: 1, FieldNames: "snake"}},
		{name: "unsupported version", cfg: Config{Version: 99}, wantErr: "unsupported config version"},
		{name: "unknown naming", cfg: Config{Version: 1, FieldNames: "kebab"}, wantErr: "field_names"},
		{name: "negative workers", cfg: Config{Version: 1, Workers: -1}, wantErr: "workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_Options(t *testing.T) {
	t.Run("empty keeps defaults", func(t *testing.T) {
		c := &Config{Version: 1}
		assert.Empty(t, c.Options())
		cfg, err := gen.NewConfig(c.Options()...)
		require.NoError(t, err)
		assert.Equal(t, gen.DefaultTagKey, cfg.TagKey)
	})

	t.Run("every field", func(t *testing.T) {
		c := &Config{
			Version:    1,
			Header:     "Code generated by tools. DO NOT EDIT.",
			Tag:        "make",
			Output:     "builders_gen.go",
			Runtime:    "example.com/runtime",
			FieldNames: "snake",
			Workers:    2,
			BuildFlags: []string{"-tags", "x"},
			Strict:     true,
		}
		cfg, err := gen.NewConfig(c.Options()...)
		require.NoError(t, err)
		assert.Equal(t, c.Header, cfg.Header)
		assert.Equal(t, "make", cfg.TagKey)
		assert.Equal(t, "builders_gen.go", cfg.OutputFile)
		assert.Equal(t, "example.com/runtime", cfg.Runtime)
		assert.Equal(t, gen.FieldNamesSnake, cfg.FieldNames)
		assert.Equal(t, 2, cfg.Workers)
		assert.Equal(t, []string{"-tags", "x"}, cfg.BuildFlags)
		assert.True(t, cfg.Strict)
	})
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/app\n"), 0o644))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path, err := Find(nested)
	require.NoError(t, err)
	assert.Empty(t, path)

	want := filepath.Join(root, FileName)
	require.NoError(t, (&Config{Version: 1}).Save(want))
	path, err = Find(nested)
	require.NoError(t, err)
	assert.Equal(t, want, path)

	inner := filepath.Join(root, "a", FileName)
	require.NoError(t, (&Config{Version: 1}).Save(inner))
	path, err = Find(nested)
	require.NoError(t, err)
	assert.Equal(t, inner, path)
}
