package load

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTag(t *testing.T) {
	t.Run("entries in source order", func(t *testing.T) {
		ds, err := ParseTag(`json:"args,omitempty" builder:"each=arg"`)
		require.NoError(t, err)
		require.Len(t, ds, 2)
		assert.Equal(t, "json", ds[0].Namespace)
		assert.Equal(t, "args,omitempty", ds[0].Raw)
		assert.Equal(t, []Option{{Key: "args"}, {Key: "omitempty"}}, ds[0].Options)
		assert.Equal(t, "builder", ds[1].Namespace)
		assert.Equal(t, []Option{{Key: "each", Value: "arg", HasValue: true}}, ds[1].Options)
	})

	t.Run("duplicates are kept", func(t *testing.T) {
		ds, err := ParseTag(`builder:"each=a" builder:"each=b"`)
		require.NoError(t, err)
		require.Len(t, ds, 2)
		assert.Equal(t, "a", ds[0].Options[0].Value)
		assert.Equal(t, "b", ds[1].Options[0].Value)
	})

	t.Run("empty tag", func(t *testing.T) {
		ds, err := ParseTag("   ")
		require.NoError(t, err)
		assert.Empty(t, ds)
	})

	t.Run("unquoted value is attributed to its key", func(t *testing.T) {
		ds, err := ParseTag(`builder:each=arg`)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTagSyntax))
		require.Len(t, ds, 1)
		assert.Equal(t, "builder", ds[0].Namespace)
		assert.Equal(t, "each=arg", ds[0].Raw)
		assert.ErrorIs(t, ds[0].Err, ErrTagSyntax)
	})

	t.Run("unterminated value", func(t *testing.T) {
		ds, err := ParseTag(`json:"x" builder:"each=arg`)
		require.ErrorIs(t, err, ErrTagSyntax)
		require.Len(t, ds, 2)
		assert.NoError(t, ds[0].Err)
		assert.ErrorIs(t, ds[1].Err, ErrTagSyntax)
	})

	t.Run("bad escape does not stop scanning", func(t *testing.T) {
		ds, err := ParseTag(`builder:"\q" json:"x"`)
		require.NoError(t, err)
		require.Len(t, ds, 2)
		assert.ErrorIs(t, ds[0].Err, ErrTagSyntax)
		assert.Equal(t, "json", ds[1].Namespace)
		assert.NoError(t, ds[1].Err)
	})

	t.Run("missing key", func(t *testing.T) {
		ds, err := ParseTag(`:"x"`)
		require.ErrorIs(t, err, ErrTagSyntax)
		assert.Empty(t, ds)
	})
}

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []Option
		wantErr bool
	}{
		{name: "empty", in: ""},
		{name: "pair", in: "each=arg", want: []Option{{Key: "each", Value: "arg", HasValue: true}}},
		{name: "flag", in: "each", want: []Option{{Key: "each"}}},
		{name: "empty value", in: "each=", want: []Option{{Key: "each", HasValue: true}}},
		{name: "spaces trimmed", in: " each = arg ", want: []Option{{Key: "each", Value: "arg", HasValue: true}}},
		{name: "two options", in: "each=a,each=b", want: []Option{
			{Key: "each", Value: "a", HasValue: true},
			{Key: "each", Value: "b", HasValue: true},
		}},
		{name: "quoted value keeps commas", in: `each="a, b"`, want: []Option{{Key: "each", Value: "a, b", HasValue: true}}},
		{name: "trailing comma", in: "each=a,", want: []Option{{Key: "each", Value: "a", HasValue: true}}},
		{name: "value without key", in: "=a", wantErr: true},
		{name: "unterminated quote", in: `each="a`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOptions(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrTagSyntax)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptionString(t *testing.T) {
	assert.Equal(t, "each=arg", Option{Key: "each", Value: "arg", HasValue: true}.String())
	assert.Equal(t, "each", Option{Key: "each"}.String())
}
