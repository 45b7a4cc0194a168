package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/derive/compiler/load"
)

func TestParseDirective(t *testing.T) {
	seqType := load.SliceOf(stringType)

	tests := []struct {
		name     string
		typ      *load.TypeRef
		tag      string
		wantName string
		wantKind DirectiveKind
		wantMsg  string
	}{
		{name: "no tag", typ: stringType},
		{name: "other namespaces only", typ: seqType, tag: `json:"args,omitempty"`},
		{name: "accumulator", typ: seqType, tag: `builder:"each=arg"`, wantName: "arg"},
		{name: "accumulator next to other keys", typ: seqType, tag: `json:"args" builder:"each=arg" yaml:"args"`, wantName: "arg"},
		{name: "quoted value", typ: seqType, tag: `builder:"each=\"arg\""`, wantName: "arg"},
		{name: "surrounding spaces", typ: seqType, tag: `builder:" each = arg "`, wantName: "arg"},
		{name: "same name as field", typ: seqType, tag: `builder:"each=args"`, wantName: "args"},
		{name: "snake case name", typ: seqType, tag: `builder:"each=env_var"`, wantName: "env_var"},
		{name: "non-sequence", typ: stringType, tag: `builder:"each=arg"`, wantKind: DirectiveRequiresSequence, wantMsg: "found string"},
		{name: "map is not a sequence", typ: load.MapOf(stringType, intType), tag: `builder:"each=arg"`, wantKind: DirectiveRequiresSequence},
		{name: "two options", typ: seqType, tag: `builder:"each=arg,each=other"`, wantKind: MalformedDirective, wantMsg: "more than one option"},
		{name: "no option", typ: seqType, tag: `builder:""`, wantKind: MalformedDirective, wantMsg: "no option"},
		{name: "flag", typ: seqType, tag: `builder:"each"`, wantKind: MalformedDirective, wantMsg: "has no value"},
		{name: "unknown key", typ: seqType, tag: `builder:"every=arg"`, wantKind: UnrecognizedOption, wantMsg: `unrecognized option "every"`},
		{name: "unknown key on non-sequence", typ: stringType, tag: `builder:"every=arg"`, wantKind: UnrecognizedOption},
		{name: "empty name", typ: seqType, tag: `builder:"each="`, wantKind: MalformedDirective, wantMsg: "not a usable identifier"},
		{name: "blank name", typ: seqType, tag: `builder:"each=_"`, wantKind: MalformedDirective},
		{name: "name with dash", typ: seqType, tag: `builder:"each=an-arg"`, wantKind: MalformedDirective},
		{name: "two directives", typ: seqType, tag: `builder:"each=arg" builder:"each=a"`, wantKind: MalformedDirective, wantMsg: "more than one builder directive"},
		{name: "unquoted value", typ: seqType, tag: `builder:each=arg`, wantKind: MalformedDirective, wantMsg: "cannot parse"},
		{name: "unterminated quote", typ: seqType, tag: `builder:"each=\"arg"`, wantKind: MalformedDirective},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newField("Args", tt.typ, tt.tag, 5)
			acc, err := ParseDirective(f, tt.typ, DefaultTagKey)
			if tt.wantKind == 0 {
				require.NoError(t, err)
				if tt.wantName == "" {
					assert.Nil(t, acc)
					return
				}
				require.NotNil(t, acc)
				assert.Equal(t, tt.wantName, acc.Name)
				assert.Equal(t, "string", acc.Elem.String())
				assert.Equal(t, f.TagPos, acc.Pos)
				return
			}
			require.Error(t, err)
			assert.Nil(t, acc)
			var de *DirectiveError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.wantKind, de.Kind)
			assert.Equal(t, "Args", de.Field)
			assert.Equal(t, f.TagPos, de.Pos)
			assert.Contains(t, de.Message, `expected builder:"each=..."`)
			if tt.wantMsg != "" {
				assert.Contains(t, de.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParseDirective_Namespace(t *testing.T) {
	f := newField("Args", load.SliceOf(stringType), `derive:"each=arg" builder:"bogus"`, 5)

	acc, err := ParseDirective(f, f.Type, "derive")
	require.NoError(t, err)
	assert.Equal(t, "arg", acc.Name)

	_, err = ParseDirective(f, f.Type, "builder")
	assert.ErrorIs(t, err, ErrMalformedDirective)
}
