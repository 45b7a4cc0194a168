package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/derive/compiler/gen"
)

const receiver = "b"

func genBuilder(f *jen.File, b *gen.Builder, runtime string) {
	f.Commentf("%s collects %s fields one setter at a time. Create one with %s.", b.Name, b.Record, b.Factory)
	f.Type().Id(b.Name).StructFunc(func(grp *jen.Group) {
		for _, s := range b.Slots {
			if s.Kind == gen.SlotSequence {
				grp.Id(s.Name).Index().Add(typeCode(s.Type))
			} else {
				grp.Id(s.Name).Op("*").Add(typeCode(s.Type))
			}
		}
	})
	f.Line()

	f.Commentf("%s returns an empty %s: every field is unset.", b.Factory, b.Name)
	f.Func().Id(b.Factory).Params().Op("*").Id(b.Name).Block(
		jen.Return(jen.Op("&").Id(b.Name).Values(jen.DictFunc(func(d jen.Dict) {
			for _, s := range b.Slots {
				if s.Kind == gen.SlotSequence {
					d[jen.Id(s.Name)] = jen.Index().Add(typeCode(s.Type)).Values()
				}
			}
		}))),
	)
	f.Line()

	for _, s := range b.Setters {
		genSetter(f, b, s)
	}
	genFinalize(f, b, runtime)
}

func genSetter(f *jen.File, b *gen.Builder, s *gen.Setter) {
	field := jen.Id(receiver).Dot(s.Slot)
	var stmt *jen.Statement
	switch s.Kind {
	case gen.SetValue:
		f.Commentf("%s sets the %s field.", s.Method, fieldOf(b, s.Slot))
		stmt = field.Op("=").Op("&").Id(s.Param)
	case gen.SetSequence:
		f.Commentf("%s replaces the elements of the %s field.", s.Method, fieldOf(b, s.Slot))
		stmt = field.Op("=").Qual("slices", "Clone").Call(jen.Id(s.Param))
	case gen.AppendElem:
		f.Commentf("%s appends one element to the %s field.", s.Method, fieldOf(b, s.Slot))
		stmt = field.Op("=").Append(jen.Id(receiver).Dot(s.Slot), jen.Id(s.Param))
	default:
		return
	}
	f.Func().Params(jen.Id(receiver).Op("*").Id(b.Name)).Id(s.Method).Params(
		jen.Id(s.Param).Add(typeCode(s.Type)),
	).Op("*").Id(b.Name).Block(
		stmt,
		jen.Return(jen.Id(receiver)),
	)
	f.Line()
}

func genFinalize(f *jen.File, b *gen.Builder, runtime string) {
	fin := b.Finalize
	f.Commentf("%s returns a new %s from the fields set so far. It reports every", fin.Method, b.Record)
	f.Comment("unset required field at once and leaves the builder usable.")
	f.Func().Params(jen.Id(receiver).Op("*").Id(b.Name)).Id(fin.Method).Params().Params(
		jen.Op("*").Id(b.Record), jen.Error(),
	).BlockFunc(func(grp *jen.Group) {
		if len(fin.Checks) > 0 {
			grp.Var().Id("missing").Index().String()
			for _, c := range fin.Checks {
				grp.If(jen.Id(receiver).Dot(c.Slot).Op("==").Nil()).Block(
					jen.Id("missing").Op("=").Append(jen.Id("missing"), jen.Lit(c.Reported)),
				)
			}
			grp.If(jen.Len(jen.Id("missing")).Op(">").Lit(0)).Block(
				jen.Return(jen.Nil(), jen.Qual(runtime, "NewIncompleteBuilderError").Call(jen.Lit(b.Record), jen.Id("missing"))),
			)
		}
		var deferred []*gen.Assign
		grp.Id("r").Op(":=").Op("&").Id(b.Record).Values(jen.DictFunc(func(d jen.Dict) {
			for _, a := range fin.Assigns {
				slot := jen.Id(receiver).Dot(a.Slot)
				switch a.Mode {
				case gen.CopyValue:
					d[jen.Id(a.Field)] = jen.Op("*").Add(slot)
				case gen.CopyPointer:
					d[jen.Id(a.Field)] = slot
				case gen.CopySequence:
					d[jen.Id(a.Field)] = jen.Qual("slices", "Clone").Call(slot)
				case gen.CopySequencePointer:
					deferred = append(deferred, a)
				}
			}
		}))
		for _, a := range deferred {
			grp.Block(
				jen.Id("v").Op(":=").Qual("slices", "Clone").Call(jen.Id(receiver).Dot(a.Slot)),
				jen.Id("r").Dot(a.Field).Op("=").Op("&").Id("v"),
			)
		}
		grp.Return(jen.Id("r"), jen.Nil())
	})
	f.Line()
}

func fieldOf(b *gen.Builder, slot string) string {
	for _, s := range b.Slots {
		if s.Name == slot {
			return s.Field
		}
	}
	return slot
}
