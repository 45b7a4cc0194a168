package golang

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/derive/compiler/gen"
)

func genEnum(f *jen.File, d *gen.EnumDict) {
	f.Commentf("%s returns the name of every %s constant mapped to its value.", d.Lookup, d.Type)
	f.Func().Id(d.Lookup).Params().Map(jen.String()).Id(d.Type).Block(
		jen.Return(jen.Map(jen.String()).Id(d.Type).Values(jen.DictFunc(func(dict jen.Dict) {
			for _, v := range d.Variants {
				dict[jen.Lit(v)] = jen.Id(v)
			}
		}))),
	)
	f.Line()

	format := "%s : " + d.Verb + "\n"
	f.Commentf("%s writes one \"NAME : value\" line per %s constant to w,", d.Dump, d.Type)
	f.Comment("in declaration order.")
	f.Func().Id(d.Dump).Params(jen.Id("w").Qual("io", "Writer")).BlockFunc(func(grp *jen.Group) {
		for _, v := range d.Variants {
			grp.Qual("fmt", "Fprintf").Call(jen.Id("w"), jen.Lit(format), jen.Lit(v), jen.Id(d.Underlying).Call(jen.Id(v)))
		}
	})
	f.Line()
}
