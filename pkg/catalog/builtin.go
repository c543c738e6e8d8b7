// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package catalog

import (
	"sync"

	"github.com/walteh/rewriterc/pkg/rewrite"
)

// FontSizeStyle is the inline style the title presets add to option titles
const FontSizeStyle = ` style={{fontSize: 'calc(1em + 3px)'}}`

type builtin struct {
	name        string
	description string
	rules       func() []*rewrite.Rule
}

// Every builtin rule leaves text it already rewrote alone: either its output no longer matches
// or a guard vetoes the match.
var builtins = []builtin{
	{
		name:        "menu-grid-columns",
		description: "show six menu columns from xl instead of waiting for 2xl",
		rules: func() []*rewrite.Rule {
			return []*rewrite.Rule{
				rewrite.MustRule("menu-xl-six-columns",
					rewrite.Literal("xl:grid-cols-5 2xl:grid-cols-6"),
					rewrite.Text("xl:grid-cols-6"),
				),
			}
		},
	},
	{
		name:        "menu-grid-spacing",
		description: "wider menu grid spacing with 3/4/5 column breakpoints",
		rules: func() []*rewrite.Rule {
			return []*rewrite.Rule{
				rewrite.MustRule("menu-grid-breakpoints",
					rewrite.MustPattern(`grid grid-cols-2 sm:grid-cols-2 md:grid-cols-\d+ lg:grid-cols-\d+ xl:grid-cols-\d+ gap-6 sm:gap-4`),
					rewrite.Text("grid grid-cols-2 sm:grid-cols-3 md:grid-cols-4 lg:grid-cols-5 xl:grid-cols-5 gap-8 sm:gap-10"),
				),
			}
		},
	},
	{
		name:        "menu-grid-spacing-editorial",
		description: "editorial menu spacing with separate row and column gaps",
		rules: func() []*rewrite.Rule {
			return []*rewrite.Rule{
				rewrite.MustRule("menu-editorial-gaps",
					rewrite.Literal("gap-6 sm:gap-4"),
					rewrite.Text("gap-x-4 gap-y-8 sm:gap-x-6 sm:gap-y-10"),
				),
			}
		},
	},
	{
		name:        "topping-grid-columns",
		description: "cap topping grids at three columns",
		rules: func() []*rewrite.Rule {
			return []*rewrite.Rule{
				rewrite.MustRule("topping-three-columns",
					rewrite.MustPattern(`grid grid-cols-1 md:grid-cols-3 xl:grid-cols-[456] gap-4`),
					rewrite.Text("grid grid-cols-1 md:grid-cols-3 gap-4"),
				),
			}
		},
	},
	{
		name:        "topping-grid-xl4",
		description: "four topping columns on xl screens, menu grids (gap-6) untouched",
		rules: func() []*rewrite.Rule {
			return []*rewrite.Rule{
				rewrite.MustRule("topping-xl-four-columns",
					rewrite.MustPattern(`xl:grid-cols-6 (gap-[45])\b`),
					rewrite.Template("xl:grid-cols-4 ${1}"),
				),
			}
		},
	},
	{
		name:        "accent-color",
		description: "replace the sage accent #a6bba1 with #A72020, any case",
		rules: func() []*rewrite.Rule {
			return []*rewrite.Rule{
				rewrite.MustRule("accent-hex",
					rewrite.LiteralFold("#a6bba1"),
					rewrite.Text("#A72020"),
				),
			}
		},
	},
	{
		name:        "banner-colors",
		description: "light topping banners: bg-[#F5F3EB] text-[#1F2937] instead of red",
		rules: func() []*rewrite.Rule {
			return []*rewrite.Rule{
				rewrite.MustRule("banner-static",
					rewrite.MustPattern(`className="([^"]*?)bg-\[#A72020\] text-white p-5 rounded-lg flex items-center justify-between(\s+mt-4)?"`),
					rewrite.FuncGroups(2, func(m rewrite.Match) (string, error) {
						prefix, err := m.Group(1)
						if err != nil {
							return "", err
						}
						suffix := ""
						if m.Matched(2) {
							suffix = " mt-4"
						}
						return `className="` + prefix + `bg-[#F5F3EB] text-[#1F2937] p-5 rounded-lg flex items-center justify-between` + suffix + `"`, nil
					}),
				),
				rewrite.MustRule("banner-template-string",
					rewrite.Literal("bg-[#A72020] text-white p-5 rounded-lg flex items-center justify-between ${"),
					rewrite.Text("bg-[#F5F3EB] text-[#1F2937] p-5 rounded-lg flex items-center justify-between ${"),
				),
			}
		},
	},
	{
		name:        "title-flex",
		description: "vertically center red option titles",
		rules: func() []*rewrite.Rule {
			return []*rewrite.Rule{
				rewrite.MustRule("title-items-center",
					rewrite.MustPattern(`(bg-\[#A72020\] text-white px-4 py-3 rounded-lg(?: mb-5 relative z-10| mb-5| mb-2)?)">`),
					rewrite.Template(`${1} flex items-center">`),
				),
			}
		},
	},
	{
		name:        "option-row-heights",
		description: "fixed h-14 option rows instead of vertical padding",
		rules: func() []*rewrite.Rule {
			return []*rewrite.Rule{
				rewrite.MustRule("option-row-h14",
					rewrite.MustPattern(`className="flex-1 flex items-center justify-between px-4 (?:py-3( gap-3)?|py-2)"`),
					rewrite.Template(`className="flex-1 flex items-center justify-between px-4 h-14${1}"`),
				),
			}
		},
	},
	{
		name:        "title-font-size",
		description: "option titles 3px larger than the surrounding text",
		rules: func() []*rewrite.Rule {
			return []*rewrite.Rule{
				rewrite.MustRule("font-semibold-size",
					rewrite.Literal(`<span className="font-semibold">`),
					rewrite.Text(`<span className="font-semibold"`+FontSizeStyle+`>`),
				),
				rewrite.MustRule("font-bold-size",
					rewrite.Literal(`<span className="font-bold">`),
					rewrite.Text(`<span className="font-bold"`+FontSizeStyle+`>`),
					rewrite.WithGuards(rewrite.UnlessSegmentContains("style={{fontSize")),
					rewrite.InLines(),
				),
			}
		},
	},
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// 📚 Default returns the catalog of builtin presets. Builtin rules are fixed at compile time,
// a failure to register one is a programming error and panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c := New()
		for _, b := range builtins {
			batch, err := rewrite.NewBatch(b.name, b.rules()...)
			if err != nil {
				panic(err)
			}
			if err := c.Register(b.name, b.description, batch); err != nil {
				panic(err)
			}
		}
		defaultCatalog = c
	})
	return defaultCatalog
}
