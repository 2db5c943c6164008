// Package theme holds the static light and dark palette options of the site
// and renders them as CSS custom properties.
package theme

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Variant identifies a palette mode.
type Variant string

const (
	VariantLight Variant = "light"
	VariantDark  Variant = "dark"
)

// ErrUnknownVariant is returned when a requested variant is not known.
var ErrUnknownVariant = errors.New("unknown theme variant")

type Color struct {
	Main string `json:"main"`
}

type Background struct {
	Default string `json:"default,omitempty"`
	Paper   string `json:"paper"`
}

type Palette struct {
	Mode       Variant    `json:"mode"`
	Background Background `json:"background"`
	Primary    Color      `json:"primary"`
	Secondary  Color      `json:"secondary"`
}

type Typography struct {
	FontFamily string `json:"fontFamily"`
	FontSize   int    `json:"fontSize"`
}

type Shape struct {
	BorderRadius int `json:"borderRadius"`
}

// Options is the full option bundle of one variant.
type Options struct {
	Palette    Palette    `json:"palette"`
	Typography Typography `json:"typography"`
	Shape      Shape      `json:"shape"`
}

var common = Options{
	Typography: Typography{
		FontFamily: `"Roboto", "Helvetica", "Arial", sans-serif`,
		FontSize:   14,
	},
	Shape: Shape{BorderRadius: 4},
}

func withPalette(p Palette) Options {
	o := common
	o.Palette = p
	return o
}

var variants = map[Variant]Options{
	VariantLight: withPalette(Palette{
		Mode:       VariantLight,
		Background: Background{Default: "#f5f7fb", Paper: "#ffffff"},
		Primary:    Color{Main: "#3f5fa0"},
		Secondary:  Color{Main: "#4a9b2e"},
	}),
	VariantDark: withPalette(Palette{
		Mode:       VariantDark,
		Background: Background{Paper: "#0f192c"},
		Primary:    Color{Main: "#6586c8"},
		Secondary:  Color{Main: "#6ad541"},
	}),
}

// Resolve returns the options bundle for a variant.
func Resolve(v Variant) (Options, error) {
	o, ok := variants[Variant(strings.ToLower(string(v)))]
	if !ok {
		return Options{}, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}
	return o, nil
}

// Variants lists the known variants in a stable order.
func Variants() []Variant {
	out := make([]Variant, 0, len(variants))
	for v := range variants {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// vars flattens the options into CSS custom property pairs.
func (o Options) vars() [][2]string {
	vars := [][2]string{
		{"--palette-mode", string(o.Palette.Mode)},
		{"--background-paper", o.Palette.Background.Paper},
		{"--primary-main", o.Palette.Primary.Main},
		{"--secondary-main", o.Palette.Secondary.Main},
		{"--font-family", o.Typography.FontFamily},
		{"--font-size", fmt.Sprintf("%dpx", o.Typography.FontSize)},
		{"--border-radius", fmt.Sprintf("%dpx", o.Shape.BorderRadius)},
	}
	if o.Palette.Background.Default != "" {
		vars = append(vars, [2]string{"--background-default", o.Palette.Background.Default})
	}
	return vars
}

func writeBlock(b *strings.Builder, selector string, o Options) {
	b.WriteString(selector)
	b.WriteString(" {\n")
	for _, kv := range o.vars() {
		fmt.Fprintf(b, "  %s: %s;\n", kv[0], kv[1])
	}
	b.WriteString("}\n")
}

// CSS renders the stylesheet variables. The preferred variant applies to
// :root; the other one is used when the user agent asks for it.
func CSS(preferred Variant) (string, error) {
	pref, err := Resolve(preferred)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	writeBlock(&b, ":root", pref)
	for _, v := range Variants() {
		if v == pref.Palette.Mode {
			continue
		}
		fmt.Fprintf(&b, "@media (prefers-color-scheme: %s) {\n", v)
		writeBlock(&b, ":root", variants[v])
		b.WriteString("}\n")
	}
	return b.String(), nil
}
