package theme

import (
	"errors"
	"strings"
	"testing"
)

func TestResolve_Dark(t *testing.T) {
	t.Parallel()

	o, err := Resolve(VariantDark)
	if err != nil {
		t.Fatal(err)
	}
	if o.Palette.Mode != VariantDark {
		t.Errorf("mode = %q", o.Palette.Mode)
	}
	if o.Palette.Background.Paper != "#0f192c" {
		t.Errorf("paper = %q", o.Palette.Background.Paper)
	}
	if o.Palette.Primary.Main != "#6586c8" || o.Palette.Secondary.Main != "#6ad541" {
		t.Errorf("palette = %+v", o.Palette)
	}
	if o.Typography.FontFamily == "" {
		t.Error("common options not applied")
	}
}

func TestResolve_CaseInsensitive(t *testing.T) {
	t.Parallel()
	o, err := Resolve("LIGHT")
	if err != nil {
		t.Fatal(err)
	}
	if o.Palette.Mode != VariantLight {
		t.Errorf("mode = %q", o.Palette.Mode)
	}
}

func TestResolve_Unknown(t *testing.T) {
	t.Parallel()
	_, err := Resolve("sepia")
	if !errors.Is(err, ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestVariants(t *testing.T) {
	t.Parallel()
	got := Variants()
	if len(got) != 2 || got[0] != VariantDark || got[1] != VariantLight {
		t.Errorf("got %v", got)
	}
}

func TestCSS(t *testing.T) {
	t.Parallel()

	css, err := CSS(VariantDark)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(css, ":root {\n  --palette-mode: dark;") {
		t.Errorf("preferred variant should come first: %q", css)
	}
	if !strings.Contains(css, "--background-paper: #0f192c;") {
		t.Error("missing dark paper color")
	}
	if !strings.Contains(css, "@media (prefers-color-scheme: light)") {
		t.Error("missing light media block")
	}

	if _, err := CSS("sepia"); err == nil {
		t.Error("expected error for unknown variant")
	}
}
