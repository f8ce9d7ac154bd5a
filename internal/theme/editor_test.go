package theme

import (
	"errors"
	"testing"
)

func TestSetVisibility(t *testing.T) {
	th := Default()
	if err := th.SetVisibility(SectionAbout, false); err != nil {
		t.Fatalf("SetVisibility: %v", err)
	}
	if th.Sections[SectionAbout].Visible {
		t.Error("about still visible after toggle")
	}

	err := th.SetVisibility(SectionKind("sidebar"), true)
	if !errors.Is(err, ErrUnknownSection) {
		t.Errorf("unknown kind error = %v, want ErrUnknownSection", err)
	}
}

func TestSetLayoutClampsInvalid(t *testing.T) {
	th := Default()
	if err := th.SetLayout(SectionEducation, VariantGrid); err != nil {
		t.Fatalf("SetLayout: %v", err)
	}
	if got := th.Sections[SectionEducation].Layout; got != VariantStandard {
		t.Errorf("education layout = %s, want standard fallback", got)
	}

	if err := th.SetLayout(SectionHero, VariantMinimal); err != nil {
		t.Fatalf("SetLayout: %v", err)
	}
	if got := th.Sections[SectionHero].Layout; got != VariantMinimal {
		t.Errorf("hero layout = %s, want minimal", got)
	}
}

func TestSetSectionColors(t *testing.T) {
	th := Default()
	bg := "#000000"
	if err := th.SetSectionColors(SectionHero, &bg, nil); err != nil {
		t.Fatalf("SetSectionColors: %v", err)
	}
	cfg := th.Sections[SectionHero]
	if cfg.BgColor != "#000000" {
		t.Errorf("bg = %s, want #000000", cfg.BgColor)
	}
	if cfg.TextColor != "#111827" {
		t.Errorf("text changed unexpectedly: %s", cfg.TextColor)
	}
}

func TestApplyPaletteAtomic(t *testing.T) {
	th := Default()
	if err := th.ApplyPalette("#7C3AED", "#F59E0B"); err != nil {
		t.Fatalf("ApplyPalette: %v", err)
	}
	if th.PrimaryColor != "#7C3AED" || th.AccentColor != "#F59E0B" {
		t.Errorf("palette not applied: %s %s", th.PrimaryColor, th.AccentColor)
	}

	if err := th.ApplyPalette("#112233", ""); err == nil {
		t.Fatal("half palette should be rejected")
	}
	if th.PrimaryColor != "#7C3AED" || th.AccentColor != "#F59E0B" {
		t.Errorf("rejected palette modified theme: %s %s", th.PrimaryColor, th.AccentColor)
	}
}

func TestSetGlobalTokensIndividually(t *testing.T) {
	th := Default()
	accentBefore := th.AccentColor

	// 主色可以单独改，其余标记保持不动。
	th.SetGlobalTokens("", "", "#123456", "")
	if th.PrimaryColor != "#123456" {
		t.Errorf("primary = %s, want #123456", th.PrimaryColor)
	}
	if th.AccentColor != accentBefore {
		t.Errorf("accent changed unexpectedly: %s", th.AccentColor)
	}
	if th.FontHeading != "Inter" || th.FontBody != "Inter" {
		t.Errorf("fonts changed unexpectedly: %s %s", th.FontHeading, th.FontBody)
	}

	th.SetGlobalTokens("Lora", "", "", "#F59E0B")
	if th.FontHeading != "Lora" || th.FontBody != "Inter" {
		t.Errorf("fonts = %s %s, want Lora/Inter", th.FontHeading, th.FontBody)
	}
	if th.AccentColor != "#F59E0B" || th.PrimaryColor != "#123456" {
		t.Errorf("colors = %s %s", th.PrimaryColor, th.AccentColor)
	}
}

func TestSetHeaderLayout(t *testing.T) {
	th := Default()
	th.SetHeaderLayout(HeaderMinimal)
	if th.HeaderLayout != HeaderMinimal {
		t.Errorf("header = %s, want minimal", th.HeaderLayout)
	}
	th.SetHeaderLayout(HeaderStyle("floating"))
	if th.HeaderLayout != HeaderStandard {
		t.Errorf("unknown header style should fall back to standard, got %s", th.HeaderLayout)
	}
}

func TestEditorInitializesMissingSection(t *testing.T) {
	th := &Theme{}
	if err := th.SetLayout(SectionProjects, VariantCards); err != nil {
		t.Fatalf("SetLayout on empty theme: %v", err)
	}
	cfg := th.Sections[SectionProjects]
	if cfg.Layout != VariantCards {
		t.Errorf("layout = %s, want cards", cfg.Layout)
	}
	if !cfg.Visible {
		t.Error("section seeded from defaults should be visible")
	}
}
