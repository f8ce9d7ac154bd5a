package render

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"folioforge/internal/portfolio"
	"folioforge/internal/theme"
)

func TestRenderOrder(t *testing.T) {
	doc := sampleDocument()
	out, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := []theme.SectionKind{
		theme.SectionHero,
		theme.SectionExperience,
		theme.SectionProjects,
		theme.SectionEducation,
		theme.SectionContact,
	}
	if len(out.Sections) != len(want) {
		t.Fatalf("sections = %d, want %d", len(out.Sections), len(want))
	}
	for i, kind := range want {
		if out.Sections[i].Kind != kind {
			t.Errorf("section %d = %s, want %s", i, out.Sections[i].Kind, kind)
		}
	}
}

func TestNavTracksVisibility(t *testing.T) {
	doc := sampleDocument()
	cfg := doc.CustomTheme.Sections[theme.SectionProjects]
	cfg.Visible = false
	doc.CustomTheme.Sections[theme.SectionProjects] = cfg

	out, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(out.Nav) != len(out.Sections) {
		t.Fatalf("nav has %d items for %d sections", len(out.Nav), len(out.Sections))
	}
	for i, item := range out.Nav {
		if item.Kind != out.Sections[i].Kind {
			t.Errorf("nav[%d] = %s, section = %s", i, item.Kind, out.Sections[i].Kind)
		}
		if item.Kind == theme.SectionProjects {
			t.Error("hidden section leaked into navigation")
		}
		if item.Anchor != "#"+out.Sections[i].Anchor {
			t.Errorf("nav anchor %s does not point at section %s", item.Anchor, out.Sections[i].Anchor)
		}
	}
}

func TestRenderMissingThemeForCustom(t *testing.T) {
	doc := sampleDocument()
	doc.CustomTheme = nil
	_, err := Render(doc)
	if !errors.Is(err, ErrThemeMissing) {
		t.Errorf("err = %v, want ErrThemeMissing", err)
	}
}

func TestRenderNonCustomWithoutTheme(t *testing.T) {
	doc := sampleDocument()
	doc.TemplateID = portfolio.TemplateModern
	doc.CustomTheme = nil
	out, err := Render(doc)
	if err != nil {
		t.Fatalf("non-custom document should render with defaults: %v", err)
	}
	if len(out.Sections) == 0 {
		t.Error("no sections rendered")
	}
}

func TestRenderIdempotent(t *testing.T) {
	doc := sampleDocument()
	a, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	b, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two renders of the same document differ")
	}
}

func TestRenderCarriesGlobalTokens(t *testing.T) {
	doc := sampleDocument()
	doc.CustomTheme.PrimaryColor = "#7C3AED"
	doc.CustomTheme.SetHeaderLayout(theme.HeaderCentered)

	out, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out.PrimaryColor != "#7C3AED" {
		t.Errorf("primary = %s", out.PrimaryColor)
	}
	if out.HeaderLayout != theme.HeaderCentered {
		t.Errorf("header = %s", out.HeaderLayout)
	}
	for _, sec := range out.Sections {
		if sec.Style.PrimaryColor != "#7C3AED" {
			t.Errorf("section %s primary = %s, want cascade of edited token", sec.Kind, sec.Style.PrimaryColor)
		}
	}
}

func TestHTMLOutput(t *testing.T) {
	doc := sampleDocument()
	out, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	html, err := HTML(out)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	for _, want := range []string{`id="hero"`, `id="contact"`, "Alex Morgan", `href="#experience"`, "FolioForge"} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestHTMLRejectsHostileColor(t *testing.T) {
	doc := sampleDocument()
	cfg := doc.CustomTheme.Sections[theme.SectionHero]
	cfg.BgColor = `red;} body{display:none`
	doc.CustomTheme.Sections[theme.SectionHero] = cfg

	out, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	html, err := HTML(out)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if strings.Contains(html, "display:none") {
		t.Error("hostile color value reached the page")
	}
}
