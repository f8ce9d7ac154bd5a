package render

import (
	"testing"

	"folioforge/internal/portfolio"
	"folioforge/internal/theme"
)

func sampleDocument() *portfolio.Document {
	return &portfolio.Document{
		ID:         "doc-1",
		Name:       "demo",
		TemplateID: portfolio.TemplateCustom,
		Profile: portfolio.Profile{
			FullName:       "Alex Morgan",
			Title:          "Full-Stack Developer",
			Email:          "alex@example.com",
			Summary:        "builds delightful web apps",
			GitHub:         "https://github.com/alexmorgan",
			Skills:         []string{"Go", "React"},
			ProfilePicture: "https://cdn.example.com/alex.png",
		},
		Experience: []portfolio.Experience{
			{ID: "e1", Company: "Acme", Role: "Engineer", StartDate: "2021", EndDate: "2023", Description: "shipped the platform"},
			{ID: "e2", Company: "Globex", Role: "Senior Engineer", StartDate: "2023", Current: true, Description: "leads the core team"},
		},
		Education: []portfolio.Education{
			{ID: "ed1", Institution: "State University", Degree: "BSc CS", Year: "2020"},
		},
		Projects: []portfolio.Project{
			{ID: "p1", Title: "FolioForge", Description: "portfolio builder", Link: "https://example.com", Technologies: []string{"Go", "Gin", "Postgres", "Redis", "MinIO"}},
		},
		CustomTheme: theme.Default(),
	}
}

// 每个 catalog 变体都必须能落到一份渲染指令上，不能有遗漏。
func TestEveryCatalogVariantResolves(t *testing.T) {
	doc := sampleDocument()
	for _, kind := range theme.Kinds() {
		for _, v := range theme.Variants(kind) {
			cfg := theme.SectionConfig{Visible: true, BgColor: "#fff", TextColor: "#000", Layout: v}
			sec, ok := ResolveSection(kind, cfg, doc, theme.Resolve(doc.CustomTheme, kind))
			if !ok {
				t.Fatalf("%s/%s did not resolve", kind, v)
			}
			if sec.Variant != v {
				t.Errorf("%s/%s resolved as variant %s", kind, v, sec.Variant)
			}
			blocks := 0
			for _, p := range []bool{sec.Hero != nil, sec.About != nil, sec.Experience != nil, sec.Projects != nil, sec.Education != nil, sec.Contact != nil} {
				if p {
					blocks++
				}
			}
			if blocks != 1 {
				t.Errorf("%s/%s produced %d blocks, want exactly 1", kind, v, blocks)
			}
		}
	}
}

func TestHiddenSectionOmitted(t *testing.T) {
	doc := sampleDocument()
	cfg := theme.SectionConfig{Visible: false, Layout: theme.VariantStandard}
	if _, ok := ResolveSection(theme.SectionHero, cfg, doc, theme.Style{}); ok {
		t.Error("hidden section should be omitted")
	}
}

func TestInvalidVariantFallsBack(t *testing.T) {
	doc := sampleDocument()
	cfg := theme.SectionConfig{Visible: true, Layout: theme.Variant("carousel")}
	sec, ok := ResolveSection(theme.SectionProjects, cfg, doc, theme.Style{})
	if !ok {
		t.Fatal("section should still resolve")
	}
	if sec.Variant != theme.VariantGrid {
		t.Errorf("variant = %s, want grid fallback", sec.Variant)
	}
}

func TestExperienceVariants(t *testing.T) {
	doc := sampleDocument()
	resolve := func(v theme.Variant) *ExperienceBlock {
		cfg := theme.SectionConfig{Visible: true, Layout: v}
		sec, _ := ResolveSection(theme.SectionExperience, cfg, doc, theme.Style{})
		return sec.Experience
	}

	split := resolve(theme.VariantSplit)
	if !split.SeparateDateCol {
		t.Error("split should break the date into its own column")
	}
	if !split.ShowDescriptions || split.Entries[0].Description == "" {
		t.Error("split should keep descriptions")
	}
	if split.Entries[1].DateRange != "2023 – Present" {
		t.Errorf("current entry range = %q, want open-ended", split.Entries[1].DateRange)
	}

	minimal := resolve(theme.VariantMinimal)
	if minimal.ShowDescriptions {
		t.Error("minimal should suppress descriptions")
	}
	if minimal.Entries[0].Description != "" {
		t.Error("minimal entry leaked a description")
	}
	if minimal.AccentRule {
		t.Error("minimal should drop the accent rule")
	}

	if cards := resolve(theme.VariantCards); cards.Columns != 2 {
		t.Errorf("cards columns = %d, want 2", cards.Columns)
	}
	if std := resolve(theme.VariantStandard); std.Columns != 1 || !std.AccentRule {
		t.Errorf("standard = %+v", std)
	}
}

func TestProjectsVariants(t *testing.T) {
	doc := sampleDocument()
	resolve := func(v theme.Variant) *ProjectsBlock {
		cfg := theme.SectionConfig{Visible: true, Layout: v}
		sec, _ := ResolveSection(theme.SectionProjects, cfg, doc, theme.Style{})
		return sec.Projects
	}

	grid := resolve(theme.VariantGrid)
	if grid.Columns != 3 {
		t.Errorf("grid columns = %d, want 3", grid.Columns)
	}
	if len(grid.Entries[0].Tags) != 2 {
		t.Errorf("grid tags = %d, want 2", len(grid.Entries[0].Tags))
	}

	cards := resolve(theme.VariantCards)
	if cards.Columns != 2 || len(cards.Entries[0].Tags) != 4 {
		t.Errorf("cards = cols %d tags %d, want 2/4", cards.Columns, len(cards.Entries[0].Tags))
	}

	std := resolve(theme.VariantStandard)
	if len(std.Entries[0].Tags) != 5 {
		t.Errorf("standard should keep all tags, got %d", len(std.Entries[0].Tags))
	}

	minimal := resolve(theme.VariantMinimal)
	if minimal.ShowDescriptions || minimal.ShowTags || minimal.ShowThumbnails {
		t.Errorf("minimal should strip everything but title and link: %+v", minimal)
	}
	if minimal.Entries[0].Link == "" {
		t.Error("minimal should keep the link")
	}
}

func TestContactVariants(t *testing.T) {
	doc := sampleDocument()
	resolve := func(v theme.Variant) *ContactBlock {
		cfg := theme.SectionConfig{Visible: true, Layout: v}
		sec, _ := ResolveSection(theme.SectionContact, cfg, doc, theme.Style{})
		return sec.Contact
	}

	centered := resolve(theme.VariantCentered)
	if !centered.Centered || !centered.ShowMailButton || centered.ShowForm {
		t.Errorf("centered = %+v", centered)
	}
	split := resolve(theme.VariantSplit)
	if !split.ShowForm || split.ShowMailButton || split.Centered {
		t.Errorf("split = %+v", split)
	}
	// split 以外的变体都保持居中加邮件按钮。
	minimal := resolve(theme.VariantMinimal)
	if !minimal.Centered || !minimal.ShowMailButton || minimal.ShowForm {
		t.Errorf("minimal = %+v", minimal)
	}
}

func TestHeroVariants(t *testing.T) {
	doc := sampleDocument()
	resolve := func(v theme.Variant) *HeroBlock {
		cfg := theme.SectionConfig{Visible: true, Layout: v}
		sec, _ := ResolveSection(theme.SectionHero, cfg, doc, theme.Style{})
		return sec.Hero
	}

	split := resolve(theme.VariantSplit)
	if !split.ShowPortrait || split.PortraitShape != "card" || split.Centered {
		t.Errorf("split = %+v", split)
	}
	minimal := resolve(theme.VariantMinimal)
	if minimal.ShowPortrait || !minimal.LargeTitle || !minimal.Centered {
		t.Errorf("minimal = %+v", minimal)
	}
	centered := resolve(theme.VariantCentered)
	if !centered.Centered || centered.PortraitShape != "circle" {
		t.Errorf("centered = %+v", centered)
	}
	// 只有 split 靠左，standard 同样居中。
	standard := resolve(theme.VariantStandard)
	if !standard.Centered || !standard.ShowPortrait || standard.PortraitShape != "circle" {
		t.Errorf("standard = %+v", standard)
	}
}

func TestHeroWithoutPicture(t *testing.T) {
	doc := sampleDocument()
	doc.Profile.ProfilePicture = ""
	cfg := theme.SectionConfig{Visible: true, Layout: theme.VariantSplit}
	sec, _ := ResolveSection(theme.SectionHero, cfg, doc, theme.Style{})
	if sec.Hero.ShowPortrait {
		t.Error("portrait without a picture should be hidden")
	}
}

func TestEmptyEducationStillRenders(t *testing.T) {
	doc := sampleDocument()
	doc.Education = nil
	cfg := theme.SectionConfig{Visible: true, Layout: theme.VariantCards}
	sec, ok := ResolveSection(theme.SectionEducation, cfg, doc, theme.Style{})
	if !ok {
		t.Fatal("empty visible section must still render its container")
	}
	if len(sec.Education.Entries) != 0 {
		t.Errorf("entries = %d, want 0", len(sec.Education.Entries))
	}
	if sec.Education.Columns != 2 {
		t.Errorf("cards columns = %d, want 2", sec.Education.Columns)
	}
}
