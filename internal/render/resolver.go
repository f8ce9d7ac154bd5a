package render

import (
	"folioforge/internal/portfolio"
	"folioforge/internal/theme"
)

// ResolveSection 把一个区块的主题配置翻译成渲染指令。
// 不可见返回 ok=false；非法变体收敛到类别回退值，从不报错。
func ResolveSection(kind theme.SectionKind, cfg theme.SectionConfig, doc *portfolio.Document, style theme.Style) (Section, bool) {
	if !cfg.Visible {
		return Section{}, false
	}
	variant := theme.ClampVariant(kind, cfg.Layout)
	sec := Section{
		Kind:    kind,
		Variant: variant,
		Anchor:  string(kind),
		Style:   style,
	}
	switch kind {
	case theme.SectionHero:
		sec.Hero = resolveHero(variant, doc)
	case theme.SectionAbout:
		sec.About = resolveAbout(variant, doc)
	case theme.SectionExperience:
		sec.Experience = resolveExperience(variant, doc)
	case theme.SectionProjects:
		sec.Projects = resolveProjects(variant, doc)
	case theme.SectionEducation:
		sec.Education = resolveEducation(variant, doc)
	case theme.SectionContact:
		sec.Contact = resolveContact(variant, doc)
	default:
		return Section{}, false
	}
	return sec, true
}

func socialLinks(p portfolio.Profile) []SocialLink {
	links := []SocialLink{}
	if p.Email != "" {
		links = append(links, SocialLink{Label: "Email", URL: "mailto:" + p.Email})
	}
	if p.GitHub != "" {
		links = append(links, SocialLink{Label: "GitHub", URL: p.GitHub})
	}
	if p.LinkedIn != "" {
		links = append(links, SocialLink{Label: "LinkedIn", URL: p.LinkedIn})
	}
	return links
}

func resolveHero(v theme.Variant, doc *portfolio.Document) *HeroBlock {
	b := &HeroBlock{
		Name:        doc.Profile.FullName,
		Tagline:     doc.Profile.Title,
		Summary:     doc.Profile.Summary,
		PortraitURL: doc.Profile.ProfilePicture,
		Links:       socialLinks(doc.Profile),
	}
	// split 靠左排版，其余变体一律居中。
	switch v {
	case theme.VariantSplit:
		b.ShowPortrait = true
		b.PortraitShape = "card"
	case theme.VariantMinimal:
		b.Centered = true
		b.LargeTitle = true
	default: // standard, centered
		b.Centered = true
		b.ShowPortrait = true
		b.PortraitShape = "circle"
	}
	if b.PortraitURL == "" {
		b.ShowPortrait = false
	}
	return b
}

func resolveAbout(v theme.Variant, doc *portfolio.Document) *AboutBlock {
	return &AboutBlock{
		Summary:  doc.Profile.Summary,
		Skills:   doc.Profile.Skills,
		Centered: v == theme.VariantCentered,
	}
}

func dateRange(e portfolio.Experience) string {
	end := e.EndDate
	if e.Current {
		end = "Present"
	}
	if e.StartDate == "" && end == "" {
		return ""
	}
	return e.StartDate + " – " + end
}

func resolveExperience(v theme.Variant, doc *portfolio.Document) *ExperienceBlock {
	b := &ExperienceBlock{
		Columns:          1,
		ShowDescriptions: true,
		AccentRule:       true,
		Entries:          make([]ExperienceEntry, 0, len(doc.Experience)),
	}
	switch v {
	case theme.VariantSplit:
		b.SeparateDateCol = true
	case theme.VariantCards:
		b.Columns = 2
	case theme.VariantMinimal:
		b.ShowDescriptions = false
		b.AccentRule = false
	}
	for _, e := range doc.Experience {
		entry := ExperienceEntry{
			Role:      e.Role,
			Company:   e.Company,
			DateRange: dateRange(e),
		}
		if b.ShowDescriptions {
			entry.Description = e.Description
		}
		b.Entries = append(b.Entries, entry)
	}
	return b
}

func resolveProjects(v theme.Variant, doc *portfolio.Document) *ProjectsBlock {
	b := &ProjectsBlock{
		Columns:          1,
		ShowThumbnails:   true,
		ShowDescriptions: true,
		ShowTags:         true,
		Entries:          make([]ProjectEntry, 0, len(doc.Projects)),
	}
	maxTags := 0 // 0 表示不截断
	switch v {
	case theme.VariantGrid:
		b.Columns = 3
		maxTags = 2
	case theme.VariantCards:
		b.Columns = 2
		maxTags = 4
	case theme.VariantMinimal:
		b.ShowThumbnails = false
		b.ShowDescriptions = false
		b.ShowTags = false
	}
	for _, p := range doc.Projects {
		entry := ProjectEntry{
			Title: p.Title,
			Link:  p.Link,
			Tags:  []string{},
		}
		if b.ShowDescriptions {
			entry.Description = p.Description
		}
		if b.ShowTags {
			tags := p.Technologies
			if maxTags > 0 && len(tags) > maxTags {
				tags = tags[:maxTags]
			}
			entry.Tags = append(entry.Tags, tags...)
		}
		b.Entries = append(b.Entries, entry)
	}
	return b
}

func resolveEducation(v theme.Variant, doc *portfolio.Document) *EducationBlock {
	b := &EducationBlock{
		Columns: 1,
		Entries: make([]EducationEntry, 0, len(doc.Education)),
	}
	if v == theme.VariantCards {
		b.Columns = 2
	}
	for _, e := range doc.Education {
		b.Entries = append(b.Entries, EducationEntry{
			Institution: e.Institution,
			Degree:      e.Degree,
			Year:        e.Year,
		})
	}
	return b
}

func resolveContact(v theme.Variant, doc *portfolio.Document) *ContactBlock {
	b := &ContactBlock{
		Email: doc.Profile.Email,
		Links: socialLinks(doc.Profile),
	}
	// 只有 split 用表单；其余变体都是居中加邮件按钮。
	if v == theme.VariantSplit {
		b.ShowForm = true
	} else {
		b.Centered = true
		b.ShowMailButton = true
	}
	return b
}
