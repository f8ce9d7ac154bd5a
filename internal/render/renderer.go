package render

import (
	"errors"

	"folioforge/internal/portfolio"
	"folioforge/internal/theme"
)

// ErrThemeMissing 表示 custom 模板的文档没有携带主题配置。
var ErrThemeMissing = errors.New("custom template requires a theme configuration")

// DefaultOrder 是区块的固定渲染顺序。about 在 catalog 中合法，
// 但不在默认顺序里。
var DefaultOrder = []theme.SectionKind{
	theme.SectionHero,
	theme.SectionExperience,
	theme.SectionProjects,
	theme.SectionEducation,
	theme.SectionContact,
}

var navLabels = map[theme.SectionKind]string{
	theme.SectionHero:       "Home",
	theme.SectionAbout:      "About",
	theme.SectionExperience: "Experience",
	theme.SectionProjects:   "Work",
	theme.SectionEducation:  "Education",
	theme.SectionContact:    "Contact",
}

// Render 按固定顺序解析全部区块，产出渲染指令与导航。
// 导航在同一趟遍历里派生：区块被省略，导航项也不存在。
// 输出只依赖输入，重复调用结果一致。
func Render(doc *portfolio.Document) (*Document, error) {
	th := doc.CustomTheme
	if th == nil {
		if doc.TemplateID == portfolio.TemplateCustom {
			return nil, ErrThemeMissing
		}
		th = theme.Default()
	}

	out := &Document{
		Name:         doc.Name,
		HeaderLayout: th.HeaderLayout,
		FontHeading:  th.FontHeading,
		FontBody:     th.FontBody,
		PrimaryColor: th.PrimaryColor,
		AccentColor:  th.AccentColor,
		Nav:          []NavItem{},
		Sections:     []Section{},
	}
	switch out.HeaderLayout {
	case theme.HeaderStandard, theme.HeaderCentered, theme.HeaderMinimal:
	default:
		out.HeaderLayout = theme.HeaderStandard
	}

	def := theme.Default()
	for _, kind := range DefaultOrder {
		cfg, ok := th.Sections[kind]
		if !ok {
			cfg = def.Sections[kind]
		}
		sec, rendered := ResolveSection(kind, cfg, doc, theme.Resolve(th, kind))
		if !rendered {
			continue
		}
		out.Sections = append(out.Sections, sec)
		out.Nav = append(out.Nav, NavItem{
			Kind:   kind,
			Label:  navLabels[kind],
			Anchor: "#" + sec.Anchor,
		})
	}
	return out, nil
}
