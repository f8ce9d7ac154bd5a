package theme

// SectionKind 标识页面中的一个区块类别。
type SectionKind string

const (
	SectionHero       SectionKind = "hero"
	SectionAbout      SectionKind = "about"
	SectionExperience SectionKind = "experience"
	SectionProjects   SectionKind = "projects"
	SectionEducation  SectionKind = "education"
	SectionContact    SectionKind = "contact"
)

// Variant 是区块的布局变体名，合法取值由 catalog 决定。
type Variant string

const (
	VariantStandard Variant = "standard"
	VariantCentered Variant = "centered"
	VariantSplit    Variant = "split"
	VariantMinimal  Variant = "minimal"
	VariantGrid     Variant = "grid"
	VariantCards    Variant = "cards"
)

// HeaderStyle 控制页面顶部导航栏的呈现方式。
type HeaderStyle string

const (
	HeaderStandard HeaderStyle = "standard"
	HeaderCentered HeaderStyle = "centered"
	HeaderMinimal  HeaderStyle = "minimal"
)

// SectionConfig 是单个区块的主题配置。
type SectionConfig struct {
	Visible   bool    `json:"visible"`
	BgColor   string  `json:"bgColor"`
	TextColor string  `json:"textColor"`
	Layout    Variant `json:"layout"`
}

// Theme 保存一套完整的自定义主题：全局排版标记加上逐区块配置。
// Sections 中缺失的区块在解析时按默认主题补齐。
type Theme struct {
	FontHeading  string                        `json:"fontHeading"`
	FontBody     string                        `json:"fontBody"`
	PrimaryColor string                        `json:"primaryColor"`
	AccentColor  string                        `json:"accentColor"`
	HeaderLayout HeaderStyle                   `json:"headerLayout"`
	Sections     map[SectionKind]SectionConfig `json:"sections"`
}

// Default 返回默认主题。所有新建的 custom 文档从这里出发。
func Default() *Theme {
	return &Theme{
		FontHeading:  "Inter",
		FontBody:     "Inter",
		PrimaryColor: "#4F46E5",
		AccentColor:  "#10B981",
		HeaderLayout: HeaderStandard,
		Sections: map[SectionKind]SectionConfig{
			SectionHero:       {Visible: true, BgColor: "#ffffff", TextColor: "#111827", Layout: VariantSplit},
			SectionAbout:      {Visible: true, BgColor: "#f9fafb", TextColor: "#374151", Layout: VariantCentered},
			SectionExperience: {Visible: true, BgColor: "#ffffff", TextColor: "#111827", Layout: VariantStandard},
			SectionProjects:   {Visible: true, BgColor: "#f9fafb", TextColor: "#111827", Layout: VariantGrid},
			SectionEducation:  {Visible: true, BgColor: "#ffffff", TextColor: "#111827", Layout: VariantStandard},
			SectionContact:    {Visible: true, BgColor: "#111827", TextColor: "#ffffff", Layout: VariantCentered},
		},
	}
}

// Clone 返回主题的深拷贝，编辑操作前先复制可避免共享 map。
func (t *Theme) Clone() *Theme {
	if t == nil {
		return nil
	}
	c := *t
	c.Sections = make(map[SectionKind]SectionConfig, len(t.Sections))
	for k, v := range t.Sections {
		c.Sections[k] = v
	}
	return &c
}

// Normalize 把主题修成可安全渲染的状态：补齐缺失区块、
// 回退非法的布局变体与导航样式、填充空的全局标记。
func (t *Theme) Normalize() {
	def := Default()
	if t.FontHeading == "" {
		t.FontHeading = def.FontHeading
	}
	if t.FontBody == "" {
		t.FontBody = def.FontBody
	}
	if t.PrimaryColor == "" {
		t.PrimaryColor = def.PrimaryColor
	}
	if t.AccentColor == "" {
		t.AccentColor = def.AccentColor
	}
	switch t.HeaderLayout {
	case HeaderStandard, HeaderCentered, HeaderMinimal:
	default:
		t.HeaderLayout = HeaderStandard
	}
	if t.Sections == nil {
		t.Sections = make(map[SectionKind]SectionConfig, len(def.Sections))
	}
	for _, kind := range Kinds() {
		cfg, ok := t.Sections[kind]
		if !ok {
			t.Sections[kind] = def.Sections[kind]
			continue
		}
		if !IsValidVariant(kind, cfg.Layout) {
			cfg.Layout = DefaultVariant(kind)
		}
		if cfg.BgColor == "" {
			cfg.BgColor = def.Sections[kind].BgColor
		}
		if cfg.TextColor == "" {
			cfg.TextColor = def.Sections[kind].TextColor
		}
		t.Sections[kind] = cfg
	}
}
