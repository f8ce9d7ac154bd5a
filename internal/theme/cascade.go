package theme

// Style 是级联解析后某个区块的最终样式，渲染层只读这里的值。
type Style struct {
	FontHeading  string `json:"fontHeading"`
	FontBody     string `json:"fontBody"`
	PrimaryColor string `json:"primaryColor"`
	AccentColor  string `json:"accentColor"`
	Background   string `json:"background"`
	Text         string `json:"text"`
}

// Resolve 把全局标记与区块配置叠加成最终样式。
// 对任意输入都能给出结果：nil 主题按默认主题处理，
// 缺失的区块配置取默认主题中同名区块的值。
func Resolve(t *Theme, kind SectionKind) Style {
	def := Default()
	if t == nil {
		t = def
	}
	s := Style{
		FontHeading:  t.FontHeading,
		FontBody:     t.FontBody,
		PrimaryColor: t.PrimaryColor,
		AccentColor:  t.AccentColor,
	}
	if s.FontHeading == "" {
		s.FontHeading = def.FontHeading
	}
	if s.FontBody == "" {
		s.FontBody = def.FontBody
	}
	if s.PrimaryColor == "" {
		s.PrimaryColor = def.PrimaryColor
	}
	if s.AccentColor == "" {
		s.AccentColor = def.AccentColor
	}

	cfg, ok := t.Sections[kind]
	if !ok {
		cfg = def.Sections[kind]
	}
	s.Background = cfg.BgColor
	s.Text = cfg.TextColor
	if s.Background == "" {
		s.Background = "#ffffff"
	}
	if s.Text == "" {
		s.Text = "#111827"
	}
	return s
}
