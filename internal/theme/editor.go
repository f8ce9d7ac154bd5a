package theme

import (
	"errors"
	"fmt"
)

// ErrUnknownSection 表示操作指向了 catalog 中不存在的区块类别。
var ErrUnknownSection = errors.New("unknown section kind")

func (t *Theme) sectionFor(kind SectionKind) (SectionConfig, error) {
	if !KnownKind(kind) {
		return SectionConfig{}, fmt.Errorf("%w: %q", ErrUnknownSection, kind)
	}
	if t.Sections == nil {
		t.Sections = make(map[SectionKind]SectionConfig)
	}
	cfg, ok := t.Sections[kind]
	if !ok {
		cfg = Default().Sections[kind]
	}
	return cfg, nil
}

// SetVisibility 切换区块的可见性。
func (t *Theme) SetVisibility(kind SectionKind, visible bool) error {
	cfg, err := t.sectionFor(kind)
	if err != nil {
		return err
	}
	cfg.Visible = visible
	t.Sections[kind] = cfg
	return nil
}

// SetLayout 修改区块的布局变体。对该类区块非法的变体
// 不报错，静默收敛到类别的回退变体。
func (t *Theme) SetLayout(kind SectionKind, v Variant) error {
	cfg, err := t.sectionFor(kind)
	if err != nil {
		return err
	}
	cfg.Layout = ClampVariant(kind, v)
	t.Sections[kind] = cfg
	return nil
}

// SetSectionColors 修改区块的背景色与文字色，nil 表示保持原值。
func (t *Theme) SetSectionColors(kind SectionKind, bg, text *string) error {
	cfg, err := t.sectionFor(kind)
	if err != nil {
		return err
	}
	if bg != nil {
		cfg.BgColor = *bg
	}
	if text != nil {
		cfg.TextColor = *text
	}
	t.Sections[kind] = cfg
	return nil
}

// SetFonts 修改全局字体标记，空串表示保持原值。
func (t *Theme) SetFonts(heading, body string) {
	if heading != "" {
		t.FontHeading = heading
	}
	if body != "" {
		t.FontBody = body
	}
}

// SetGlobalTokens 逐项修改全局排版标记，空串表示保持原值。
// 与 ApplyPalette 不同，颜色可以单独改一个。
func (t *Theme) SetGlobalTokens(heading, body, primary, accent string) {
	t.SetFonts(heading, body)
	if primary != "" {
		t.PrimaryColor = primary
	}
	if accent != "" {
		t.AccentColor = accent
	}
}

// SetHeaderLayout 修改导航样式，未知取值收敛到 standard。
func (t *Theme) SetHeaderLayout(style HeaderStyle) {
	switch style {
	case HeaderStandard, HeaderCentered, HeaderMinimal:
		t.HeaderLayout = style
	default:
		t.HeaderLayout = HeaderStandard
	}
}

// ApplyPalette 一次性替换主色与强调色。两个值必须同时给出，
// 任一为空则整个操作不生效。
func (t *Theme) ApplyPalette(primary, accent string) error {
	if primary == "" || accent == "" {
		return errors.New("palette requires both primary and accent colors")
	}
	t.PrimaryColor = primary
	t.AccentColor = accent
	return nil
}
