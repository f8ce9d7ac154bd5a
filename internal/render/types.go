package render

import "folioforge/internal/theme"

// Document 是渲染一次文档得到的完整输出：导航条目与各区块的
// 结构化渲染指令。输出只依赖输入文档，不携带任何内部状态。
type Document struct {
	Name         string            `json:"name"`
	HeaderLayout theme.HeaderStyle `json:"headerLayout"`
	FontHeading  string            `json:"fontHeading"`
	FontBody     string            `json:"fontBody"`
	PrimaryColor string            `json:"primaryColor"`
	AccentColor  string            `json:"accentColor"`
	Nav          []NavItem         `json:"nav"`
	Sections     []Section         `json:"sections"`
}

// NavItem 是导航栏里的一项，只有实际渲染出的区块才会出现。
type NavItem struct {
	Kind   theme.SectionKind `json:"kind"`
	Label  string            `json:"label"`
	Anchor string            `json:"anchor"`
}

// Section 是单个区块的渲染指令。Kind 决定其中哪个块指针非空。
type Section struct {
	Kind       theme.SectionKind `json:"kind"`
	Variant    theme.Variant     `json:"variant"`
	Anchor     string            `json:"anchor"`
	Style      theme.Style       `json:"style"`
	Hero       *HeroBlock        `json:"hero,omitempty"`
	About      *AboutBlock       `json:"about,omitempty"`
	Experience *ExperienceBlock  `json:"experience,omitempty"`
	Projects   *ProjectsBlock    `json:"projects,omitempty"`
	Education  *EducationBlock   `json:"education,omitempty"`
	Contact    *ContactBlock     `json:"contact,omitempty"`
}

// SocialLink 是对外链接（邮箱、GitHub、LinkedIn）。
type SocialLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// HeroBlock 是首屏区块的渲染指令。
type HeroBlock struct {
	Name          string       `json:"name"`
	Tagline       string       `json:"tagline"`
	Summary       string       `json:"summary"`
	Centered      bool         `json:"centered"`
	LargeTitle    bool         `json:"largeTitle"`
	ShowPortrait  bool         `json:"showPortrait"`
	PortraitShape string       `json:"portraitShape,omitempty"`
	PortraitURL   string       `json:"portraitUrl,omitempty"`
	Links         []SocialLink `json:"links"`
}

// AboutBlock 是简介区块的渲染指令。
type AboutBlock struct {
	Summary  string   `json:"summary"`
	Skills   []string `json:"skills"`
	Centered bool     `json:"centered"`
}

// ExperienceEntry 是渲染就绪的一段经历，日期已合成显示串。
type ExperienceEntry struct {
	Role        string `json:"role"`
	Company     string `json:"company"`
	DateRange   string `json:"dateRange"`
	Description string `json:"description,omitempty"`
}

// ExperienceBlock 是经历区块的渲染指令。
type ExperienceBlock struct {
	Columns          int               `json:"columns"`
	SeparateDateCol  bool              `json:"separateDateCol"`
	ShowDescriptions bool              `json:"showDescriptions"`
	AccentRule       bool              `json:"accentRule"`
	Entries          []ExperienceEntry `json:"entries"`
}

// ProjectEntry 是渲染就绪的一个作品条目，标签已按变体截断。
type ProjectEntry struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Link        string   `json:"link,omitempty"`
	Tags        []string `json:"tags"`
}

// ProjectsBlock 是作品区块的渲染指令。
type ProjectsBlock struct {
	Columns          int            `json:"columns"`
	ShowThumbnails   bool           `json:"showThumbnails"`
	ShowDescriptions bool           `json:"showDescriptions"`
	ShowTags         bool           `json:"showTags"`
	Entries          []ProjectEntry `json:"entries"`
}

// EducationEntry 是渲染就绪的一条教育经历。
type EducationEntry struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year"`
}

// EducationBlock 是教育区块的渲染指令。
type EducationBlock struct {
	Columns int              `json:"columns"`
	Entries []EducationEntry `json:"entries"`
}

// ContactBlock 是联系区块的渲染指令。
type ContactBlock struct {
	Email          string       `json:"email"`
	Centered       bool         `json:"centered"`
	ShowForm       bool         `json:"showForm"`
	ShowMailButton bool         `json:"showMailButton"`
	Links          []SocialLink `json:"links"`
}
