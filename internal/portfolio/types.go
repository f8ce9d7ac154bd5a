package portfolio

import "folioforge/internal/theme"

// TemplateID 标识作品集使用的模板。custom 以外的模板是固定样式，
// 只有 custom 会读取 CustomTheme。
type TemplateID string

const (
	TemplateModern   TemplateID = "modern"
	TemplateClassic  TemplateID = "classic"
	TemplateCreative TemplateID = "creative"
	TemplateATS      TemplateID = "ats"
	TemplateMinimal  TemplateID = "minimal"
	TemplateTech     TemplateID = "tech"
	TemplateBold     TemplateID = "bold"
	TemplateClean    TemplateID = "clean"
	TemplateCustom   TemplateID = "custom"
)

// KnownTemplate 判断模板标识是否合法。
func KnownTemplate(id TemplateID) bool {
	switch id {
	case TemplateModern, TemplateClassic, TemplateCreative, TemplateATS,
		TemplateMinimal, TemplateTech, TemplateBold, TemplateClean, TemplateCustom:
		return true
	}
	return false
}

// Profile 是文档的个人信息块。
type Profile struct {
	FullName       string   `json:"fullName"`
	Title          string   `json:"title"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone,omitempty"`
	Location       string   `json:"location,omitempty"`
	Summary        string   `json:"summary"`
	LinkedIn       string   `json:"linkedin,omitempty"`
	GitHub         string   `json:"github,omitempty"`
	Skills         []string `json:"skills"`
	ProfilePicture string   `json:"profilePicture,omitempty"`
}

// Experience 是一段工作经历。Current 为 true 时 EndDate 被忽略。
type Experience struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Role        string `json:"role"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// Education 是一条教育经历。
type Education struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year"`
}

// Project 是一个作品条目。
type Project struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Link         string   `json:"link,omitempty"`
	Technologies []string `json:"technologies"`
}

// Certification 是一条证书记录。
type Certification struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
	Link   string `json:"link,omitempty"`
}

// Language 是一条语言能力记录。
type Language struct {
	ID          string `json:"id"`
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

// Document 是一份完整的作品集文档，整体以 JSON 存进数据库的
// Content 列。CustomTheme 仅在 TemplateID 为 custom 时参与渲染。
type Document struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	LastModified   int64           `json:"lastModified"`
	TemplateID     TemplateID      `json:"templateId"`
	Profile        Profile         `json:"profile"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Projects       []Project       `json:"projects"`
	Certifications []Certification `json:"certifications"`
	Languages      []Language      `json:"languages"`
	CustomTheme    *theme.Theme    `json:"customTheme,omitempty"`
}
