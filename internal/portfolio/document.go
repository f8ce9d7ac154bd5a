package portfolio

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"folioforge/internal/theme"
)

// EnhanceField 标识增强任务写回的目标字段。
type EnhanceField string

const (
	FieldSummary               EnhanceField = "summary"
	FieldExperienceDescription EnhanceField = "experience_description"
)

// New 创建一份空白文档：每个集合预置一条空记录，
// custom 模板自动带上默认主题。
func New(name string, tmpl TemplateID) *Document {
	d := &Document{
		ID:         uuid.NewString(),
		Name:       name,
		TemplateID: tmpl,
		Profile: Profile{
			Skills: []string{},
		},
		Experience:     []Experience{{ID: newEntryID()}},
		Education:      []Education{{ID: newEntryID()}},
		Projects:       []Project{{ID: newEntryID(), Technologies: []string{}}},
		Certifications: []Certification{{ID: newEntryID()}},
		Languages:      []Language{{ID: newEntryID()}},
	}
	if tmpl == TemplateCustom {
		d.CustomTheme = theme.Default()
	}
	d.Touch()
	return d
}

func newEntryID() string {
	return uuid.NewString()
}

// Touch 更新最后修改时间（毫秒时间戳）。
func (d *Document) Touch() {
	d.LastModified = time.Now().UnixMilli()
}

// Normalize 把文档修成可持久化、可渲染的状态。
// 未知模板视为错误；custom 模板缺主题时补默认主题；
// 缺失的条目 ID 就地补齐；已有主题做一次规整。
func (d *Document) Normalize() error {
	if d.TemplateID == "" {
		d.TemplateID = TemplateModern
	}
	if !KnownTemplate(d.TemplateID) {
		return fmt.Errorf("unknown template %q", d.TemplateID)
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.TemplateID == TemplateCustom && d.CustomTheme == nil {
		d.CustomTheme = theme.Default()
	}
	if d.CustomTheme != nil {
		d.CustomTheme.Normalize()
	}
	for i := range d.Experience {
		if d.Experience[i].ID == "" {
			d.Experience[i].ID = newEntryID()
		}
	}
	for i := range d.Education {
		if d.Education[i].ID == "" {
			d.Education[i].ID = newEntryID()
		}
	}
	for i := range d.Projects {
		if d.Projects[i].ID == "" {
			d.Projects[i].ID = newEntryID()
		}
	}
	for i := range d.Certifications {
		if d.Certifications[i].ID == "" {
			d.Certifications[i].ID = newEntryID()
		}
	}
	for i := range d.Languages {
		if d.Languages[i].ID == "" {
			d.Languages[i].ID = newEntryID()
		}
	}
	return nil
}

// AddExperience 新增一段经历并放到列表最前面，最新经历先展示。
func (d *Document) AddExperience() *Experience {
	e := Experience{ID: newEntryID()}
	d.Experience = append([]Experience{e}, d.Experience...)
	return &d.Experience[0]
}

// AddEducation 在列表末尾新增一条教育经历。
func (d *Document) AddEducation() *Education {
	d.Education = append(d.Education, Education{ID: newEntryID()})
	return &d.Education[len(d.Education)-1]
}

// AddProject 在列表末尾新增一个作品条目。
func (d *Document) AddProject() *Project {
	d.Projects = append(d.Projects, Project{ID: newEntryID(), Technologies: []string{}})
	return &d.Projects[len(d.Projects)-1]
}

// AddCertification 在列表末尾新增一条证书。
func (d *Document) AddCertification() *Certification {
	d.Certifications = append(d.Certifications, Certification{ID: newEntryID()})
	return &d.Certifications[len(d.Certifications)-1]
}

// AddLanguage 在列表末尾新增一条语言。
func (d *Document) AddLanguage() *Language {
	d.Languages = append(d.Languages, Language{ID: newEntryID()})
	return &d.Languages[len(d.Languages)-1]
}

// RemoveExperience 按下标删除一段经历。
func (d *Document) RemoveExperience(i int) error {
	if i < 0 || i >= len(d.Experience) {
		return fmt.Errorf("experience index %d out of range", i)
	}
	d.Experience = append(d.Experience[:i], d.Experience[i+1:]...)
	return nil
}

// RemoveEducation 按下标删除一条教育经历。
func (d *Document) RemoveEducation(i int) error {
	if i < 0 || i >= len(d.Education) {
		return fmt.Errorf("education index %d out of range", i)
	}
	d.Education = append(d.Education[:i], d.Education[i+1:]...)
	return nil
}

// RemoveProject 按下标删除一个作品条目。
func (d *Document) RemoveProject(i int) error {
	if i < 0 || i >= len(d.Projects) {
		return fmt.Errorf("project index %d out of range", i)
	}
	d.Projects = append(d.Projects[:i], d.Projects[i+1:]...)
	return nil
}

// RemoveCertification 按下标删除一条证书。
func (d *Document) RemoveCertification(i int) error {
	if i < 0 || i >= len(d.Certifications) {
		return fmt.Errorf("certification index %d out of range", i)
	}
	d.Certifications = append(d.Certifications[:i], d.Certifications[i+1:]...)
	return nil
}

// RemoveLanguage 按下标删除一条语言。
func (d *Document) RemoveLanguage(i int) error {
	if i < 0 || i >= len(d.Languages) {
		return fmt.Errorf("language index %d out of range", i)
	}
	d.Languages = append(d.Languages[:i], d.Languages[i+1:]...)
	return nil
}

// ApplyEnhancement 把异步增强的结果按身份写回文档。
// 目标条目在任务执行期间被删除时返回 false，文档保持不变。
func (d *Document) ApplyEnhancement(field EnhanceField, entryID, text string) bool {
	switch field {
	case FieldSummary:
		d.Profile.Summary = text
		return true
	case FieldExperienceDescription:
		for i := range d.Experience {
			if d.Experience[i].ID == entryID {
				d.Experience[i].Description = text
				return true
			}
		}
		return false
	}
	return false
}
