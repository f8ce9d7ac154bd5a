package database

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User 表示系统中的账号信息。
type User struct {
	gorm.Model
	Username     string      `gorm:"uniqueIndex;size:64"`
	PasswordHash string      `gorm:"size:255"`
	Portfolios   []Portfolio `gorm:"constraint:OnDelete:CASCADE"`
}

// Portfolio 表示用户创建的作品集。Content 整体存放文档 JSON，
// 包括自定义主题，读取后由 portfolio 包解码。
type Portfolio struct {
	gorm.Model
	Name       string         `gorm:"size:255"`
	TemplateID string         `gorm:"size:32;index"`
	Content    datatypes.JSON `gorm:"type:jsonb"`
	UserID     uint           `gorm:"index"`
	User       User           `gorm:"constraint:OnDelete:CASCADE"`
	PdfKey     string         `gorm:"size:512"`
	Status     string         `gorm:"size:32"`
}

// Portfolio.Status 的取值。
const (
	StatusDraft     = "draft"
	StatusExporting = "exporting"
	StatusExported  = "exported"
	StatusFailed    = "failed"
)
