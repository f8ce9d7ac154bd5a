package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"folioforge/internal/portfolio"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypePDFExport   = "pdf:export"
	TypeTextEnhance = "text:enhance"
)

// PDFExportPayload 描述导出作品集 PDF 所需的最小信息。
type PDFExportPayload struct {
	PortfolioID   uint   `json:"portfolio_id"`
	CorrelationID string `json:"correlation_id"`
}

// NewPDFExportTask 构造一个新的 PDF 导出任务。
func NewPDFExportTask(id uint, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(PDFExportPayload{
		PortfolioID:   id,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePDFExport, payload), nil
}

// TextEnhancePayload 描述一次异步文本增强。EntryID 只在
// Field 指向条目级字段（经历描述）时有值。
type TextEnhancePayload struct {
	PortfolioID   uint                   `json:"portfolio_id"`
	Field         portfolio.EnhanceField `json:"field"`
	EntryID       string                 `json:"entry_id,omitempty"`
	CorrelationID string                 `json:"correlation_id"`
}

// NewTextEnhanceTask 构造一个新的文本增强任务。
func NewTextEnhanceTask(id uint, field portfolio.EnhanceField, entryID, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(TextEnhancePayload{
		PortfolioID:   id,
		Field:         field,
		EntryID:       entryID,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeTextEnhance, payload), nil
}
