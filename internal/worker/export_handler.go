package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"folioforge/internal/database"
	"folioforge/internal/errcode"
	"folioforge/internal/pdf"
	"folioforge/internal/portfolio"
	"folioforge/internal/render"
	"folioforge/internal/storage"
	"folioforge/internal/tasks"
)

// PDFExportHandler 消费 pdf:export 任务：渲染作品集为 HTML，
// 交给无头浏览器生成 PDF，上传对象存储并回写 pdf_key。
type PDFExportHandler struct {
	DB          *gorm.DB
	Storage     *storage.Client
	RedisClient *redis.Client
	Logger      *slog.Logger
}

func NewPDFExportHandler(db *gorm.DB, storageClient *storage.Client, redisClient *redis.Client, logger *slog.Logger) *PDFExportHandler {
	return &PDFExportHandler{
		DB:          db,
		Storage:     storageClient,
		RedisClient: redisClient,
		Logger:      logger,
	}
}

func (h *PDFExportHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	var payload tasks.PDFExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		// 载荷损坏，重试没有意义。
		return fmt.Errorf("unmarshal pdf export payload: %v: %w", err, asynq.SkipRetry)
	}

	logger := h.Logger.With(
		slog.Uint64("portfolio_id", uint64(payload.PortfolioID)),
		slog.String("correlation_id", payload.CorrelationID),
	)

	var record database.Portfolio
	if err := h.DB.WithContext(ctx).First(&record, payload.PortfolioID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 任务入队后作品集被删除，静默结束。
			logger.Info("导出任务对应的作品集已不存在，跳过")
			return nil
		}
		return fmt.Errorf("load portfolio %d: %w", payload.PortfolioID, err)
	}

	defer func() {
		if retErr == nil || !isFinalAsynqAttempt(ctx) {
			return
		}
		// 最后一次重试仍失败：标记记录并通知前端。
		if err := h.DB.WithContext(context.Background()).Model(&database.Portfolio{}).
			Where("id = ?", record.ID).
			Update("status", database.StatusFailed).Error; err != nil {
			logger.Error("标记导出失败状态出错", slog.Any("error", err))
		}
		notify := ExportNotifyMessage{
			Type:          "pdf_export",
			Status:        "failed",
			PortfolioID:   record.ID,
			CorrelationID: payload.CorrelationID,
			ErrorCode:     errcode.SystemError,
			ErrorMessage:  "PDF 导出失败，请稍后重试",
		}
		if err := publishNotify(context.Background(), h.RedisClient, record.UserID, notify); err != nil {
			logger.Error("发布导出失败通知出错", slog.Any("error", err))
		}
	}()

	var doc portfolio.Document
	if err := json.Unmarshal(record.Content, &doc); err != nil {
		return fmt.Errorf("decode portfolio %d content: %v: %w", record.ID, err, asynq.SkipRetry)
	}
	doc.TemplateID = portfolio.TemplateID(record.TemplateID)
	if err := doc.Normalize(); err != nil {
		return fmt.Errorf("normalize portfolio %d: %v: %w", record.ID, err, asynq.SkipRetry)
	}

	rendered, err := render.Render(&doc)
	if err != nil {
		return fmt.Errorf("resolve portfolio %d sections: %v: %w", record.ID, err, asynq.SkipRetry)
	}
	htmlContent, err := render.HTML(rendered)
	if err != nil {
		return fmt.Errorf("render portfolio %d html: %w", record.ID, err)
	}

	pdfData, err := pdf.FromHTML(ctx, htmlContent)
	if err != nil {
		return fmt.Errorf("generate pdf for portfolio %d: %w", record.ID, err)
	}

	objectName := fmt.Sprintf("exports/%d/%d/%s.pdf", record.UserID, record.ID, uuid.NewString())
	reader := bytes.NewReader(pdfData)
	if _, err := h.Storage.UploadFile(ctx, objectName, reader, int64(len(pdfData)), "application/pdf"); err != nil {
		return fmt.Errorf("upload pdf %s: %w", objectName, err)
	}

	if err := h.DB.WithContext(ctx).Model(&database.Portfolio{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"pdf_key": objectName,
			"status":  database.StatusExported,
		}).Error; err != nil {
		return fmt.Errorf("update portfolio %d after export: %w", record.ID, err)
	}

	notify := ExportNotifyMessage{
		Type:          "pdf_export",
		Status:        "completed",
		PortfolioID:   record.ID,
		CorrelationID: payload.CorrelationID,
		ErrorCode:     errcode.OK,
	}
	if err := publishNotify(ctx, h.RedisClient, record.UserID, notify); err != nil {
		// PDF 已经生成，通知失败不应触发整个任务重跑。
		logger.Error("发布导出完成通知出错", slog.Any("error", err))
	}

	logger.Info("PDF 导出完成", slog.String("object", objectName), slog.Int("bytes", len(pdfData)))
	return nil
}
