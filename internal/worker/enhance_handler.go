package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"folioforge/internal/database"
	"folioforge/internal/enhance"
	"folioforge/internal/errcode"
	"folioforge/internal/portfolio"
	"folioforge/internal/tasks"
)

// TextEnhanceHandler 消费 text:enhance 任务：调用 AI 润色指定字段，
// 回写前重新校验目标条目是否仍然存在。
type TextEnhanceHandler struct {
	DB          *gorm.DB
	Enhancer    enhance.Enhancer
	RedisClient *redis.Client
	Logger      *slog.Logger
}

func NewTextEnhanceHandler(db *gorm.DB, enhancer enhance.Enhancer, redisClient *redis.Client, logger *slog.Logger) *TextEnhanceHandler {
	return &TextEnhanceHandler{
		DB:          db,
		Enhancer:    enhancer,
		RedisClient: redisClient,
		Logger:      logger,
	}
}

func (h *TextEnhanceHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	var payload tasks.TextEnhancePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal text enhance payload: %v: %w", err, asynq.SkipRetry)
	}

	logger := h.Logger.With(
		slog.Uint64("portfolio_id", uint64(payload.PortfolioID)),
		slog.String("field", string(payload.Field)),
		slog.String("correlation_id", payload.CorrelationID),
	)

	var record database.Portfolio
	if err := h.DB.WithContext(ctx).First(&record, payload.PortfolioID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Info("润色任务对应的作品集已不存在，跳过")
			return nil
		}
		return fmt.Errorf("load portfolio %d: %w", payload.PortfolioID, err)
	}

	defer func() {
		if retErr == nil || !isFinalAsynqAttempt(ctx) {
			return
		}
		notify := EnhanceNotifyMessage{
			Type:          "text_enhance",
			Status:        "failed",
			PortfolioID:   record.ID,
			Field:         string(payload.Field),
			EntryID:       payload.EntryID,
			CorrelationID: payload.CorrelationID,
			ErrorCode:     errcode.SystemError,
			ErrorMessage:  "文本润色失败，请稍后重试",
		}
		if err := publishNotify(context.Background(), h.RedisClient, record.UserID, notify); err != nil {
			logger.Error("发布润色失败通知出错", slog.Any("error", err))
		}
	}()

	var doc portfolio.Document
	if err := json.Unmarshal(record.Content, &doc); err != nil {
		return fmt.Errorf("decode portfolio %d content: %v: %w", record.ID, err, asynq.SkipRetry)
	}

	source, ok := sourceText(&doc, payload.Field, payload.EntryID)
	if !ok {
		// 目标条目在排队期间被删除，丢弃结果并告知前端。
		return h.notifySkipped(ctx, logger, &record, payload)
	}

	var result string
	switch payload.Field {
	case portfolio.FieldSummary:
		if source == "" {
			result = h.Enhancer.GenerateSummary(ctx, doc.Profile, doc.Experience)
		} else {
			result = h.Enhancer.Enhance(ctx, source, payload.Field)
		}
	case portfolio.FieldExperienceDescription:
		result = h.Enhancer.Enhance(ctx, source, payload.Field)
	default:
		return fmt.Errorf("unknown enhance field %q: %w", payload.Field, asynq.SkipRetry)
	}

	if !doc.ApplyEnhancement(payload.Field, payload.EntryID, result) {
		return h.notifySkipped(ctx, logger, &record, payload)
	}
	doc.Touch()

	content, err := json.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encode portfolio %d content: %w", record.ID, err)
	}
	if err := h.DB.WithContext(ctx).Model(&database.Portfolio{}).
		Where("id = ?", record.ID).
		Update("content", datatypes.JSON(content)).Error; err != nil {
		return fmt.Errorf("save enhanced portfolio %d: %w", record.ID, err)
	}

	notify := EnhanceNotifyMessage{
		Type:          "text_enhance",
		Status:        "completed",
		PortfolioID:   record.ID,
		Field:         string(payload.Field),
		EntryID:       payload.EntryID,
		Applied:       true,
		Text:          result,
		CorrelationID: payload.CorrelationID,
		ErrorCode:     errcode.OK,
	}
	if err := publishNotify(ctx, h.RedisClient, record.UserID, notify); err != nil {
		logger.Error("发布润色完成通知出错", slog.Any("error", err))
	}

	logger.Info("文本润色完成", slog.Int("chars", len(result)))
	return nil
}

// sourceText 取出待润色的原文。第二个返回值为 false 表示目标条目不存在。
func sourceText(doc *portfolio.Document, field portfolio.EnhanceField, entryID string) (string, bool) {
	switch field {
	case portfolio.FieldSummary:
		return doc.Profile.Summary, true
	case portfolio.FieldExperienceDescription:
		for _, exp := range doc.Experience {
			if exp.ID == entryID {
				return exp.Description, true
			}
		}
		return "", false
	default:
		return "", false
	}
}

func (h *TextEnhanceHandler) notifySkipped(ctx context.Context, logger *slog.Logger, record *database.Portfolio, payload tasks.TextEnhancePayload) error {
	logger.Info("润色目标条目已不存在，结果被丢弃", slog.String("entry_id", payload.EntryID))
	notify := EnhanceNotifyMessage{
		Type:          "text_enhance",
		Status:        "completed",
		PortfolioID:   record.ID,
		Field:         string(payload.Field),
		EntryID:       payload.EntryID,
		Applied:       false,
		CorrelationID: payload.CorrelationID,
		ErrorCode:     errcode.TargetMissing,
		ErrorMessage:  "目标条目已被删除",
	}
	if err := publishNotify(ctx, h.RedisClient, record.UserID, notify); err != nil {
		logger.Error("发布润色跳过通知出错", slog.Any("error", err))
	}
	return nil
}
