package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// 统一的 WebSocket 消息协议（通过 Redis Pub/Sub 转发给前端）。
// 注意：这里的字段名与前端解析保持一致。

// ExportNotifyMessage 是 PDF 导出任务的终态通知。
type ExportNotifyMessage struct {
	Type          string `json:"type"`
	Status        string `json:"status"`
	PortfolioID   uint   `json:"portfolio_id"`
	CorrelationID string `json:"correlation_id"`
	ErrorCode     int    `json:"error_code"`
	ErrorMessage  string `json:"error_message"`
}

// EnhanceNotifyMessage 是文本增强任务的终态通知。
// Applied 为 false 表示目标条目在任务执行期间被删除，结果被丢弃。
type EnhanceNotifyMessage struct {
	Type          string `json:"type"`
	Status        string `json:"status"`
	PortfolioID   uint   `json:"portfolio_id"`
	Field         string `json:"field"`
	EntryID       string `json:"entry_id,omitempty"`
	Applied       bool   `json:"applied"`
	Text          string `json:"text,omitempty"`
	CorrelationID string `json:"correlation_id"`
	ErrorCode     int    `json:"error_code"`
	ErrorMessage  string `json:"error_message"`
}

func publishNotify(ctx context.Context, redisClient *redis.Client, userID uint, message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := fmt.Sprintf("user_notify:%d", userID)
	if err := redisClient.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
