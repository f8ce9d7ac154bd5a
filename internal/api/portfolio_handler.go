package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"folioforge/internal/api/middleware"
	"folioforge/internal/database"
	"folioforge/internal/metrics"
	"folioforge/internal/portfolio"
	"folioforge/internal/render"
	"folioforge/internal/tasks"
)

// PortfolioHandler 负责作品集文档的增删改查、预览与导出。
type PortfolioHandler struct {
	db            *gorm.DB
	asynqClient   *asynq.Client
	storage       ObjectStorage
	maxPortfolios int
}

// NewPortfolioHandler 构造 PortfolioHandler。
func NewPortfolioHandler(db *gorm.DB, asynqClient *asynq.Client, storageClient ObjectStorage, maxPortfolios int) *PortfolioHandler {
	return &PortfolioHandler{
		db:            db,
		asynqClient:   asynqClient,
		storage:       storageClient,
		maxPortfolios: maxPortfolios,
	}
}

var errInvalidPortfolioID = errors.New("invalid portfolio id")

type createPortfolioRequest struct {
	Name       string          `json:"name" binding:"required,max=255"`
	TemplateID string          `json:"template_id"`
	Content    json.RawMessage `json:"content"`
}

type portfolioListItem struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	TemplateID string    `json:"template_id"`
	Status     string    `json:"status"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type portfolioResponse struct {
	ID         uint           `json:"id"`
	Name       string         `json:"name"`
	TemplateID string         `json:"template_id"`
	Status     string         `json:"status"`
	Content    datatypes.JSON `json:"content"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func newPortfolioResponse(p database.Portfolio) portfolioResponse {
	return portfolioResponse{
		ID:         p.ID,
		Name:       p.Name,
		TemplateID: p.TemplateID,
		Status:     p.Status,
		Content:    p.Content,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// decodeDocument 把请求体里的 content 解出文档并做规整。
// content 缺省时按 name+template 建一份空白文档。
func decodeDocument(name, templateID string, raw json.RawMessage) (*portfolio.Document, error) {
	if len(raw) == 0 {
		tmpl := portfolio.TemplateID(templateID)
		if tmpl == "" {
			tmpl = portfolio.TemplateModern
		}
		doc := portfolio.New(name, tmpl)
		if err := doc.Normalize(); err != nil {
			return nil, err
		}
		return doc, nil
	}

	var doc portfolio.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if doc.Name == "" {
		doc.Name = name
	}
	if templateID != "" {
		doc.TemplateID = portfolio.TemplateID(templateID)
	}
	if err := doc.Normalize(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func marshalDocument(doc *portfolio.Document) (datatypes.JSON, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return datatypes.JSON(raw), nil
}

// CreatePortfolio 保存一份新的作品集，超过限额则提示升级。
func (h *PortfolioHandler) CreatePortfolio(c *gin.Context) {
	var req createPortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()

	var count int64
	if err := h.db.WithContext(ctx).
		Model(&database.Portfolio{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		Internal(c, "failed to count portfolios")
		return
	}
	if h.maxPortfolios > 0 && count >= int64(h.maxPortfolios) {
		Forbidden(c, "portfolio limit reached")
		return
	}

	doc, err := decodeDocument(req.Name, req.TemplateID, req.Content)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	content, err := marshalDocument(doc)
	if err != nil {
		Internal(c, "failed to encode document")
		return
	}

	p := database.Portfolio{
		Name:       req.Name,
		TemplateID: string(doc.TemplateID),
		Content:    content,
		UserID:     userID,
		Status:     database.StatusDraft,
	}

	if err := h.db.WithContext(ctx).Create(&p).Error; err != nil {
		Internal(c, "failed to create portfolio")
		return
	}

	c.JSON(http.StatusCreated, newPortfolioResponse(p))
}

// ListPortfolios 按最近更新排列用户全部作品集。
func (h *PortfolioHandler) ListPortfolios(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	var items []database.Portfolio
	if err := h.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&items).Error; err != nil {
		Internal(c, "failed to list portfolios")
		return
	}

	out := make([]portfolioListItem, 0, len(items))
	for _, p := range items {
		out = append(out, portfolioListItem{
			ID:         p.ID,
			Name:       p.Name,
			TemplateID: p.TemplateID,
			Status:     p.Status,
			UpdatedAt:  p.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, out)
}

// GetPortfolio 返回指定 ID 的作品集全文。
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	p, err := h.getPortfolioForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.replyLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPortfolioResponse(*p))
}

// UpdatePortfolio 覆盖指定作品集的文档内容。
func (h *PortfolioHandler) UpdatePortfolio(c *gin.Context) {
	var req createPortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	p, err := h.getPortfolioForUser(ctx, c.Param("id"), userID)
	if err != nil {
		h.replyLookupError(c, err)
		return
	}

	doc, err := decodeDocument(req.Name, req.TemplateID, req.Content)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	doc.Touch()
	content, err := marshalDocument(doc)
	if err != nil {
		Internal(c, "failed to encode document")
		return
	}

	if err := h.db.WithContext(ctx).Model(p).Updates(map[string]any{
		"name":        req.Name,
		"template_id": string(doc.TemplateID),
		"content":     content,
	}).Error; err != nil {
		Internal(c, "failed to update portfolio")
		return
	}

	if err := h.db.WithContext(ctx).First(p, p.ID).Error; err != nil {
		Internal(c, "failed to reload portfolio")
		return
	}

	c.JSON(http.StatusOK, newPortfolioResponse(*p))
}

// DeletePortfolio 删除作品集及其在对象存储里的导出产物。
func (h *PortfolioHandler) DeletePortfolio(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	p, err := h.getPortfolioForUser(ctx, c.Param("id"), userID)
	if err != nil {
		h.replyLookupError(c, err)
		return
	}

	if err := h.db.WithContext(ctx).Delete(p).Error; err != nil {
		Internal(c, "failed to delete portfolio")
		return
	}

	if h.storage != nil {
		prefix := fmt.Sprintf("exports/%d/%d/", userID, p.ID)
		if err := h.storage.DeletePrefix(ctx, prefix); err != nil {
			middleware.LoggerFromContext(c).Warn("cleanup exports failed", "error", err)
		}
	}

	c.Status(http.StatusNoContent)
}

// PreviewPortfolio 渲染请求体里的文档并返回渲染指令，不落库。
// 编辑器每次改动主题后都靠它拿到即时预览。
func (h *PortfolioHandler) PreviewPortfolio(c *gin.Context) {
	var req createPortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	doc, err := decodeDocument(req.Name, req.TemplateID, req.Content)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	start := time.Now()
	out, err := render.Render(doc)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	metrics.ObserveRender(start, len(out.Sections))

	c.JSON(http.StatusOK, out)
}

// ExportPortfolio 将 PDF 导出任务入队并立即返回 202。
func (h *PortfolioHandler) ExportPortfolio(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()
	p, err := h.getPortfolioForUser(ctx, c.Param("id"), userID)
	if err != nil {
		h.replyLookupError(c, err)
		return
	}

	correlationID := middleware.GetCorrelationID(c)
	task, err := tasks.NewPDFExportTask(p.ID, correlationID)
	if err != nil {
		Internal(c, "failed to create task")
		return
	}

	info, err := h.asynqClient.Enqueue(task, asynq.MaxRetry(5))
	if err != nil {
		Internal(c, "failed to enqueue pdf export")
		return
	}

	if err := h.db.WithContext(ctx).Model(p).Update("status", database.StatusExporting).Error; err != nil {
		Internal(c, "failed to mark portfolio exporting")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "PDF export request accepted",
		"task_id": info.ID,
	})
}

// GetExportLink 生成已导出 PDF 的预签名下载链接。
func (h *PortfolioHandler) GetExportLink(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	p, err := h.getPortfolioForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.replyLookupError(c, err)
		return
	}

	if p.PdfKey == "" {
		Conflict(c, "pdf not ready")
		return
	}

	signedURL, err := h.storage.GeneratePresignedURL(c.Request.Context(), p.PdfKey, 5*time.Minute)
	if err != nil {
		Internal(c, "failed to generate download link")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}

type enhanceRequest struct {
	Field   string `json:"field" binding:"required,oneof=summary experience_description"`
	EntryID string `json:"entry_id"`
}

// EnhanceField 将文本增强任务入队。条目级字段要求带 entry_id，
// 写回按条目身份定位，任务执行期间条目被删则静默放弃。
func (h *PortfolioHandler) EnhanceField(c *gin.Context) {
	var req enhanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	field := portfolio.EnhanceField(req.Field)
	if field == portfolio.FieldExperienceDescription && req.EntryID == "" {
		BadRequest(c, "entry_id is required for experience_description")
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	p, err := h.getPortfolioForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.replyLookupError(c, err)
		return
	}

	correlationID := middleware.GetCorrelationID(c)
	task, err := tasks.NewTextEnhanceTask(p.ID, field, req.EntryID, correlationID)
	if err != nil {
		Internal(c, "failed to create task")
		return
	}

	info, err := h.asynqClient.Enqueue(task, asynq.MaxRetry(3))
	if err != nil {
		Internal(c, "failed to enqueue text enhancement")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "enhancement request accepted",
		"task_id": info.ID,
	})
}

func (h *PortfolioHandler) replyLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errInvalidPortfolioID):
		BadRequest(c, "invalid portfolio id")
	case errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c, "portfolio not found")
	default:
		Internal(c, "failed to query portfolio")
	}
}

func (h *PortfolioHandler) getPortfolioForUser(ctx context.Context, idParam string, userID uint) (*database.Portfolio, error) {
	id, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil || id == 0 {
		return nil, errInvalidPortfolioID
	}

	var p database.Portfolio
	if err := h.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func userIDFromContext(c *gin.Context) (uint, bool) {
	value, exists := c.Get("userID")
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	case uint64:
		return uint(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	default:
		return 0, false
	}
}
