package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"folioforge/internal/database"
	"folioforge/internal/metrics"
	"folioforge/internal/portfolio"
	"folioforge/internal/render"
	"folioforge/internal/theme"
)

// ThemeHandler 承载编辑器的主题操作。每次操作读出文档、
// 应用一条编辑指令、落库，再用同一份文档渲染预览返回，
// 保证编辑器看到的状态和存储的状态始终一致。
type ThemeHandler struct {
	db *gorm.DB
}

// NewThemeHandler 构造 ThemeHandler。
func NewThemeHandler(db *gorm.DB) *ThemeHandler {
	return &ThemeHandler{db: db}
}

type themeOpRequest struct {
	Op           string  `json:"op" binding:"required,oneof=set_visibility set_layout set_colors set_fonts set_tokens set_header apply_palette"`
	Section      string  `json:"section"`
	Visible      *bool   `json:"visible"`
	Layout       string  `json:"layout"`
	BgColor      *string `json:"bg_color"`
	TextColor    *string `json:"text_color"`
	FontHeading  string  `json:"font_heading"`
	FontBody     string  `json:"font_body"`
	HeaderLayout string  `json:"header_layout"`
	PrimaryColor string  `json:"primary_color"`
	AccentColor  string  `json:"accent_color"`
}

type themeOpResponse struct {
	Theme   *theme.Theme     `json:"theme"`
	Preview *render.Document `json:"preview"`
}

// ApplyOp 对作品集的主题执行一条编辑指令。
func (h *ThemeHandler) ApplyOp(c *gin.Context) {
	var req themeOpRequest
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
	var p database.Portfolio
	if err := h.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", c.Param("id"), userID).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "portfolio not found")
			return
		}
		Internal(c, "failed to query portfolio")
		return
	}

	var doc portfolio.Document
	if err := json.Unmarshal(p.Content, &doc); err != nil {
		Internal(c, "stored document is corrupt")
		return
	}
	// 主题编辑只对 custom 模板有意义，其他模板先切过去。
	doc.TemplateID = portfolio.TemplateCustom
	if err := doc.Normalize(); err != nil {
		Internal(c, "stored document is corrupt")
		return
	}

	if err := applyThemeOp(doc.CustomTheme, req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	doc.Touch()

	content, err := json.Marshal(&doc)
	if err != nil {
		Internal(c, "failed to encode document")
		return
	}

	if err := h.db.WithContext(ctx).Model(&p).Updates(map[string]any{
		"content":     content,
		"template_id": string(doc.TemplateID),
	}).Error; err != nil {
		Internal(c, "failed to save theme")
		return
	}

	start := time.Now()
	preview, err := render.Render(&doc)
	if err != nil {
		Internal(c, "failed to render preview")
		return
	}
	metrics.ObserveRender(start, len(preview.Sections))

	c.JSON(http.StatusOK, themeOpResponse{
		Theme:   doc.CustomTheme,
		Preview: preview,
	})
}

func applyThemeOp(t *theme.Theme, req themeOpRequest) error {
	kind := theme.SectionKind(req.Section)
	switch req.Op {
	case "set_visibility":
		if req.Visible == nil {
			return errors.New("visible is required")
		}
		return t.SetVisibility(kind, *req.Visible)
	case "set_layout":
		if req.Layout == "" {
			return errors.New("layout is required")
		}
		return t.SetLayout(kind, theme.Variant(req.Layout))
	case "set_colors":
		if req.BgColor == nil && req.TextColor == nil {
			return errors.New("bg_color or text_color is required")
		}
		return t.SetSectionColors(kind, req.BgColor, req.TextColor)
	case "set_fonts":
		if req.FontHeading == "" && req.FontBody == "" {
			return errors.New("font_heading or font_body is required")
		}
		t.SetFonts(req.FontHeading, req.FontBody)
		return nil
	case "set_tokens":
		if req.FontHeading == "" && req.FontBody == "" && req.PrimaryColor == "" && req.AccentColor == "" {
			return errors.New("at least one token is required")
		}
		t.SetGlobalTokens(req.FontHeading, req.FontBody, req.PrimaryColor, req.AccentColor)
		return nil
	case "set_header":
		if req.HeaderLayout == "" {
			return errors.New("header_layout is required")
		}
		t.SetHeaderLayout(theme.HeaderStyle(req.HeaderLayout))
		return nil
	case "apply_palette":
		return t.ApplyPalette(req.PrimaryColor, req.AccentColor)
	}
	return errors.New("unknown op")
}
