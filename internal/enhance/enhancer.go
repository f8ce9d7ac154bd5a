// Package enhance 封装面向 Gemini 的文本润色能力。
// 调用失败时一律退回原文，润色永远不会让文档变差。
package enhance

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"folioforge/internal/portfolio"
)

const defaultModel = "gemini-2.5-flash"

// Enhancer 是异步任务依赖的文本润色接口。
type Enhancer interface {
	// Enhance 重写一段文本。失败时返回原文，不返回错误。
	Enhance(ctx context.Context, text string, field portfolio.EnhanceField) string
	// GenerateSummary 根据档案与经历生成一段职业摘要，失败返回空串。
	GenerateSummary(ctx context.Context, profile portfolio.Profile, experience []portfolio.Experience) string
}

// GeminiEnhancer 基于 google genai SDK 实现 Enhancer。
type GeminiEnhancer struct {
	client *genai.Client
	model  string
}

// NewGeminiEnhancer 创建 Gemini 客户端。model 为空时用默认模型。
func NewGeminiEnhancer(ctx context.Context, apiKey, model string) (*GeminiEnhancer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = defaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiEnhancer{client: client, model: model}, nil
}

func (e *GeminiEnhancer) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text()), nil
}

func (e *GeminiEnhancer) Enhance(ctx context.Context, text string, field portfolio.EnhanceField) string {
	var prompt string
	switch field {
	case portfolio.FieldSummary:
		prompt = fmt.Sprintf("Rewrite the following professional summary to be more engaging, concise, and impactful. Keep it under 4 sentences. Text: %q", text)
	case portfolio.FieldExperienceDescription:
		prompt = fmt.Sprintf("Rewrite the following job description bullet points to be result-oriented, using strong action verbs. Maintain the core meaning but improve professional tone. Text: %q", text)
	default:
		return text
	}
	out, err := e.generate(ctx, prompt)
	if err != nil || out == "" {
		return text
	}
	return out
}

func (e *GeminiEnhancer) GenerateSummary(ctx context.Context, profile portfolio.Profile, experience []portfolio.Experience) string {
	history := make([]string, 0, len(experience))
	for _, exp := range experience {
		if exp.Role == "" && exp.Company == "" {
			continue
		}
		history = append(history, fmt.Sprintf("%s at %s", exp.Role, exp.Company))
	}
	title := profile.Title
	if title == "" {
		title = "professional"
	}
	prompt := fmt.Sprintf(`Write a professional LinkedIn-style summary (max 80 words) for a %s based on the following context:
Skills: %s
Experience history: %s

Make it sound confident and ready for new opportunities.`,
		title, strings.Join(profile.Skills, ", "), strings.Join(history, ", "))

	out, err := e.generate(ctx, prompt)
	if err != nil {
		return ""
	}
	return out
}

// Noop 在未配置 API Key 时充当 Enhancer，直接回显原文。
type Noop struct{}

func (Noop) Enhance(_ context.Context, text string, _ portfolio.EnhanceField) string {
	return text
}

func (Noop) GenerateSummary(context.Context, portfolio.Profile, []portfolio.Experience) string {
	return ""
}
