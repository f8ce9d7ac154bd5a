package worker

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"folioforge/internal/database"
	"folioforge/internal/portfolio"
	"folioforge/internal/tasks"
)

type fakeEnhancer struct{}

func (fakeEnhancer) Enhance(_ context.Context, text string, _ portfolio.EnhanceField) string {
	return strings.ToUpper(text)
}

func (fakeEnhancer) GenerateSummary(context.Context, portfolio.Profile, []portfolio.Experience) string {
	return "generated summary"
}

func newTestHandler(t *testing.T) (*TextEnhanceHandler, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// 通知通道不可达时只会记日志，不影响任务结果。
	redisClient := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	return NewTextEnhanceHandler(db, fakeEnhancer{}, redisClient, logger), db
}

func seedPortfolio(t *testing.T, db *gorm.DB, doc *portfolio.Document) database.Portfolio {
	t.Helper()
	content, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal document: %v", err)
	}
	p := database.Portfolio{
		Name:       doc.Name,
		TemplateID: string(doc.TemplateID),
		Content:    content,
		UserID:     1,
		Status:     database.StatusDraft,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed portfolio: %v", err)
	}
	return p
}

func loadDocument(t *testing.T, db *gorm.DB, id uint) portfolio.Document {
	t.Helper()
	var p database.Portfolio
	if err := db.First(&p, id).Error; err != nil {
		t.Fatalf("reload portfolio: %v", err)
	}
	var doc portfolio.Document
	if err := json.Unmarshal(p.Content, &doc); err != nil {
		t.Fatalf("decode content: %v", err)
	}
	return doc
}

func TestTextEnhance_RewritesExperienceDescription(t *testing.T) {
	h, db := newTestHandler(t)

	doc := portfolio.New("test", portfolio.TemplateModern)
	doc.Experience[0].Description = "built the thing"
	entryID := doc.Experience[0].ID
	p := seedPortfolio(t, db, doc)

	task, err := tasks.NewTextEnhanceTask(p.ID, portfolio.FieldExperienceDescription, entryID, "corr-1")
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("process task: %v", err)
	}

	got := loadDocument(t, db, p.ID)
	if got.Experience[0].Description != "BUILT THE THING" {
		t.Errorf("description = %q", got.Experience[0].Description)
	}
}

func TestTextEnhance_StaleEntryIsDiscarded(t *testing.T) {
	h, db := newTestHandler(t)

	doc := portfolio.New("test", portfolio.TemplateModern)
	doc.Experience[0].Description = "original text"
	p := seedPortfolio(t, db, doc)

	// 条目在任务排队期间被删除。
	task, err := tasks.NewTextEnhanceTask(p.ID, portfolio.FieldExperienceDescription, "gone-entry", "corr-2")
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("stale entry should not fail the task: %v", err)
	}

	got := loadDocument(t, db, p.ID)
	if got.Experience[0].Description != "original text" {
		t.Errorf("document changed for a stale entry: %q", got.Experience[0].Description)
	}
}

func TestTextEnhance_EmptySummaryGetsGenerated(t *testing.T) {
	h, db := newTestHandler(t)

	doc := portfolio.New("test", portfolio.TemplateModern)
	doc.Profile.Summary = ""
	p := seedPortfolio(t, db, doc)

	task, err := tasks.NewTextEnhanceTask(p.ID, portfolio.FieldSummary, "", "corr-3")
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("process task: %v", err)
	}

	got := loadDocument(t, db, p.ID)
	if got.Profile.Summary != "generated summary" {
		t.Errorf("summary = %q", got.Profile.Summary)
	}
}

func TestTextEnhance_MissingPortfolioIsSkipped(t *testing.T) {
	h, _ := newTestHandler(t)

	task, err := tasks.NewTextEnhanceTask(99999, portfolio.FieldSummary, "", "corr-4")
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Errorf("deleted portfolio should be a silent skip, got %v", err)
	}
}
