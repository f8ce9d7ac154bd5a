package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"folioforge/internal/database"
	"folioforge/internal/portfolio"
	"folioforge/internal/render"
	"folioforge/internal/storage"
	"folioforge/internal/theme"
)

type fakeStorage struct {
	uploaded map[string][]byte

	deleted         []string
	deletedPrefixes []string

	presign map[string]string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		uploaded: map[string][]byte{},
		presign:  map[string]string{},
	}
}

func (s *fakeStorage) UploadFile(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) (*minio.UploadInfo, error) {
	b, _ := io.ReadAll(reader)
	s.uploaded[objectName] = b
	return &minio.UploadInfo{}, nil
}

func (s *fakeStorage) GeneratePresignedURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	if v, ok := s.presign[objectKey]; ok {
		return v, nil
	}
	return "https://example.invalid/" + objectKey, nil
}

func (s *fakeStorage) ListObjects(_ context.Context, prefix string, limit int) ([]storage.ObjectMeta, error) {
	var out []storage.ObjectMeta
	for key := range s.uploaded {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			out = append(out, storage.ObjectMeta{Key: key})
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.deleted = append(s.deleted, objectKey)
	delete(s.uploaded, objectKey)
	return nil
}

func (s *fakeStorage) DeletePrefix(_ context.Context, prefix string) error {
	s.deletedPrefixes = append(s.deletedPrefixes, prefix)
	for key := range s.uploaded {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(s.uploaded, key)
		}
	}
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newJSONRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func seedPortfolio(t *testing.T, db *gorm.DB, userID uint, name string) database.Portfolio {
	t.Helper()
	doc := portfolio.New(name, portfolio.TemplateModern)
	if err := doc.Normalize(); err != nil {
		t.Fatalf("normalize document: %v", err)
	}
	content, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal document: %v", err)
	}
	p := database.Portfolio{
		Name:       name,
		TemplateID: string(doc.TemplateID),
		Content:    content,
		UserID:     userID,
		Status:     database.StatusDraft,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed portfolio: %v", err)
	}
	return p
}

func TestCreatePortfolio_RoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	h := NewPortfolioHandler(db, nil, newFakeStorage(), 10)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = newJSONRequest(t, http.MethodPost, "/v1/portfolios", map[string]any{
		"name":        "My Portfolio",
		"template_id": "custom",
	})
	c.Set("userID", uint(101))

	h.CreatePortfolio(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	var created portfolioResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.TemplateID != "custom" {
		t.Errorf("template_id = %q, want custom", created.TemplateID)
	}

	var doc portfolio.Document
	if err := json.Unmarshal(created.Content, &doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if doc.CustomTheme == nil {
		t.Fatal("custom template should carry a theme after normalization")
	}

	getW := httptest.NewRecorder()
	getC, _ := gin.CreateTestContext(getW)
	getC.Request = httptest.NewRequest(http.MethodGet, "/v1/portfolios/"+strconv.Itoa(int(created.ID)), nil)
	getC.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(created.ID))}}
	getC.Set("userID", uint(101))

	h.GetPortfolio(getC)

	if getW.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", getW.Code, getW.Body.String())
	}
	var fetched portfolioResponse
	if err := json.Unmarshal(getW.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	if !bytes.Equal(fetched.Content, created.Content) {
		t.Error("stored content should survive a create/get round trip unchanged")
	}
}

func TestCreatePortfolio_LimitsByCount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	h := NewPortfolioHandler(db, nil, newFakeStorage(), 1)

	seedPortfolio(t, db, 102, "existing")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = newJSONRequest(t, http.MethodPost, "/v1/portfolios", map[string]any{"name": "one too many"})
	c.Set("userID", uint(102))

	h.CreatePortfolio(c)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestGetPortfolio_OtherUserIsNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	h := NewPortfolioHandler(db, nil, newFakeStorage(), 10)

	p := seedPortfolio(t, db, 103, "mine")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/portfolios/"+strconv.Itoa(int(p.ID)), nil)
	c.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(p.ID))}}
	c.Set("userID", uint(104))

	h.GetPortfolio(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestPreviewPortfolio_DoesNotPersist(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	h := NewPortfolioHandler(db, nil, newFakeStorage(), 10)

	var before int64
	if err := db.Model(&database.Portfolio{}).Where("user_id = ?", 105).Count(&before).Error; err != nil {
		t.Fatalf("count before: %v", err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = newJSONRequest(t, http.MethodPost, "/v1/portfolios/preview", map[string]any{
		"name":        "scratch",
		"template_id": "modern",
	})
	c.Set("userID", uint(105))

	h.PreviewPortfolio(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var out render.Document
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if len(out.Sections) == 0 {
		t.Error("preview should contain rendered sections")
	}
	if len(out.Nav) != len(out.Sections) {
		t.Errorf("nav has %d items for %d sections", len(out.Nav), len(out.Sections))
	}

	var after int64
	if err := db.Model(&database.Portfolio{}).Where("user_id = ?", 105).Count(&after).Error; err != nil {
		t.Fatalf("count after: %v", err)
	}
	if after != before {
		t.Errorf("preview persisted a portfolio: before=%d after=%d", before, after)
	}
}

func TestGetExportLink_PendingIsConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	store := newFakeStorage()
	h := NewPortfolioHandler(db, nil, store, 10)

	p := seedPortfolio(t, db, 106, "not exported yet")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/portfolios/"+strconv.Itoa(int(p.ID))+"/export-link", nil)
	c.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(p.ID))}}
	c.Set("userID", uint(106))

	h.GetExportLink(c)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestGetExportLink_SignsStoredKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	store := newFakeStorage()
	h := NewPortfolioHandler(db, nil, store, 10)

	p := seedPortfolio(t, db, 107, "exported")
	pdfKey := "exports/107/1/abc.pdf"
	store.presign[pdfKey] = "https://signed.example/abc.pdf"
	if err := db.Model(&database.Portfolio{}).Where("id = ?", p.ID).
		Updates(map[string]any{"pdf_key": pdfKey, "status": database.StatusExported}).Error; err != nil {
		t.Fatalf("mark exported: %v", err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/portfolios/"+strconv.Itoa(int(p.ID))+"/export-link", nil)
	c.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(p.ID))}}
	c.Set("userID", uint(107))

	h.GetExportLink(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.URL != "https://signed.example/abc.pdf" {
		t.Errorf("url = %q", resp.URL)
	}
}

func TestDeletePortfolio_CleansExportPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	store := newFakeStorage()
	h := NewPortfolioHandler(db, nil, store, 10)

	p := seedPortfolio(t, db, 108, "doomed")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/v1/portfolios/"+strconv.Itoa(int(p.ID)), nil)
	c.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(p.ID))}}
	c.Set("userID", uint(108))

	h.DeletePortfolio(c)
	c.Writer.WriteHeaderNow()

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d body=%s", w.Code, w.Body.String())
	}
	wantPrefix := "exports/108/" + strconv.Itoa(int(p.ID)) + "/"
	found := false
	for _, prefix := range store.deletedPrefixes {
		if prefix == wantPrefix {
			found = true
		}
	}
	if !found {
		t.Errorf("export prefix %q was not cleaned, got %v", wantPrefix, store.deletedPrefixes)
	}
}

func TestEnhanceField_EntryFieldRequiresEntryID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	h := NewPortfolioHandler(db, nil, newFakeStorage(), 10)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = newJSONRequest(t, http.MethodPost, "/v1/portfolios/1/enhance", map[string]any{
		"field": "experience_description",
	})
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Set("userID", uint(109))

	h.EnhanceField(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestThemeApplyOp_SetsSingleGlobalToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	h := NewThemeHandler(db)

	p := seedPortfolio(t, db, 111, "tokens")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = newJSONRequest(t, http.MethodPatch, "/v1/portfolios/"+strconv.Itoa(int(p.ID))+"/theme", map[string]any{
		"op":            "set_tokens",
		"primary_color": "#123456",
	})
	c.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(p.ID))}}
	c.Set("userID", uint(111))

	h.ApplyOp(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var resp themeOpResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Theme.PrimaryColor != "#123456" {
		t.Errorf("primary = %s, want #123456", resp.Theme.PrimaryColor)
	}
	// 其余全局标记不受单项修改影响。
	if resp.Theme.AccentColor != "#10B981" {
		t.Errorf("accent changed unexpectedly: %s", resp.Theme.AccentColor)
	}
}

func TestThemeApplyOp_ClampsLayoutAndSwitchesToCustom(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	h := NewThemeHandler(db)

	p := seedPortfolio(t, db, 110, "themed")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = newJSONRequest(t, http.MethodPatch, "/v1/portfolios/"+strconv.Itoa(int(p.ID))+"/theme", map[string]any{
		"op":      "set_layout",
		"section": "education",
		"layout":  "grid",
	})
	c.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(p.ID))}}
	c.Set("userID", uint(110))

	h.ApplyOp(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var resp themeOpResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Theme == nil {
		t.Fatal("response should include the updated theme")
	}
	section, ok := resp.Theme.Sections[theme.SectionEducation]
	if !ok {
		t.Fatal("education section missing from theme")
	}
	// grid 不是教育板块的合法布局，应落回默认布局。
	if section.Layout != theme.VariantStandard {
		t.Errorf("education layout = %q, want standard", section.Layout)
	}

	var stored database.Portfolio
	if err := db.First(&stored, p.ID).Error; err != nil {
		t.Fatalf("reload portfolio: %v", err)
	}
	if stored.TemplateID != string(portfolio.TemplateCustom) {
		t.Errorf("template_id = %q, want custom after theme edit", stored.TemplateID)
	}
}
