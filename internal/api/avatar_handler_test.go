package api

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMultipartUpload(t *testing.T, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	header["Content-Type"] = []string{contentType}
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create form part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestUploadAvatar_StoresUnderUserPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newFakeStorage()
	h := NewAvatarHandler(store, newTestLogger(), "", 5, 20)

	body, contentType := newMultipartUpload(t, "me.png", "image/png", []byte("\x89PNG\r\n\x1a\n"))
	req := httptest.NewRequest(http.MethodPost, "/v1/avatars/upload", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("userID", uint(1))

	h.UploadAvatar(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	if len(store.uploaded) != 1 {
		t.Fatalf("expected 1 uploaded object, got %d", len(store.uploaded))
	}
	for key := range store.uploaded {
		if !strings.HasPrefix(key, "avatars/1/") {
			t.Errorf("object key %q missing user prefix", key)
		}
		if !strings.HasSuffix(key, ".png") {
			t.Errorf("object key %q missing png extension", key)
		}
	}
}

func TestUploadAvatar_RejectsUnsupportedType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newFakeStorage()
	h := NewAvatarHandler(store, newTestLogger(), "", 5, 20)

	body, contentType := newMultipartUpload(t, "doc.pdf", "application/pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/v1/avatars/upload", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("userID", uint(2))

	h.UploadAvatar(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
	if len(store.uploaded) != 0 {
		t.Errorf("rejected upload should not reach storage")
	}
}

func TestUploadAvatar_LimitsByCount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newFakeStorage()
	h := NewAvatarHandler(store, newTestLogger(), "", 5, 4)

	for i := 0; i < 4; i++ {
		store.uploaded["avatars/3/existing-"+strconv.Itoa(i)+".png"] = []byte("x")
	}

	body, contentType := newMultipartUpload(t, "five.png", "image/png", []byte("\x89PNG\r\n\x1a\n"))
	req := httptest.NewRequest(http.MethodPost, "/v1/avatars/upload", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("userID", uint(3))

	h.UploadAvatar(c)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestGetAvatarURL_RejectsForeignKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newFakeStorage()
	h := NewAvatarHandler(store, newTestLogger(), "", 5, 20)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/avatars/view?key=avatars/99/other.png", nil)
	c.Set("userID", uint(4))

	h.GetAvatarURL(c)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestIsValidAvatarObjectKey(t *testing.T) {
	cases := []struct {
		name string
		key  string
		want bool
	}{
		{"own png", "avatars/7/abc.png", true},
		{"own jpg", "avatars/7/abc.jpg", true},
		{"foreign user", "avatars/8/abc.png", false},
		{"traversal", "avatars/7/../8/abc.png", false},
		{"wrong prefix", "exports/7/abc.png", false},
		{"wrong extension", "avatars/7/abc.exe", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isValidAvatarObjectKey(7, tc.key); got != tc.want {
				t.Errorf("isValidAvatarObjectKey(7, %q) = %v, want %v", tc.key, got, tc.want)
			}
		})
	}
}
