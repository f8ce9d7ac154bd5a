package api

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var avatarContentTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// AvatarHandler 负责头像图片的上传与访问。上传的图片最终通过
// 预签名 URL 写进文档的 profilePicture 字段。
type AvatarHandler struct {
	Storage    ObjectStorage
	Logger     *slog.Logger
	ClamdAddr  string
	MaxSizeMB  int
	MaxPerUser int
}

// NewAvatarHandler 返回 AvatarHandler 实例。
func NewAvatarHandler(storageClient ObjectStorage, logger *slog.Logger, clamdAddr string, maxSizeMB, maxPerUser int) *AvatarHandler {
	return &AvatarHandler{
		Storage:    storageClient,
		Logger:     logger,
		ClamdAddr:  clamdAddr,
		MaxSizeMB:  maxSizeMB,
		MaxPerUser: maxPerUser,
	}
}

// UploadAvatar 处理受保护的头像上传，配置了 clamd 时先扫描病毒。
func (h *AvatarHandler) UploadAvatar(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file")
		return
	}

	if h.MaxSizeMB > 0 && file.Size > int64(h.MaxSizeMB)<<20 {
		BadRequest(c, "file too large")
		return
	}

	contentType := file.Header.Get("Content-Type")
	ext, ok := avatarContentTypes[contentType]
	if !ok {
		BadRequest(c, "unsupported image type")
		return
	}

	if h.MaxPerUser > 0 {
		prefix := fmt.Sprintf("avatars/%d/", userID)
		existing, err := h.Storage.ListObjects(c.Request.Context(), prefix, h.MaxPerUser)
		if err != nil {
			h.Logger.Error("count avatars", slog.String("error", err.Error()))
			Internal(c, "failed to count avatars")
			return
		}
		if len(existing) >= h.MaxPerUser {
			Forbidden(c, "avatar limit reached")
			return
		}
	}

	if h.ClamdAddr != "" {
		clean, err := h.scanUpload(file)
		if err != nil {
			h.Logger.Error("scan file", slog.String("error", err.Error()))
			Internal(c, "failed to scan file")
			return
		}
		if !clean {
			BadRequest(c, "malicious file detected")
			return
		}
	}

	fileReader, err := file.Open()
	if err != nil {
		Internal(c, "failed to open file")
		return
	}
	defer fileReader.Close()

	objectKey := fmt.Sprintf("avatars/%d/%s%s", userID, uuid.NewString(), ext)
	if _, err := h.Storage.UploadFile(c.Request.Context(), objectKey, fileReader, file.Size, contentType); err != nil {
		h.Logger.Error("upload file", slog.String("error", err.Error()))
		Internal(c, "failed to upload file")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"objectKey": objectKey})
}

func (h *AvatarHandler) scanUpload(file *multipart.FileHeader) (bool, error) {
	reader, err := file.Open()
	if err != nil {
		return false, err
	}
	defer reader.Close()

	clamdClient := clamd.NewClamd(h.ClamdAddr)
	abortChan := make(chan bool)
	defer close(abortChan)

	scanChan, err := clamdClient.ScanStream(reader, abortChan)
	if err != nil {
		return false, err
	}
	for result := range scanChan {
		if result.Status != clamd.RES_OK {
			return false, nil
		}
	}
	return true, nil
}

// ListAvatars 列出用户上传的头像，按时间倒序。
func (h *AvatarHandler) ListAvatars(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	limitStr := c.DefaultQuery("limit", "60")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 60
	}
	if limit > 200 {
		limit = 200
	}

	prefix := fmt.Sprintf("avatars/%d/", userID)
	objects, err := h.Storage.ListObjects(c.Request.Context(), prefix, limit)
	if err != nil {
		h.Logger.Error("list avatars", slog.String("error", err.Error()))
		Internal(c, "failed to list avatars")
		return
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].LastModified.After(objects[j].LastModified)
	})

	items := make([]gin.H, 0, len(objects))
	for _, obj := range objects {
		url, err := h.Storage.GeneratePresignedURL(c.Request.Context(), obj.Key, 10*time.Minute)
		if err != nil {
			h.Logger.Error("generate avatar url", slog.String("objectKey", obj.Key), slog.String("error", err.Error()))
			continue
		}
		items = append(items, gin.H{
			"objectKey":    obj.Key,
			"previewUrl":   url,
			"size":         obj.Size,
			"lastModified": obj.LastModified,
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetAvatarURL 返回头像的临时预签名 URL。
func (h *AvatarHandler) GetAvatarURL(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	objectKey := c.Query("key")
	if !isValidAvatarObjectKey(userID, objectKey) {
		Forbidden(c, "access denied")
		return
	}

	signedURL, err := h.Storage.GeneratePresignedURL(c.Request.Context(), objectKey, 15*time.Minute)
	if err != nil {
		h.Logger.Error("generate presigned url", slog.String("error", err.Error()))
		Internal(c, "failed to generate url")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}

// DeleteAvatar 删除一张头像。
func (h *AvatarHandler) DeleteAvatar(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	objectKey := c.Query("key")
	if !isValidAvatarObjectKey(userID, objectKey) {
		Forbidden(c, "access denied")
		return
	}

	if err := h.Storage.DeleteObject(c.Request.Context(), objectKey); err != nil {
		h.Logger.Error("delete avatar", slog.String("error", err.Error()))
		Internal(c, "failed to delete avatar")
		return
	}

	c.Status(http.StatusNoContent)
}

// isValidAvatarObjectKey 确认 key 属于该用户且形态正常，
// 防止通过预签名接口探测别人的对象。
func isValidAvatarObjectKey(userID uint, key string) bool {
	if key == "" || !utf8.ValidString(key) {
		return false
	}
	expected := fmt.Sprintf("avatars/%d/", userID)
	if !strings.HasPrefix(key, expected) {
		return false
	}
	if strings.Contains(key, "..") || strings.Contains(key, "\\") || strings.Contains(key, "//") {
		return false
	}
	if len(key) > 200 {
		return false
	}
	lower := strings.ToLower(strings.TrimSpace(key))
	return strings.HasSuffix(lower, ".png") || strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".webp")
}
