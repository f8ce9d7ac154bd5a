package api

import (
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"

	"folioforge/internal/storage"
)

// ObjectStorage 抽象出处理器需要的对象存储操作，测试用假实现替换。
type ObjectStorage interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
	GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration) (string, error)
	ListObjects(ctx context.Context, prefix string, limit int) ([]storage.ObjectMeta, error)
	DeleteObject(ctx context.Context, objectKey string) error
	DeletePrefix(ctx context.Context, prefix string) error
}
