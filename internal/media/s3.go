package media

import (
	"context"
	"io"
	"path/filepath"

	"github.com/hazadus/go-jukebox/internal/s3"
)

// objectStore операции S3, которые нужны медиатеке
type objectStore interface {
	UploadFile(ctx context.Context, reader io.Reader, key string) (string, error)
	DeleteFile(ctx context.Context, key string) error
	URL(key string) string
}

var _ objectStore = (*s3.Uploader)(nil)

// S3Library медиатека в бакете S3; файлы воспроизводятся потоком по URL
type S3Library struct {
	store objectStore
}

// NewS3Library создает медиатеку поверх S3 uploader
func NewS3Library(uploader *s3.Uploader) *S3Library {
	return &S3Library{store: uploader}
}

// Ref возвращает URL объекта
func (l *S3Library) Ref(filename string) string {
	return l.store.URL(key(filename))
}

// Import загружает содержимое в бакет
func (l *S3Library) Import(ctx context.Context, filename string, r io.Reader) error {
	_, err := l.store.UploadFile(ctx, r, key(filename))
	return err
}

// Remove удаляет объект из бакета
func (l *S3Library) Remove(ctx context.Context, filename string) error {
	return l.store.DeleteFile(ctx, key(filename))
}

func key(filename string) string {
	return filepath.Base(filename)
}
