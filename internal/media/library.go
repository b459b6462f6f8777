// Package media содержит медиатеку: место, где лежат аудиофайлы плейлиста
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
)

// ErrNotAudio возвращается для файлов, которые не являются аудио
var ErrNotAudio = errors.New("файл не является аудиофайлом")

// Library хранит аудиофайлы по имени файла
type Library interface {
	// Ref возвращает ресурс для медиаплеера: путь к файлу или URL
	Ref(filename string) string
	// Import сохраняет содержимое под именем filename
	Import(ctx context.Context, filename string, r io.Reader) error
	// Remove удаляет файл из медиатеки
	Remove(ctx context.Context, filename string) error
}

// audioTypes расширения, для которых системная база MIME может быть неполной
var audioTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".opus": "audio/opus",
}

// CheckAudio проверяет по расширению, что файл имеет тип audio/*
func CheckAudio(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	mimeType, ok := audioTypes[ext]
	if !ok {
		mimeType = mime.TypeByExtension(ext)
	}
	if !strings.HasPrefix(mimeType, "audio/") {
		return fmt.Errorf("%w: %s", ErrNotAudio, filename)
	}
	return nil
}

// NameFromFilename возвращает имя файла без каталога и расширения
func NameFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ProgressReader структура для отслеживания прогресса чтения
type ProgressReader struct {
	io.Reader
	Size       int64
	OnProgress func(read, total int64)
	bytesRead  int64
}

func (pr *ProgressReader) Read(p []byte) (n int, err error) {
	n, err = pr.Reader.Read(p)
	pr.bytesRead += int64(n)
	if pr.OnProgress != nil {
		pr.OnProgress(pr.bytesRead, pr.Size)
	}
	return n, err
}

// FormatFileSize форматирует размер файла в читаемом виде
func FormatFileSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
