// Package streaming читает аудио из удаленной медиатеки по HTTP
package streaming

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

// UserAgent идентифицирует клиент в запросах к медиатеке
const UserAgent = "go-jukebox/1.0"

// client общий HTTP клиент без общего таймаута: поток читается все время воспроизведения
var client = &http.Client{
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		IdleConnTimeout:       5 * time.Minute,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		ExpectContinueTimeout: time.Second,
	},
}

// Reader буферизованный поток ответа HTTP
type Reader struct {
	reader *bufio.Reader
	resp   *http.Response
}

// NewReader открывает поток по URL
func NewReader(ctx context.Context, url string, bufferSize int) (*Reader, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Accept-Encoding", "identity") // сжатие ломает декодер
	req.Header.Set("Range", "bytes=0-")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		resp.Body.Close()
		return nil, fmt.Errorf("ошибка HTTP: %s", resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !audioContentType(contentType) {
		slog.Warn("неожиданный Content-Type потока", "url", url, "content_type", contentType)
	}

	return &Reader{
		reader: bufio.NewReaderSize(resp.Body, bufferSize),
		resp:   resp,
	}, nil
}

// Read реализует интерфейс io.Reader для потокового чтения
func (sr *Reader) Read(p []byte) (n int, err error) {
	return sr.reader.Read(p)
}

// Close закрывает соединение
func (sr *Reader) Close() error {
	return sr.resp.Body.Close()
}

// ContentType возвращает тип содержимого из ответа сервера
func (sr *Reader) ContentType() string {
	return sr.resp.Header.Get("Content-Type")
}

func audioContentType(contentType string) bool {
	return contentType == "" ||
		strings.HasPrefix(contentType, "audio/") ||
		strings.HasPrefix(contentType, "application/octet-stream")
}

// GetStreamStatus возвращает текстовое описание состояния потока
func GetStreamStatus(stuckCount int) string {
	switch {
	case stuckCount == 0:
		return "Потоковое воспроизведение"
	case stuckCount <= 3:
		return "Буферизация..."
	case stuckCount <= 5:
		return "Медленная загрузка"
	default:
		return "Возможная проблема с соединением"
	}
}
