package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupWritesToFallback(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	logger, closeFn, err := Setup("warn", "", &buf)
	if err != nil {
		t.Fatalf("Setup вернул ошибку: %v", err)
	}
	defer closeFn()

	logger.Info("скрыто")
	logger.Warn("поврежденный плейлист", "key", "musicPlayerSongs")

	out := buf.String()
	if strings.Contains(out, "скрыто") {
		t.Error("Сообщение уровня info не должно попадать в лог уровня warn")
	}
	if !strings.Contains(out, "key=musicPlayerSongs") {
		t.Errorf("Ожидалась запись с атрибутом key, получено: %s", out)
	}
}

func TestSetupWritesToFile(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	path := filepath.Join(t.TempDir(), "logs", "jukebox.log")
	logger, closeFn, err := Setup("debug", path, nil)
	if err != nil {
		t.Fatalf("Setup вернул ошибку: %v", err)
	}
	logger.Debug("запуск")
	if err := closeFn(); err != nil {
		t.Fatalf("Ошибка закрытия файла логов: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Ошибка чтения файла логов: %v", err)
	}
	if !strings.Contains(string(data), "запуск") {
		t.Errorf("Файл логов не содержит запись: %s", data)
	}
}

func TestSetupInvalidLevel(t *testing.T) {
	if _, _, err := Setup("loud", "", &bytes.Buffer{}); err == nil {
		t.Error("Ожидалась ошибка для неизвестного уровня")
	}
}
