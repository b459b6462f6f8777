// Package logging настраивает структурированное логирование приложения
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Setup создает текстовый логгер с указанным уровнем и делает его логгером по умолчанию.
// Если file пуст, логи пишутся в fallback. Возвращаемая функция закрывает файл логов.
func Setup(level, file string, fallback io.Writer) (*slog.Logger, func() error, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("некорректный уровень логирования %q: %w", level, err)
	}

	out := fallback
	closeFn := func() error { return nil }
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return nil, nil, fmt.Errorf("ошибка создания каталога логов: %w", err)
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("ошибка открытия файла логов: %w", err)
		}
		out = f
		closeFn = f.Close
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger, closeFn, nil
}
