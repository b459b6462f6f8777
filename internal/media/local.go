package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalLibrary медиатека в локальном каталоге
type LocalLibrary struct {
	dir string
}

// NewLocalLibrary создает медиатеку в каталоге dir
func NewLocalLibrary(dir string) *LocalLibrary {
	return &LocalLibrary{dir: dir}
}

// Dir возвращает каталог медиатеки
func (l *LocalLibrary) Dir() string {
	return l.dir
}

// Ref возвращает путь к файлу
func (l *LocalLibrary) Ref(filename string) string {
	return filepath.Join(l.dir, filepath.Base(filename))
}

// Import копирует содержимое в каталог медиатеки через временный файл
func (l *LocalLibrary) Import(ctx context.Context, filename string, r io.Reader) error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("ошибка создания каталога медиатеки: %w", err)
	}

	tmp, err := os.CreateTemp(l.dir, ".import-*")
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, contextReader{ctx: ctx, r: r}); err != nil {
		tmp.Close()
		return fmt.Errorf("ошибка копирования файла: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("ошибка записи файла: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.Ref(filename)); err != nil {
		return fmt.Errorf("ошибка сохранения файла: %w", err)
	}
	return nil
}

// Remove удаляет файл; отсутствующий файл не считается ошибкой
func (l *LocalLibrary) Remove(_ context.Context, filename string) error {
	if err := os.Remove(l.Ref(filename)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("ошибка удаления файла: %w", err)
	}
	return nil
}

// contextReader прерывает чтение при отмене контекста
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
