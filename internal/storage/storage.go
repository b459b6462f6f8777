// Package storage содержит примитив персистентности ключ-значение
package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Storage хранит строковые значения по ключам.
// Отсутствие ключа не является ошибкой: Get возвращает ok == false.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// fileData структура файла данных
type fileData struct {
	Values map[string]string `yaml:"values"`
}

// File хранит значения в YAML файле. Каждый Set перезаписывает файл целиком.
type File struct {
	path  string
	mutex sync.Mutex
}

// NewFile создает хранилище поверх файла. Тильда в пути раскрывается в домашний каталог.
func NewFile(filePath string) (*File, error) {
	path, err := ExpandHome(filePath)
	if err != nil {
		return nil, err
	}
	return &File{path: path}, nil
}

// Path возвращает путь к файлу данных
func (f *File) Path() string {
	return f.path
}

// Get возвращает значение по ключу
func (f *File) Get(key string) (string, bool, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	values, err := f.read()
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

// Set сохраняет значение и записывает файл
func (f *File) Set(key, value string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	values[key] = value

	data, err := yaml.Marshal(fileData{Values: values})
	if err != nil {
		return fmt.Errorf("ошибка сериализации данных: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("ошибка создания каталога данных: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("ошибка записи файла данных: %w", err)
	}
	return nil
}

// read читает файл (должен вызываться под мьютексом)
func (f *File) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		// Если файл не найден, считаем хранилище пустым
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("ошибка чтения файла данных: %w", err)
	}
	if len(data) == 0 {
		return map[string]string{}, nil
	}

	var content fileData
	if err := yaml.Unmarshal(data, &content); err != nil {
		// Поврежденный файл откладываем в сторону и начинаем с пустого хранилища
		backup := f.path + ".corrupt"
		if renameErr := os.Rename(f.path, backup); renameErr != nil {
			slog.Warn("не удалось отложить поврежденный файл данных", "path", f.path, "err", renameErr)
			backup = ""
		}
		slog.Warn("поврежденный файл данных заменен пустым", "path", f.path, "backup", backup, "err", err)
		return map[string]string{}, nil
	}
	if content.Values == nil {
		content.Values = map[string]string{}
	}
	return content.Values, nil
}

// Memory хранит значения в памяти; используется в тестах и как запасной вариант
type Memory struct {
	values map[string]string
	mutex  sync.RWMutex
	setErr error
}

// NewMemory создает пустое хранилище в памяти
func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

// Get возвращает значение по ключу
func (m *Memory) Get(key string) (string, bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

// Set сохраняет значение
func (m *Memory) Set(key, value string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

// FailWrites заставляет последующие Set возвращать err (nil снимает отказ)
func (m *Memory) FailWrites(err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.setErr = err
}

// ExpandHome раскрывает ведущую тильду в домашний каталог пользователя
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
