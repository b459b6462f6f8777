// Package metadata извлекает название и исполнителя из аудиофайлов
package metadata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/mp3"
)

// TrackMetadata хранит метаданные трека
type TrackMetadata struct {
	Artist string
	Title  string
	Album  string
}

// FileInfo содержит информацию о файле
type FileInfo struct {
	Size     int64
	Duration time.Duration // 0, если длительность определить не удалось
}

// Extractor извлекает метаданные из аудио файлов
type Extractor struct{}

// NewExtractor создает новый экстрактор метаданных
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractFromReader читает теги; недостающие поля берутся из имени файла source
func (e *Extractor) ExtractFromReader(reader io.ReadSeeker, source string) TrackMetadata {
	fallback := FromFilename(source)

	// Сбрасываем reader в начало
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return fallback
	}

	tags, err := tag.ReadFrom(reader)
	if err != nil {
		return fallback
	}

	result := TrackMetadata{
		Artist: strings.TrimSpace(tags.Artist()),
		Title:  strings.TrimSpace(tags.Title()),
		Album:  strings.TrimSpace(tags.Album()),
	}
	if result.Title == "" {
		result.Title = fallback.Title
	}
	if result.Artist == "" {
		result.Artist = fallback.Artist
	}
	return result
}

// ExtractFromFile извлекает метаданные из файла
func (e *Extractor) ExtractFromFile(filePath string) TrackMetadata {
	file, err := os.Open(filePath)
	if err != nil {
		return FromFilename(filePath)
	}
	defer file.Close()

	return e.ExtractFromReader(file, filePath)
}

// GetDuration получает длительность MP3 файла
func (e *Extractor) GetDuration(filePath string) (time.Duration, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	streamer, format, err := mp3.Decode(file)
	if err != nil {
		return 0, fmt.Errorf("ошибка декодирования MP3: %w", err)
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()), nil
}

// GetFileInfo получает размер файла и, если получится, длительность
func (e *Extractor) GetFileInfo(filePath string) (*FileInfo, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения информации о файле: %w", err)
	}

	info := &FileInfo{Size: fileInfo.Size()}
	if strings.EqualFold(filepath.Ext(filePath), ".mp3") {
		if duration, err := e.GetDuration(filePath); err == nil {
			info.Duration = duration
		}
	}
	return info, nil
}

// FromFilename разбирает имя файла в формате "Artist - Title".
// Если разделителя нет, название совпадает с именем файла без расширения, а исполнитель пуст.
func FromFilename(source string) TrackMetadata {
	fileName := filepath.Base(source)
	nameWithoutExt := strings.TrimSuffix(fileName, filepath.Ext(fileName))

	parts := strings.Split(nameWithoutExt, " - ")
	if len(parts) >= 2 {
		return TrackMetadata{
			Artist: strings.TrimSpace(parts[0]),
			Title:  strings.TrimSpace(strings.Join(parts[1:], " - ")),
		}
	}

	return TrackMetadata{Title: strings.TrimSpace(nameWithoutExt)}
}
