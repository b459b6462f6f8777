package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hazadus/go-jukebox/internal/metadata"
	"github.com/hazadus/go-jukebox/internal/track"
)

// ImportOptions параметры добавления трека
type ImportOptions struct {
	Name       string                   // если пусто, берется из тегов или имени файла
	Artist     string                   // если пусто, берется из тегов или имени файла
	Copy       bool                     // копировать файл в медиатеку
	OnProgress func(read, total int64) // прогресс копирования
}

// ImportResult результат добавления трека
type ImportResult struct {
	Track    track.Track
	FileInfo *metadata.FileInfo
}

// Importer добавляет аудиофайлы в медиатеку и плейлист
type Importer struct {
	library   Library
	store     *track.Store
	extractor *metadata.Extractor
	logger    *slog.Logger
}

// NewImporter создает сервис добавления треков
func NewImporter(library Library, store *track.Store, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		library:   library,
		store:     store,
		extractor: metadata.NewExtractor(),
		logger:    logger,
	}
}

// ImportFile добавляет локальный файл. Название и исполнитель, не заданные явно,
// берутся из тегов, а затем из имени файла.
func (i *Importer) ImportFile(ctx context.Context, filePath string, opts ImportOptions) (*ImportResult, error) {
	filename := filepath.Base(filePath)
	if err := i.precheck(filename); err != nil {
		return nil, err
	}

	fileInfo, err := i.extractor.GetFileInfo(filePath)
	if err != nil {
		return nil, err
	}

	suggested := i.extractor.ExtractFromFile(filePath)
	candidate := track.Candidate{
		Name:     firstNonEmpty(opts.Name, suggested.Title),
		Artist:   firstNonEmpty(opts.Artist, suggested.Artist),
		Filename: filename,
	}
	if !complete(candidate) {
		return nil, track.ErrIncompleteInput
	}

	if opts.Copy {
		file, err := os.Open(filePath)
		if err != nil {
			return nil, fmt.Errorf("ошибка открытия файла: %w", err)
		}
		defer file.Close()

		if err := i.library.Import(ctx, filename, i.wrap(file, fileInfo.Size, opts)); err != nil {
			return nil, fmt.Errorf("ошибка добавления файла в медиатеку: %w", err)
		}
	}

	added, err := i.add(ctx, candidate, opts.Copy)
	if err != nil {
		return nil, err
	}
	return &ImportResult{Track: added, FileInfo: fileInfo}, nil
}

// ImportReader добавляет трек из потока, например загруженного из сети
func (i *Importer) ImportReader(ctx context.Context, filename string, r io.Reader, size int64, opts ImportOptions) (*ImportResult, error) {
	filename = filepath.Base(filename)
	if err := i.precheck(filename); err != nil {
		return nil, err
	}

	suggested := metadata.FromFilename(filename)
	candidate := track.Candidate{
		Name:     firstNonEmpty(opts.Name, suggested.Title),
		Artist:   firstNonEmpty(opts.Artist, suggested.Artist),
		Filename: filename,
	}
	if !complete(candidate) {
		return nil, track.ErrIncompleteInput
	}

	if err := i.library.Import(ctx, filename, i.wrap(r, size, opts)); err != nil {
		return nil, fmt.Errorf("ошибка добавления файла в медиатеку: %w", err)
	}

	added, err := i.add(ctx, candidate, true)
	if err != nil {
		return nil, err
	}
	return &ImportResult{Track: added, FileInfo: &metadata.FileInfo{Size: size}}, nil
}

// Remove удаляет трек из плейлиста и, если purge, его файл из медиатеки.
// Возвращает nil, если трека нет.
func (i *Importer) Remove(ctx context.Context, id string, purge bool) (*track.Track, error) {
	removed, err := i.store.Remove(id)
	if err != nil || removed == nil {
		return removed, err
	}
	if purge {
		if err := i.library.Remove(ctx, removed.Filename); err != nil {
			return removed, fmt.Errorf("трек удален из плейлиста, но файл не удален: %w", err)
		}
	}
	return removed, nil
}

func (i *Importer) precheck(filename string) error {
	if err := CheckAudio(filename); err != nil {
		return err
	}
	if i.store.HasFilename(filename) {
		return fmt.Errorf("%w: %s", track.ErrDuplicateFilename, filename)
	}
	return nil
}

// add добавляет трек в плейлист; при ошибке скопированный файл удаляется
func (i *Importer) add(ctx context.Context, candidate track.Candidate, copied bool) (track.Track, error) {
	added, err := i.store.Add(candidate)
	if err != nil {
		if copied {
			if rmErr := i.library.Remove(ctx, candidate.Filename); rmErr != nil {
				i.logger.Warn("не удалось удалить файл после ошибки", "filename", candidate.Filename, "err", rmErr)
			}
		}
		return track.Track{}, err
	}
	i.logger.Info("трек добавлен", "id", added.ID, "filename", added.Filename)
	return added, nil
}

func (i *Importer) wrap(r io.Reader, size int64, opts ImportOptions) io.Reader {
	if opts.OnProgress == nil {
		return r
	}
	return &ProgressReader{Reader: r, Size: size, OnProgress: opts.OnProgress}
}

func complete(c track.Candidate) bool {
	return strings.TrimSpace(c.Name) != "" && strings.TrimSpace(c.Artist) != "" && strings.TrimSpace(c.Filename) != ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
