package main

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"
	"github.com/spf13/cobra"

	"github.com/hazadus/go-jukebox/internal/media"
)

var (
	videoIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`),
		regexp.MustCompile(`(?:youtube\.com/embed/)([a-zA-Z0-9_-]{11})`),
		regexp.MustCompile(`(?:youtube\.com/v/)([a-zA-Z0-9_-]{11})`),
	}
	bareVideoID     = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	invalidFileName = regexp.MustCompile(`[<>:"/\\|?*]`)
)

// createDownloadCommand создает команду download с привязкой к экземпляру приложения
func (app *Application) createDownloadCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "download [YouTube URL]",
		Short: "Download audio from a YouTube video into the playlist",
		Long:  `Download the audio stream of a YouTube video into the media library and add it to the playlist.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			downloadCtx, cancel := context.WithTimeout(ctx, 30*time.Minute)
			defer cancel()
			return app.downloadYouTubeAudio(downloadCtx, args[0])
		},
	}
}

// downloadYouTubeAudio скачивает аудио из YouTube видео и добавляет его в плейлист
func (app *Application) downloadYouTubeAudio(ctx context.Context, url string) error {
	videoID, err := extractVideoID(url)
	if err != nil {
		return fmt.Errorf("ошибка извлечения ID видео: %w", err)
	}

	fmt.Printf("Скачиваем аудио для видео ID: %s\n", videoID)

	client := youtube.Client{}
	video, err := client.GetVideoContext(ctx, videoID)
	if err != nil {
		return fmt.Errorf("ошибка получения информации о видео: %w", err)
	}

	fmt.Printf("Название: %s\n", video.Title)
	fmt.Printf("Автор: %s\n", video.Author)

	audioFormat := findBestAudioFormat(video.Formats)
	if audioFormat == nil {
		return fmt.Errorf("аудио формат не найден")
	}

	fmt.Printf("Используем формат: itag=%d, качество=%s\n", audioFormat.ItagNo, audioFormat.Quality)

	stream, size, err := client.GetStreamContext(ctx, video, audioFormat)
	if err != nil {
		return fmt.Errorf("ошибка получения потока: %w", err)
	}
	defer stream.Close()

	fileName := sanitizeFileName(video.Title) + extensionForMime(audioFormat.MimeType)
	startTime := time.Now()

	result, err := app.Importer.ImportReader(ctx, fileName, stream, size, media.ImportOptions{
		Name:   video.Title,
		Artist: video.Author,
		OnProgress: func(read, total int64) {
			printTransferProgress(read, total, time.Since(startTime))
		},
	})
	fmt.Println()
	if err != nil {
		return fmt.Errorf("ошибка скачивания: %w", err)
	}

	fmt.Printf("✅ Аудио добавлено в плейлист: %s (ID %s)\n", result.Track.Filename, result.Track.ID)
	return nil
}

// extractVideoID извлекает ID видео из различных форматов YouTube URL
func extractVideoID(url string) (string, error) {
	for _, re := range videoIDPatterns {
		if matches := re.FindStringSubmatch(url); len(matches) > 1 {
			return matches[1], nil
		}
	}

	// Если это просто ID видео (11 символов)
	if bareVideoID.MatchString(url) {
		return url, nil
	}

	return "", fmt.Errorf("не удалось извлечь ID видео из URL: %s", url)
}

// findBestAudioFormat находит лучший аудио формат для скачивания
func findBestAudioFormat(formats youtube.FormatList) *youtube.Format {
	audioFormats := formats.WithAudioChannels()
	if len(audioFormats) == 0 {
		return nil
	}

	// Предпочитаем только аудио, затем MP4/M4A, затем больший битрейт
	best := &audioFormats[0]
	for i := range audioFormats {
		format := &audioFormats[i]
		if better(format, best) {
			best = format
		}
	}
	return best
}

func better(a, b *youtube.Format) bool {
	aAudio, bAudio := strings.HasPrefix(a.MimeType, "audio/"), strings.HasPrefix(b.MimeType, "audio/")
	if aAudio != bAudio {
		return aAudio
	}
	aMP4, bMP4 := strings.Contains(a.MimeType, "mp4"), strings.Contains(b.MimeType, "mp4")
	if aMP4 != bMP4 {
		return aMP4
	}
	return a.Bitrate > b.Bitrate
}

// extensionForMime подбирает расширение файла по MIME типу потока
func extensionForMime(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "mp4"):
		return ".m4a"
	case strings.Contains(mimeType, "webm"):
		return ".opus"
	case strings.Contains(mimeType, "mpeg"):
		return ".mp3"
	default:
		return ".m4a"
	}
}

// sanitizeFileName очищает имя файла от недопустимых символов
func sanitizeFileName(name string) string {
	name = invalidFileName.ReplaceAllString(name, "_")
	name = strings.TrimSpace(name)

	// Ограничиваем длину имени файла, не разрезая символы
	if runes := []rune(name); len(runes) > 200 {
		name = string(runes[:200])
	}
	if name == "" {
		name = "track"
	}
	return name
}
