package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-jukebox/internal/media"
	"github.com/hazadus/go-jukebox/internal/playback"
	"github.com/hazadus/go-jukebox/internal/utils"
)

// createAddCommand создает команду add с привязкой к экземпляру приложения
func (app *Application) createAddCommand(ctx context.Context) *cobra.Command {
	var opts media.ImportOptions
	var noCopy bool

	cmd := &cobra.Command{
		Use:   "add [file path]",
		Short: "Add an audio file to the playlist",
		Long: `Copy an audio file into the media library and add it to the playlist.
Name and artist default to the file's tags, then to the "Artist - Title" file name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Создаем контекст с таймаутом для копирования (10 минут)
			importCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
			defer cancel()

			opts.Copy = !noCopy
			return app.addTrack(importCtx, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "название трека")
	cmd.Flags().StringVar(&opts.Artist, "artist", "", "исполнитель")
	cmd.Flags().BoolVar(&noCopy, "no-copy", false, "не копировать файл, он уже лежит в медиатеке")
	return cmd
}

func (app *Application) addTrack(ctx context.Context, filePath string, opts media.ImportOptions) error {
	fmt.Printf("📤 Добавляем файл: %s\n", filePath)

	startTime := time.Now()
	if opts.Copy {
		opts.OnProgress = func(read, total int64) {
			printTransferProgress(read, total, time.Since(startTime))
		}
	}

	result, err := app.Importer.ImportFile(ctx, filePath, opts)
	if opts.Copy {
		fmt.Println()
	}
	if err != nil {
		fmt.Printf("❌ Ошибка добавления: %v\n", err)
		return err
	}

	t := result.Track
	fmt.Printf("✅ Трек добавлен в плейлист\n")
	fmt.Printf("   ID: %s\n", t.ID)
	fmt.Printf("   Название: %s\n", t.Name)
	fmt.Printf("   Исполнитель: %s\n", t.Artist)
	fmt.Printf("   Размер: %s\n", media.FormatFileSize(result.FileInfo.Size))
	if result.FileInfo.Duration > 0 {
		fmt.Printf("   Продолжительность: %s\n", utils.FormatDuration(result.FileInfo.Duration))
	}
	return nil
}

// printTransferProgress выводит прогресс копирования в одну строку
func printTransferProgress(read, total int64, elapsed time.Duration) {
	if read <= 0 {
		return
	}

	speed := float64(read) / elapsed.Seconds()
	if total <= 0 {
		fmt.Printf("\r📊 Загружено: %s | Скорость: %s/s",
			media.FormatFileSize(read),
			media.FormatFileSize(int64(speed)))
		return
	}

	percentage := float64(read) / float64(total) * 100
	var remaining time.Duration
	if speed > 0 {
		remaining = time.Duration(float64(total-read)/speed) * time.Second
	}
	fmt.Printf("\r📊 Прогресс: %.1f%% | Скорость: %s/s | Прошло: %s | Осталось: %s",
		percentage,
		media.FormatFileSize(int64(speed)),
		playback.FormatTime(elapsed),
		playback.FormatTime(remaining))
}
