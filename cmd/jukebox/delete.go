package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-jukebox/internal/track"
)

// createDeleteCommand создает команду delete с привязкой к экземпляру приложения
func (app *Application) createDeleteCommand(ctx context.Context) *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a track by ID",
		Long:  `Remove a track from the playlist. With --purge the file is also deleted from the media library.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.deleteTrack(ctx, args[0], purge)
		},
	}

	cmd.Flags().BoolVar(&purge, "purge", false, "удалить файл из медиатеки")
	return cmd
}

func (app *Application) deleteTrack(ctx context.Context, id string, purge bool) error {
	removed, err := app.Importer.Remove(ctx, id, purge)
	if removed == nil && err == nil {
		fmt.Printf("❌ Трек с ID %s не найден\n", id)
		return fmt.Errorf("%w: %s", track.ErrNotFound, id)
	}
	if removed != nil {
		fmt.Printf("🗑️  Удален трек: %s - %s\n", removed.Artist, removed.Name)
	}
	if err != nil {
		fmt.Printf("⚠️  %v\n", err)
		return err
	}

	if purge {
		fmt.Println("✅ Файл удален из медиатеки")
	}
	return nil
}
