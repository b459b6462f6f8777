package main

import (
	"context"

	"github.com/spf13/cobra"
)

// createRootCommand создает корневую команду с настроенными подкомандами
func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "jukebox",
		Short:         "A terminal music player with a persistent playlist",
		Long:          `Manage a playlist of audio files and play it from the command line or an interactive terminal UI.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Добавляем команды, передавая в них экземпляр приложения и контекст
	rootCmd.AddCommand(app.createListCommand())
	rootCmd.AddCommand(app.createAddCommand(ctx))
	rootCmd.AddCommand(app.createDeleteCommand(ctx))
	rootCmd.AddCommand(app.createSearchCommand())
	rootCmd.AddCommand(app.createPlayCommand(ctx))
	rootCmd.AddCommand(app.createDownloadCommand(ctx))
	rootCmd.AddCommand(app.createThemeCommand())
	rootCmd.AddCommand(app.createTUICommand())

	return rootCmd
}
