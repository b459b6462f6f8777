package main

import (
	"github.com/spf13/cobra"

	"github.com/hazadus/go-jukebox/internal/player"
	"github.com/hazadus/go-jukebox/internal/tui"
	tuiapp "github.com/hazadus/go-jukebox/internal/tui/app"
)

// createTUICommand создает команду tui с привязкой к экземпляру приложения
func (app *Application) createTUICommand() *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch TUI (Terminal User Interface)",
		Long:  `Launch interactive terminal user interface for managing and playing the playlist.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.launchTUI(purge)
		},
	}

	cmd.Flags().BoolVar(&purge, "purge", false, "удалять файлы из медиатеки вместе с треками")
	return cmd
}

func (app *Application) launchTUI(purge bool) error {
	p := player.NewPlayer()
	defer p.Close()

	controller, err := app.newController(p)
	if err != nil {
		return err
	}
	defer controller.Close()

	field, order := app.sortPreference()
	tuiApp := tui.NewApp(tuiapp.Deps{
		Store:      app.Store,
		Controller: controller,
		Importer:   app.Importer,
		Feed:       p,
		Theme:      app.Theme,
		Sorter:     app.Sorter,
		SortField:  field,
		SortOrder:  order,
		Purge:      purge,
	})

	return tuiApp.Run()
}
