package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-jukebox/internal/track"
)

// createSearchCommand создает команду search с привязкой к экземпляру приложения
func (app *Application) createSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search [term]",
		Short: "Search tracks by name or artist",
		Long:  `Case-insensitive substring search over track names and artists.`,
		Args:  cobra.MinimumNArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			app.searchTracks(strings.Join(args, " "))
		},
	}
}

func (app *Application) searchTracks(term string) {
	result := track.Search(app.Store.All(), term)
	if !result.Active {
		fmt.Println("🔍 Пустой запрос")
		return
	}
	if len(result.Matches) == 0 {
		fmt.Printf("🔍 Ничего не найдено по запросу «%s»\n", result.Term)
		return
	}

	fmt.Printf("🔍 Найдено треков: %d\n\n", len(result.Matches))
	printTracks(result.Matches)
}
