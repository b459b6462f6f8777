package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-jukebox/internal/track"
	"github.com/hazadus/go-jukebox/internal/utils"
)

// createListCommand создает команду list с привязкой к экземпляру приложения
func (app *Application) createListCommand() *cobra.Command {
	var sortBy, order string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all tracks in the playlist",
		Long:  `Display the playlist as a table, sorted by date added, name or artist.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			field, err := track.ParseSortField(sortBy)
			if err != nil {
				return err
			}
			sortOrder, err := track.ParseSortOrder(order)
			if err != nil {
				return err
			}
			app.listTracks(field, sortOrder)
			return nil
		},
	}

	cmd.Flags().StringVar(&sortBy, "sort", app.Config.SortBy, "поле сортировки: added, name, artist")
	cmd.Flags().StringVar(&order, "order", app.Config.SortOrder, "направление сортировки: asc, desc")
	return cmd
}

func (app *Application) listTracks(field track.SortField, order track.SortOrder) {
	tracks := app.Store.All()
	if len(tracks) == 0 {
		fmt.Println("📚 Плейлист пуст. Добавьте треки с помощью команды 'add'.")
		return
	}

	fmt.Printf("📚 Треков в плейлисте: %d\n\n", len(tracks))
	printTracks(app.Sorter.Sort(tracks, field, order))

	fmt.Println()
	fmt.Println("💡 Используйте 'jukebox play [ID]' для воспроизведения трека")
}

// printTracks выводит треки таблицей с номерами строк
func printTracks(tracks []track.Track) {
	fmt.Printf("%-4s %s %s %-10s %s\n",
		"#",
		utils.PadRight("Название", 32),
		utils.PadRight("Исполнитель", 24),
		"Добавлен",
		"ID")
	fmt.Println(strings.Repeat("-", 90))

	for i, t := range tracks {
		fmt.Printf("%-4d %s %s %-10s %s\n",
			i+1,
			utils.PadRight(utils.TruncateString(t.Name, 30), 32),
			utils.PadRight(utils.TruncateString(t.Artist, 22), 24),
			t.AddedDate(),
			t.ID)
	}
}
