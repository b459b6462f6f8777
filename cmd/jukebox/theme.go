package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-jukebox/internal/theme"
)

// createThemeCommand создает команду theme с привязкой к экземпляру приложения
func (app *Application) createThemeCommand() *cobra.Command {
	themeCmd := &cobra.Command{
		Use:   "theme",
		Short: "Show the UI theme",
		Long:  `Show the light/dark theme used by the terminal UI.`,
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("🎨 Тема: %s\n", themeLabel(app.Theme.Name()))
		},
	}

	themeCmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark theme",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if _, err := app.Theme.Toggle(); err != nil {
				fmt.Printf("❌ Не удалось сохранить тему: %v\n", err)
				return err
			}
			fmt.Printf("🎨 Тема переключена: %s\n", themeLabel(app.Theme.Name()))
			return nil
		},
	})

	return themeCmd
}

func themeLabel(name string) string {
	if name == theme.Light {
		return "светлая"
	}
	return "темная"
}
