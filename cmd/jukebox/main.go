package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/hazadus/go-jukebox/internal/config"
	"github.com/hazadus/go-jukebox/internal/logging"
	"github.com/hazadus/go-jukebox/internal/media"
	"github.com/hazadus/go-jukebox/internal/playback"
	"github.com/hazadus/go-jukebox/internal/s3"
	"github.com/hazadus/go-jukebox/internal/storage"
	"github.com/hazadus/go-jukebox/internal/theme"
	"github.com/hazadus/go-jukebox/internal/track"
)

// Application содержит зависимости команд
type Application struct {
	Config   *config.Config
	Logger   *slog.Logger
	Store    *track.Store
	Library  media.Library
	Importer *media.Importer
	Theme    *theme.Preference
	Sorter   *track.Sorter

	closeLog func() error
}

// NewApplication создает приложение: открывает файл данных, медиатеку и загружает плейлист
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	st, err := storage.NewFile(cfg.DataFile)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла данных: %w", err)
	}

	library, err := newLibrary(cfg)
	if err != nil {
		return nil, err
	}

	return newApplication(cfg, logger, st, library)
}

// newApplication собирает приложение поверх готовых хранилища и медиатеки
func newApplication(cfg *config.Config, logger *slog.Logger, st storage.Storage, library media.Library) (*Application, error) {
	store := track.NewStore(st, track.WithLogger(logger))
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("ошибка загрузки плейлиста: %w", err)
	}

	pref := theme.New(st)
	if err := pref.Load(terminalIsLight()); err != nil {
		return nil, fmt.Errorf("ошибка загрузки темы: %w", err)
	}

	return &Application{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Library:  library,
		Importer: media.NewImporter(library, store, logger),
		Theme:    pref,
		Sorter:   track.NewSorter(cfg.LocaleTag()),
	}, nil
}

func newLibrary(cfg *config.Config) (media.Library, error) {
	if !cfg.UseS3() {
		return media.NewLocalLibrary(cfg.MediaDir), nil
	}

	uploader, err := s3.NewUploader(&s3.Config{
		Region:     cfg.AwsRegion,
		AccessKey:  cfg.AwsAccessKey,
		SecretKey:  cfg.AwsSecretKey,
		Endpoint:   cfg.AwsEndpoint,
		BucketName: cfg.AwsBucketName,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания S3 клиента: %w", err)
	}
	return media.NewS3Library(uploader), nil
}

// terminalIsLight определяет тему по умолчанию по фону терминала
func terminalIsLight() bool {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return false
	}
	return !lipgloss.HasDarkBackground()
}

// newController создает контроллер воспроизведения с настройками из конфигурации
func (app *Application) newController(out playback.Media) (*playback.Controller, error) {
	mode, err := playback.ParseRepeatMode(app.Config.RepeatMode)
	if err != nil {
		return nil, err
	}

	controller := playback.New(app.Store, out,
		playback.WithResolver(app.Library.Ref),
		playback.WithRepeatMode(mode),
		playback.WithLogger(app.Logger),
	)
	controller.SetVolume(app.Config.VolumeLevel())
	return controller, nil
}

// sortPreference возвращает сортировку из конфигурации
func (app *Application) sortPreference() (track.SortField, track.SortOrder) {
	// Значения проверены при загрузке конфигурации
	field, _ := track.ParseSortField(app.Config.SortBy)
	order, _ := track.ParseSortOrder(app.Config.SortOrder)
	return field, order
}

// Close освобождает ресурсы приложения
func (app *Application) Close() error {
	if app.closeLog != nil {
		return app.closeLog()
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(config.DefaultPath)
	if err != nil {
		fmt.Printf("❌ Ошибка загрузки конфигурации: %v\n", err)
		os.Exit(1)
	}

	// В TUI логи без файла мешают отрисовке
	var fallback io.Writer = os.Stderr
	if len(os.Args) > 1 && os.Args[1] == "tui" {
		fallback = io.Discard
	}
	logger, closeLog, err := logging.Setup(cfg.LogLevel, cfg.LogFile, fallback)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	app, err := NewApplication(cfg, logger)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		_ = closeLog()
		os.Exit(1)
	}
	app.closeLog = closeLog
	defer app.Close()

	if err := app.createRootCommand(ctx).Execute(); err != nil {
		app.Close()
		os.Exit(1)
	}
}
