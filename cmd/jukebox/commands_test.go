package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazadus/go-jukebox/internal/config"
	"github.com/hazadus/go-jukebox/internal/media"
	"github.com/hazadus/go-jukebox/internal/playback"
	"github.com/hazadus/go-jukebox/internal/player"
	"github.com/hazadus/go-jukebox/internal/storage"
	"github.com/hazadus/go-jukebox/internal/theme"
	"github.com/hazadus/go-jukebox/internal/track"
)

// captureOutput перехватывает stdout и stderr во время выполнения функции
func captureOutput(t *testing.T, fn func()) string {
	oldStdout := os.Stdout
	oldStderr := os.Stderr

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Ошибка создания pipe: %v", err)
	}

	os.Stdout = w
	os.Stderr = w

	fn()

	os.Stdout = oldStdout
	os.Stderr = oldStderr

	w.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("Ошибка чтения результата: %v", err)
	}

	return buf.String()
}

// createTestApplication создает тестовое приложение с данными в памяти и медиатекой во временной директории
func createTestApplication(t *testing.T, mediaDir string) *Application {
	t.Helper()

	cfg := config.Default()
	cfg.MediaDir = mediaDir
	cfg.Locale = "en"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := newApplication(cfg, logger, storage.NewMemory(), media.NewLocalLibrary(mediaDir))
	if err != nil {
		t.Fatalf("Ошибка создания приложения: %v", err)
	}
	return app
}

func addTestTrack(t *testing.T, app *Application, name, artist, filename string) track.Track {
	t.Helper()
	added, err := app.Store.Add(track.Candidate{Name: name, Artist: artist, Filename: filename})
	if err != nil {
		t.Fatalf("Ошибка добавления трека: %v", err)
	}
	return added
}

// TestCmdList проверяет, что команда `list` корректно выводит список треков
func TestCmdList(t *testing.T) {
	app := createTestApplication(t, t.TempDir())
	added := addTestTrack(t, app, "Test Title", "Test Artist", "test.mp3")

	listCmd := app.createListCommand()

	output := captureOutput(t, func() {
		listCmd.SetArgs([]string{})
		if err := listCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды list: %v", err)
		}
	})

	expectedStrings := []string{
		"📚 Треков в плейлисте: 1",
		"Test Artist",
		"Test Title",
		added.AddedDate(),
		added.ID,
	}

	for _, expected := range expectedStrings {
		if !strings.Contains(output, expected) {
			t.Errorf("Вывод команды list не содержит ожидаемую строку '%s': %s", expected, output)
		}
	}
}

// TestCmdListSorted проверяет флаги сортировки
func TestCmdListSorted(t *testing.T) {
	app := createTestApplication(t, t.TempDir())
	addTestTrack(t, app, "banana", "Artist", "b.mp3")
	addTestTrack(t, app, "Apple", "Artist", "a.mp3")
	addTestTrack(t, app, "cherry", "Artist", "c.mp3")

	listCmd := app.createListCommand()

	output := captureOutput(t, func() {
		listCmd.SetArgs([]string{"--sort", "name", "--order", "asc"})
		if err := listCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды list: %v", err)
		}
	})

	apple := strings.Index(output, "Apple")
	banana := strings.Index(output, "banana")
	cherry := strings.Index(output, "cherry")
	if apple == -1 || !(apple < banana && banana < cherry) {
		t.Errorf("Ожидался порядок Apple, banana, cherry: %s", output)
	}
}

// TestCmdListInvalidSort проверяет неверное значение флага
func TestCmdListInvalidSort(t *testing.T) {
	app := createTestApplication(t, t.TempDir())
	listCmd := app.createListCommand()

	captureOutput(t, func() {
		listCmd.SetArgs([]string{"--sort", "duration"})
		if err := listCmd.Execute(); err == nil {
			t.Error("Ожидалась ошибка для неизвестного поля сортировки")
		}
	})
}

// TestCmdListEmpty проверяет, что команда `list` корректно обрабатывает пустой плейлист
func TestCmdListEmpty(t *testing.T) {
	app := createTestApplication(t, t.TempDir())
	listCmd := app.createListCommand()

	output := captureOutput(t, func() {
		listCmd.SetArgs([]string{})
		if err := listCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды list: %v", err)
		}
	})

	if !strings.Contains(output, "📚 Плейлист пуст") {
		t.Errorf("Команда list не отобразила сообщение о пустом плейлисте: %s", output)
	}
}

// TestCmdDelete проверяет, что команда `delete` удаляет указанный трек
func TestCmdDelete(t *testing.T) {
	app := createTestApplication(t, t.TempDir())
	first := addTestTrack(t, app, "Title 1", "Artist 1", "test1.mp3")
	addTestTrack(t, app, "Title 2", "Artist 2", "test2.mp3")

	deleteCmd := app.createDeleteCommand(context.Background())

	output := captureOutput(t, func() {
		deleteCmd.SetArgs([]string{first.ID})
		if err := deleteCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды delete: %v", err)
		}
	})

	if !strings.Contains(output, "🗑️  Удален трек: Artist 1 - Title 1") {
		t.Errorf("Команда delete не отобразила ожидаемый вывод: %s", output)
	}

	if app.Store.Len() != 1 {
		t.Errorf("Ожидался 1 трек после удаления, получено %d", app.Store.Len())
	}

	remaining, _ := app.Store.At(0)
	if remaining.Artist != "Artist 2" {
		t.Errorf("Ожидался Artist: Artist 2, получено: %s", remaining.Artist)
	}
}

// TestCmdDeletePurge проверяет удаление файла из медиатеки
func TestCmdDeletePurge(t *testing.T) {
	mediaDir := t.TempDir()
	app := createTestApplication(t, mediaDir)
	added := addTestTrack(t, app, "Title", "Artist", "song.mp3")

	path := filepath.Join(mediaDir, "song.mp3")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	deleteCmd := app.createDeleteCommand(context.Background())
	output := captureOutput(t, func() {
		deleteCmd.SetArgs([]string{added.ID, "--purge"})
		if err := deleteCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды delete: %v", err)
		}
	})

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Файл должен быть удален из медиатеки")
	}
	if !strings.Contains(output, "✅ Файл удален из медиатеки") {
		t.Errorf("Неожиданный вывод: %s", output)
	}
}

// TestCmdDeleteNotFound проверяет обработку несуществующего ID в команде delete
func TestCmdDeleteNotFound(t *testing.T) {
	app := createTestApplication(t, t.TempDir())
	addTestTrack(t, app, "Title", "Artist", "song.mp3")

	deleteCmd := app.createDeleteCommand(context.Background())

	output := captureOutput(t, func() {
		deleteCmd.SetArgs([]string{"invalid"})
		err := deleteCmd.Execute()
		if !errors.Is(err, track.ErrNotFound) {
			t.Errorf("Ожидалась ошибка ErrNotFound, получено %v", err)
		}
	})

	if !strings.Contains(output, "❌ Трек с ID invalid не найден") {
		t.Errorf("Команда delete не отобразила ошибку для неверного ID: %s", output)
	}
	if app.Store.Len() != 1 {
		t.Errorf("Плейлист не должен измениться, получено %d треков", app.Store.Len())
	}
}

// TestCmdSearch проверяет поиск по названию и исполнителю
func TestCmdSearch(t *testing.T) {
	app := createTestApplication(t, t.TempDir())
	addTestTrack(t, app, "Yellow", "Coldplay", "yellow.mp3")
	addTestTrack(t, app, "Animals", "Muse", "animals.mp3")
	addTestTrack(t, app, "Clocks", "Coldplay", "clocks.mp3")
	app.Config.SortBy = "name"
	app.Config.SortOrder = "asc"

	searchCmd := app.createSearchCommand()

	output := captureOutput(t, func() {
		searchCmd.SetArgs([]string{"COLD"})
		if err := searchCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды search: %v", err)
		}
	})

	if !strings.Contains(output, "🔍 Найдено треков: 2") {
		t.Errorf("Неожиданный вывод: %s", output)
	}
	if strings.Contains(output, "Animals") {
		t.Errorf("Трек Muse не должен попасть в результаты: %s", output)
	}
	// Результаты выводятся в порядке добавления, а не в порядке сортировки
	if strings.Index(output, "Yellow") > strings.Index(output, "Clocks") {
		t.Errorf("Ожидался порядок Yellow, Clocks: %s", output)
	}
}

// TestCmdSearchNoResults проверяет пустой результат поиска
func TestCmdSearchNoResults(t *testing.T) {
	app := createTestApplication(t, t.TempDir())
	addTestTrack(t, app, "Yellow", "Coldplay", "yellow.mp3")

	searchCmd := app.createSearchCommand()

	output := captureOutput(t, func() {
		searchCmd.SetArgs([]string{"jazz"})
		if err := searchCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды search: %v", err)
		}
	})

	if !strings.Contains(output, "🔍 Ничего не найдено по запросу «jazz»") {
		t.Errorf("Неожиданный вывод: %s", output)
	}
}

// TestCmdAdd проверяет добавление файла с автозаполнением из имени
func TestCmdAdd(t *testing.T) {
	mediaDir := t.TempDir()
	app := createTestApplication(t, mediaDir)

	source := filepath.Join(t.TempDir(), "Muse - Uprising.mp3")
	if err := os.WriteFile(source, []byte("not really audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	addCmd := app.createAddCommand(context.Background())

	output := captureOutput(t, func() {
		addCmd.SetArgs([]string{source})
		if err := addCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды add: %v", err)
		}
	})

	if !strings.Contains(output, "✅ Трек добавлен в плейлист") {
		t.Errorf("Неожиданный вывод: %s", output)
	}

	added, ok := app.Store.At(0)
	if !ok || added.Name != "Uprising" || added.Artist != "Muse" {
		t.Errorf("Неожиданный трек: %+v", added)
	}
	if _, err := os.Stat(filepath.Join(mediaDir, "Muse - Uprising.mp3")); err != nil {
		t.Errorf("Файл должен быть скопирован в медиатеку: %v", err)
	}
}

// TestCmdAddNotAudio проверяет отказ для файлов, которые не являются аудио
func TestCmdAddNotAudio(t *testing.T) {
	app := createTestApplication(t, t.TempDir())

	source := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(source, []byte("text"), 0o644); err != nil {
		t.Fatal(err)
	}

	addCmd := app.createAddCommand(context.Background())

	captureOutput(t, func() {
		addCmd.SetArgs([]string{source, "--name", "Notes", "--artist", "Me"})
		if err := addCmd.Execute(); !errors.Is(err, media.ErrNotAudio) {
			t.Errorf("Ожидалась ошибка ErrNotAudio, получено %v", err)
		}
	})

	if app.Store.Len() != 0 {
		t.Errorf("Плейлист должен остаться пустым, получено %d", app.Store.Len())
	}
}

// TestCmdAddInvalidArgs проверяет обработку неверных аргументов в команде add
func TestCmdAddInvalidArgs(t *testing.T) {
	app := createTestApplication(t, t.TempDir())
	addCmd := app.createAddCommand(context.Background())

	var buf bytes.Buffer
	addCmd.SetOut(&buf)
	addCmd.SetErr(&buf)
	addCmd.SetArgs([]string{})

	if err := addCmd.Execute(); err == nil {
		t.Error("Ожидалась ошибка при выполнении команды add без аргументов")
	}

	output := buf.String()
	if !strings.Contains(output, "requires exactly 1 arg") && !strings.Contains(output, "accepts 1 arg") {
		t.Errorf("Команда add не отобразила ошибку о неверных аргументах: %s", output)
	}
}

// TestCmdTheme проверяет показ и переключение темы
func TestCmdTheme(t *testing.T) {
	app := createTestApplication(t, t.TempDir())
	themeCmd := app.createThemeCommand()

	output := captureOutput(t, func() {
		themeCmd.SetArgs([]string{})
		if err := themeCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды theme: %v", err)
		}
	})
	if !strings.Contains(output, "🎨 Тема: темная") {
		t.Errorf("Неожиданный вывод: %s", output)
	}

	output = captureOutput(t, func() {
		themeCmd.SetArgs([]string{"toggle"})
		if err := themeCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды theme toggle: %v", err)
		}
	})
	if !strings.Contains(output, "🎨 Тема переключена: светлая") {
		t.Errorf("Неожиданный вывод: %s", output)
	}
	if app.Theme.Name() != theme.Light {
		t.Errorf("Ожидалась светлая тема, получено %s", app.Theme.Name())
	}
}

// TestCmdDownloadInvalidURL проверяет обработку неверного URL в команде download
func TestCmdDownloadInvalidURL(t *testing.T) {
	app := createTestApplication(t, t.TempDir())
	downloadCmd := app.createDownloadCommand(context.Background())

	captureOutput(t, func() {
		downloadCmd.SetArgs([]string{"invalid-url"})
		err := downloadCmd.Execute()
		if err == nil {
			t.Fatal("Ожидалась ошибка при выполнении команды download с неверным URL")
		}
		if !strings.Contains(err.Error(), "ошибка извлечения ID видео") {
			t.Errorf("Неожиданная ошибка команды download: %v", err)
		}
	})
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"invalid-url", "", true},
		{"https://example.com/video", "", true},
	}

	for _, tt := range tests {
		got, err := extractVideoID(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("extractVideoID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.expected {
			t.Errorf("extractVideoID(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Artist - Song", "Artist - Song"},
		{`AC/DC: "Thunder"?`, "AC_DC_ _Thunder__"},
		{"  spaced  ", "spaced"},
		{"???", "___"},
		{"", "track"},
		{strings.Repeat("я", 250), strings.Repeat("я", 200)},
	}

	for _, tt := range tests {
		if got := sanitizeFileName(tt.input); got != tt.expected {
			t.Errorf("sanitizeFileName(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestExtensionForMime(t *testing.T) {
	tests := map[string]string{
		`audio/mp4; codecs="mp4a.40.2"`: ".m4a",
		`audio/webm; codecs="opus"`:     ".opus",
		"audio/mpeg":                    ".mp3",
		"":                              ".m4a",
	}

	for mimeType, expected := range tests {
		if got := extensionForMime(mimeType); got != expected {
			t.Errorf("extensionForMime(%q) = %q, expected %q", mimeType, got, expected)
		}
		if err := media.CheckAudio("track" + extensionForMime(mimeType)); err != nil {
			t.Errorf("Расширение для %q должно проходить проверку аудио: %v", mimeType, err)
		}
	}
}

// TestStartPlaybackFailure проверяет, что неудачный старт не завершает интерактивную сессию
func TestStartPlaybackFailure(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		interactive bool
		expectedErr error
	}{
		{"интерактивная сессия продолжается", "", true, nil},
		{"без терминала возвращается ошибка", "", false, playback.ErrPlaybackStartFailed},
		{"неизвестный трек", "missing", true, track.ErrNotFound},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			app := createTestApplication(t, t.TempDir())
			addTestTrack(t, app, "Yellow", "Coldplay", "yellow.mp3")
			addTestTrack(t, app, "Clocks", "Coldplay", "clocks.mp3")

			mock := player.NewMock()
			mock.SetLoadError(errors.New("decoder failed"))
			controller, err := app.newController(mock)
			if err != nil {
				t.Fatalf("Ошибка создания контроллера: %v", err)
			}
			defer controller.Close()

			output := captureOutput(t, func() {
				err = startPlayback(controller, test.id, test.interactive)
			})

			if test.expectedErr == nil && err != nil {
				t.Fatalf("Неожиданная ошибка: %v", err)
			}
			if test.expectedErr != nil && !errors.Is(err, test.expectedErr) {
				t.Fatalf("Ожидалась ошибка %v, получено %v", test.expectedErr, err)
			}
			if !strings.Contains(output, "❌") {
				t.Errorf("Ошибка старта должна выводиться пользователю: %s", output)
			}
			if controller.IsPlaying() {
				t.Error("Трек не должен играть после неудачного старта")
			}
		})
	}
}

// TestStartPlaybackRecoversWithNext проверяет переход к другому треку после неудачного старта
func TestStartPlaybackRecoversWithNext(t *testing.T) {
	app := createTestApplication(t, t.TempDir())
	addTestTrack(t, app, "Yellow", "Coldplay", "yellow.mp3")
	addTestTrack(t, app, "Clocks", "Coldplay", "clocks.mp3")

	mock := player.NewMock()
	mock.SetLoadError(errors.New("decoder failed"))
	controller, err := app.newController(mock)
	if err != nil {
		t.Fatalf("Ошибка создания контроллера: %v", err)
	}
	defer controller.Close()

	captureOutput(t, func() {
		err = startPlayback(controller, "", true)
	})
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}

	mock.SetLoadError(nil)
	captureOutput(t, func() {
		handleKey(controller, 'n')
	})

	if controller.CurrentIndex() != 1 || !controller.IsPlaying() {
		t.Errorf("Ожидалось воспроизведение второго трека, индекс %d, playing=%v",
			controller.CurrentIndex(), controller.IsPlaying())
	}
}
