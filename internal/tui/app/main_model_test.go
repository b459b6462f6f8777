package app

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-jukebox/internal/media"
	"github.com/hazadus/go-jukebox/internal/playback"
	"github.com/hazadus/go-jukebox/internal/player"
	"github.com/hazadus/go-jukebox/internal/storage"
	"github.com/hazadus/go-jukebox/internal/theme"
	"github.com/hazadus/go-jukebox/internal/track"
	"github.com/hazadus/go-jukebox/internal/tui/editor"
	tuiPlayer "github.com/hazadus/go-jukebox/internal/tui/player"
	"github.com/hazadus/go-jukebox/internal/tui/tracklist"
)

type fakeFeed struct {
	progress chan player.Status
	done     chan bool
}

func (f *fakeFeed) Progress() <-chan player.Status { return f.progress }
func (f *fakeFeed) Done() <-chan bool              { return f.done }

type fixture struct {
	model      *MainModel
	store      *track.Store
	controller *playback.Controller
	mock       *player.Mock
	feed       *fakeFeed
	theme      *theme.Preference
	tracks     []track.Track
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := storage.NewMemory()
	store := track.NewStore(st)
	if err := store.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	var tracks []track.Track
	for _, c := range []track.Candidate{
		{Name: "Song A", Artist: "Artist X", Filename: "a.mp3"},
		{Name: "Song B", Artist: "Artist Y", Filename: "b.mp3"},
		{Name: "Song C", Artist: "Artist Z", Filename: "c.mp3"},
	} {
		added, err := store.Add(c)
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		tracks = append(tracks, added)
	}

	pref := theme.New(st)
	if err := pref.Load(false); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	mock := player.NewMock()
	controller := playback.New(store, mock, playback.WithResolver(func(filename string) string {
		return "/music/" + filename
	}))
	t.Cleanup(controller.Close)

	feed := &fakeFeed{progress: make(chan player.Status, 1), done: make(chan bool, 1)}
	importer := media.NewImporter(media.NewLocalLibrary(t.TempDir()), store, nil)

	model := NewMainModel(Deps{
		Store:      store,
		Controller: controller,
		Importer:   importer,
		Feed:       feed,
		Theme:      pref,
		Sorter:     track.NewSorter(track.DefaultLocale),
		SortField:  track.SortByAddedTime,
		SortOrder:  track.Ascending,
	})
	model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	return &fixture{
		model:      model,
		store:      store,
		controller: controller,
		mock:       mock,
		feed:       feed,
		theme:      pref,
		tracks:     tracks,
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// exec выполняет команду и передает результат модели
func (f *fixture) exec(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("Ожидалась команда")
	}
	msg := cmd()
	f.model.Update(msg)
	return msg
}

// drainState применяет последний опубликованный снимок состояния
func (f *fixture) drainState() {
	for {
		select {
		case state := <-f.controller.Changes():
			f.model.Update(tuiPlayer.StateMsg{State: state})
		default:
			return
		}
	}
}

func TestMainModelInitialState(t *testing.T) {
	f := newFixture(t)

	if f.model.CurrentScreen() != TracklistScreen {
		t.Errorf("Expected initial screen to be TracklistScreen, got %v", f.model.CurrentScreen())
	}

	view := f.model.View()
	for _, want := range []string{"Song A", "Song C", "Ничего не воспроизводится"} {
		if !strings.Contains(view, want) {
			t.Errorf("Представление должно содержать %q", want)
		}
	}
}

func TestPlaySelectedTrack(t *testing.T) {
	f := newFixture(t)

	_, cmd := f.model.Update(tracklist.PlayMsg{ID: f.tracks[1].ID})
	msg := f.exec(t, cmd)
	if result, ok := msg.(opResultMsg); !ok || result.err != nil {
		t.Fatalf("Неожиданный результат: %#v", msg)
	}

	if f.mock.Loaded() != "/music/b.mp3" {
		t.Errorf("Expected /music/b.mp3 to be loaded, got %q", f.mock.Loaded())
	}

	f.drainState()
	if !strings.Contains(f.model.View(), "▶️") {
		t.Error("Панель должна показывать воспроизведение")
	}
}

func TestPlaybackKeys(t *testing.T) {
	f := newFixture(t)

	_, cmd := f.model.Update(runes("n"))
	f.exec(t, cmd)
	if f.controller.CurrentIndex() != 0 {
		t.Errorf("n без текущего трека: ожидался индекс 0, получено %d", f.controller.CurrentIndex())
	}

	_, cmd = f.model.Update(runes("p"))
	f.exec(t, cmd)
	if f.controller.CurrentIndex() != 2 {
		t.Errorf("p с первого трека: ожидался индекс 2, получено %d", f.controller.CurrentIndex())
	}

	_, cmd = f.model.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	f.exec(t, cmd)
	if f.controller.IsPlaying() {
		t.Error("Пробел должен ставить на паузу")
	}
}

func TestVolumeAndRepeatKeys(t *testing.T) {
	f := newFixture(t)

	f.model.Update(runes("-"))
	f.model.Update(runes("-"))
	if got := f.controller.State().Volume; got != 0.8 {
		t.Errorf("Ожидалась громкость 0.8, получено %v", got)
	}
	if got := f.mock.Volume(); got != 0.8 {
		t.Errorf("Громкость должна передаваться плееру, получено %v", got)
	}

	f.model.Update(runes("+"))
	f.model.Update(runes("+"))
	f.model.Update(runes("+"))
	if got := f.controller.State().Volume; got != 1 {
		t.Errorf("Громкость не должна превышать 1, получено %v", got)
	}

	f.model.Update(runes("r"))
	if f.controller.RepeatMode() != playback.RepeatOne {
		t.Errorf("Ожидался режим repeat-one, получено %s", f.controller.RepeatMode())
	}
	f.model.Update(runes("x"))
	if f.controller.RepeatMode() != playback.Shuffle {
		t.Errorf("Ожидался режим shuffle, получено %s", f.controller.RepeatMode())
	}
}

func TestSearchSwallowsGlobalKeys(t *testing.T) {
	f := newFixture(t)

	f.model.Update(runes("/"))
	f.model.Update(runes("n"))
	f.model.Update(runes("t"))
	if !f.model.tracklistModel.Searching() {
		t.Fatal("Ожидался режим поиска")
	}
	if f.controller.CurrentIndex() != -1 || len(f.mock.LoadCalls()) != 0 {
		t.Error("Во время поиска воспроизведение не должно начинаться")
	}
	if f.theme.IsLight() {
		t.Fatal("Тема не должна меняться")
	}
}

func TestThemeToggle(t *testing.T) {
	f := newFixture(t)

	f.model.Update(runes("t"))

	if !f.theme.IsLight() {
		t.Error("Ожидалась светлая тема после переключения")
	}
	if !f.model.styles.Light {
		t.Error("Стили должны пересоздаваться для светлой темы")
	}
}

func TestDeleteCurrentTrack(t *testing.T) {
	f := newFixture(t)

	_, cmd := f.model.Update(tracklist.PlayMsg{ID: f.tracks[0].ID})
	f.exec(t, cmd)

	_, cmd = f.model.Update(tracklist.DeleteMsg{ID: f.tracks[0].ID})
	msg := f.exec(t, cmd)
	if removed, ok := msg.(removedMsg); !ok || removed.err != nil {
		t.Fatalf("Неожиданный результат удаления: %#v", msg)
	}

	if f.store.Len() != 2 {
		t.Errorf("Expected 2 tracks after delete, got %d", f.store.Len())
	}
	if f.controller.State().Track != nil {
		t.Error("Удаление текущего трека должно останавливать воспроизведение")
	}
	if f.mock.StopCalls() == 0 {
		t.Error("Плеер должен быть остановлен")
	}
	if strings.Contains(f.model.View(), "a.mp3") || !strings.Contains(f.model.View(), "Удален трек «Song A»") {
		t.Errorf("Неожиданное представление после удаления:\n%s", f.model.View())
	}
}

func TestDeleteMissingTrack(t *testing.T) {
	f := newFixture(t)

	_, cmd := f.model.Update(tracklist.DeleteMsg{ID: "missing"})
	f.exec(t, cmd)

	if f.store.Len() != 3 {
		t.Errorf("Expected 3 tracks, got %d", f.store.Len())
	}
}

func TestEditorRouting(t *testing.T) {
	f := newFixture(t)

	f.model.Update(tracklist.AddMsg{})
	if f.model.CurrentScreen() != EditorScreen {
		t.Fatalf("Expected EditorScreen after AddMsg, got %v", f.model.CurrentScreen())
	}
	if !strings.Contains(f.model.View(), "Добавление трека") {
		t.Error("Ожидалась форма добавления")
	}

	// Глобальные клавиши не работают в форме
	f.model.Update(runes("t"))
	if f.theme.IsLight() {
		t.Error("Ввод в форме не должен переключать тему")
	}

	f.model.Update(editor.GoBackMsg{})
	if f.model.CurrentScreen() != TracklistScreen {
		t.Errorf("Expected TracklistScreen after GoBackMsg, got %v", f.model.CurrentScreen())
	}

	f.model.Update(tracklist.AddMsg{})
	f.model.Update(editor.TrackAddedMsg{Track: track.Track{Name: "Song D"}})
	if f.model.CurrentScreen() != TracklistScreen {
		t.Errorf("Expected TracklistScreen after TrackAddedMsg, got %v", f.model.CurrentScreen())
	}
	if !strings.Contains(f.model.View(), "Добавлен трек «Song D»") {
		t.Error("Ожидалось уведомление о добавлении")
	}
}

func TestFeedProgressAndEnd(t *testing.T) {
	f := newFixture(t)

	_, cmd := f.model.Update(tracklist.PlayMsg{ID: f.tracks[0].ID})
	f.exec(t, cmd)

	f.feed.progress <- player.Status{Current: 30 * time.Second, Total: 90 * time.Second, IsPlaying: true}
	msg := f.exec(t, f.model.listenForFeed())
	if _, ok := msg.(feedMsg); !ok {
		t.Fatalf("Expected feedMsg, got %#v", msg)
	}
	if got := f.controller.State().Progress.Elapsed; got != "00:30" {
		t.Errorf("Ожидалось 00:30, получено %s", got)
	}

	f.feed.done <- true
	msg = f.exec(t, f.model.listenForFeed())
	if _, ok := msg.(endedMsg); !ok {
		t.Fatalf("Expected endedMsg, got %#v", msg)
	}
	if f.controller.CurrentIndex() != 1 {
		t.Errorf("После окончания трека ожидался индекс 1, получено %d", f.controller.CurrentIndex())
	}
}

func TestFeedStalledStart(t *testing.T) {
	f := newFixture(t)

	_, cmd := f.model.Update(tracklist.PlayMsg{ID: f.tracks[0].ID})
	f.exec(t, cmd)

	f.feed.progress <- player.Status{StuckCount: player.StallThreshold, IsPlaying: true}
	f.exec(t, f.model.listenForFeed())

	if f.controller.IsPlaying() {
		t.Error("Зависший старт должен останавливать воспроизведение")
	}
	if f.model.playerModel.Err() != player.ErrStalled {
		t.Errorf("Ожидалась ошибка ErrStalled, получено %v", f.model.playerModel.Err())
	}
}

func TestQuit(t *testing.T) {
	f := newFixture(t)

	_, cmd := f.model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("Expected tea.Quit command after Ctrl+C")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}

	_, cmd = f.model.Update(runes("q"))
	if cmd == nil {
		t.Fatal("Expected tea.Quit command after q")
	}
}

func TestUnknownScreenView(t *testing.T) {
	f := newFixture(t)

	f.model.currentScreen = ScreenType(999)
	if view := f.model.View(); view != "Неизвестный экран" {
		t.Errorf("Expected 'Неизвестный экран' for unknown screen, got '%s'", view)
	}
}
