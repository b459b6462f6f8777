// Package playback управляет порядком воспроизведения плейлиста
package playback

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/hazadus/go-jukebox/internal/track"
)

// ErrPlaybackStartFailed возвращается, если медиаплеер не смог начать воспроизведение
var ErrPlaybackStartFailed = errors.New("не удалось начать воспроизведение")

// TrackList плейлист в порядке добавления, из которого читает контроллер
type TrackList interface {
	Len() int
	At(index int) (track.Track, bool)
	FindIndex(id string) int
}

// Media примитив воспроизведения: загружает ресурс и управляет им
type Media interface {
	Load(ref string) error
	Play() error
	Pause()
	Stop()
	Seek(position time.Duration) error
	Duration() time.Duration
	SetVolume(level float64)
}

// State снимок состояния воспроизведения
type State struct {
	CurrentIndex int          // индекс в порядке добавления, -1 если трек не выбран
	Track        *track.Track // nil, если трек не выбран
	IsPlaying    bool
	RepeatMode   RepeatMode
	Progress     Progress
	Volume       float64
}

// Option настраивает Controller
type Option func(*Controller)

// WithResolver задает преобразование имени файла в ресурс для медиаплеера
func WithResolver(resolve func(filename string) string) Option {
	return func(c *Controller) {
		c.resolve = resolve
	}
}

// WithRandom задает источник случайных индексов в диапазоне [0, n)
func WithRandom(random func(n int) int) Option {
	return func(c *Controller) {
		c.random = random
	}
}

// WithRepeatMode задает начальный режим повтора
func WithRepeatMode(mode RepeatMode) Option {
	return func(c *Controller) {
		c.repeatMode = mode
	}
}

// WithLogger задает логгер контроллера
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// Controller хранит курсор воспроизведения и управляет медиаплеером.
// Все операции выполняются под одним мьютексом.
type Controller struct {
	list    TrackList
	media   Media
	resolve func(string) string
	random  func(int) int
	logger  *slog.Logger

	mutex        sync.Mutex
	currentIndex int
	currentID    string
	loaded       bool
	isPlaying    bool
	repeatMode   RepeatMode
	progress     Progress
	volume       float64

	changes chan State
	closed  bool
}

// New создает контроллер поверх плейлиста и медиаплеера
func New(list TrackList, media Media, opts ...Option) *Controller {
	c := &Controller{
		list:         list,
		media:        media,
		resolve:      func(filename string) string { return filename },
		random:       rand.Intn,
		logger:       slog.Default(),
		currentIndex: -1,
		progress:     NewProgress(0, 0),
		volume:       1,
		changes:      make(chan State, 16),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Changes возвращает канал снимков состояния. Если читатель не успевает,
// устаревшие снимки вытесняются более новыми.
func (c *Controller) Changes() <-chan State {
	return c.changes
}

// Close закрывает канал изменений
func (c *Controller) Close() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if !c.closed {
		c.closed = true
		close(c.changes)
	}
}

// Play начинает воспроизведение трека по индексу в порядке добавления.
// Индекс вне диапазона игнорируется.
func (c *Controller) Play(index int) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.playLocked(index)
}

// PlayID начинает воспроизведение трека по ID
func (c *Controller) PlayID(id string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	index := c.list.FindIndex(id)
	if index == -1 {
		return fmt.Errorf("%w: %s", track.ErrNotFound, id)
	}
	return c.playLocked(index)
}

// TogglePlayPause ставит на паузу или продолжает воспроизведение.
// Если трек не выбран, начинает с первого.
func (c *Controller) TogglePlayPause() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.list.Len() == 0 {
		return nil
	}
	c.syncLocked()
	if c.currentIndex == -1 {
		return c.playLocked(0)
	}

	if c.isPlaying {
		c.media.Pause()
		c.isPlaying = false
		c.publishLocked()
		return nil
	}

	t, _ := c.list.At(c.currentIndex)
	var err error
	if c.loaded {
		err = c.resumeLocked(t)
	} else {
		err = c.startLocked(t)
	}
	c.publishLocked()
	return err
}

// Next переходит к следующему треку согласно режиму повтора
func (c *Controller) Next() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.stepLocked(true)
}

// Previous переходит к предыдущему треку согласно режиму повтора
func (c *Controller) Previous() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.stepLocked(false)
}

// OnTimeUpdate обновляет прогресс по сообщению медиаплеера
func (c *Controller) OnTimeUpdate(current, total time.Duration) Progress {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.progress = NewProgress(current, total)
	c.publishLocked()
	return c.progress
}

// OnEnded обрабатывает окончание трека
func (c *Controller) OnEnded() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.syncLocked()
	if c.currentIndex == -1 {
		return nil
	}

	if c.repeatMode == RepeatOne || c.list.Len() == 1 {
		t, _ := c.list.At(c.currentIndex)
		err := c.restartLocked(t)
		c.publishLocked()
		return err
	}
	return c.stepLocked(true)
}

// OnStartFailed обрабатывает асинхронную ошибку запуска от медиаплеера
func (c *Controller) OnStartFailed(err error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.isPlaying {
		c.media.Pause()
	}
	c.isPlaying = false
	c.logger.Error("ошибка воспроизведения", "id", c.currentID, "err", err)
	c.publishLocked()
}

// RepeatMode возвращает текущий режим повтора
func (c *Controller) RepeatMode() RepeatMode {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.repeatMode
}

// SetRepeatMode устанавливает режим повтора
func (c *Controller) SetRepeatMode(mode RepeatMode) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.repeatMode = mode
	c.publishLocked()
}

// CycleRepeatMode переключает режим по кругу и возвращает новый
func (c *Controller) CycleRepeatMode() RepeatMode {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.repeatMode = c.repeatMode.Next()
	c.publishLocked()
	return c.repeatMode
}

// ToggleShuffle включает случайный порядок или возвращает последовательный
func (c *Controller) ToggleShuffle() RepeatMode {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.repeatMode == Shuffle {
		c.repeatMode = Sequential
	} else {
		c.repeatMode = Shuffle
	}
	c.publishLocked()
	return c.repeatMode
}

// Seek перематывает к доле длительности трека
func (c *Controller) Seek(fraction float64) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.syncLocked()
	if c.currentIndex == -1 || !c.loaded {
		return nil
	}
	duration := c.media.Duration()
	if duration <= 0 {
		return nil
	}

	fraction = min(max(fraction, 0), 1)
	position := time.Duration(fraction * float64(duration))
	if err := c.media.Seek(position); err != nil {
		return fmt.Errorf("ошибка перемотки: %w", err)
	}
	c.progress = NewProgress(position, duration)
	c.publishLocked()
	return nil
}

// SetVolume передает громкость медиаплееру
func (c *Controller) SetVolume(level float64) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.volume = level
	c.media.SetVolume(level)
	c.publishLocked()
}

// OnRemoved сообщает контроллеру, что трек удален из плейлиста.
// Если это текущий трек, воспроизведение останавливается.
// Иначе курсор остается на загруженном треке, но его индекс сдвигается на единицу,
// если удаленный трек стоял раньше в плейлисте.
func (c *Controller) OnRemoved(id string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if id != "" && id == c.currentID {
		c.media.Stop()
		c.resetLocked()
	} else {
		c.syncLocked()
	}
	c.publishLocked()
}

// State возвращает снимок состояния
func (c *Controller) State() State {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.snapshotLocked()
}

// CurrentIndex возвращает индекс текущего трека или -1
func (c *Controller) CurrentIndex() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.syncLocked()
	return c.currentIndex
}

// IsPlaying сообщает, идет ли воспроизведение
func (c *Controller) IsPlaying() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.isPlaying
}

// CurrentTrack возвращает текущий трек
func (c *Controller) CurrentTrack() (track.Track, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.syncLocked()
	if c.currentIndex == -1 {
		return track.Track{}, false
	}
	return c.list.At(c.currentIndex)
}

func (c *Controller) playLocked(index int) error {
	t, ok := c.list.At(index)
	if !ok {
		return nil
	}

	c.currentIndex = index
	c.currentID = t.ID
	c.loaded = false
	c.progress = NewProgress(0, 0)

	err := c.startLocked(t)
	c.publishLocked()
	return err
}

func (c *Controller) stepLocked(forward bool) error {
	c.syncLocked()
	index, ok := c.adjacentLocked(forward)
	if !ok {
		return nil
	}
	return c.playLocked(index)
}

// adjacentLocked выбирает следующий или предыдущий индекс. При одном треке перехода нет.
func (c *Controller) adjacentLocked(forward bool) (int, bool) {
	n := c.list.Len()
	if n <= 1 {
		return 0, false
	}
	current := c.currentIndex

	if c.repeatMode == Shuffle {
		if current < 0 {
			return c.random(n), true
		}
		// Равномерный выбор среди всех индексов, кроме текущего
		index := c.random(n - 1)
		if index >= current {
			index++
		}
		return index, true
	}

	if current < 0 {
		if forward {
			return 0, true
		}
		return n - 1, true
	}
	if forward {
		return (current + 1) % n, true
	}
	return (current - 1 + n) % n, true
}

func (c *Controller) startLocked(t track.Track) error {
	if err := c.media.Load(c.resolve(t.Filename)); err != nil {
		return c.failLocked(t, err)
	}
	c.loaded = true
	if err := c.media.Play(); err != nil {
		return c.failLocked(t, err)
	}
	c.isPlaying = true
	return nil
}

func (c *Controller) resumeLocked(t track.Track) error {
	if err := c.media.Play(); err != nil {
		return c.failLocked(t, err)
	}
	c.isPlaying = true
	return nil
}

func (c *Controller) restartLocked(t track.Track) error {
	if err := c.media.Seek(0); err != nil {
		return c.failLocked(t, err)
	}
	c.progress = NewProgress(0, c.progress.Duration)
	return c.resumeLocked(t)
}

func (c *Controller) failLocked(t track.Track, err error) error {
	if c.isPlaying {
		c.media.Pause()
	}
	c.isPlaying = false
	c.logger.Error("ошибка воспроизведения", "id", t.ID, "filename", t.Filename, "err", err)
	return fmt.Errorf("%w: %s: %w", ErrPlaybackStartFailed, t.Filename, err)
}

// syncLocked пересчитывает индекс текущего трека после изменений плейлиста
func (c *Controller) syncLocked() {
	if c.currentID == "" {
		return
	}
	index := c.list.FindIndex(c.currentID)
	if index == -1 {
		c.media.Stop()
		c.resetLocked()
		return
	}
	c.currentIndex = index
}

func (c *Controller) resetLocked() {
	c.currentIndex = -1
	c.currentID = ""
	c.loaded = false
	c.isPlaying = false
	c.progress = NewProgress(0, 0)
}

func (c *Controller) snapshotLocked() State {
	state := State{
		CurrentIndex: c.currentIndex,
		IsPlaying:    c.isPlaying,
		RepeatMode:   c.repeatMode,
		Progress:     c.progress,
		Volume:       c.volume,
	}
	if c.currentIndex != -1 {
		if t, ok := c.list.At(c.currentIndex); ok {
			state.Track = &t
		}
	}
	return state
}

// publishLocked отправляет снимок без блокировки, вытесняя самый старый при переполнении
func (c *Controller) publishLocked() {
	if c.closed {
		return
	}
	state := c.snapshotLocked()
	select {
	case c.changes <- state:
		return
	default:
	}
	select {
	case <-c.changes:
	default:
	}
	select {
	case c.changes <- state:
	default:
	}
}
