// Package player содержит компоненты для управления воспроизведением аудио
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/hazadus/go-jukebox/internal/playback"
	"github.com/hazadus/go-jukebox/internal/streaming"
)

// StallThreshold число тиков без движения позиции в начале трека, после которого старт считается неудачным
const StallThreshold = 10

var (
	// ErrNothingLoaded возвращается при попытке воспроизведения без загруженного трека
	ErrNothingLoaded = errors.New("трек не загружен")
	// ErrStalled возвращается, если поток так и не начал воспроизводиться
	ErrStalled = errors.New("воспроизведение не началось")
)

// Status представляет текущий статус плеера
type Status struct {
	Current    time.Duration // Текущая позиция
	Total      time.Duration // Общая продолжительность, 0 если неизвестна
	IsPlaying  bool          // Воспроизводится ли трек
	Speed      float64       // Скорость воспроизведения (для диагностики)
	StuckCount int           // Счетчик зависших состояний
}

// Stalled сообщает, что воспроизведение так и не началось.
// Срабатывает один раз, на пороговом тике.
func (s Status) Stalled() bool {
	return s.StuckCount == StallThreshold && s.Current == 0
}

// Player воспроизводит локальные файлы и HTTP потоки через beep
type Player struct {
	// Каналы для обратной связи
	progressChan chan Status
	doneChan     chan bool

	// Внутреннее состояние
	ctx           context.Context
	cancel        context.CancelFunc
	mutex         sync.RWMutex
	isInitialized bool
	isPaused      bool
	finished      atomic.Bool
	ref           string
	format        beep.Format
	level         float64
	generation    int

	// Компоненты для воспроизведения
	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	source   io.Closer
}

var (
	_ playback.Media = (*Player)(nil)
	_ playback.Media = (*Mock)(nil)
)

// NewPlayer создает новый экземпляр плеера
func NewPlayer() *Player {
	ctx, cancel := context.WithCancel(context.Background())
	return &Player{
		progressChan: make(chan Status, 1),
		doneChan:     make(chan bool, 1),
		ctx:          ctx,
		cancel:       cancel,
		level:        1,
	}
}

// Progress возвращает канал для получения обновлений прогресса
func (p *Player) Progress() <-chan Status {
	return p.progressChan
}

// Done возвращает канал, в который приходит сигнал о завершении трека
func (p *Player) Done() <-chan bool {
	return p.doneChan
}

// Load открывает ресурс (путь к файлу или http(s) URL) и готовит его к воспроизведению.
// Воспроизведение начинается вызовом Play.
func (p *Player) Load(ref string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	// Останавливаем текущее воспроизведение, если есть
	p.stopInternal()
	p.ref = ref

	source, err := p.open(ref)
	if err != nil {
		return err
	}

	streamer, format, err := decode(ref, source)
	if err != nil {
		source.Close()
		return err
	}

	// Инициализируем speaker (только один раз)
	if !p.isInitialized {
		err = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/5))
		if err != nil {
			streamer.Close()
			source.Close()
			return fmt.Errorf("ошибка инициализации динамиков: %w", err)
		}
		p.isInitialized = true
	}

	p.source = source
	p.streamer = streamer
	p.format = format
	p.ctrl = &beep.Ctrl{Streamer: streamer, Paused: true}
	p.volume = &effects.Volume{Streamer: p.ctrl, Base: 2}
	applyLevel(p.volume, p.level)
	p.isPaused = true
	p.generation++

	p.enqueue()
	go p.monitorProgress(p.generation)
	return nil
}

// open открывает источник данных для ресурса
func (p *Player) open(ref string) (io.ReadCloser, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		const bufferSize = 256 * 1024 // 256KB буфер
		reader, err := streaming.NewReader(p.ctx, ref, bufferSize)
		if err != nil {
			return nil, fmt.Errorf("ошибка создания потокового ридера: %w", err)
		}
		return reader, nil
	}

	file, err := os.Open(ref)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	return file, nil
}

// decode выбирает декодер по расширению ресурса; по умолчанию MP3
func decode(ref string, source io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	if strings.EqualFold(filepath.Ext(ref), ".wav") {
		streamer, format, err := wav.Decode(source)
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("ошибка декодирования WAV: %w", err)
		}
		return streamer, format, nil
	}

	streamer, format, err := mp3.Decode(source)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("ошибка декодирования MP3: %w", err)
	}
	return streamer, format, nil
}

// enqueue передает поток в speaker (должен вызываться под мьютексом)
func (p *Player) enqueue() {
	p.finished.Store(false)
	speaker.Play(beep.Seq(p.volume, beep.Callback(func() {
		p.finished.Store(true)
		// Уведомляем о завершении воспроизведения
		select {
		case p.doneChan <- true:
		default:
		}
	})))
}

// Play начинает или продолжает воспроизведение загруженного трека.
// Если трек доиграл до конца, он снова передается в speaker с текущей позиции.
func (p *Player) Play() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.ctrl == nil {
		return ErrNothingLoaded
	}

	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	p.isPaused = false

	if p.finished.Load() {
		p.enqueue()
	}
	return nil
}

// Pause приостанавливает воспроизведение
func (p *Player) Pause() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.ctrl != nil {
		speaker.Lock()
		p.ctrl.Paused = true
		speaker.Unlock()
		p.isPaused = true
	}
}

// Seek перематывает к позиции; позиция ограничивается длиной трека
func (p *Player) Seek(position time.Duration) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.streamer == nil {
		return ErrNothingLoaded
	}

	speaker.Lock()
	defer speaker.Unlock()

	sample := p.format.SampleRate.N(position)
	if length := p.streamer.Len(); length > 0 && sample >= length {
		sample = length - 1
	}
	if sample < 0 {
		sample = 0
	}
	if err := p.streamer.Seek(sample); err != nil {
		return fmt.Errorf("ошибка перемотки: %w", err)
	}
	return nil
}

// Duration возвращает длительность загруженного трека или 0
func (p *Player) Duration() time.Duration {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	defer speaker.Unlock()
	return p.format.SampleRate.D(p.streamer.Len())
}

// SetVolume устанавливает громкость в диапазоне [0, 1]; значения вне диапазона ограничиваются
func (p *Player) SetVolume(level float64) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.level = min(max(level, 0), 1)
	if p.volume != nil {
		speaker.Lock()
		applyLevel(p.volume, p.level)
		speaker.Unlock()
	}
}

// Volume возвращает текущую громкость
func (p *Player) Volume() float64 {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.level
}

// applyLevel переводит линейную громкость в логарифмическую шкалу beep: 0.5 → -1, 0.25 → -2
func applyLevel(volume *effects.Volume, level float64) {
	volume.Silent = level <= 0
	if level > 0 {
		volume.Volume = math.Log2(level)
	}
}

// Stop останавливает воспроизведение и освобождает трек
func (p *Player) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.stopInternal()
}

// stopInternal внутренний метод остановки (должен вызываться под мьютексом)
func (p *Player) stopInternal() {
	if p.ctrl != nil {
		speaker.Clear()
		p.ctrl = nil
		p.volume = nil
	}

	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}

	if p.source != nil {
		p.source.Close()
		p.source = nil
	}

	p.ref = ""
	p.isPaused = false
	p.generation++
}

// Close закрывает плеер и освобождает ресурсы
func (p *Player) Close() error {
	p.cancel()
	p.Stop()
	return nil
}

// IsPlaying возвращает true, если трек воспроизводится
func (p *Player) IsPlaying() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.ctrl != nil && !p.isPaused && !p.finished.Load()
}

// Ref возвращает загруженный ресурс
func (p *Player) Ref() string {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.ref
}

// monitorProgress раз в секунду отправляет статус, пока загружен трек поколения generation
func (p *Player) monitorProgress(generation int) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	lastPosition := time.Duration(-1)
	stuckCount := 0
	var playedTime time.Duration

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.mutex.RLock()
			if p.generation != generation || p.streamer == nil {
				p.mutex.RUnlock()
				return
			}

			speaker.Lock()
			currentPos := p.format.SampleRate.D(p.streamer.Position())
			totalLen := p.format.SampleRate.D(p.streamer.Len())
			paused := p.isPaused || p.finished.Load()
			speaker.Unlock()
			p.mutex.RUnlock()

			// Проверяем, не застрял ли поток
			if !paused {
				playedTime += time.Second
				if currentPos == lastPosition {
					stuckCount++
				} else {
					stuckCount = 0
				}
			} else {
				stuckCount = 0
			}
			lastPosition = currentPos

			// Вычисляем скорость воспроизведения
			var speed float64
			if playedTime > 0 && !paused {
				speed = float64(currentPos) / float64(playedTime)
			}

			status := Status{
				Current:    currentPos,
				Total:      totalLen,
				IsPlaying:  !paused,
				Speed:      speed,
				StuckCount: stuckCount,
			}

			select {
			case p.progressChan <- status:
			default:
				// Если канал заблокирован, пропускаем обновление
			}
		}
	}
}
