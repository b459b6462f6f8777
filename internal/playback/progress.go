package playback

import (
	"fmt"
	"math"
	"time"
)

// Progress позиция воспроизведения текущего трека
type Progress struct {
	Position time.Duration
	Duration time.Duration // 0, если длительность неизвестна
	Fraction float64       // доля в диапазоне [0, 1]
	Elapsed  string        // mm:ss
	Total    string        // mm:ss
}

// NewProgress вычисляет прогресс по текущей позиции и длительности
func NewProgress(current, total time.Duration) Progress {
	if current < 0 {
		current = 0
	}
	if total < 0 {
		total = 0
	}

	var fraction float64
	if total > 0 {
		fraction = float64(current) / float64(total)
		if fraction > 1 {
			fraction = 1
		}
	}

	return Progress{
		Position: current,
		Duration: total,
		Fraction: fraction,
		Elapsed:  FormatTime(current),
		Total:    FormatTime(total),
	}
}

// FormatTime форматирует время как mm:ss. Часы не выделяются: 3725 секунд дают "62:05".
func FormatTime(d time.Duration) string {
	seconds := int64(d / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Loudness уровень громкости для индикатора
type Loudness int

const (
	// Mute звук выключен
	Mute Loudness = iota
	// Low тихо
	Low
	// High громко
	High
)

func (l Loudness) String() string {
	switch l {
	case Mute:
		return "mute"
	case Low:
		return "low"
	default:
		return "high"
	}
}

// VolumeLevel возвращает уровень индикатора для громкости в диапазоне [0, 1]
func VolumeLevel(volume float64) Loudness {
	switch {
	case volume <= 0:
		return Mute
	case volume < 0.5:
		return Low
	default:
		return High
	}
}

// StepVolume изменяет громкость на delta с округлением до десятых и ограничением [0, 1]
func StepVolume(volume, delta float64) float64 {
	v := math.Round((volume+delta)*10) / 10
	return math.Max(0, math.Min(1, v))
}
