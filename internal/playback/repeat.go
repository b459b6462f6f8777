package playback

import "fmt"

// RepeatMode порядок воспроизведения
type RepeatMode int

const (
	// Sequential воспроизводит треки по порядку с переходом на начало
	Sequential RepeatMode = iota
	// RepeatOne повторяет текущий трек
	RepeatOne
	// Shuffle выбирает следующий трек случайно
	Shuffle
)

func (m RepeatMode) String() string {
	switch m {
	case RepeatOne:
		return "repeat-one"
	case Shuffle:
		return "shuffle"
	default:
		return "sequential"
	}
}

// Next возвращает следующий режим по кругу: sequential → repeat-one → shuffle → sequential
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case Sequential:
		return RepeatOne
	case RepeatOne:
		return Shuffle
	default:
		return Sequential
	}
}

// ParseRepeatMode разбирает имя режима из конфигурации или флагов
func ParseRepeatMode(s string) (RepeatMode, error) {
	switch s {
	case "sequential", "":
		return Sequential, nil
	case "repeat-one", "one":
		return RepeatOne, nil
	case "shuffle":
		return Shuffle, nil
	default:
		return Sequential, fmt.Errorf("неизвестный режим повтора: %q", s)
	}
}
