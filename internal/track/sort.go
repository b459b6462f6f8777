package track

import (
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultLocale локаль сравнения строк по умолчанию
var DefaultLocale = language.MustParse("zh-CN")

// SortField поле сортировки
type SortField int

const (
	// SortByAddedTime сортировка по дате добавления
	SortByAddedTime SortField = iota
	// SortByName сортировка по названию
	SortByName
	// SortByArtist сортировка по исполнителю
	SortByArtist
)

// String возвращает имя поля в конфигурации и флагах
func (f SortField) String() string {
	switch f {
	case SortByName:
		return "name"
	case SortByArtist:
		return "artist"
	default:
		return "added"
	}
}

// Next возвращает следующее поле по кругу
func (f SortField) Next() SortField {
	return (f + 1) % 3
}

// ParseSortField разбирает имя поля сортировки
func ParseSortField(s string) (SortField, error) {
	switch s {
	case "added", "":
		return SortByAddedTime, nil
	case "name":
		return SortByName, nil
	case "artist":
		return SortByArtist, nil
	default:
		return SortByAddedTime, fmt.Errorf("неизвестное поле сортировки: %q", s)
	}
}

// SortOrder направление сортировки
type SortOrder int

const (
	// Ascending по возрастанию
	Ascending SortOrder = iota
	// Descending по убыванию
	Descending
)

// String возвращает имя направления
func (o SortOrder) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// Toggle меняет направление на противоположное
func (o SortOrder) Toggle() SortOrder {
	if o == Descending {
		return Ascending
	}
	return Descending
}

// ParseSortOrder разбирает имя направления сортировки
func ParseSortOrder(s string) (SortOrder, error) {
	switch s {
	case "asc":
		return Ascending, nil
	case "desc", "":
		return Descending, nil
	default:
		return Descending, fmt.Errorf("неизвестное направление сортировки: %q", s)
	}
}

// Sorter упорядочивает треки с учетом локали
type Sorter struct {
	locale language.Tag
}

// NewSorter создает сортировщик для локали
func NewSorter(locale language.Tag) *Sorter {
	return &Sorter{locale: locale}
}

// Sort сортирует треки с локалью по умолчанию
func Sort(tracks []Track, field SortField, order SortOrder) []Track {
	return NewSorter(DefaultLocale).Sort(tracks, field, order)
}

// Sort возвращает новый отсортированный срез; исходный срез не меняется.
// Сортировка стабильна: треки с равным ключом сохраняют порядок добавления в обоих направлениях.
func (s *Sorter) Sort(tracks []Track, field SortField, order SortOrder) []Track {
	sorted := slices.Clone(tracks)
	if sorted == nil {
		sorted = []Track{}
	}

	// collate.Collator не потокобезопасен, поэтому создается на каждый вызов
	collator := collate.New(s.locale)
	compare := func(a, b Track) int {
		switch field {
		case SortByName:
			return collator.CompareString(a.Name, b.Name)
		case SortByArtist:
			return collator.CompareString(a.Artist, b.Artist)
		default:
			return a.AddedTime.Compare(b.AddedTime)
		}
	}

	slices.SortStableFunc(sorted, func(a, b Track) int {
		if order == Descending {
			return -compare(a, b)
		}
		return compare(a, b)
	})
	return sorted
}
