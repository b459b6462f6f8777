// Package track содержит плейлист: хранилище треков, сортировку и поиск
package track

import (
	"errors"
	"time"
)

// Ошибки операций с плейлистом
var (
	// ErrDuplicateFilename возвращается при добавлении файла, который уже есть в плейлисте
	ErrDuplicateFilename = errors.New("этот файл уже есть в плейлисте, выберите другой")
	// ErrIncompleteInput возвращается, если не заполнены обязательные поля
	ErrIncompleteInput = errors.New("заполните название, исполнителя и файл")
	// ErrNotFound возвращается, если трек с указанным ID отсутствует
	ErrNotFound = errors.New("трек не найден")
)

// Track одна запись плейлиста
type Track struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Artist    string    `json:"artist"`
	Filename  string    `json:"filename"`
	AddedTime time.Time `json:"addedTime"`
}

// AddedDate возвращает дату добавления в формате YYYY-MM-DD
func (t Track) AddedDate() string {
	return t.AddedTime.Local().Format(time.DateOnly)
}

// Candidate данные, введенные пользователем при добавлении трека
type Candidate struct {
	Name     string
	Artist   string
	Filename string
}
