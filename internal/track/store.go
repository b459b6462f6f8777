package track

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hazadus/go-jukebox/internal/storage"
)

// SongsKey ключ, под которым плейлист хранится в хранилище
const SongsKey = "musicPlayerSongs"

// Store владеет списком треков в порядке добавления и сохраняет его после каждого изменения
type Store struct {
	storage storage.Storage
	now     func() time.Time
	logger  *slog.Logger

	mutex  sync.RWMutex
	tracks []Track
}

// StoreOption настраивает Store
type StoreOption func(*Store)

// WithClock задает источник времени для ID и даты добавления
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger задает логгер хранилища
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore создает пустое хранилище треков. Для чтения сохраненных данных вызовите Load.
func NewStore(st storage.Storage, opts ...StoreOption) *Store {
	s := &Store{
		storage: st,
		now:     time.Now,
		logger:  slog.Default(),
		tracks:  make([]Track, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load загружает плейлист. Отсутствующие или поврежденные данные заменяются пустым списком.
func (s *Store) Load() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	raw, ok, err := s.storage.Get(SongsKey)
	if err != nil {
		return fmt.Errorf("ошибка чтения плейлиста: %w", err)
	}
	if !ok {
		// Первый запуск: сохраняем пустой плейлист
		s.tracks = make([]Track, 0)
		return s.persist(s.tracks)
	}

	var stored []Track
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.Warn("поврежденный плейлист заменен пустым", "key", SongsKey, "err", err)
		s.tracks = make([]Track, 0)
		return s.persist(s.tracks)
	}

	s.tracks = sanitize(stored, s.logger)
	return nil
}

// sanitize отбрасывает записи без ID или файла и повторы
func sanitize(stored []Track, logger *slog.Logger) []Track {
	tracks := make([]Track, 0, len(stored))
	ids := make(map[string]bool, len(stored))
	files := make(map[string]bool, len(stored))
	for _, t := range stored {
		if t.ID == "" || t.Filename == "" || ids[t.ID] || files[t.Filename] {
			logger.Warn("пропущена некорректная запись плейлиста", "id", t.ID, "filename", t.Filename)
			continue
		}
		ids[t.ID] = true
		files[t.Filename] = true
		tracks = append(tracks, t)
	}
	return tracks
}

// Add добавляет трек в конец плейлиста и сохраняет плейлист
func (s *Store) Add(c Candidate) (Track, error) {
	name := strings.TrimSpace(c.Name)
	artist := strings.TrimSpace(c.Artist)
	filename := strings.TrimSpace(c.Filename)
	if name == "" || artist == "" || filename == "" {
		return Track{}, ErrIncompleteInput
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.indexOfFilename(filename) != -1 {
		return Track{}, fmt.Errorf("%w: %s", ErrDuplicateFilename, filename)
	}

	now := s.now()
	t := Track{
		ID:        s.nextID(now),
		Name:      name,
		Artist:    artist,
		Filename:  filename,
		AddedTime: now.UTC(),
	}

	updated := make([]Track, len(s.tracks), len(s.tracks)+1)
	copy(updated, s.tracks)
	updated = append(updated, t)
	if err := s.persist(updated); err != nil {
		return Track{}, err
	}
	s.tracks = updated
	return t, nil
}

// Remove удаляет трек по ID и сохраняет плейлист.
// Возвращает удаленный трек или nil, если такого ID нет.
func (s *Store) Remove(id string) (*Track, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	index := s.indexOf(id)
	if index == -1 {
		return nil, nil
	}

	removed := s.tracks[index]
	updated := make([]Track, 0, len(s.tracks)-1)
	updated = append(updated, s.tracks[:index]...)
	updated = append(updated, s.tracks[index+1:]...)
	if err := s.persist(updated); err != nil {
		return nil, err
	}
	s.tracks = updated
	return &removed, nil
}

// All возвращает копию плейлиста в порядке добавления
func (s *Store) All() []Track {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	result := make([]Track, len(s.tracks))
	copy(result, s.tracks)
	return result
}

// Len возвращает количество треков
func (s *Store) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.tracks)
}

// At возвращает трек по индексу в порядке добавления
func (s *Store) At(index int) (Track, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if index < 0 || index >= len(s.tracks) {
		return Track{}, false
	}
	return s.tracks[index], true
}

// FindByID возвращает трек по ID
func (s *Store) FindByID(id string) (Track, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	index := s.indexOf(id)
	if index == -1 {
		return Track{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.tracks[index], nil
}

// FindIndex возвращает индекс трека в порядке добавления или -1
func (s *Store) FindIndex(id string) int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.indexOf(id)
}

// HasFilename сообщает, есть ли в плейлисте трек с таким файлом
func (s *Store) HasFilename(filename string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.indexOfFilename(strings.TrimSpace(filename)) != -1
}

func (s *Store) indexOf(id string) int {
	for i := range s.tracks {
		if s.tracks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) indexOfFilename(filename string) int {
	for i := range s.tracks {
		if s.tracks[i].Filename == filename {
			return i
		}
	}
	return -1
}

// nextID строит ID из времени в миллисекундах и увеличивает его до уникального
func (s *Store) nextID(now time.Time) string {
	candidate := now.UnixMilli()
	for s.indexOf(strconv.FormatInt(candidate, 10)) != -1 {
		candidate++
	}
	return strconv.FormatInt(candidate, 10)
}

// persist сериализует весь список и записывает его (должен вызываться под мьютексом)
func (s *Store) persist(tracks []Track) error {
	data, err := json.Marshal(tracks)
	if err != nil {
		return fmt.Errorf("ошибка сериализации плейлиста: %w", err)
	}
	if err := s.storage.Set(SongsKey, string(data)); err != nil {
		return fmt.Errorf("ошибка сохранения плейлиста: %w", err)
	}
	return nil
}
