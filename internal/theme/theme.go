// Package theme хранит выбор светлой или темной темы оформления
package theme

import (
	"fmt"

	"github.com/hazadus/go-jukebox/internal/storage"
)

// Key ключ, под которым тема хранится в хранилище
const Key = "musicPlayerTheme"

const (
	// Light светлая тема
	Light = "light"
	// Dark темная тема
	Dark = "dark"
)

// Preference текущая тема и ее сохранение
type Preference struct {
	storage storage.Storage
	light   bool
}

// New создает настройку темы поверх хранилища
func New(st storage.Storage) *Preference {
	return &Preference{storage: st}
}

// Load читает сохраненную тему. Если тема не сохранялась, используется fallbackLight.
func (p *Preference) Load(fallbackLight bool) error {
	value, ok, err := p.storage.Get(Key)
	if err != nil {
		return fmt.Errorf("ошибка чтения темы: %w", err)
	}

	switch {
	case ok && value == Light:
		p.light = true
	case ok && value == Dark:
		p.light = false
	default:
		p.light = fallbackLight
	}
	return nil
}

// IsLight сообщает, выбрана ли светлая тема
func (p *Preference) IsLight() bool {
	return p.light
}

// Name возвращает имя текущей темы
func (p *Preference) Name() string {
	if p.light {
		return Light
	}
	return Dark
}

// Toggle переключает тему и сохраняет выбор. При ошибке записи тема не меняется.
func (p *Preference) Toggle() (bool, error) {
	next := Light
	if p.light {
		next = Dark
	}
	if err := p.storage.Set(Key, next); err != nil {
		return p.light, fmt.Errorf("ошибка сохранения темы: %w", err)
	}
	p.light = !p.light
	return p.light, nil
}
