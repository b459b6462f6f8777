// Package config содержит функции для загрузки конфигурации приложения
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/hazadus/go-jukebox/internal/playback"
	"github.com/hazadus/go-jukebox/internal/storage"
	"github.com/hazadus/go-jukebox/internal/track"
)

// DefaultPath путь к файлу конфигурации по умолчанию
const DefaultPath = "~/.jukebox"

// Config структура для хранения конфигурации приложения
type Config struct {
	DataFile   string   `yaml:"data_file"`
	MediaDir   string   `yaml:"media_dir"`
	Locale     string   `yaml:"locale"`
	SortBy     string   `yaml:"sort_by"`
	SortOrder  string   `yaml:"sort_order"`
	RepeatMode string   `yaml:"repeat_mode"`
	Volume     *float64 `yaml:"volume,omitempty"`
	LogLevel   string   `yaml:"log_level"`
	LogFile    string   `yaml:"log_file"`

	AwsBucketName string `yaml:"aws_bucket_name"`
	AwsAccessKey  string `yaml:"aws_access_key"`
	AwsSecretKey  string `yaml:"aws_secret_key"`
	AwsRegion     string `yaml:"aws_region"`
	AwsEndpoint   string `yaml:"aws_endpoint"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	volume := 1.0
	return &Config{
		DataFile:   "~/.jukebox-data.yaml",
		MediaDir:   "~/Music/jukebox",
		Locale:     "zh-CN",
		SortBy:     track.SortByAddedTime.String(),
		SortOrder:  track.Descending.String(),
		RepeatMode: playback.Sequential.String(),
		Volume:     &volume,
		LogLevel:   "info",
	}
}

// LoadConfig загружает конфигурацию приложения из указанного файла.
// Если файла нет, возвращается конфигурация по умолчанию.
func LoadConfig(filePath string) (*Config, error) {
	path, err := storage.ExpandHome(filePath)
	if err != nil {
		return nil, err
	}

	config := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, config.expand()
		}
		return nil, err
	}

	// Поля, отсутствующие в файле, сохраняют значения по умолчанию
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, config.expand()
}

// expand раскрывает тильду в путях
func (c *Config) expand() error {
	var err error
	if c.DataFile, err = storage.ExpandHome(c.DataFile); err != nil {
		return err
	}
	if c.MediaDir, err = storage.ExpandHome(c.MediaDir); err != nil {
		return err
	}
	if c.LogFile, err = storage.ExpandHome(c.LogFile); err != nil {
		return err
	}
	return nil
}

// Validate проверяет значения перечислений и диапазон громкости
func (c *Config) Validate() error {
	if _, err := track.ParseSortField(c.SortBy); err != nil {
		return err
	}
	if _, err := track.ParseSortOrder(c.SortOrder); err != nil {
		return err
	}
	if _, err := playback.ParseRepeatMode(c.RepeatMode); err != nil {
		return err
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("некорректная локаль %q: %w", c.Locale, err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("некорректный уровень логирования %q", c.LogLevel)
	}
	if c.Volume != nil && (*c.Volume < 0 || *c.Volume > 1) {
		return fmt.Errorf("громкость должна быть в диапазоне [0, 1], получено %v", *c.Volume)
	}
	return nil
}

// VolumeLevel возвращает громкость или 1, если она не задана
func (c *Config) VolumeLevel() float64 {
	if c.Volume == nil {
		return 1
	}
	return *c.Volume
}

// LocaleTag возвращает локаль сортировки
func (c *Config) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return track.DefaultLocale
	}
	return tag
}

// UseS3 сообщает, хранится ли медиатека в S3
func (c *Config) UseS3() bool {
	return c.AwsBucketName != ""
}
