// Package utils содержит утилитарные функции, используемые в разных частях приложения
package utils

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"
)

// FormatDuration форматирует time.Duration в формат HH:MM:SS
func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// TruncateString обрезает строку до указанной ширины в колонках терминала,
// добавляя "..." если строка длиннее. Широкие символы (CJK) занимают две колонки.
func TruncateString(s string, maxLen int) string {
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}

// PadRight обрезает строку и дополняет ее пробелами до ширины width
func PadRight(s string, width int) string {
	return runewidth.FillRight(TruncateString(s, width), width)
}
