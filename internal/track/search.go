package track

import "strings"

// SearchResult результат поиска. Active == false означает, что поиск не активен
// (пустой запрос), в отличие от активного поиска без совпадений.
type SearchResult struct {
	Active  bool
	Term    string
	Matches []Track
}

// Search ищет треки, у которых запрос входит в название или исполнителя без учета регистра.
// Совпадения возвращаются в порядке добавления.
func Search(tracks []Track, term string) SearchResult {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return SearchResult{}
	}

	matches := make([]Track, 0)
	for _, t := range tracks {
		if strings.Contains(strings.ToLower(t.Name), needle) ||
			strings.Contains(strings.ToLower(t.Artist), needle) {
			matches = append(matches, t)
		}
	}
	return SearchResult{Active: true, Term: needle, Matches: matches}
}
