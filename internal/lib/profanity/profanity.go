// Package profanity реализует проверку текста на запрещённые слова.
//
// Список слов фиксированный. Помимо проверки исходного текста,
// из него убираются пробелы и знаки препинания, чтобы ловить обходы
// вида "개 새 끼". Разговорные сокращения намеренно не включены.
package profanity

import "strings"

var badWords = []string{
	"개새끼", "씨발", "시발", "병신", "미친년", "미친놈", "꺼져", "죽어",
	"느금마", "니애미", "창녀", "걸레", "따먹", "섹스", "자지", "보지",
	"강간", "자살", "살인", "마약",
}

const separators = " \t\n!@#$%^&*()_+-=[]{};':\"\\|,.<>/?"

// Check возвращает найденное запрещённое слово и признак его наличия.
func Check(text string) (string, bool) {
	if text == "" {
		return "", false
	}

	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(separators, r) {
			return -1
		}
		return r
	}, text)

	for _, word := range badWords {
		if strings.Contains(text, word) || strings.Contains(clean, word) {
			return word, true
		}
	}
	return "", false
}
