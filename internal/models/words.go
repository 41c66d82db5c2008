package models

import "strings"

// CountWords считает слова в содержимом раздела: токенизация по пробельным
// символам, длина серии пробелов значения не имеет.
func CountWords(content string) int {
	return len(strings.Fields(content))
}

// RecountWords пересчитывает и проставляет объём раздела. Вызывается при
// каждой мутации содержимого: поле никогда не живёт отдельно от content.
func (s *Section) RecountWords() {
	n := CountWords(s.Content)
	s.WordCount = &n
}
