package features

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// wordStats summarizes token lengths. All fields are zero for an empty token set.
type wordStats struct {
	count    int
	shortest int
	longest  int
	mean     float64
}

// isDelimiter reports whether c separates words: anything that is not a
// letter, a number or an underscore.
func isDelimiter(c rune) bool {
	return !unicode.IsLetter(c) && !unicode.IsNumber(c) && c != '_'
}

// words splits s on runs of delimiters, dropping empty tokens.
func words(s string) []string {
	return strings.FieldsFunc(s, isDelimiter)
}

func newWordStats(s string) wordStats {
	var st wordStats

	total := 0
	for _, w := range words(s) {
		n := utf8.RuneCountInString(w)
		if st.count == 0 || n < st.shortest {
			st.shortest = n
		}
		if n > st.longest {
			st.longest = n
		}
		total += n
		st.count++
	}
	if st.count > 0 {
		st.mean = float64(total) / float64(st.count)
	}

	return st
}
