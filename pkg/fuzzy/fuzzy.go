package fuzzy

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Field is one searchable attribute and how much a hit on it is worth
type Field struct {
	Text   string
	Weight float64
}

// LevenshteinDistance counts the single-character insertions, deletions and
// substitutions needed to turn s1 into s2, after normalization.
func LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(Normalize(s1))
	r2 := []rune(Normalize(s2))
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(r2)]
}

// Threshold is the typo tolerance allowed for a query of this length
func Threshold(query string) int {
	n := len([]rune(query))
	switch {
	case n <= 3:
		return 0
	case n < 8:
		return 1
	default:
		return 2
	}
}

// Match reports whether query matches text as a substring, a word prefix or
// a word within the typo tolerance.
func Match(query, text string) bool {
	return scoreText(Normalize(query), Normalize(text)) > 0
}

// Score rates how well query matches the weighted fields; 0 means no match.
func Score(query string, fields ...Field) float64 {
	q := Normalize(query)
	if q == "" {
		return 0
	}
	total := 0.0
	for _, f := range fields {
		total += scoreText(q, Normalize(f.Text)) * f.Weight
	}
	return total
}

func scoreText(q, text string) float64 {
	if q == "" || text == "" {
		return 0
	}
	if text == q {
		return 3
	}
	if strings.Contains(text, q) {
		if containsWord(text, q) {
			return 2
		}
		return 1.5
	}

	best := 0.0
	threshold := Threshold(q)
	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(word, q) {
			best = max(best, 1.2)
			continue
		}
		if threshold > 0 {
			if dist := LevenshteinDistance(q, word); dist <= threshold {
				best = max(best, 1-float64(dist)*0.3)
			}
		}
	}
	return best
}

// Normalize lowercases, strips diacritics and collapses whitespace
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = removeAccents(s)
	return strings.Join(strings.Fields(s), " ")
}

// containsWord checks if text contains query as a whole word
func containsWord(text, query string) bool {
	for _, word := range strings.Fields(text) {
		if word == query {
			return true
		}
	}
	return strings.HasPrefix(text, query+" ") || strings.HasSuffix(text, " "+query) || strings.Contains(text, " "+query+" ")
}

// removeAccents drops combining marks after canonical decomposition, so
// "Université" and "Đại học" match their unaccented spelling.
func removeAccents(s string) string {
	var result strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		switch r {
		case 'đ':
			result.WriteRune('d')
		case 'ø':
			result.WriteRune('o')
		case 'ß':
			result.WriteString("ss")
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}
