package handlers

import (
	"strings"
)

// wordTrimCutset is stripped from both ends of a candidate word, so that
// "spam," and "spam" normalize to the same entry.
const wordTrimCutset = " \t.,;:!?\"'()[]{}<>"

// MatchBannedWord reports the first banned word contained in text, testing
// words in the given order. Matching is a case-insensitive substring test
// with no word-boundary requirement: "spam" matches inside "spammy". That is
// intentional; narrowing it to whole words would silently change enforcement.
func MatchBannedWord(text string, words []string) (string, bool) {
	if len(words) == 0 {
		return "", false
	}
	lowered := strings.ToLower(text)
	for _, word := range words {
		if word != "" && strings.Contains(lowered, word) {
			return word, true
		}
	}
	return "", false
}

// NormalizeWord lower-cases and strips surrounding whitespace and common
// punctuation. An empty result means the input is not a usable word.
func NormalizeWord(word string) string {
	w := strings.ToLower(strings.TrimSpace(word))
	w = strings.ReplaceAll(w, "\n", " ")
	return strings.Trim(w, wordTrimCutset)
}

func Clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
