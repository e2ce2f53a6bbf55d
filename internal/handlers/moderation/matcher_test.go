package handlers

import (
	"testing"
)

func TestMatchBannedWord(t *testing.T) {
	t.Parallel()

	words := []string{"casino", "spam"}

	cases := []struct {
		name string
		text string
		want string
		hit  bool
	}{
		{"exact", "spam", "spam", true},
		{"case insensitive", "SPAM everywhere", "spam", true},
		{"substring", "this is SPAMMY content", "spam", true},
		{"inside another word", "despamify", "spam", true},
		{"split word no match", "sp am", "", false},
		{"clean text", "hello there", "", false},
		{"first in order wins", "casino spam", "casino", true},
		{"empty text", "", "", false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, hit := MatchBannedWord(tc.text, words)
			if hit != tc.hit || got != tc.want {
				t.Fatalf("MatchBannedWord(%q) = %q, %v; want %q, %v", tc.text, got, hit, tc.want, tc.hit)
			}
		})
	}
}

func TestMatchBannedWordEmptyList(t *testing.T) {
	t.Parallel()

	if _, hit := MatchBannedWord("spam spam spam", nil); hit {
		t.Fatal("empty word list must never match")
	}
	if _, hit := MatchBannedWord("spam", []string{}); hit {
		t.Fatal("empty word list must never match")
	}
}

func TestNormalizeWord(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Spam!", "spam"},
		{"  spam  ", "spam"},
		{`"spam"`, "spam"},
		{"(spam)", "spam"},
		{"<spam>", "spam"},
		{"SPAM", "spam"},
		{".,;", ""},
		{"", ""},
		{"   ", ""},
		{"spam.", "spam"},
		{"¡hola!", "¡hola"},
	}

	for _, tc := range cases {
		if got := NormalizeWord(tc.in); got != tc.want {
			t.Errorf("NormalizeWord(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClamp(t *testing.T) {
	t.Parallel()

	cases := []struct {
		n, lo, hi, want int
	}{
		{5, 1, 20, 5},
		{0, 1, 20, 1},
		{-3, 1, 20, 1},
		{21, 1, 20, 20},
		{999999, 1, 10080, 10080},
		{1, 1, 20, 1},
		{20, 1, 20, 20},
	}

	for _, tc := range cases {
		if got := Clamp(tc.n, tc.lo, tc.hi); got != tc.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, want %d", tc.n, tc.lo, tc.hi, got, tc.want)
		}
	}
}
