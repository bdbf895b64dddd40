// Package syllable splits Dutch words into syllables and letter sounds.
// The rules are a reading aid for beginners, not a hyphenation dictionary.
package syllable

import (
	"strings"
	"unicode/utf8"
)

// Color tags a syllable for display.
type Color string

const (
	Green Color = "green"
	Red   Color = "red"
	Gold  Color = "gold"
)

var palette = []Color{Green, Red, Gold}

// Syllable is one coloured part of a word.
type Syllable struct {
	Text  string
	Color Color
}

// Longest first; equal lengths keep list order.
var vowelGroups = []string{
	"ieuw",
	"aai", "ooi", "oei", "eeu", "ieu", "ouw", "auw", "euw",
	"aa", "ee", "oo", "uu", "ie", "oe", "eu", "ui", "ei", "ij", "au", "ou", "ai", "oi",
}

var consonantClusters = []string{
	"bl", "br", "ch", "cl", "cr", "dr", "fl", "fr", "gl", "gr", "kl", "kn", "kr",
	"pl", "pr", "qu", "sch", "schr", "sl", "sm", "sn", "sp", "spl", "spr", "st",
	"str", "sw", "tr", "tw", "vl", "vr", "wr", "zw",
}

func isVowel(r rune) bool {
	return strings.ContainsRune("aeiou", r)
}

func isConsonant(r rune) bool {
	return strings.ContainsRune("bcdfghjklmnpqrstvwxz", r)
}

func hasPrefixAt(runes []rune, i int, s string) bool {
	n := utf8.RuneCountInString(s)
	if i+n > len(runes) {
		return false
	}
	return string(runes[i:i+n]) == s
}

func clusterAt(lower []rune, i int) bool {
	for _, c := range consonantClusters {
		if hasPrefixAt(lower, i, c) {
			return true
		}
	}
	return false
}

func containsVowel(runes []rune) bool {
	for _, r := range runes {
		if isVowel(r) {
			return true
		}
	}
	return false
}

// Split breaks word into syllables. Words of at most two letters are returned whole.
func Split(word string) []string {
	orig := []rune(word)
	if len(orig) <= 2 {
		return []string{word}
	}
	lower := []rune(strings.ToLower(word))
	if len(lower) != len(orig) {
		return []string{word}
	}

	var parts []string
	var cur []rune
	i := 0
	for i < len(orig) {
		grouped := false
		for _, g := range vowelGroups {
			if hasPrefixAt(lower, i, g) {
				n := utf8.RuneCountInString(g)
				cur = append(cur, orig[i:i+n]...)
				i += n
				grouped = true
				break
			}
		}
		if grouped {
			continue
		}

		last := lower[i]
		cur = append(cur, orig[i])
		i++
		if i >= len(orig) {
			break
		}
		next := lower[i]

		// vowel | consonant vowel
		if isVowel(last) && isConsonant(next) && i+1 < len(orig) {
			if isVowel(lower[i+1]) && !clusterAt(lower, i) && len(cur) > 0 {
				parts = append(parts, string(cur))
				cur = nil
			}
		}
		// consonant | consonant, unless the pair starts a cluster
		if isConsonant(last) && isConsonant(next) && len(cur) > 1 {
			if !clusterAt(lower, i) && containsVowel([]rune(strings.ToLower(string(cur)))) {
				parts = append(parts, string(cur))
				cur = nil
			}
		}
	}
	if len(cur) > 0 {
		parts = append(parts, string(cur))
	}

	if len(parts) == 1 && len(orig) > 4 {
		if left, right, ok := splitNearMiddle(orig, lower); ok {
			return []string{left, right}
		}
	}
	if len(parts) == 0 {
		return []string{word}
	}
	return parts
}

// splitNearMiddle cuts before the first consonant-vowel pair found walking
// right from the middle, then left.
func splitNearMiddle(orig, lower []rune) (string, string, bool) {
	mid := len(lower) / 2
	for j := mid; j < len(lower)-1; j++ {
		if isConsonant(lower[j]) && isVowel(lower[j+1]) {
			return string(orig[:j]), string(orig[j:]), true
		}
	}
	for j := mid; j > 0; j-- {
		if j+1 < len(lower) && isConsonant(lower[j]) && isVowel(lower[j+1]) {
			return string(orig[:j]), string(orig[j:]), true
		}
	}
	return "", "", false
}

// Colored splits word and assigns colours green, red, gold in turn.
func Colored(word string) []Syllable {
	parts := Split(word)
	out := make([]Syllable, len(parts))
	for i, p := range parts {
		out[i] = Syllable{Text: p, Color: palette[i%len(palette)]}
	}
	return out
}
