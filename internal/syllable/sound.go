package syllable

import (
	"sort"
	"strings"
	"unicode/utf8"
)

var sounds = map[string]string{
	"a": "a", "b": "b", "c": "k", "d": "d", "e": "e", "f": "f", "g": "g",
	"h": "h", "i": "i", "j": "j", "k": "k", "l": "l", "m": "m", "n": "n",
	"o": "o", "p": "p", "q": "k", "r": "r", "s": "s", "t": "t", "u": "u",
	"v": "v", "w": "w", "x": "ks", "y": "i", "z": "z",

	"aa": "aa", "ee": "ee", "oo": "oo", "uu": "uu",

	"au": "au", "ei": "ei", "eu": "eu", "ij": "ij", "ie": "ie", "oe": "oe",
	"ou": "ou", "ui": "ui",

	"ch": "ch", "ng": "ng", "nk": "nk", "sch": "sch",
}

var soundKeys = func() []string {
	keys := make([]string, 0, len(sounds))
	for k := range sounds {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// SoundAt returns the letter sound starting at rune position pos and how
// many letters it spans. Longer combinations win; an unknown letter is its
// own sound. pos outside the word yields an empty sound of length 0.
func SoundAt(word string, pos int) (string, int) {
	lower := []rune(strings.ToLower(word))
	if pos < 0 || pos >= len(lower) {
		return "", 0
	}
	for _, k := range soundKeys {
		if hasPrefixAt(lower, pos, k) {
			return sounds[k], utf8.RuneCountInString(k)
		}
	}
	letter := string(lower[pos])
	if s, ok := sounds[letter]; ok {
		return s, 1
	}
	return letter, 1
}

// Sounds splits word into consecutive letter sounds.
func Sounds(word string) []string {
	n := utf8.RuneCountInString(word)
	var out []string
	for pos := 0; pos < n; {
		s, l := SoundAt(word, pos)
		out = append(out, s)
		pos += l
	}
	return out
}
