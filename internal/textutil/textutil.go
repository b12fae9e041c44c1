// Package textutil provides the small text-transform tools exposed by the
// server: character reversal and word-to-emoji replacement.
package textutil

import "strings"

// emojiReplacements maps lowercase words to their emoji replacements.
var emojiReplacements = map[string]string{
	"happy": "😊",
	"sad":   "😢",
	"love":  "❤️",
	"fire":  "🔥",
	"cool":  "😎",
	"cat":   "🐱",
	"dog":   "🐶",
	"party": "🎉",
}

// Reverse returns the characters of s in reverse order. Reversal is
// rune-wise, not grapheme-cluster aware.
func Reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

// ReplaceEmojis splits the input on whitespace, replaces any whole word
// that case-insensitively matches the emoji dictionary, and rejoins with
// single spaces. Original spacing is not preserved.
func ReplaceEmojis(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		if emoji, ok := emojiReplacements[strings.ToLower(word)]; ok {
			words[i] = emoji
		}
	}
	return strings.Join(words, " ")
}
