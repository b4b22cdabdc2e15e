package core

import (
	"strings"
	"unicode/utf8"
)

// SplitMessage breaks text into pieces of at most maxLen bytes so each one
// fits in a single platform message. It prefers to break at a newline, then
// at a space, and only cuts mid-word when a word alone is too long.
func SplitMessage(text string, maxLen int) []string {
	if maxLen <= 0 || len(text) <= maxLen {
		if text == "" {
			return nil
		}
		return []string{text}
	}

	var chunks []string
	rest := text
	for len(rest) > maxLen {
		window := rest[:maxLen]

		if idx := strings.LastIndexByte(window, '\n'); idx > 0 {
			chunks = appendChunk(chunks, rest[:idx])
			rest = rest[idx+1:]
			continue
		}
		if idx := strings.LastIndexByte(window, ' '); idx > 0 {
			chunks = appendChunk(chunks, rest[:idx])
			rest = rest[idx+1:]
			continue
		}

		// hard break, but never inside a multi-byte rune
		end := maxLen
		for end > 0 && !utf8.RuneStart(rest[end]) {
			end--
		}
		if end == 0 {
			end = maxLen
		}
		chunks = appendChunk(chunks, rest[:end])
		rest = rest[end:]
	}
	return appendChunk(chunks, rest)
}

func appendChunk(chunks []string, chunk string) []string {
	if strings.TrimSpace(chunk) == "" {
		return chunks
	}
	return append(chunks, chunk)
}
