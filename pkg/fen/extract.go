package fen

import (
	"regexp"
	"strings"
)

var (
	placementRe = regexp.MustCompile(`^[rnbqkpRNBQKP1-8]+(?:/[rnbqkpRNBQKP1-8]+){7}$`)
	candidateRe = regexp.MustCompile(
		`[rnbqkpRNBQKP1-8]+(?:/[rnbqkpRNBQKP1-8]+){7} [wb] (?:-|[KQkq]{1,4}) (?:-|[a-h][36]) \d+ \d+`)
)

// Shaped reports whether s has the loose shape of a FEN string: 3 to 6
// whitespace-separated tokens whose first token looks like a piece placement
// and whose last two tokens are integers. It does not validate the position.
func Shaped(s string) bool {
	tokens := strings.Fields(s)
	if len(tokens) < 3 || len(tokens) > 6 {
		return false
	}
	if !placementRe.MatchString(tokens[0]) {
		return false
	}
	return allDigits(tokens[len(tokens)-2]) && allDigits(tokens[len(tokens)-1])
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Extract locates a FEN-shaped substring in free-form model output. Bare FEN
// answers pass through untouched. When prose contains several candidates the
// last one wins, since models tend to restate their final answer after
// reasoning. With no match the input is returned unchanged and the parser
// reports the failure per field; absence is never an error here.
func Extract(text string) string {
	trimmed := strings.TrimSpace(text)
	if Shaped(trimmed) {
		return trimmed
	}
	matches := candidateRe.FindAllString(text, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		if Shaped(matches[i]) {
			return matches[i]
		}
	}
	return text
}
