package knol

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/conorfennell/knoldeck/internal/domain"
)

// Normalize concatenates the card's question and answer after cleaning each
// part. The topic is left out so moving a card between topics keeps its
// identity, and so does its weight.
func Normalize(card domain.Card) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return strings.TrimSpace(p)
	}

	// Joined with a newline so "question" and "answer" cannot run together.
	return normalizePart(card.Question) + "\n" + normalizePart(card.Answer)
}

// Hash returns the SHA-256 of the normalized card as a hex string.
func Hash(card domain.Card) string {
	sum := sha256.Sum256([]byte(Normalize(card)))
	return fmt.Sprintf("%x", sum)
}
