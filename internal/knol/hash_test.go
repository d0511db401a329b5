package knol

import (
	"crypto/sha256"
	"fmt"
	"testing"

	"github.com/conorfennell/knoldeck/internal/domain"
)

func TestNormalize(t *testing.T) {
	card := domain.Card{
		Question: "  What is HTMX? \r\n",
		Answer:   "A library for AJAX.",
		Topic:    "Web Development",
	}
	expected := "what is htmx?\na library for ajax."
	normalized := Normalize(card)

	if normalized != expected {
		t.Errorf("Expected normalized string to be '%s', but got '%s'", expected, normalized)
	}
}

func TestHash(t *testing.T) {
	t.Run("matches sha256 of the normalized card", func(t *testing.T) {
		card := domain.Card{Question: "Q", Answer: "A"}
		expectedHash := fmt.Sprintf("%x", sha256.Sum256([]byte("q\na")))
		if hash := Hash(card); hash != expectedHash {
			t.Errorf("Expected hash '%s', but got '%s'", expectedHash, hash)
		}
	})

	t.Run("normalization produces same hash", func(t *testing.T) {
		card1 := domain.Card{Question: "  what is go? ", Answer: "A programming language."}
		card2 := domain.Card{Question: "What Is Go?", Answer: "A programming language."}
		if Hash(card1) != Hash(card2) {
			t.Error("Expected hashes to be the same after normalization, but they were different.")
		}
	})

	t.Run("topic does not change the hash", func(t *testing.T) {
		card1 := domain.Card{Question: "Q", Answer: "A", Topic: "One"}
		card2 := domain.Card{Question: "Q", Answer: "A", Topic: "Two"}
		if Hash(card1) != Hash(card2) {
			t.Error("Expected the topic to be ignored by the hash")
		}
	})

	t.Run("different cards have different hashes", func(t *testing.T) {
		card1 := domain.Card{Question: "Card 1"}
		card2 := domain.Card{Question: "Card 2"}
		if Hash(card1) == Hash(card2) {
			t.Error("Expected hashes for different cards to be different")
		}
	})
}
