package parser

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/conorfennell/knoldeck/internal/domain"
)

// field is the part of a card a block of lines belongs to.
type field int

const (
	none field = iota
	question
	answer
	topic
)

// Line prefixes that open a field. A "Q:" line always starts a new card.
var prefixes = []struct {
	prefix string
	field  field
}{
	{"Q:", question},
	{"A:", answer},
	{"T:", topic},
}

const separator = "---"

// ParseFile reads a deck file from the given path and extracts all cards.
func ParseFile(path string) ([]domain.Card, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads a deck from an io.Reader and extracts all cards.
// Cards without a question are dropped; cards without an answer are kept
// so the caller can report them.
func Parse(r io.Reader) ([]domain.Card, error) {
	p := &deckParser{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.line(scanner.Text())
	}
	p.finishCard()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p.cards, nil
}

type deckParser struct {
	cards   []domain.Card
	card    domain.Card
	current field
	block   []string
}

func (p *deckParser) line(line string) {
	if line == separator {
		p.finishCard()
		return
	}

	for _, pf := range prefixes {
		if !strings.HasPrefix(line, pf.prefix) {
			continue
		}
		p.flushBlock()
		if pf.field == question && p.current != none {
			p.finishCard()
		}
		p.current = pf.field
		p.block = append(p.block, strings.TrimPrefix(line[len(pf.prefix):], " "))
		return
	}

	if p.current != none {
		p.block = append(p.block, line)
	}
}

// flushBlock stores the collected lines into the field being read.
func (p *deckParser) flushBlock() {
	if len(p.block) == 0 {
		return
	}
	content := strings.TrimRight(strings.Join(p.block, "\n"), "\n")
	switch p.current {
	case question:
		p.card.Question = content
	case answer:
		p.card.Answer = content
	case topic:
		p.card.Topic = strings.TrimSpace(content)
	}
	p.block = nil
}

func (p *deckParser) finishCard() {
	p.flushBlock()
	if p.card.Question != "" {
		p.cards = append(p.cards, p.card)
	}
	p.card = domain.Card{}
	p.current = none
}
