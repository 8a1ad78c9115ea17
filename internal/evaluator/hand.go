package evaluator

import (
	"fmt"
	"strings"

	"github.com/lox/holdem-table/internal/deck"
)

// HandRank is the category of a five card hand, 1 (High Card) to 10 (Royal Flush)
type HandRank int

const (
	HighCard HandRank = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns the string representation of a hand rank
func (hr HandRank) String() string {
	switch hr {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// Hand is an evaluated five card hand. Cards are in tie-break order: the
// deciding rank groups come first, kickers after, so two hands of the same
// category compare card by card from the left.
type Hand struct {
	Rank  HandRank
	Cards []deck.Card
}

// Name returns the category name, e.g. "Full House"
func (h Hand) Name() string {
	return h.Rank.String()
}

// String returns a string representation of the hand
func (h Hand) String() string {
	cardStrs := make([]string, len(h.Cards))
	for i, card := range h.Cards {
		cardStrs[i] = card.String()
	}
	return fmt.Sprintf("%s [%s]", h.Rank, strings.Join(cardStrs, " "))
}

// Compare compares two hands and returns:
// -1 if h1 is weaker than h2
//
//	0 if h1 equals h2
//	1 if h1 is stronger than h2
func (h1 Hand) Compare(h2 Hand) int {
	if h1.Rank < h2.Rank {
		return -1
	}
	if h1.Rank > h2.Rank {
		return 1
	}
	return Compare(h1.Cards, h2.Cards)
}

// Compare compares two tie-break ordered card sequences by value. The first
// differing position decides.
func Compare(a, b []deck.Card) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i].Value() > b[i].Value() {
			return 1
		}
		if a[i].Value() < b[i].Value() {
			return -1
		}
	}
	return 0
}
