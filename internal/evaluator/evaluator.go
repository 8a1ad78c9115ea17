package evaluator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lox/holdem-table/internal/deck"
)

// ErrInvalidCardCount is returned when Evaluate is given fewer than 5 or more
// than 7 cards.
var ErrInvalidCardCount = errors.New("evaluate needs between 5 and 7 cards")

// Evaluate finds the best five card hand among 5 to 7 cards by ranking every
// five card subset.
func Evaluate(cards []deck.Card) (Hand, error) {
	n := len(cards)
	if n < 5 || n > 7 {
		return Hand{}, fmt.Errorf("%w: got %d", ErrInvalidCardCount, n)
	}

	var best Hand
	combo := make([]deck.Card, 5)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						combo[0], combo[1], combo[2], combo[3], combo[4] =
							cards[a], cards[b], cards[c], cards[d], cards[e]
						h := RankOfFive(combo)
						if best.Rank == 0 || h.Compare(best) > 0 {
							best = h
						}
					}
				}
			}
		}
	}
	return best, nil
}

// MustEvaluate is Evaluate for callers that already guarantee the card count.
func MustEvaluate(cards []deck.Card) Hand {
	h, err := Evaluate(cards)
	if err != nil {
		panic(err)
	}
	return h
}

// RankOfFive ranks exactly five cards. The input slice is not modified.
func RankOfFive(five []deck.Card) Hand {
	hand := make([]deck.Card, len(five))
	copy(hand, five)
	sort.SliceStable(hand, func(i, j int) bool {
		return hand[i].Value() > hand[j].Value()
	})

	flush := true
	for _, c := range hand[1:] {
		if c.Suit != hand[0].Suit {
			flush = false
			break
		}
	}

	straight := true
	for i := 0; i < 4; i++ {
		if hand[i].Value()-1 != hand[i+1].Value() {
			straight = false
			break
		}
	}
	wheel := isWheel(hand)
	if wheel {
		// Ace plays low: 5 4 3 2 A
		ace := hand[0]
		copy(hand, hand[1:])
		hand[4] = ace
		straight = true
	}

	if straight && flush {
		if hand[0].Rank == deck.Ace {
			return Hand{Rank: RoyalFlush, Cards: hand}
		}
		return Hand{Rank: StraightFlush, Cards: hand}
	}

	counts := make(map[deck.Rank]int, 5)
	for _, c := range hand {
		counts[c.Rank]++
	}
	shape := groupShape(counts)

	switch {
	case shape[0] == 4:
		return Hand{Rank: FourOfAKind, Cards: byGroups(hand, counts)}
	case shape[0] == 3 && shape[1] == 2:
		return Hand{Rank: FullHouse, Cards: byGroups(hand, counts)}
	case flush:
		return Hand{Rank: Flush, Cards: hand}
	case straight:
		return Hand{Rank: Straight, Cards: hand}
	case shape[0] == 3:
		return Hand{Rank: ThreeOfAKind, Cards: byGroups(hand, counts)}
	case shape[0] == 2 && shape[1] == 2:
		return Hand{Rank: TwoPair, Cards: byGroups(hand, counts)}
	case shape[0] == 2:
		return Hand{Rank: OnePair, Cards: byGroups(hand, counts)}
	default:
		return Hand{Rank: HighCard, Cards: hand}
	}
}

// isWheel expects cards sorted by descending value
func isWheel(sorted []deck.Card) bool {
	want := [5]deck.Rank{deck.Ace, deck.Five, deck.Four, deck.Three, deck.Two}
	for i, c := range sorted {
		if c.Rank != want[i] {
			return false
		}
	}
	return true
}

// groupShape returns the rank multiplicities in descending order, padded to 5
func groupShape(counts map[deck.Rank]int) [5]int {
	var shape [5]int
	i := 0
	for _, n := range counts {
		shape[i] = n
		i++
	}
	sort.Sort(sort.Reverse(sort.IntSlice(shape[:])))
	return shape
}

// byGroups orders cards by group size, then by value, so the deciding
// groups lead and kickers follow.
func byGroups(hand []deck.Card, counts map[deck.Rank]int) []deck.Card {
	out := make([]deck.Card, len(hand))
	copy(out, hand)
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := counts[out[i].Rank], counts[out[j].Rank]
		if ci != cj {
			return ci > cj
		}
		return out[i].Value() > out[j].Value()
	})
	return out
}
