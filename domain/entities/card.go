package entities

import (
	"math/rand"
)

// Suit identifies a card suit. Suits are decorative in blackjack; they never
// affect hand value.
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Rank identifies a card rank. Aces are scored as 11 or 1 by Hand.Value.
type Rank int

const (
	Ace   Rank = 1
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

// Card is an immutable rank/suit pair.
type Card struct {
	Rank Rank
	Suit Suit
}

func (c Card) String() string {
	r := map[Rank]string{
		Ace: "A", Two: "2", Three: "3", Four: "4", Five: "5", Six: "6",
		Seven: "7", Eight: "8", Nine: "9", Ten: "10", Jack: "J", Queen: "Q", King: "K",
	}[c.Rank]
	s := map[Suit]string{Spades: "♠", Hearts: "♥", Diamonds: "♦", Clubs: "♣"}[c.Suit]
	return r + s
}

// score returns the card's blackjack value with aces counted high.
func (c Card) score() int {
	switch {
	case c.Rank == Ace:
		return 11
	case c.Rank >= Ten:
		return 10
	default:
		return int(c.Rank)
	}
}

// Hand is an ordered sequence of dealt cards.
type Hand []Card

// Value returns the blackjack value of the hand. Each ace counts as 11
// unless that would bust the hand, in which case aces are demoted to 1 one
// at a time until the total is 21 or less (soft/hard resolution).
func (h Hand) Value() int {
	total, aces := 0, 0
	for _, c := range h {
		if c.Rank == Ace {
			aces++
		}
		total += c.score()
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// IsBlackjack reports a two-card 21.
func (h Hand) IsBlackjack() bool {
	return len(h) == 2 && h.Value() == 21
}

// IsBust reports a hand value over 21.
func (h Hand) IsBust() bool {
	return h.Value() > 21
}

// Deck is a stack of cards dealt from the top.
type Deck struct {
	cards []Card
}

// NewDeck returns an unshuffled 52-card deck.
func NewDeck() *Deck {
	cards := make([]Card, 0, 52)
	for s := Spades; s <= Clubs; s++ {
		for r := Ace; r <= King; r++ {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	return &Deck{cards: cards}
}

// NewShuffledDeck returns a freshly shuffled 52-card deck.
func NewShuffledDeck() *Deck {
	d := NewDeck()
	d.Shuffle()
	return d
}

// DeckFrom builds a deck that deals the given cards in order. Intended for
// tests that need a predetermined deal.
func DeckFrom(cards ...Card) *Deck {
	return &Deck{cards: cards}
}

// Shuffle randomizes the deck order with an unbiased shuffle.
func (d *Deck) Shuffle() {
	rand.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Deal removes and returns the top card.
func (d *Deck) Deal() Card {
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
