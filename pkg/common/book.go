package common

import (
	"time"

	. "github.com/robaho/fixed"

	"github.com/robaho/go-symbols/pkg/symbol"
)

type BookLevel struct {
	Price    Fixed
	Quantity Fixed
}

type Book struct {
	Symbol   *symbol.Symbol
	Bids     []BookLevel
	Asks     []BookLevel
	Sequence uint64
}

// an exchange trade, the symbols of the trades in one event may differ
type Trade struct {
	Symbol     *symbol.Symbol
	Quantity   Fixed
	Price      Fixed
	ExchangeID string
	TradeTime  time.Time
}

func (book *Book) String() string {
	var s = "book:"
	if book.Symbol != nil {
		s += book.Symbol.Value()
	} else {
		s += "<nil>"
	}
	s = s + " bids: " + toString(book.Bids) + " asks: " + toString(book.Asks)
	return s
}

// Equals compares the symbol identity, the sequence and every level.
func (book *Book) Equals(other *Book) bool {
	if !book.Symbol.Equal(other.Symbol) || book.Sequence != other.Sequence {
		return false
	}
	return levelsEqual(book.Bids, other.Bids) && levelsEqual(book.Asks, other.Asks)
}

func (book *Book) HasBids() bool {
	return len(book.Bids) > 0
}
func (book *Book) HasAsks() bool {
	return len(book.Asks) > 0
}
func (book *Book) IsEmpty() bool {
	return !book.HasBids() && !book.HasAsks()
}

func (t *Trade) Equals(other *Trade) bool {
	return t.Symbol.Equal(other.Symbol) &&
		t.Quantity.Equal(other.Quantity) &&
		t.Price.Equal(other.Price) &&
		t.ExchangeID == other.ExchangeID &&
		t.TradeTime.Equal(other.TradeTime)
}

func levelsEqual(a, b []BookLevel) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Price.Equal(b[i].Price) || !a[i].Quantity.Equal(b[i].Quantity) {
			return false
		}
	}
	return true
}

func toString(levels []BookLevel) string {
	var s string
	for i, e := range levels {
		if i > 0 {
			s += ","
		}
		s = s + e.Quantity.String() + " @ " + e.Price.String()
	}
	return s
}
