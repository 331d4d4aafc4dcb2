// Package book implements the per-instrument order book (C2): the sorted
// bid and ask sides of a single instrument, rank assignment, and priority-
// cross discovery. It has no notion of accounts or cash; that lives one
// layer up, in orderbook.
package book

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"

	"ircbook/internal/common"
)

// PriceLevel groups every resting order at one price on one side, in FIFO
// (rank) order: the front of Orders is the oldest, highest-priority order
// at that price.
type PriceLevel struct {
	Price  decimal.Decimal
	Orders []common.Order
}

func (p *PriceLevel) String() string {
	return fmt.Sprintf("%s x%d", p.Price, len(p.Orders))
}

// front is the oldest (highest time-priority) order resting at this level.
func (p *PriceLevel) front() common.Order {
	return p.Orders[0]
}

// removeRank removes the order with the given rank from the level,
// preserving FIFO order of the rest. Returns false if no such order rests
// here.
func (p *PriceLevel) removeRank(rank int) bool {
	for i, o := range p.Orders {
		if o.Rank == rank {
			p.Orders = append(p.Orders[:i], p.Orders[i+1:]...)
			return true
		}
	}
	return false
}

// replaceRank overwrites the order with the given rank in place (used when
// an order's quantity shrinks but does not reach zero).
func (p *PriceLevel) replaceRank(o common.Order) bool {
	for i := range p.Orders {
		if p.Orders[i].Rank == o.Rank {
			p.Orders[i] = o
			return true
		}
	}
	return false
}

// side is one half of an InstrumentBook: a btree of price levels, ordered
// so that Min() always yields the best (highest priority to trade against)
// level for this side.
type side struct {
	levels *btree.BTreeG[*PriceLevel]
}

func newSide(less func(a, b *PriceLevel) bool) side {
	return side{levels: btree.NewBTreeG(less)}
}

// bidLess sorts bid price levels so the highest price is Min(): the
// standard "best bid" is the highest price a buyer is willing to pay.
func bidLess(a, b *PriceLevel) bool { return a.Price.GreaterThan(b.Price) }

// askLess sorts ask price levels so the lowest price is Min(): the "best
// ask" is the lowest price a seller is willing to accept.
func askLess(a, b *PriceLevel) bool { return a.Price.LessThan(b.Price) }

func (s *side) best() (*PriceLevel, bool) {
	return s.levels.Min()
}

func (s *side) levelFor(price decimal.Decimal) (*PriceLevel, bool) {
	return s.levels.Get(&PriceLevel{Price: price})
}

func (s *side) insert(o common.Order) {
	level, ok := s.levelFor(o.Price)
	if !ok {
		level = &PriceLevel{Price: o.Price}
		s.levels.Set(level)
	}
	level.Orders = append(level.Orders, o)
}

// remove deletes the order with the given price/rank from this side.
// Reports false if not found.
func (s *side) remove(price decimal.Decimal, rank int) bool {
	level, ok := s.levelFor(price)
	if !ok {
		return false
	}
	if !level.removeRank(rank) {
		return false
	}
	if len(level.Orders) == 0 {
		s.levels.Delete(level)
	}
	return true
}

// shrink replaces the order at (price, o.Rank) with o, whose quantity has
// been reduced but is still positive. Reports false if not found.
func (s *side) shrink(price decimal.Decimal, o common.Order) bool {
	level, ok := s.levelFor(price)
	if !ok {
		return false
	}
	return level.replaceRank(o)
}

// Items returns every price level on this side, best first (Scan walks in
// the same ascending order as Min()->Max(), and our comparators define
// "best" as smallest), for dump/test inspection.
func (s *side) Items() []*PriceLevel {
	var out []*PriceLevel
	s.levels.Scan(func(p *PriceLevel) bool {
		out = append(out, p)
		return true
	})
	return out
}
