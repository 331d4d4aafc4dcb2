package book

import (
	"fmt"

	"ircbook/internal/common"
)

// Cross is a single settleable pair discovered by GetPriorityCross: Match
// is the older (lower-rank) resting order, Post is the newer (higher-rank)
// order that crossed into it. Per spec, the resting order's price is the
// one the trade settles at, so Match receives any price improvement.
type Cross struct {
	Match common.Order
	Post  common.Order
}

// InstrumentBook holds the sorted bid and ask sides of a single
// instrument and assigns ranks on first insertion.
type InstrumentBook struct {
	Bids side
	Asks side

	nextRank int
}

func NewInstrumentBook() *InstrumentBook {
	return &InstrumentBook{
		Bids: newSide(bidLess),
		Asks: newSide(askLess),
	}
}

// SetNextRank forces the rank counter forward, used when restoring a book
// from a snapshot (the stored value is the max observed rank; restore
// resumes one past it).
func (b *InstrumentBook) SetNextRank(next int) {
	if next > b.nextRank {
		b.nextRank = next
	}
}

func (b *InstrumentBook) sideFor(s common.Side) *side {
	if s == common.Bid {
		return &b.Bids
	}
	return &b.Asks
}

// Add inserts order into the appropriate side. If order has no rank yet,
// it is assigned the book's next rank. Returns the order as actually
// stored (with its rank set).
func (b *InstrumentBook) Add(order common.Order) common.Order {
	if order.Rank == common.RankUnassigned {
		order.Rank = b.nextRank
		b.nextRank++
	} else if order.Rank >= b.nextRank {
		b.nextRank = order.Rank + 1
	}
	b.sideFor(order.Side).insert(order)
	return order
}

// Remove deletes order from its side. Returns ErrNotFound if it is not
// resting there.
func (b *InstrumentBook) Remove(order common.Order) error {
	if !b.sideFor(order.Side).remove(order.Price, order.Rank) {
		return fmt.Errorf("%w: order %s not resting in book", common.ErrNotFound, order)
	}
	return nil
}

// Shrink replaces a resting order with a copy carrying a smaller, still
// positive quantity, preserving its rank and book position.
func (b *InstrumentBook) Shrink(order common.Order) error {
	if !b.sideFor(order.Side).shrink(order.Price, order) {
		return fmt.Errorf("%w: order %s not resting in book", common.ErrNotFound, order)
	}
	return nil
}

// BestBid returns the highest resting bid price, if any.
func (b *InstrumentBook) BestBid() (common.Order, bool) {
	level, ok := b.Bids.best()
	if !ok {
		return common.Order{}, false
	}
	return level.front(), true
}

// BestAsk returns the lowest resting ask price, if any.
func (b *InstrumentBook) BestAsk() (common.Order, bool) {
	level, ok := b.Asks.best()
	if !ok {
		return common.Order{}, false
	}
	return level.front(), true
}

// GetPriorityCross returns the single pair that should settle next, or
// false if the book is not currently crossed (either side empty, or best
// bid below best ask). An equal-rank bid and ask is a programmer error
// (invariant 2 guarantees ranks are unique per instrument) and is reported
// as ErrInconsistent rather than silently picked one way or the other.
func (b *InstrumentBook) GetPriorityCross() (Cross, bool, error) {
	bidLevel, bok := b.Bids.best()
	askLevel, aok := b.Asks.best()
	if !bok || !aok {
		return Cross{}, false, nil
	}
	if bidLevel.Price.LessThan(askLevel.Price) {
		return Cross{}, false, nil
	}

	obid := bidLevel.front()
	oask := askLevel.front()
	switch {
	case obid.Rank < oask.Rank:
		return Cross{Match: obid, Post: oask}, true, nil
	case obid.Rank > oask.Rank:
		return Cross{Match: oask, Post: obid}, true, nil
	default:
		return Cross{}, false, fmt.Errorf("%w: bid and ask share rank %d", common.ErrInconsistent, obid.Rank)
	}
}
