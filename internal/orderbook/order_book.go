// Package orderbook implements the dual-indexed book (C3): every open
// order, indexed both by instrument (delegated to book.InstrumentBook) and
// by account (for risk aggregation and contrary-order cancellation).
package orderbook

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ircbook/internal/book"
	"ircbook/internal/common"
)

// OrderBook is every open order across every instrument.
type OrderBook struct {
	byInstrument map[string]*book.InstrumentBook
	byAccount    map[string]*AccountOrders
}

func New() *OrderBook {
	return &OrderBook{
		byInstrument: make(map[string]*book.InstrumentBook),
		byAccount:    make(map[string]*AccountOrders),
	}
}

func (ob *OrderBook) instrument(instrumentID string) *book.InstrumentBook {
	ib, ok := ob.byInstrument[instrumentID]
	if !ok {
		ib = book.NewInstrumentBook()
		ob.byInstrument[instrumentID] = ib
	}
	return ib
}

func (ob *OrderBook) account(accountID string) *AccountOrders {
	a, ok := ob.byAccount[accountID]
	if !ok {
		a = newAccountOrders()
		ob.byAccount[accountID] = a
	}
	return a
}

// InstrumentBook exposes the read-only per-instrument book (best bid/ask,
// full depth) for ticker/depth/claims queries. Returns nil if the
// instrument has never had an order.
func (ob *OrderBook) InstrumentBook(instrumentID string) *book.InstrumentBook {
	return ob.byInstrument[instrumentID]
}

// Account returns the account's resting-order index, or nil if the
// account has never had an order in the book. An index is kept once
// created, so it may hold no orders.
func (ob *OrderBook) Account(accountID string) *AccountOrders {
	return ob.byAccount[accountID]
}

// AddOrder inserts a new order into both indexes, assigning it a rank, and
// returns the stored order (with its rank set).
func (ob *OrderBook) AddOrder(order common.Order) common.Order {
	stored := ob.instrument(order.InstrumentID).Add(order)
	ob.account(order.AccountID).instrument(order.InstrumentID).add(stored)
	ob.account(order.AccountID).addRisk(stored)
	return stored
}

// RemoveOrder deletes order from both indexes.
func (ob *OrderBook) RemoveOrder(order common.Order) error {
	if err := ob.instrument(order.InstrumentID).Remove(order); err != nil {
		return err
	}
	acct := ob.account(order.AccountID)
	acct.instrument(order.InstrumentID).remove(order)
	if err := acct.subRisk(order); err != nil {
		return err
	}
	return nil
}

// RemoveSharesFromOrder removes k shares from order: shrinks it in place
// if shares remain, or removes it outright if k consumes the order
// entirely. Rank is preserved. k must be in (0, order.Quantity].
func (ob *OrderBook) RemoveSharesFromOrder(order common.Order, k decimal.Decimal) error {
	if k.LessThanOrEqual(decimal.Zero) || k.GreaterThan(order.Quantity) {
		return fmt.Errorf("%w: cannot remove %s shares from order with %s remaining", common.ErrInvalidQuantity, k, order.Quantity)
	}
	remaining := order.Quantity.Sub(k)
	if remaining.IsZero() {
		return ob.RemoveOrder(order)
	}
	shrunk := order.WithQuantity(remaining)

	if err := ob.instrument(order.InstrumentID).Shrink(shrunk); err != nil {
		return err
	}
	acct := ob.account(order.AccountID)
	acct.instrument(order.InstrumentID).replace(shrunk)
	if err := acct.subRisk(order.WithQuantity(k)); err != nil {
		return err
	}
	return nil
}

// OrdersOn returns every open order resting on instrumentID, both sides,
// for the claim-resolution sweep.
func (ob *OrderBook) OrdersOn(instrumentID string) []common.Order {
	ib, ok := ob.byInstrument[instrumentID]
	if !ok {
		return nil
	}
	var out []common.Order
	for _, level := range ib.Bids.Items() {
		out = append(out, level.Orders...)
	}
	for _, level := range ib.Asks.Items() {
		out = append(out, level.Orders...)
	}
	return out
}

// GetPriorityCross delegates to the named instrument's book.
func (ob *OrderBook) GetPriorityCross(instrumentID string) (book.Cross, bool, error) {
	ib, ok := ob.byInstrument[instrumentID]
	if !ok {
		return book.Cross{}, false, nil
	}
	return ib.GetPriorityCross()
}

// Dump produces the plain-data snapshot described in §6: every open
// order, plus the highest rank observed per instrument (restore adds 1).
func (ob *OrderBook) Dump() Snapshot {
	ranks := make(map[string]int)
	var orders []OrderDump
	for instrumentID, ib := range ob.byInstrument {
		for _, level := range ib.Bids.Items() {
			for _, o := range level.Orders {
				orders = append(orders, dumpOrder(o))
				bumpRank(ranks, instrumentID, o.Rank)
			}
		}
		for _, level := range ib.Asks.Items() {
			for _, o := range level.Orders {
				orders = append(orders, dumpOrder(o))
				bumpRank(ranks, instrumentID, o.Rank)
			}
		}
	}
	return Snapshot{Rank: ranks, Orders: orders}
}

func bumpRank(ranks map[string]int, instrumentID string, rank int) {
	if cur, ok := ranks[instrumentID]; !ok || rank > cur {
		ranks[instrumentID] = rank
	}
}

// Load restores an OrderBook from a snapshot produced by Dump.
func Load(snap Snapshot) (*OrderBook, error) {
	ob := New()
	for _, d := range snap.Orders {
		o, err := loadOrder(d)
		if err != nil {
			return nil, err
		}
		ob.AddOrder(o)
	}
	for instrumentID, maxRank := range snap.Rank {
		ob.instrument(instrumentID).SetNextRank(maxRank + 1)
	}
	return ob, nil
}
