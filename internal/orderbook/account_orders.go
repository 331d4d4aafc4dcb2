package orderbook

import (
	"ircbook/internal/common"
)

// instrumentOrders is one account's resting orders on one instrument, kept
// in insertion order so the engine can walk them newest-first when
// cancelling contrary orders.
type instrumentOrders struct {
	bids []common.Order
	asks []common.Order
}

func (io *instrumentOrders) forSide(s common.Side) []common.Order {
	if s == common.Bid {
		return io.bids
	}
	return io.asks
}

func (io *instrumentOrders) setSide(s common.Side, orders []common.Order) {
	if s == common.Bid {
		io.bids = orders
	} else {
		io.asks = orders
	}
}

func (io *instrumentOrders) add(o common.Order) {
	io.setSide(o.Side, append(io.forSide(o.Side), o))
}

func (io *instrumentOrders) remove(o common.Order) {
	orders := io.forSide(o.Side)
	for i, existing := range orders {
		if existing.Rank == o.Rank {
			io.setSide(o.Side, append(orders[:i], orders[i+1:]...))
			return
		}
	}
}

func (io *instrumentOrders) replace(o common.Order) {
	orders := io.forSide(o.Side)
	for i, existing := range orders {
		if existing.Rank == o.Rank {
			orders[i] = o
			return
		}
	}
}

// AccountOrders is everything one account has resting across every
// instrument: its open orders, indexed by instrument, and the aggregate
// risk those orders impose per instrument/side.
type AccountOrders struct {
	byInstrument map[string]*instrumentOrders
	risk         map[string]common.Risk
}

func newAccountOrders() *AccountOrders {
	return &AccountOrders{
		byInstrument: make(map[string]*instrumentOrders),
		risk:         make(map[string]common.Risk),
	}
}

// RestingOn returns the account's resting orders on instrumentID, for the
// given side, oldest first.
func (a *AccountOrders) RestingOn(instrumentID string, s common.Side) []common.Order {
	io, ok := a.byInstrument[instrumentID]
	if !ok {
		return nil
	}
	return io.forSide(s)
}

// All returns every order the account has resting across every
// instrument, in no particular order — used by orders/gcancel.
func (a *AccountOrders) All() []common.Order {
	var out []common.Order
	for _, io := range a.byInstrument {
		out = append(out, io.bids...)
		out = append(out, io.asks...)
	}
	return out
}

// Risk returns the account's risk snapshot across every instrument it has
// resting orders on.
func (a *AccountOrders) Risk() common.RiskSnapshot {
	snap := make(common.RiskSnapshot, len(a.risk))
	for k, v := range a.risk {
		snap[k] = v
	}
	return snap
}

func (a *AccountOrders) addRisk(o common.Order) {
	r := a.risk[o.InstrumentID]
	if o.Side == common.Bid {
		r.Bid = r.Bid.Add(o.Cost())
	} else {
		r.Ask = r.Ask.Add(o.Cost())
	}
	a.risk[o.InstrumentID] = r
}

func (a *AccountOrders) subRisk(o common.Order) error {
	r := a.risk[o.InstrumentID]
	cost := o.Cost()
	if o.Side == common.Bid {
		if r.Bid.LessThan(cost) {
			return errInconsistentRisk(o)
		}
		r.Bid = r.Bid.Sub(cost)
	} else {
		if r.Ask.LessThan(cost) {
			return errInconsistentRisk(o)
		}
		r.Ask = r.Ask.Sub(cost)
	}
	a.risk[o.InstrumentID] = r
	return nil
}

func (a *AccountOrders) instrument(instrumentID string) *instrumentOrders {
	io, ok := a.byInstrument[instrumentID]
	if !ok {
		io = &instrumentOrders{}
		a.byInstrument[instrumentID] = io
	}
	return io
}

func errInconsistentRisk(o common.Order) error {
	return &inconsistentRiskError{o}
}

type inconsistentRiskError struct{ order common.Order }

func (e *inconsistentRiskError) Error() string {
	return "removing more risk than exists for " + e.order.String()
}

func (e *inconsistentRiskError) Unwrap() error { return common.ErrInconsistent }
