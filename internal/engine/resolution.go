package engine

import "ircbook/internal/common"

// Resolve runs the claim-resolution sweep for one instrument: every open
// order on it is cancelled, and every portfolio holding a coupon on it is
// settled — paid 100/share if its side matches outcome, nothing otherwise
// — and the coupon removed either way. Risk snapshots need no separate
// recomputation; RemoveOrder already keeps each account's risk consistent
// as it cancels.
func (e *TradingEngine) Resolve(instrumentID string, outcome common.CouponSide) error {
	for _, o := range e.Book.OrdersOn(instrumentID) {
		if err := e.Book.RemoveOrder(o); err != nil {
			return err
		}
	}
	for _, pf := range e.Positions.All() {
		pf.SettleClaim(instrumentID, outcome)
	}
	return nil
}
