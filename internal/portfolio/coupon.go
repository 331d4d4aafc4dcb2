// Package portfolio implements per-account cash and coupon accounting
// (C4): the coupon algebra, locked-cash computation, and affordability
// checks the trading engine consults before it lets an order rest.
package portfolio

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ircbook/internal/common"
)

var hundred = decimal.NewFromInt(100)

// Coupon is a single account's exposure to one instrument: Yes pays 100 if
// the claim resolves true, No pays 100 if false. There is at most one
// coupon per (account, instrument); AddShares nets opposite-side trades
// against it and flips its side if they overshoot.
type Coupon struct {
	InstrumentID string
	Shares       decimal.Decimal
	Side         common.CouponSide
}

// AddShares nets n additional shares of side into the coupon. Same-side
// shares simply accumulate; opposite-side shares are subtracted, and if
// that would go negative the coupon flips side and keeps the absolute
// overshoot.
func (c *Coupon) AddShares(side common.CouponSide, n decimal.Decimal) {
	if c.Side == side {
		c.Shares = c.Shares.Add(n)
		return
	}
	c.Shares = c.Shares.Sub(n)
	if c.Shares.IsNegative() {
		c.Side = side
		c.Shares = c.Shares.Neg()
	}
}

func (c Coupon) String() string {
	return fmt.Sprintf("%s: %s * %s", c.InstrumentID, c.Side, c.Shares)
}
