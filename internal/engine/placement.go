package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"ircbook/internal/common"
	"ircbook/internal/portfolio"
	"ircbook/internal/trades"
)

// Placement reports everything that happened while placing one order: how
// much was absorbed by cancelling the account's own contrary orders, every
// trade the remainder settled, how much of it ended up resting, and the
// cash/coupon effect on the poster's portfolio. A fresh Placement is
// allocated per call to Place — nothing here is retained across calls.
type Placement struct {
	CancelledShares decimal.Decimal
	RemainingShares decimal.Decimal // set only when absorbed entirely by cancellation
	Trades          []trades.Trade
	SharesExchanged decimal.Decimal
	Residual        decimal.Decimal // requested minus cancelled minus exchanged minus still-resting
	Cash            decimal.Decimal // positive = spent, negative = received

	OldShares decimal.Decimal
	OldSide   common.CouponSide
	HadOld    bool
	NewShares decimal.Decimal
	NewSide   common.CouponSide
	HasNew    bool
}

func newPlacement() *Placement {
	return &Placement{
		CancelledShares: decimal.Zero,
		RemainingShares: decimal.Zero,
		SharesExchanged: decimal.Zero,
		Cash:            decimal.Zero,
		Residual:        decimal.Zero,
	}
}

func (p *Placement) String() string {
	var sb strings.Builder
	if p.CancelledShares.IsPositive() {
		fmt.Fprintf(&sb, "Orders for %s coupons cancelled. ", p.CancelledShares)
	}
	fmt.Fprintf(&sb, "%s coupons traded. ", p.SharesExchanged)
	if len(p.Trades) > 0 {
		fmt.Fprintf(&sb, "%d orders matched. ", len(p.Trades))
	}
	if p.RemainingShares.IsPositive() {
		fmt.Fprintf(&sb, "Orders for %s coupons remain queued. ", p.RemainingShares)
	}
	if p.Cash.IsPositive() {
		fmt.Fprintf(&sb, "Total cost of order: %s. ", p.Cash)
	} else if p.Cash.IsNegative() {
		fmt.Fprintf(&sb, "Total revenue from order: %s. ", p.Cash.Neg())
	}
	return strings.TrimSpace(sb.String())
}

// snapshotOld records a portfolio's current coupon state on an instrument
// into the Placement, used to capture before/after.
func (p *Placement) snapshotOld(pf *portfolio.Portfolio, instrumentID string) {
	if c, ok := pf.Coupon(instrumentID); ok {
		p.OldShares, p.OldSide, p.HadOld = c.Shares, c.Side, true
	}
}

func (p *Placement) snapshotNew(pf *portfolio.Portfolio, instrumentID string) {
	if c, ok := pf.Coupon(instrumentID); ok {
		p.NewShares, p.NewSide, p.HasNew = c.Shares, c.Side, true
	}
}
