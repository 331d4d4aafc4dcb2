package portfolio

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ircbook/internal/common"
)

// InitialCash is the cash balance a newly created portfolio starts with.
var InitialCash = decimal.NewFromInt(1000000)

// Portfolio is one account's cash balance and coupon holdings.
type Portfolio struct {
	AccountID string
	Cash      decimal.Decimal
	Coupons   map[string]*Coupon // instrument id -> coupon
}

// New creates a portfolio with the standard initial cash grant.
func New(accountID string) *Portfolio {
	return &Portfolio{
		AccountID: accountID,
		Cash:      InitialCash,
		Coupons:   make(map[string]*Coupon),
	}
}

func (p *Portfolio) Coupon(instrumentID string) (*Coupon, bool) {
	c, ok := p.Coupons[instrumentID]
	return c, ok
}

// AddCoupon applies a trade fill to the portfolio: newCoupon is the
// (possibly partial) coupon the account just earned, and cost is the
// per-share price it paid for that side. The cash effects follow the
// coupon algebra in §4.4:
//
//   - no existing coupon, or same side as the existing one: the account
//     pays cost per new share.
//   - opposite side, closing no more than the existing position: the
//     account releases 100 per share for the overlap and pays cost for the
//     fresh shares it is buying, a net gain of (100-cost) per share.
//   - opposite side, closing more than the existing position: the existing
//     position is fully closed at 100/share, and the account still pays
//     cost for the *entire* incoming quantity (not just the excess) — this
//     is the upstream behavior being preserved deliberately; see DESIGN.md.
func (p *Portfolio) AddCoupon(newCoupon Coupon, cost decimal.Decimal) {
	existing, ok := p.Coupons[newCoupon.InstrumentID]
	if !ok {
		p.Coupons[newCoupon.InstrumentID] = &Coupon{
			InstrumentID: newCoupon.InstrumentID,
			Shares:       newCoupon.Shares,
			Side:         newCoupon.Side,
		}
		p.Cash = p.Cash.Sub(cost.Mul(newCoupon.Shares))
	} else if existing.Side == newCoupon.Side {
		p.Cash = p.Cash.Sub(cost.Mul(newCoupon.Shares))
		existing.AddShares(newCoupon.Side, newCoupon.Shares)
	} else {
		if existing.Shares.GreaterThanOrEqual(newCoupon.Shares) {
			p.Cash = p.Cash.Add(hundred.Sub(cost).Mul(newCoupon.Shares))
		} else {
			p.Cash = p.Cash.Add(hundred.Mul(existing.Shares))
			p.Cash = p.Cash.Sub(cost.Mul(newCoupon.Shares))
		}
		existing.AddShares(newCoupon.Side, newCoupon.Shares)
	}

	if c, ok := p.Coupons[newCoupon.InstrumentID]; ok && c.Shares.IsZero() {
		delete(p.Coupons, newCoupon.InstrumentID)
	}
}

// SettleClaim resolves this account's exposure to one instrument's claim:
// a coupon on the winning side is paid 100 per share, a coupon on the
// losing side pays nothing, and either way the coupon is removed — it no
// longer has anything to represent once the claim is resolved.
func (p *Portfolio) SettleClaim(instrumentID string, outcome common.CouponSide) {
	c, ok := p.Coupons[instrumentID]
	if !ok {
		return
	}
	if c.Side == outcome {
		p.Cash = p.Cash.Add(hundred.Mul(c.Shares))
	}
	delete(p.Coupons, instrumentID)
}

// adjustedRisk folds a held coupon's guaranteed payoff into a raw risk
// entry: a yes coupon can cover bid-side risk (the account already owns
// the upside it would be buying more of), a no coupon covers ask-side
// risk, each by 100 per share held.
func (p *Portfolio) adjustedRisk(instrumentID string, r common.Risk) (a, b decimal.Decimal) {
	a, b = r.Bid, r.Ask
	if c, ok := p.Coupons[instrumentID]; ok {
		switch c.Side {
		case common.Yes:
			a = a.Sub(hundred.Mul(c.Shares))
		case common.No:
			b = b.Sub(hundred.Mul(c.Shares))
		}
	}
	return a, b
}

// LockedCash is the portion of cash reserved against the worst case of
// every resting order in risk, after crediting any coupon hedges.
func (p *Portfolio) LockedCash(risk common.RiskSnapshot) decimal.Decimal {
	locked := decimal.Zero
	for instrumentID, r := range risk {
		a, b := p.adjustedRisk(instrumentID, r)
		locked = locked.Add(maxThree(a, b, decimal.Zero))
	}
	return locked
}

// UnlockedCash is cash minus what is locked by the given risk snapshot.
func (p *Portfolio) UnlockedCash(risk common.RiskSnapshot) decimal.Decimal {
	return p.Cash.Sub(p.LockedCash(risk))
}

// Afford computes the maximum quantity of order the portfolio can sustain
// given its current risk snapshot: cash available after locking every
// *other* instrument's worst case, then as much of order's own instrument
// as the remaining cash (net of that instrument's hedge-adjusted risk)
// supports at order's price.
func (p *Portfolio) Afford(risk common.RiskSnapshot, order common.Order) decimal.Decimal {
	locking := decimal.Zero
	for instrumentID, r := range risk {
		if instrumentID == order.InstrumentID {
			continue
		}
		a, b := p.adjustedRisk(instrumentID, r)
		locking = locking.Add(maxThree(a, b, decimal.Zero))
	}
	available := p.Cash.Sub(locking)

	a, b := p.adjustedRisk(order.InstrumentID, risk[order.InstrumentID])

	var shares decimal.Decimal
	if order.Side == common.Bid {
		shares = available.Sub(a).Div(order.Price).Floor()
	} else {
		shares = available.Sub(b).Div(hundred.Sub(order.Price)).Floor()
	}
	return shares
}

func maxThree(a, b, c decimal.Decimal) decimal.Decimal {
	m := a
	if b.GreaterThan(m) {
		m = b
	}
	if c.GreaterThan(m) {
		m = c
	}
	return m
}

func (p *Portfolio) String() string {
	return fmt.Sprintf("%s: cash=%s coupons=%d", p.AccountID, p.Cash, len(p.Coupons))
}
