package common

import "github.com/shopspring/decimal"

// Risk aggregates the worst-case locked cash an account's resting orders
// on one instrument contribute, per side. It is the unit the book reports
// up to the portfolio layer so cash math never needs to know about orders.
type Risk struct {
	Bid decimal.Decimal
	Ask decimal.Decimal
}

// RiskSnapshot is an account's risk across every instrument it has resting
// orders on.
type RiskSnapshot map[string]Risk

// Side is which side of the book a limit order rests on.
type Side int

const (
	Bid Side = iota
	Ask
)

// String renders the single-character wire form used by the snapshot
// format (§6): "b" for bid, "a" for ask.
func (s Side) String() string {
	switch s {
	case Bid:
		return "b"
	case Ask:
		return "a"
	default:
		return "?"
	}
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Bid {
		return Ask
	}
	return Bid
}

// CouponSide is which outcome a coupon is exposed to.
type CouponSide int

const (
	Yes CouponSide = iota
	No
)

func (s CouponSide) String() string {
	switch s {
	case Yes:
		return "y"
	case No:
		return "n"
	default:
		return "?"
	}
}

// Opposite returns the other coupon side.
func (s CouponSide) Opposite() CouponSide {
	if s == Yes {
		return No
	}
	return Yes
}

// SideFromCoupon maps an order side to the coupon side it produces when it
// settles: a filled bid is a claim that "yes" happens, a filled ask is a
// claim that "no" happens.
func SideFromCoupon(s Side) CouponSide {
	if s == Bid {
		return Yes
	}
	return No
}
