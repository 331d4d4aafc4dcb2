package common

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RankUnassigned marks an Order that has never been inserted into an
// InstrumentBook. A book assigns a real rank (>= 0) on first insertion.
const RankUnassigned = -1

var (
	hundred = decimal.NewFromInt(100)
	zero    = decimal.Zero
)

// Order is a single limit order: a standing offer to buy ("bid", i.e. buy
// yes) or sell ("ask", i.e. buy no) a quantity of coupons on one instrument
// at one price. Every field but Quantity and Rank is immutable once the
// order is constructed; Quantity only ever shrinks and Rank is assigned
// exactly once, on first insertion into a book.
type Order struct {
	ID           uuid.UUID
	AccountID    string
	Side         Side
	InstrumentID string
	Price        decimal.Decimal // strictly between 0 and 100
	Quantity     decimal.Decimal // remaining shares, always > 0 while resting
	Timestamp    time.Time
	Rank         int
}

// New validates and constructs an Order, assigning it a fresh UUID. Rank
// starts unassigned; the book assigns it on insertion.
func New(accountID string, side Side, instrumentID string, price, quantity decimal.Decimal, timestamp time.Time) (Order, error) {
	o := Order{
		ID:           uuid.New(),
		AccountID:    accountID,
		Side:         side,
		InstrumentID: instrumentID,
		Price:        price,
		Quantity:     quantity,
		Timestamp:    timestamp,
		Rank:         RankUnassigned,
	}
	return o, o.validate()
}

func (o Order) validate() error {
	if o.AccountID == "" {
		return fmt.Errorf("%w: account id must not be empty", ErrInvalidOrder)
	}
	if o.Side != Bid && o.Side != Ask {
		return fmt.Errorf("%w: invalid side", ErrInvalidOrder)
	}
	if o.InstrumentID == "" {
		return fmt.Errorf("%w: instrument id must not be empty", ErrInvalidOrder)
	}
	if o.Price.LessThanOrEqual(zero) || o.Price.GreaterThanOrEqual(hundred) {
		return fmt.Errorf("%w: price must be strictly between 0 and 100", ErrInvalidOrder)
	}
	if o.Quantity.LessThanOrEqual(zero) {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidOrder)
	}
	if o.Rank != RankUnassigned && o.Rank < 0 {
		return fmt.Errorf("%w: rank must be zero or greater", ErrInvalidOrder)
	}
	return nil
}

// Cost is the worst-case locked cash this order contributes: what the
// account owes if the order fills completely. A bid locks price*qty; an
// ask locks (100-price)*qty, since selling yes at price p is buying no at
// 100-p.
func (o Order) Cost() decimal.Decimal {
	if o.Side == Bid {
		return o.Price.Mul(o.Quantity)
	}
	return hundred.Sub(o.Price).Mul(o.Quantity)
}

// Matches reports whether o would cross against other in the book: same
// instrument, different accounts, opposite sides, and overlapping prices.
// Matches is commutative: Matches(a, b) == Matches(b, a).
func (o Order) Matches(other Order) bool {
	if o.AccountID == other.AccountID {
		return false
	}
	if o.InstrumentID != other.InstrumentID {
		return false
	}
	if o.Side == other.Side {
		return false
	}
	return crosses(o, other)
}

// crosses is the price overlap test behind Matches. The engine's
// same-account contrary-order scan keeps its own copy of this check, since
// it does not gate on account identity.
func crosses(a, b Order) bool {
	bid, ask := a, b
	if a.Side == Ask {
		bid, ask = b, a
	}
	return bid.Price.GreaterThanOrEqual(ask.Price)
}

func (o Order) String() string {
	rank := "unassigned"
	if o.Rank != RankUnassigned {
		rank = fmt.Sprintf("%d", o.Rank)
	}
	return fmt.Sprintf("%s#%s: %s %s @ %s * %s", o.InstrumentID, rank, o.AccountID, o.Side, o.Price, o.Quantity)
}

// WithQuantity returns a copy of o with a different remaining quantity,
// preserving Rank. Used when a book shrinks an order instead of removing
// it outright.
func (o Order) WithQuantity(q decimal.Decimal) Order {
	o.Quantity = q
	return o
}
