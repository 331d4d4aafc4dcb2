// Package trades implements the settled-trade log (C6): a time-ordered
// record of every cross, with a per-instrument index for ticker queries.
package trades

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Trade is one immutable settlement. Sell/Buy name the sides of the
// resulting yes-coupon transfer: the bid side of a cross is the buyer, the
// ask side is the seller.
type Trade struct {
	SellAccount  string
	BuyAccount   string
	InstrumentID string
	Price        decimal.Decimal
	Shares       decimal.Decimal
	Timestamp    time.Time
}

func (t Trade) String() string {
	return fmt.Sprintf("%s: %s -> %s @ %s * %s", t.Timestamp.Format(time.RFC3339), t.SellAccount, t.BuyAccount, t.Price, t.Shares)
}

// Dump is the serializable tuple form of a trade.
type Dump struct {
	SellAccount  string
	BuyAccount   string
	InstrumentID string
	Price        string
	Shares       string
	Timestamp    [6]int
}

func (t Trade) dump() Dump {
	ts := t.Timestamp.UTC()
	return Dump{
		SellAccount:  t.SellAccount,
		BuyAccount:   t.BuyAccount,
		InstrumentID: t.InstrumentID,
		Price:        t.Price.String(),
		Shares:       t.Shares.String(),
		Timestamp:    [6]int{ts.Year(), int(ts.Month()), ts.Day(), ts.Hour(), ts.Minute(), ts.Second()},
	}
}

func load(d Dump) (Trade, error) {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return Trade{}, err
	}
	shares, err := decimal.NewFromString(d.Shares)
	if err != nil {
		return Trade{}, err
	}
	ts := d.Timestamp
	return Trade{
		SellAccount:  d.SellAccount,
		BuyAccount:   d.BuyAccount,
		InstrumentID: d.InstrumentID,
		Price:        price,
		Shares:       shares,
		Timestamp:    time.Date(ts[0], time.Month(ts[1]), ts[2], ts[3], ts[4], ts[5], 0, time.UTC),
	}, nil
}
