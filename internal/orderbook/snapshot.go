package orderbook

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ircbook/internal/common"
)

// OrderDump is the serializable form of one order, matching the tuple
// layout in §6: (id, account, side, instrument, price, shares, timestamp,
// rank).
type OrderDump struct {
	ID           string
	AccountID    string
	Side         string
	InstrumentID string
	Price        string
	Quantity     string
	Timestamp    [6]int // y, m, d, H, M, S
	Rank         int
}

// Snapshot is the plain-data form of a whole OrderBook.
type Snapshot struct {
	Rank   map[string]int
	Orders []OrderDump
}

func dumpOrder(o common.Order) OrderDump {
	t := o.Timestamp.UTC()
	return OrderDump{
		ID:           o.ID.String(),
		AccountID:    o.AccountID,
		Side:         o.Side.String(),
		InstrumentID: o.InstrumentID,
		Price:        o.Price.String(),
		Quantity:     o.Quantity.String(),
		Timestamp:    [6]int{t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second()},
		Rank:         o.Rank,
	}
}

func loadOrder(d OrderDump) (common.Order, error) {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return common.Order{}, err
	}
	qty, err := decimal.NewFromString(d.Quantity)
	if err != nil {
		return common.Order{}, err
	}
	side := common.Bid
	if d.Side == common.Ask.String() {
		side = common.Ask
	}
	ts := d.Timestamp
	timestamp := time.Date(ts[0], time.Month(ts[1]), ts[2], ts[3], ts[4], ts[5], 0, time.UTC)
	o, err := common.New(d.AccountID, side, d.InstrumentID, price, qty, timestamp)
	if err != nil {
		return common.Order{}, err
	}
	o.Rank = d.Rank
	if d.ID != "" {
		id, err := uuid.Parse(d.ID)
		if err != nil {
			return common.Order{}, err
		}
		o.ID = id
	}
	return o, nil
}
