// Package engine implements the placement algorithm (C5): the one
// entrypoint, Place, that every other trading component exists to serve.
package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"ircbook/internal/book"
	"ircbook/internal/common"
	"ircbook/internal/orderbook"
	"ircbook/internal/portfolio"
	"ircbook/internal/trades"
)

var hundred = decimal.NewFromInt(100)

// TradingEngine ties the order book, the portfolios, and the trade log
// together behind the single Place operation. It holds no state of its
// own beyond references to the three — everything it touches belongs to
// one of them.
type TradingEngine struct {
	Book      *orderbook.OrderBook
	Positions *portfolio.Positions
	Trades    *trades.Log
}

func New(ob *orderbook.OrderBook, positions *portfolio.Positions, tradeLog *trades.Log) *TradingEngine {
	return &TradingEngine{Book: ob, Positions: positions, Trades: tradeLog}
}

// Place runs the full placement algorithm: cancel the poster's own
// contrary resting orders first, trim the remainder to what the portfolio
// can afford, insert it, and settle every cross it produces.
func (e *TradingEngine) Place(order common.Order) (*Placement, error) {
	result := newPlacement()

	pf := e.Positions.Get(order.AccountID)
	instrumentID := order.InstrumentID
	cashBefore := pf.Cash
	result.snapshotOld(pf, instrumentID)

	account := e.Book.Account(order.AccountID)

	// Step 1: cancel the poster's own resting orders on the opposite side
	// that would cross this one, newest first. A user never trades with
	// themselves; their own contrary orders are the first resource spent.
	if account != nil {
		contrary := append([]common.Order(nil), account.RestingOn(instrumentID, order.Side.Opposite())...)
		for i := len(contrary) - 1; i >= 0; i-- {
			if !order.Quantity.IsPositive() {
				return result, nil
			}
			resting := contrary[i]
			if !crosses(resting, order) {
				continue
			}
			switch {
			case resting.Quantity.GreaterThan(order.Quantity):
				if err := e.Book.RemoveSharesFromOrder(resting, order.Quantity); err != nil {
					return nil, err
				}
				result.CancelledShares = result.CancelledShares.Add(order.Quantity)
				result.RemainingShares = resting.Quantity.Sub(order.Quantity)
				order.Quantity = decimal.Zero
				return result, nil
			case resting.Quantity.Equal(order.Quantity):
				if err := e.Book.RemoveOrder(resting); err != nil {
					return nil, err
				}
				result.CancelledShares = result.CancelledShares.Add(resting.Quantity)
				order.Quantity = decimal.Zero
				return result, nil
			default: // resting.Quantity < order.Quantity
				if err := e.Book.RemoveOrder(resting); err != nil {
					return nil, err
				}
				result.CancelledShares = result.CancelledShares.Add(resting.Quantity)
				order.Quantity = order.Quantity.Sub(resting.Quantity)
			}
		}
	}

	// Step 2: affordability trim, using the risk snapshot as it stands
	// after step 1's cancellations.
	requested := order.Quantity
	risk := common.RiskSnapshot{}
	if account != nil {
		risk = account.Risk()
	}
	afford := pf.Afford(risk, order)
	if !afford.IsPositive() {
		result.Residual = requested
		return result, nil
	}
	if afford.LessThan(order.Quantity) {
		order.Quantity = afford
	}

	// Step 3: insert and settle.
	e.Book.AddOrder(order)
	for {
		cross, ok, err := e.Book.GetPriorityCross(instrumentID)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		trade, err := e.settleCross(cross)
		if err != nil {
			return nil, err
		}
		result.Trades = append(result.Trades, trade)
	}

	// Step 4: tally outcomes.
	for _, t := range result.Trades {
		result.SharesExchanged = result.SharesExchanged.Add(t.Shares)
	}
	result.Cash = cashBefore.Sub(pf.Cash)
	result.snapshotNew(pf, instrumentID)
	// Whatever of the trimmed order did not trade is still resting, so the
	// residual is only what the affordability trim cut off.
	result.Residual = requested.Sub(order.Quantity)
	return result, nil
}

// settleCross settles one matched pair: the resting order's price is what
// the trade clears at, so the resting side keeps any price improvement
// over what the newer order was willing to accept.
func (e *TradingEngine) settleCross(cross book.Cross) (trades.Trade, error) {
	post, match := cross.Post, cross.Match
	instrumentID := match.InstrumentID

	sharesExchanged := match.Quantity
	if post.Quantity.LessThan(sharesExchanged) {
		sharesExchanged = post.Quantity
	}
	if !sharesExchanged.IsPositive() {
		return trades.Trade{}, common.ErrInconsistent
	}

	var matchCost decimal.Decimal
	if match.Side == common.Bid {
		matchCost = match.Price
	} else {
		matchCost = hundred.Sub(match.Price)
	}
	postCost := hundred.Sub(matchCost)

	postCoupon := portfolio.Coupon{InstrumentID: instrumentID, Shares: sharesExchanged, Side: common.SideFromCoupon(post.Side)}
	e.Positions.Get(post.AccountID).AddCoupon(postCoupon, postCost)

	matchCoupon := portfolio.Coupon{InstrumentID: instrumentID, Shares: sharesExchanged, Side: common.SideFromCoupon(match.Side)}
	e.Positions.Get(match.AccountID).AddCoupon(matchCoupon, matchCost)

	if err := e.Book.RemoveSharesFromOrder(post, sharesExchanged); err != nil {
		return trades.Trade{}, err
	}
	if err := e.Book.RemoveSharesFromOrder(match, sharesExchanged); err != nil {
		return trades.Trade{}, err
	}

	var trade trades.Trade
	if match.Side == common.Bid {
		trade = trades.Trade{SellAccount: post.AccountID, BuyAccount: match.AccountID, InstrumentID: instrumentID, Price: match.Price, Shares: sharesExchanged, Timestamp: time.Now()}
	} else {
		trade = trades.Trade{SellAccount: match.AccountID, BuyAccount: post.AccountID, InstrumentID: instrumentID, Price: match.Price, Shares: sharesExchanged, Timestamp: time.Now()}
	}
	e.Trades.Add(trade)
	return trade, nil
}

// crosses is the same-instrument, opposite-side price overlap test used by
// step 1's contrary-order scan; unlike common.Order.Matches it does not
// check account identity, since every order it is given already belongs to
// the poster by construction.
func crosses(a, b common.Order) bool {
	bid, ask := a, b
	if a.Side == common.Ask {
		bid, ask = b, a
	}
	return bid.Price.GreaterThanOrEqual(ask.Price)
}
