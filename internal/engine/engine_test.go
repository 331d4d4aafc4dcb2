package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ircbook/internal/common"
	"ircbook/internal/orderbook"
	"ircbook/internal/portfolio"
	"ircbook/internal/trades"
)

func newTestEngine() *TradingEngine {
	return New(orderbook.New(), portfolio.NewPositions(), trades.New())
}

func mustOrder(t *testing.T, account string, side common.Side, instrument string, price, qty string) common.Order {
	t.Helper()
	p, err := decimal.NewFromString(price)
	require.NoError(t, err)
	q, err := decimal.NewFromString(qty)
	require.NoError(t, err)
	o, err := common.New(account, side, instrument, p, q, time.Now())
	require.NoError(t, err)
	return o
}

func TestPlace_SimpleCross(t *testing.T) {
	e := newTestEngine()

	_, err := e.Place(mustOrder(t, "u1", common.Bid, "i", "30", "10"))
	require.NoError(t, err)

	result, err := e.Place(mustOrder(t, "u2", common.Ask, "i", "29", "4"))
	require.NoError(t, err)

	require.Len(t, result.Trades, 1)
	trade := result.Trades[0]
	assert.True(t, trade.Price.Equal(decimal.NewFromInt(30)))
	assert.True(t, trade.Shares.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, "u1", trade.BuyAccount)
	assert.Equal(t, "u2", trade.SellAccount)

	u1 := e.Positions.Get("u1")
	u2 := e.Positions.Get("u2")
	assert.True(t, u1.Cash.Equal(portfolio.InitialCash.Sub(decimal.NewFromInt(120))))
	assert.True(t, u2.Cash.Equal(portfolio.InitialCash.Sub(decimal.NewFromInt(280))))

	bid, ok := e.Book.InstrumentBook("i").BestBid()
	require.True(t, ok)
	assert.True(t, bid.Quantity.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, 0, bid.Rank)
}

func TestPlace_Cascade(t *testing.T) {
	e := newTestEngine()

	_, err := e.Place(mustOrder(t, "u1", common.Bid, "i", "30", "7"))
	require.NoError(t, err)
	_, err = e.Place(mustOrder(t, "u1", common.Bid, "i", "31", "6"))
	require.NoError(t, err)
	_, err = e.Place(mustOrder(t, "u1", common.Bid, "i", "31", "8"))
	require.NoError(t, err)
	_, err = e.Place(mustOrder(t, "u1", common.Bid, "i", "30", "8"))
	require.NoError(t, err)
	_, err = e.Place(mustOrder(t, "u1", common.Bid, "i", "29", "8"))
	require.NoError(t, err)

	result, err := e.Place(mustOrder(t, "u2", common.Ask, "i", "29", "34"))
	require.NoError(t, err)

	require.Len(t, result.Trades, 5)
	sizes := make([]string, len(result.Trades))
	for i, tr := range result.Trades {
		sizes[i] = tr.Shares.String()
	}
	assert.Equal(t, []string{"6", "8", "7", "8", "5"}, sizes)
	assert.True(t, result.SharesExchanged.Equal(decimal.NewFromInt(34)))
	assert.True(t, result.Residual.IsZero())

	bid, ok := e.Book.InstrumentBook("i").BestBid()
	require.True(t, ok)
	assert.True(t, bid.Price.Equal(decimal.NewFromInt(29)))
	assert.True(t, bid.Quantity.Equal(decimal.NewFromInt(3)))
}

func TestPlace_SelfCancel(t *testing.T) {
	e := newTestEngine()

	_, err := e.Place(mustOrder(t, "u1", common.Bid, "i", "50", "10"))
	require.NoError(t, err)

	result, err := e.Place(mustOrder(t, "u1", common.Ask, "i", "50", "4"))
	require.NoError(t, err)

	assert.True(t, result.CancelledShares.Equal(decimal.NewFromInt(4)))
	assert.True(t, result.RemainingShares.Equal(decimal.NewFromInt(6)))
	assert.Empty(t, result.Trades)

	bid, ok := e.Book.InstrumentBook("i").BestBid()
	require.True(t, ok)
	assert.True(t, bid.Quantity.Equal(decimal.NewFromInt(6)))

	_, hasAsk := e.Book.InstrumentBook("i").BestAsk()
	assert.False(t, hasAsk)
}

func TestPlace_AffordabilityTrim(t *testing.T) {
	e := newTestEngine()

	result, err := e.Place(mustOrder(t, "u1", common.Bid, "i", "50", "1000000"))
	require.NoError(t, err)

	bid, ok := e.Book.InstrumentBook("i").BestBid()
	require.True(t, ok)
	assert.True(t, bid.Quantity.Equal(decimal.NewFromInt(20000)))
	assert.True(t, result.Residual.Equal(decimal.NewFromInt(1000000).Sub(decimal.NewFromInt(20000))))
}

func TestPlace_HedgeClose(t *testing.T) {
	e := newTestEngine()

	// Seed u1 with 10 yes coupons and u3 with 10 no coupons via a direct cross.
	_, err := e.Place(mustOrder(t, "u1", common.Bid, "i", "50", "10"))
	require.NoError(t, err)
	_, err = e.Place(mustOrder(t, "u3", common.Ask, "i", "50", "10"))
	require.NoError(t, err)

	u1 := e.Positions.Get("u1")
	coupon, ok := u1.Coupon("i")
	require.True(t, ok)
	require.True(t, coupon.Shares.Equal(decimal.NewFromInt(10)))
	require.Equal(t, common.Yes, coupon.Side)

	cashBefore := u1.Cash

	// u1 now acquires 6 no coupons at cost 30: u4 rests a bid at 70, and
	// u1's ask at 70 crosses it as the post side, paying 100-70=30 per no
	// coupon, so AddCoupon nets against the existing yes coupon and credits
	// (100-30) per share closed.
	_, err = e.Place(mustOrder(t, "u4", common.Bid, "i", "70", "6"))
	require.NoError(t, err)
	_, err = e.Place(mustOrder(t, "u1", common.Ask, "i", "70", "6"))
	require.NoError(t, err)

	coupon, ok = u1.Coupon("i")
	require.True(t, ok)
	assert.True(t, coupon.Shares.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, common.Yes, coupon.Side)
	assert.True(t, u1.Cash.Sub(cashBefore).Equal(decimal.NewFromInt(100).Sub(decimal.NewFromInt(30)).Mul(decimal.NewFromInt(6))))
}

func TestResolve_ClaimResolution(t *testing.T) {
	e := newTestEngine()

	_, err := e.Place(mustOrder(t, "u1", common.Bid, "i", "50", "5"))
	require.NoError(t, err)
	_, err = e.Place(mustOrder(t, "u2", common.Ask, "i", "50", "5"))
	require.NoError(t, err)

	// Add fresh resting orders that should be cancelled by resolution.
	_, err = e.Place(mustOrder(t, "u1", common.Bid, "i", "40", "1"))
	require.NoError(t, err)
	_, err = e.Place(mustOrder(t, "u2", common.Ask, "i", "60", "1"))
	require.NoError(t, err)

	u1Before := e.Positions.Get("u1").Cash
	u2Before := e.Positions.Get("u2").Cash

	require.NoError(t, e.Resolve("i", common.Yes))

	_, hasBid := e.Book.InstrumentBook("i").BestBid()
	_, hasAsk := e.Book.InstrumentBook("i").BestAsk()
	assert.False(t, hasBid)
	assert.False(t, hasAsk)

	u1 := e.Positions.Get("u1")
	u2 := e.Positions.Get("u2")
	_, hasCoupon := u1.Coupon("i")
	assert.False(t, hasCoupon)
	_, hasCoupon = u2.Coupon("i")
	assert.False(t, hasCoupon)

	assert.True(t, u1.Cash.Sub(u1Before).Equal(decimal.NewFromInt(500)))
	assert.True(t, u2.Cash.Sub(u2Before).IsZero())
}

func TestPlace_MatchesCommutativity(t *testing.T) {
	a := mustOrder(t, "u1", common.Bid, "i", "31", "5")
	b := mustOrder(t, "u2", common.Ask, "i", "30", "5")
	assert.Equal(t, a.Matches(b), b.Matches(a))
	assert.True(t, a.Matches(b))
}
