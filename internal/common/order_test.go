package common

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_BoundaryPrices(t *testing.T) {
	one := decimal.NewFromInt(1)
	ninetyNine := decimal.NewFromInt(99)
	qty := decimal.NewFromInt(1)

	_, err := New("u1", Bid, "i", one, qty, time.Now())
	assert.NoError(t, err)

	_, err = New("u1", Bid, "i", ninetyNine, qty, time.Now())
	assert.NoError(t, err)

	_, err = New("u1", Bid, "i", decimal.Zero, qty, time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = New("u1", Bid, "i", decimal.NewFromInt(100), qty, time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestNew_RejectsZeroQuantity(t *testing.T) {
	_, err := New("u1", Bid, "i", decimal.NewFromInt(50), decimal.Zero, time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestOrder_Cost(t *testing.T) {
	bid, err := New("u1", Bid, "i", decimal.NewFromInt(30), decimal.NewFromInt(10), time.Now())
	require.NoError(t, err)
	assert.True(t, bid.Cost().Equal(decimal.NewFromInt(300)))

	ask, err := New("u1", Ask, "i", decimal.NewFromInt(30), decimal.NewFromInt(10), time.Now())
	require.NoError(t, err)
	assert.True(t, ask.Cost().Equal(decimal.NewFromInt(700)))
}

func TestOrder_MatchesCommutativeAndGates(t *testing.T) {
	bid, err := New("u1", Bid, "i", decimal.NewFromInt(31), decimal.NewFromInt(5), time.Now())
	require.NoError(t, err)
	ask, err := New("u2", Ask, "i", decimal.NewFromInt(30), decimal.NewFromInt(5), time.Now())
	require.NoError(t, err)

	assert.True(t, bid.Matches(ask))
	assert.Equal(t, bid.Matches(ask), ask.Matches(bid))

	sameAccountAsk, err := New("u1", Ask, "i", decimal.NewFromInt(30), decimal.NewFromInt(5), time.Now())
	require.NoError(t, err)
	assert.False(t, bid.Matches(sameAccountAsk))

	nonCrossingAsk, err := New("u2", Ask, "i", decimal.NewFromInt(32), decimal.NewFromInt(5), time.Now())
	require.NoError(t, err)
	assert.False(t, bid.Matches(nonCrossingAsk))
}

func TestOrder_WithQuantityPreservesRank(t *testing.T) {
	o, err := New("u1", Bid, "i", decimal.NewFromInt(50), decimal.NewFromInt(10), time.Now())
	require.NoError(t, err)
	o.Rank = 3

	shrunk := o.WithQuantity(decimal.NewFromInt(4))
	assert.Equal(t, 3, shrunk.Rank)
	assert.True(t, shrunk.Quantity.Equal(decimal.NewFromInt(4)))
}

func TestSideAndCouponSide_Opposite(t *testing.T) {
	assert.Equal(t, Ask, Bid.Opposite())
	assert.Equal(t, Bid, Ask.Opposite())
	assert.Equal(t, No, Yes.Opposite())
	assert.Equal(t, Yes, No.Opposite())
	assert.Equal(t, Yes, SideFromCoupon(Bid))
	assert.Equal(t, No, SideFromCoupon(Ask))
}
