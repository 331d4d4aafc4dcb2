package portfolio

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ircbook/internal/common"
)

func d(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestCoupon_AddSharesSameSideAccumulates(t *testing.T) {
	c := Coupon{InstrumentID: "i", Side: common.Yes, Shares: d(4)}
	c.AddShares(common.Yes, d(6))
	assert.Equal(t, common.Yes, c.Side)
	assert.True(t, c.Shares.Equal(d(10)))
}

func TestCoupon_AddSharesOppositeSideNetsWithoutFlip(t *testing.T) {
	c := Coupon{InstrumentID: "i", Side: common.Yes, Shares: d(10)}
	c.AddShares(common.No, d(6))
	assert.Equal(t, common.Yes, c.Side)
	assert.True(t, c.Shares.Equal(d(4)))
}

func TestCoupon_AddSharesOppositeSideFlipsOnOvershoot(t *testing.T) {
	c := Coupon{InstrumentID: "i", Side: common.Yes, Shares: d(4)}
	c.AddShares(common.No, d(10))
	assert.Equal(t, common.No, c.Side)
	assert.True(t, c.Shares.Equal(d(6)))
}

func TestAddCoupon_FreshPositionPaysCost(t *testing.T) {
	pf := New("u1")
	pf.AddCoupon(Coupon{InstrumentID: "i", Side: common.Yes, Shares: d(10)}, d(30))
	assert.True(t, pf.Cash.Equal(InitialCash.Sub(d(300))))
	c, ok := pf.Coupon("i")
	require.True(t, ok)
	assert.True(t, c.Shares.Equal(d(10)))
}

// TestAddCoupon_OverhedgeChargesFullIncomingShares pins down the
// deliberately preserved upstream quirk: closing more than the existing
// position charges cost for the whole incoming quantity, not just the
// excess that actually flips the side.
func TestAddCoupon_OverhedgeChargesFullIncomingShares(t *testing.T) {
	pf := New("u1")
	pf.AddCoupon(Coupon{InstrumentID: "i", Side: common.Yes, Shares: d(10)}, d(50))
	cashAfterFirst := pf.Cash

	pf.AddCoupon(Coupon{InstrumentID: "i", Side: common.No, Shares: d(16)}, d(30))

	// Existing 10 yes closed at 100/share, cost paid on the full 16 incoming.
	expected := cashAfterFirst.Add(d(100).Mul(d(10))).Sub(d(30).Mul(d(16)))
	assert.True(t, pf.Cash.Equal(expected))

	c, ok := pf.Coupon("i")
	require.True(t, ok)
	assert.Equal(t, common.No, c.Side)
	assert.True(t, c.Shares.Equal(d(6)))
}

func TestAddCoupon_ExactCloseDeletesCoupon(t *testing.T) {
	pf := New("u1")
	pf.AddCoupon(Coupon{InstrumentID: "i", Side: common.Yes, Shares: d(10)}, d(50))
	pf.AddCoupon(Coupon{InstrumentID: "i", Side: common.No, Shares: d(10)}, d(30))

	_, ok := pf.Coupon("i")
	assert.False(t, ok)
}

func TestSettleClaim_WinningSidePaysHundredPerShare(t *testing.T) {
	pf := New("u1")
	pf.AddCoupon(Coupon{InstrumentID: "i", Side: common.Yes, Shares: d(5)}, d(50))
	before := pf.Cash

	pf.SettleClaim("i", common.Yes)

	assert.True(t, pf.Cash.Sub(before).Equal(d(500)))
	_, ok := pf.Coupon("i")
	assert.False(t, ok)
}

func TestSettleClaim_LosingSidePaysNothing(t *testing.T) {
	pf := New("u1")
	pf.AddCoupon(Coupon{InstrumentID: "i", Side: common.No, Shares: d(5)}, d(70))
	before := pf.Cash

	pf.SettleClaim("i", common.Yes)

	assert.True(t, pf.Cash.Equal(before))
	_, ok := pf.Coupon("i")
	assert.False(t, ok)
}

func TestAfford_TrimsToCashAvailable(t *testing.T) {
	pf := New("u1")
	order, err := common.New("u1", common.Bid, "i", d(50), d(1000000), time.Now())
	require.NoError(t, err)

	shares := pf.Afford(common.RiskSnapshot{}, order)
	assert.True(t, shares.Equal(d(20000)))
}

func TestAfford_HonorsExistingRiskOnOtherInstruments(t *testing.T) {
	pf := New("u1")
	risk := common.RiskSnapshot{
		"other": common.Risk{Bid: d(999000)},
	}
	order, err := common.New("u1", common.Bid, "i", d(50), d(1000), time.Now())
	require.NoError(t, err)

	shares := pf.Afford(risk, order)
	assert.True(t, shares.Equal(d(20)))
}

func TestPositions_DumpLoadRoundTrip(t *testing.T) {
	positions := NewPositions()
	pf := positions.Get("u1")
	pf.AddCoupon(Coupon{InstrumentID: "i", Side: common.Yes, Shares: d(7)}, d(40))

	restored, err := Load(positions.Dump())
	require.NoError(t, err)

	rpf, ok := restored.Lookup("u1")
	require.True(t, ok)
	assert.True(t, rpf.Cash.Equal(pf.Cash))
	c, ok := rpf.Coupon("i")
	require.True(t, ok)
	assert.True(t, c.Shares.Equal(d(7)))
	assert.Equal(t, common.Yes, c.Side)
}
