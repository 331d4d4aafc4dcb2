package trades

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkTrade(instrument string, price, shares int64, ts time.Time) Trade {
	return Trade{
		SellAccount:  "seller",
		BuyAccount:   "buyer",
		InstrumentID: instrument,
		Price:        decimal.NewFromInt(price),
		Shares:       decimal.NewFromInt(shares),
		Timestamp:    ts,
	}
}

func TestLog_MostRecent(t *testing.T) {
	l := New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.Add(mkTrade("i", 30, 1, base))
	l.Add(mkTrade("i", 31, 2, base.Add(time.Second)))
	l.Add(mkTrade("j", 50, 3, base.Add(2*time.Second)))

	recent := l.MostRecent(2, "i")
	require.Len(t, recent, 2)
	assert.True(t, recent[1].Price.Equal(decimal.NewFromInt(31)))

	all := l.MostRecent(10, "")
	assert.Len(t, all, 3)
}

func TestLog_LastAndVolume(t *testing.T) {
	l := New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.Add(mkTrade("i", 30, 4, base))
	l.Add(mkTrade("i", 32, 6, base.Add(time.Second)))

	last, ok := l.Last("i")
	require.True(t, ok)
	assert.True(t, last.Price.Equal(decimal.NewFromInt(32)))

	shares, mean, vwap := l.Volume("i")
	assert.True(t, shares.Equal(decimal.NewFromInt(10)))
	assert.True(t, mean.Equal(decimal.NewFromInt(31)))
	// vwap = (30*4 + 32*6) / 10 = 31.2
	assert.True(t, vwap.Equal(decimal.NewFromFloat(31.2)))

	_, ok = l.Last("missing")
	assert.False(t, ok)
}

func TestLog_InTimeRange(t *testing.T) {
	l := New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.Add(mkTrade("i", 30, 1, base))
	l.Add(mkTrade("i", 31, 1, base.Add(time.Minute)))
	l.Add(mkTrade("i", 32, 1, base.Add(2*time.Minute)))

	got := l.InTimeRange(base.Add(30*time.Second), base.Add(90*time.Second), "i")
	require.Len(t, got, 1)
	assert.True(t, got[0].Price.Equal(decimal.NewFromInt(31)))
}

func TestLog_DumpLoadRoundTrip(t *testing.T) {
	l := New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.Add(mkTrade("i", 30, 4, base))
	l.Add(mkTrade("i", 32, 6, base.Add(time.Second)))

	restored, err := Load(l.Dump())
	require.NoError(t, err)

	last, ok := restored.Last("i")
	require.True(t, ok)
	assert.True(t, last.Price.Equal(decimal.NewFromInt(32)))
	assert.Len(t, restored.MostRecent(10, "i"), 2)
}
