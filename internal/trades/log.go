package trades

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Log is every settled trade, in settlement order (which is also
// chronological order — the engine appends one trade per call to
// settleCross, and wall-clock time only moves forward across a single
// process's lifetime), plus a per-instrument index for ticker queries.
type Log struct {
	all          []Trade
	byInstrument map[string][]Trade
}

func New() *Log {
	return &Log{byInstrument: make(map[string][]Trade)}
}

// Add appends a settled trade to the global log and its instrument's
// index.
func (l *Log) Add(t Trade) {
	l.all = append(l.all, t)
	l.byInstrument[t.InstrumentID] = append(l.byInstrument[t.InstrumentID], t)
}

func (l *Log) sequenceFor(instrumentID string) []Trade {
	if instrumentID == "" {
		return l.all
	}
	return l.byInstrument[instrumentID]
}

// MostRecent returns the last n trades, globally or for one instrument if
// instrumentID is non-empty.
func (l *Log) MostRecent(n int, instrumentID string) []Trade {
	seq := l.sequenceFor(instrumentID)
	if n >= len(seq) {
		return append([]Trade(nil), seq...)
	}
	return append([]Trade(nil), seq[len(seq)-n:]...)
}

// InTimeRange returns the half-open [start, end) slice of trades,
// globally or for one instrument.
func (l *Log) InTimeRange(start, end time.Time, instrumentID string) []Trade {
	seq := l.sequenceFor(instrumentID)
	lo := sort.Search(len(seq), func(i int) bool { return !seq[i].Timestamp.Before(start) })
	hi := sort.Search(len(seq), func(i int) bool { return !seq[i].Timestamp.Before(end) })
	if lo >= hi {
		return nil
	}
	return append([]Trade(nil), seq[lo:hi]...)
}

// Last returns the most recent trade for an instrument, if any — used by
// ticker to report the last traded price.
func (l *Log) Last(instrumentID string) (Trade, bool) {
	seq := l.byInstrument[instrumentID]
	if len(seq) == 0 {
		return Trade{}, false
	}
	return seq[len(seq)-1], true
}

// Volume returns total shares traded and the unweighted/volume-weighted
// mean price for an instrument, for ticker.
func (l *Log) Volume(instrumentID string) (shares, meanPrice, vwap decimal.Decimal) {
	seq := l.byInstrument[instrumentID]
	if len(seq) == 0 {
		return decimal.Zero, decimal.Zero, decimal.Zero
	}
	sumShares := decimal.Zero
	sumPrice := decimal.Zero
	sumNotional := decimal.Zero
	for _, t := range seq {
		sumShares = sumShares.Add(t.Shares)
		sumPrice = sumPrice.Add(t.Price)
		sumNotional = sumNotional.Add(t.Price.Mul(t.Shares))
	}
	n := decimal.NewFromInt(int64(len(seq)))
	meanPrice = sumPrice.Div(n)
	vwap = sumNotional.Div(sumShares)
	return sumShares, meanPrice, vwap
}

// Dump produces the plain-data snapshot of the whole log, in settlement
// order.
func (l *Log) Dump() []Dump {
	out := make([]Dump, 0, len(l.all))
	for _, t := range l.all {
		out = append(out, t.dump())
	}
	return out
}

// Load restores a Log from a snapshot produced by Dump.
func Load(dump []Dump) (*Log, error) {
	l := New()
	for _, d := range dump {
		t, err := load(d)
		if err != nil {
			return nil, err
		}
		l.Add(t)
	}
	return l, nil
}
