package portfolio

import (
	"github.com/shopspring/decimal"

	"ircbook/internal/common"
)

// Positions is every account's portfolio. A portfolio is created lazily on
// first reference and is never deleted.
type Positions struct {
	portfolios map[string]*Portfolio
}

func NewPositions() *Positions {
	return &Positions{portfolios: make(map[string]*Portfolio)}
}

// Get returns the account's portfolio, creating it (with the initial cash
// grant) if this is the first time the account has been referenced.
func (p *Positions) Get(accountID string) *Portfolio {
	pf, ok := p.portfolios[accountID]
	if !ok {
		pf = New(accountID)
		p.portfolios[accountID] = pf
	}
	return pf
}

// Lookup returns the account's portfolio without creating one.
func (p *Positions) Lookup(accountID string) (*Portfolio, bool) {
	pf, ok := p.portfolios[accountID]
	return pf, ok
}

// All returns every portfolio, for snapshotting and leaderboard queries.
func (p *Positions) All() []*Portfolio {
	out := make([]*Portfolio, 0, len(p.portfolios))
	for _, pf := range p.portfolios {
		out = append(out, pf)
	}
	return out
}

// PortfolioDump is the serializable form of one account's portfolio,
// matching the snapshot layout in §6.
type PortfolioDump struct {
	AccountID string
	Coupons   []CouponDump
	Cash      string
}

// CouponDump is the serializable form of one coupon.
type CouponDump struct {
	InstrumentID string
	Shares       string
	Side         string
}

// Dump produces the plain-data snapshot of every portfolio.
func (p *Positions) Dump() []PortfolioDump {
	out := make([]PortfolioDump, 0, len(p.portfolios))
	for _, pf := range p.portfolios {
		d := PortfolioDump{AccountID: pf.AccountID, Cash: pf.Cash.String()}
		for _, c := range pf.Coupons {
			d.Coupons = append(d.Coupons, CouponDump{
				InstrumentID: c.InstrumentID,
				Shares:       c.Shares.String(),
				Side:         c.Side.String(),
			})
		}
		out = append(out, d)
	}
	return out
}

// Load restores Positions from a snapshot produced by Dump.
func Load(dump []PortfolioDump) (*Positions, error) {
	p := NewPositions()
	for _, d := range dump {
		cash, err := decimal.NewFromString(d.Cash)
		if err != nil {
			return nil, err
		}
		pf := &Portfolio{AccountID: d.AccountID, Cash: cash, Coupons: make(map[string]*Coupon)}
		for _, cd := range d.Coupons {
			shares, err := decimal.NewFromString(cd.Shares)
			if err != nil {
				return nil, err
			}
			side := common.Yes
			if cd.Side == common.No.String() {
				side = common.No
			}
			pf.Coupons[cd.InstrumentID] = &Coupon{InstrumentID: cd.InstrumentID, Shares: shares, Side: side}
		}
		p.portfolios[d.AccountID] = pf
	}
	return p, nil
}
