package bot

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"ircbook/internal/common"
)

func (d *Dispatcher) cmdCoupons(caller string, args []string) (string, error) {
	if len(args) > 1 {
		return "", fmt.Errorf("%w: coupons takes at most one argument, a user", common.ErrInvalidOrder)
	}
	target := caller
	if len(args) == 1 {
		target = args[0]
	}
	pf, ok := d.Engine.Positions.Lookup(target)
	if !ok || len(pf.Coupons) == 0 {
		return "", fmt.Errorf("%w: no coupons", common.ErrNotFound)
	}
	out := ""
	first := true
	for _, c := range pf.Coupons {
		if !first {
			out += ", "
		}
		first = false
		out += c.String()
	}
	return out, nil
}

func (d *Dispatcher) cmdCash(caller string, args []string) (string, error) {
	if len(args) > 1 {
		return "", fmt.Errorf("%w: cash takes at most one argument, a user", common.ErrInvalidOrder)
	}
	target := caller
	if len(args) == 1 {
		target = args[0]
	}
	pf, ok := d.Engine.Positions.Lookup(target)
	if !ok {
		return "", fmt.Errorf("%w: no such user", common.ErrNotFound)
	}
	risk := common.RiskSnapshot{}
	if account := d.Engine.Book.Account(target); account != nil {
		risk = account.Risk()
	}
	return fmt.Sprintf("%s (%s)", pf.Cash, pf.UnlockedCash(risk)), nil
}

func (d *Dispatcher) cmdTicker(caller string, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: ticker takes a single claim argument", common.ErrInvalidOrder)
	}
	c, err := d.Claims.Get(args[0])
	if err != nil {
		return "", err
	}
	if c.Expired() {
		last, ok := d.Trades.Last(c.Name)
		if !ok {
			return "", fmt.Errorf("%w: claim expired without trading", common.ErrNotFound)
		}
		return fmt.Sprintf("Claim closed. Last price: %s", last.Price), nil
	}

	ib := d.Engine.Book.InstrumentBook(c.Name)
	if ib == nil {
		return "", fmt.Errorf("%w: no trades entered yet", common.ErrNotFound)
	}
	bid, hasBid := ib.BestBid()
	ask, hasAsk := ib.BestAsk()
	bidStr, askStr := "none", "none"
	if hasBid {
		bidStr = bid.Price.String()
	}
	if hasAsk {
		askStr = ask.Price.String()
	}

	last, ok := d.Trades.Last(c.Name)
	if !ok {
		return fmt.Sprintf("Claim: %s. Highest bid: %s, lowest ask: %s.", c.Name, bidStr, askStr), nil
	}
	shares, mean, vwap := d.Trades.Volume(c.Name)
	outstanding := decimal.Zero
	for _, pf := range d.Engine.Positions.All() {
		if coupon, ok := pf.Coupon(c.Name); ok && coupon.Side == common.Yes {
			outstanding = outstanding.Add(coupon.Shares)
		}
	}
	return fmt.Sprintf("Claim: %s. Highest bid: %s, lowest ask: %s, last price: %s, volume: %s, average: %s, weighted: %s, coupons: %s",
		c.Name, bidStr, askStr, last.Price, shares, mean.StringFixed(2), vwap.StringFixed(2), outstanding), nil
}

func (d *Dispatcher) cmdClaims(caller string, args []string) (string, error) {
	if len(args) > 1 {
		return "", fmt.Errorf("%w: claims takes at most one argument", common.ErrInvalidOrder)
	}
	if len(args) == 1 {
		c, err := d.Claims.Get(args[0])
		if err != nil {
			return "", err
		}
		return c.String(), nil
	}
	open := d.Claims.List()
	if len(open) == 0 {
		return "", fmt.Errorf("%w: no claims are open for trade", common.ErrNotFound)
	}
	out := ""
	for i, c := range open {
		if i > 0 {
			out += ", "
		}
		out += c.Name
	}
	return out, nil
}

func (d *Dispatcher) cmdDepth(caller string, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: depth takes a single claim argument", common.ErrInvalidOrder)
	}
	c, err := d.Claims.Get(args[0])
	if err != nil {
		return "", err
	}
	if c.Expired() {
		return "", fmt.Errorf("%w: claim %q no longer open for trade", common.ErrExpired, c.Name)
	}
	if !c.Approved {
		return "", fmt.Errorf("%w: claim %q", common.ErrNotApproved, c.Name)
	}
	ib := d.Engine.Book.InstrumentBook(c.Name)
	if ib == nil {
		return "", fmt.Errorf("%w: claim %q has no outstanding orders", common.ErrNotFound, c.Name)
	}
	bidLevels := ib.Bids.Items()
	askLevels := ib.Asks.Items()
	if len(bidLevels) == 0 && len(askLevels) == 0 {
		return "", fmt.Errorf("%w: claim %q has no outstanding orders", common.ErrNotFound, c.Name)
	}
	var bidPrice, bidDepth, askPrice, askDepth decimal.Decimal
	if len(bidLevels) > 0 {
		top := bidLevels[0]
		bidPrice = top.Price
		for _, o := range top.Orders {
			bidDepth = bidDepth.Add(o.Quantity)
		}
	}
	if len(askLevels) > 0 {
		top := askLevels[0]
		askPrice = top.Price
		for _, o := range top.Orders {
			askDepth = askDepth.Add(o.Quantity)
		}
	}
	return fmt.Sprintf("%s: Bid depth: %s. Ask depth: %s.", c.Name, bidPrice.Mul(bidDepth), askPrice.Mul(askDepth)), nil
}

func (d *Dispatcher) cmdTop(caller string, args []string) (string, error) {
	if len(args) != 0 {
		return "", fmt.Errorf("%w: top takes no arguments", common.ErrInvalidOrder)
	}
	all := d.Engine.Positions.All()
	sort.Slice(all, func(i, j int) bool { return all[i].Cash.GreaterThan(all[j].Cash) })
	if len(all) > 5 {
		all = all[:5]
	}
	out := "Top 5:"
	for _, pf := range all {
		out += fmt.Sprintf(" %s:%s", pf.AccountID, pf.Cash)
	}
	return out, nil
}
