package bot

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"ircbook/internal/common"
)

var hundred = decimal.NewFromInt(100)

// resolveOrder turns a buy/sell command's (claim, y|n, price, qty) into an
// Order. flip is set for sell: it trades the opposite coupon side at the
// price complement, exactly as the original "sell is buy reversed" rule.
func (d *Dispatcher) resolveOrder(caller string, args []string, flip bool) (common.Order, error) {
	if len(args) != 4 {
		return common.Order{}, fmt.Errorf("%w: must provide claim, y/n, price and quantity", common.ErrInvalidOrder)
	}
	if args[1] != "y" && args[1] != "n" {
		return common.Order{}, fmt.Errorf(`%w: coupon type must be "y" or "n"`, common.ErrInvalidOrder)
	}
	claimName := args[0]
	c, err := d.Claims.Get(claimName)
	if err != nil {
		return common.Order{}, err
	}
	if c.Expired() {
		return common.Order{}, fmt.Errorf("%w: claim %q", common.ErrExpired, claimName)
	}
	if !c.Approved {
		return common.Order{}, fmt.Errorf("%w: claim %q", common.ErrNotApproved, claimName)
	}

	wantsYes := args[1] == "y"
	price, err := decimal.NewFromString(args[2])
	if err != nil {
		return common.Order{}, fmt.Errorf("%w: price must be a decimal", common.ErrInvalidOrder)
	}
	qty, err := decimal.NewFromString(args[3])
	if err != nil {
		return common.Order{}, fmt.Errorf("%w: quantity must be a decimal", common.ErrInvalidOrder)
	}

	if flip {
		wantsYes = !wantsYes
		price = hundred.Sub(price)
	}

	side := common.Bid
	orderPrice := price
	if !wantsYes {
		side = common.Ask
		orderPrice = hundred.Sub(price)
	}

	return common.New(caller, side, claimName, orderPrice, qty, time.Now())
}

func (d *Dispatcher) cmdBuy(caller string, args []string) (string, error) {
	order, err := d.resolveOrder(caller, args, false)
	if err != nil {
		return "", err
	}
	result, err := d.Engine.Place(order)
	if err != nil {
		return "", err
	}
	return result.String(), nil
}

func (d *Dispatcher) cmdSell(caller string, args []string) (string, error) {
	order, err := d.resolveOrder(caller, args, true)
	if err != nil {
		return "", err
	}
	result, err := d.Engine.Place(order)
	if err != nil {
		return "", err
	}
	return result.String(), nil
}

func (d *Dispatcher) cmdCancel(caller string, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: cancel takes a single order id in the form claim#rank", common.ErrInvalidOrder)
	}
	claimName, rank, err := splitOrderID(args[0])
	if err != nil {
		return "", err
	}
	account := d.Engine.Book.Account(caller)
	if account == nil {
		return "", fmt.Errorf("%w: no such order", common.ErrNotFound)
	}
	order, ok := findByRank(account.RestingOn(claimName, common.Bid), rank)
	if !ok {
		order, ok = findByRank(account.RestingOn(claimName, common.Ask), rank)
	}
	if !ok {
		return "", fmt.Errorf("%w: no such order", common.ErrNotFound)
	}
	if err := d.Engine.Book.RemoveOrder(order); err != nil {
		return "", err
	}
	return fmt.Sprintf("Cancelled %s#%d, %s coupons at %s.", claimName, rank, order.Quantity, order.Price), nil
}

func (d *Dispatcher) cmdGCancel(caller string, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: gcancel takes a single glob pattern", common.ErrInvalidOrder)
	}
	pattern := args[0]
	account := d.Engine.Book.Account(caller)
	if account == nil {
		return "", fmt.Errorf("%w: no orders to cancel", common.ErrNotFound)
	}
	cancelled := 0
	cancelledShares := decimal.Zero
	for _, o := range account.All() {
		name := orderID(o)
		matched, err := filepath.Match(pattern, name)
		if err != nil {
			return "", fmt.Errorf("%w: invalid glob pattern", common.ErrInvalidOrder)
		}
		if !matched {
			continue
		}
		if err := d.Engine.Book.RemoveOrder(o); err != nil {
			return "", err
		}
		cancelled++
		cancelledShares = cancelledShares.Add(o.Quantity)
	}
	return fmt.Sprintf("Cancelled %d orders, %s coupons total.", cancelled, cancelledShares), nil
}

func (d *Dispatcher) cmdOrders(caller string, args []string) (string, error) {
	if len(args) != 0 {
		return "", fmt.Errorf("%w: orders takes no arguments", common.ErrInvalidOrder)
	}
	account := d.Engine.Book.Account(caller)
	if account == nil {
		return "", fmt.Errorf("%w: no orders available", common.ErrNotFound)
	}
	orders := account.All()
	if len(orders) == 0 {
		return "", fmt.Errorf("%w: no orders available", common.ErrNotFound)
	}
	out := ""
	for i, o := range orders {
		if i > 0 {
			out += ", "
		}
		out += o.String()
	}
	return out, nil
}

func splitOrderID(s string) (claimName string, rank int, err error) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '#' {
			claimName = s[:i]
			var n int
			if _, scanErr := fmt.Sscanf(s[i+1:], "%d", &n); scanErr != nil {
				return "", 0, fmt.Errorf("%w: order id must be claim#rank", common.ErrInvalidOrder)
			}
			return claimName, n, nil
		}
	}
	return "", 0, fmt.Errorf("%w: order id must be claim#rank", common.ErrInvalidOrder)
}

func orderID(o common.Order) string {
	return fmt.Sprintf("%s#%d", o.InstrumentID, o.Rank)
}

func findByRank(orders []common.Order, rank int) (common.Order, bool) {
	for _, o := range orders {
		if o.Rank == rank {
			return o, true
		}
	}
	return common.Order{}, false
}
