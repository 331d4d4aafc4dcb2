// Package claims implements the yes/no questions the trading core settles
// against: creation, owner approval, and resolution. The actual sweep that
// liquidates coupons and cancels orders lives in internal/engine — this
// package only tracks a claim's own lifecycle and hands the caller enough
// to trigger that sweep.
package claims

import (
	"fmt"
	"time"

	"ircbook/internal/common"
)

// Claim is a single yes/no question with an expiration date. It starts
// unapproved and unresolved; Approve opens it for trading, Judge resolves
// it and records the winning side.
type Claim struct {
	Name     string
	Expires  time.Time
	Desc     string
	Creator  string
	Approved bool
	Resolved bool
	Result   common.CouponSide // valid only if Resolved
	Created  time.Time
}

// Expired reports whether the claim's expiration has passed as of now.
func (c Claim) Expired() bool {
	return !c.Expires.After(time.Now())
}

func (c Claim) String() string {
	status := "unapproved"
	switch {
	case c.Resolved:
		status = "resolved:" + c.Result.String()
	case c.Approved:
		status = "open"
	}
	return fmt.Sprintf("%s (%s): %s", c.Name, status, c.Desc)
}
