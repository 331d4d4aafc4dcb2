// Package bot implements the command surface described in the external
// interfaces section: a flat table of named commands, each taking the
// caller's account id plus a list of string arguments and returning a
// response string or an error. It has no transport of its own — a caller
// (internal/transport, a test, a REPL) just calls Handle.
package bot

import (
	"fmt"

	"ircbook/internal/claims"
	"ircbook/internal/common"
	"ircbook/internal/engine"
	"ircbook/internal/trades"
	"ircbook/internal/users"
)

// Dispatcher wires the command table to the trading core. Owners is the
// set of account ids authorized to run owner-only commands.
type Dispatcher struct {
	Users  *users.Registry
	Claims *claims.Registry
	Trades *trades.Log
	Engine *engine.TradingEngine
	Owners map[string]bool
}

func New(u *users.Registry, c *claims.Registry, tradeLog *trades.Log, e *engine.TradingEngine, owners []string) *Dispatcher {
	ownerSet := make(map[string]bool, len(owners))
	for _, o := range owners {
		ownerSet[o] = true
	}
	return &Dispatcher{Users: u, Claims: c, Trades: tradeLog, Engine: e, Owners: ownerSet}
}

func (d *Dispatcher) isOwner(accountID string) bool {
	return d.Owners[accountID]
}

// handler is the shape every command implements: caller identity, its
// arguments, and the response it produces (or the error it failed with).
type handler func(d *Dispatcher, caller string, args []string) (string, error)

var commands = map[string]handler{
	"register": (*Dispatcher).cmdRegister,
	"confirm":  (*Dispatcher).cmdConfirm,
	"create":   (*Dispatcher).cmdCreate,
	"approve":  (*Dispatcher).cmdApprove,
	"judge":    (*Dispatcher).cmdJudge,
	"buy":      (*Dispatcher).cmdBuy,
	"sell":     (*Dispatcher).cmdSell,
	"cancel":   (*Dispatcher).cmdCancel,
	"gcancel":  (*Dispatcher).cmdGCancel,
	"orders":   (*Dispatcher).cmdOrders,
	"coupons":  (*Dispatcher).cmdCoupons,
	"cash":     (*Dispatcher).cmdCash,
	"ticker":   (*Dispatcher).cmdTicker,
	"claims":   (*Dispatcher).cmdClaims,
	"depth":    (*Dispatcher).cmdDepth,
	"top":      (*Dispatcher).cmdTop,
}

// Handle looks up and runs a command by exact name. The command surface is
// small and flat enough that prefix-matching (as the original chat bot did)
// is left to the transport layer, if it wants it.
func (d *Dispatcher) Handle(caller, command string, args []string) (string, error) {
	h, ok := commands[command]
	if !ok {
		return "", fmt.Errorf("%w: command %q", common.ErrNotFound, command)
	}
	return h(d, caller, args)
}
