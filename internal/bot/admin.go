package bot

import (
	"fmt"
	"time"

	"ircbook/internal/claims"
	"ircbook/internal/common"
)

func (d *Dispatcher) cmdRegister(caller string, args []string) (string, error) {
	nick := caller
	if len(args) > 0 {
		nick = args[0]
	}
	u, err := d.Users.Register(caller, nick)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Registered %s.", u.Name), nil
}

func (d *Dispatcher) cmdConfirm(caller string, args []string) (string, error) {
	if !d.isOwner(caller) {
		return "", fmt.Errorf("%w: confirm", common.ErrUnauthorized)
	}
	if len(args) != 1 {
		return "", fmt.Errorf("%w: confirm takes exactly one argument, the account to confirm", common.ErrInvalidOrder)
	}
	u, err := d.Users.Confirm(args[0], caller)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s confirmed by %s.", u.Name, u.Promoter), nil
}

// parseISODate parses a yyyy-mm-dd date as midnight UTC.
func parseISODate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: expiration must be given as yyyy-mm-dd", common.ErrInvalidOrder)
	}
	return t, nil
}

func joinDesc(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += " "
		}
		out += a
	}
	return out
}

func (d *Dispatcher) cmdCreate(caller string, args []string) (string, error) {
	if len(args) < 3 {
		return "", fmt.Errorf("%w: create takes a name, an expiration date (yyyy-mm-dd), and a description", common.ErrInvalidOrder)
	}
	expires, err := parseISODate(args[1])
	if err != nil {
		return "", err
	}
	if _, err := d.Claims.Create(args[0], expires, joinDesc(args[2:]), caller); err != nil {
		return "", err
	}
	return "Claim created.", nil
}

func (d *Dispatcher) cmdApprove(caller string, args []string) (string, error) {
	if !d.isOwner(caller) {
		return "", fmt.Errorf("%w: approve", common.ErrUnauthorized)
	}
	if len(args) != 1 {
		return "", fmt.Errorf("%w: approve takes exactly one argument, the claim name", common.ErrInvalidOrder)
	}
	if _, err := d.Claims.Approve(args[0]); err != nil {
		return "", err
	}
	return "Claim approved.", nil
}

func (d *Dispatcher) cmdJudge(caller string, args []string) (string, error) {
	if !d.isOwner(caller) {
		return "", fmt.Errorf("%w: judge", common.ErrUnauthorized)
	}
	if len(args) != 2 || (args[1] != "y" && args[1] != "n") {
		return "", fmt.Errorf(`%w: judge takes a claim name and "y" or "n"`, common.ErrInvalidOrder)
	}
	c, err := d.Claims.Judge(args[0], args[1] == "y")
	if err != nil {
		return "", err
	}
	if err := d.Engine.Resolve(c.Name, c.Result); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s resolved %s.", c.Name, resultWord(c)), nil
}

func resultWord(c *claims.Claim) string {
	if c.Result == common.Yes {
		return "yes"
	}
	return "no"
}
