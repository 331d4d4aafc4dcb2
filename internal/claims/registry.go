package claims

import (
	"fmt"
	"sort"
	"time"

	"ircbook/internal/common"
)

// Registry is every claim ever created, keyed by name.
type Registry struct {
	claims map[string]*Claim
}

func New() *Registry {
	return &Registry{claims: make(map[string]*Claim)}
}

// Create registers a new, unapproved claim. The expiration must be in the
// future; the name must not already be taken.
func (r *Registry) Create(name string, expires time.Time, desc, creator string) (*Claim, error) {
	if _, ok := r.claims[name]; ok {
		return nil, fmt.Errorf("%w: claim %q", common.ErrAlreadyExists, name)
	}
	if !expires.After(time.Now()) {
		return nil, fmt.Errorf("%w: expiration must be in the future", common.ErrInvalidOrder)
	}
	c := &Claim{Name: name, Expires: expires, Desc: desc, Creator: creator, Created: time.Now()}
	r.claims[name] = c
	return c, nil
}

// Get returns the named claim.
func (r *Registry) Get(name string) (*Claim, error) {
	c, ok := r.claims[name]
	if !ok {
		return nil, fmt.Errorf("%w: claim %q", common.ErrNotFound, name)
	}
	return c, nil
}

// Approve opens an existing claim for trading.
func (r *Registry) Approve(name string) (*Claim, error) {
	c, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if c.Approved {
		return nil, fmt.Errorf("%w: claim %q already approved", common.ErrAlreadyExists, name)
	}
	c.Approved = true
	return c, nil
}

// Judge resolves an approved claim to outcome (true/false) and returns it
// so the caller can run the resolution sweep (internal/engine.Resolve)
// against its instrument. Judge itself touches nothing outside the claim —
// the sweep is the caller's responsibility, since this package knows
// nothing about orders or portfolios.
func (r *Registry) Judge(name string, outcome bool) (*Claim, error) {
	c, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if !c.Approved {
		return nil, fmt.Errorf("%w: claim %q", common.ErrNotApproved, name)
	}
	if c.Resolved {
		return nil, fmt.Errorf("%w: claim %q already resolved", common.ErrAlreadyExists, name)
	}
	c.Resolved = true
	if outcome {
		c.Result = common.Yes
	} else {
		c.Result = common.No
	}
	c.Expires = time.Now()
	return c, nil
}

// List returns every approved, unexpired claim, sorted by expiration.
func (r *Registry) List() []*Claim {
	var out []*Claim
	for _, c := range r.claims {
		if c.Approved && !c.Expired() {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Expires.Before(out[j].Expires) })
	return out
}

// Dump produces the plain-data snapshot of every claim, matching the
// tuple layout in §6: (name, expires, desc, creator, approved, result,
// born).
func (r *Registry) Dump() []Dump {
	out := make([]Dump, 0, len(r.claims))
	for _, c := range r.claims {
		out = append(out, dump(c))
	}
	return out
}

// Load restores a Registry from a snapshot produced by Dump.
func Load(snap []Dump) (*Registry, error) {
	r := New()
	for _, d := range snap {
		c, err := load(d)
		if err != nil {
			return nil, err
		}
		r.claims[c.Name] = c
	}
	return r, nil
}

// Dump is the serializable tuple form of one claim. Result is "y"/"n" when
// resolved, "" when unresolved.
type Dump struct {
	Name     string
	Expires  [3]int
	Desc     string
	Creator  string
	Approved bool
	Result   string
	Born     [3]int
}

func ymd(t time.Time) [3]int {
	u := t.UTC()
	return [3]int{u.Year(), int(u.Month()), u.Day()}
}

func fromYMD(d [3]int) time.Time {
	return time.Date(d[0], time.Month(d[1]), d[2], 0, 0, 0, 0, time.UTC)
}

func dump(c *Claim) Dump {
	result := ""
	if c.Resolved {
		result = c.Result.String()
	}
	return Dump{
		Name:     c.Name,
		Expires:  ymd(c.Expires),
		Desc:     c.Desc,
		Creator:  c.Creator,
		Approved: c.Approved,
		Result:   result,
		Born:     ymd(c.Created),
	}
}

func load(d Dump) (*Claim, error) {
	c := &Claim{
		Name:     d.Name,
		Expires:  fromYMD(d.Expires),
		Desc:     d.Desc,
		Creator:  d.Creator,
		Approved: d.Approved,
		Created:  fromYMD(d.Born),
	}
	switch d.Result {
	case "":
	case common.Yes.String():
		c.Resolved = true
		c.Result = common.Yes
	case common.No.String():
		c.Resolved = true
		c.Result = common.No
	default:
		return nil, fmt.Errorf("%w: unrecognized claim result %q", common.ErrInvalidOrder, d.Result)
	}
	return c, nil
}
