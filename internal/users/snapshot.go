package users

import "time"

// Dump is the serializable tuple form of one user, matching §6:
// (name, confirmed, born, promoter, nick).
type Dump struct {
	Name      string
	Confirmed bool
	Born      [3]int
	Promoter  string
	Nick      string
}

func dump(u *User) Dump {
	b := u.Born.UTC()
	return Dump{
		Name:      u.Name,
		Confirmed: u.Confirmed,
		Born:      [3]int{b.Year(), int(b.Month()), b.Day()},
		Promoter:  u.Promoter,
		Nick:      u.Nick,
	}
}

func load(d Dump) *User {
	b := d.Born
	return &User{
		Name:      d.Name,
		Confirmed: d.Confirmed,
		Born:      time.Date(b[0], time.Month(b[1]), b[2], 0, 0, 0, 0, time.UTC),
		Promoter:  d.Promoter,
		Nick:      d.Nick,
	}
}

// Dump produces the plain-data snapshot of every user.
func (r *Registry) Dump() []Dump {
	out := make([]Dump, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, dump(u))
	}
	return out
}

// Load restores a Registry from a snapshot produced by Dump.
func Load(snap []Dump) *Registry {
	r := New()
	for _, d := range snap {
		u := load(d)
		r.users[u.Name] = u
	}
	return r
}
