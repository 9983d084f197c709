package model

import "slices"

// Clone methods copy the preloaded associations so a copy never shares
// backing arrays with the value it was taken from.

func (m Movie) Clone() Movie {
	m.Reviews = slices.Clone(m.Reviews)
	m.Showtimes = cloneAll(m.Showtimes)
	return m
}

func (s Showtime) Clone() Showtime {
	s.Tickets = slices.Clone(s.Tickets)
	return s
}

func (t Theater) Clone() Theater {
	t.Seats = cloneAll(t.Seats)
	t.Showtimes = cloneAll(t.Showtimes)
	return t
}

func (s Seat) Clone() Seat {
	s.Tickets = slices.Clone(s.Tickets)
	return s
}

func (u User) Clone() User {
	u.Tickets = slices.Clone(u.Tickets)
	u.Reviews = slices.Clone(u.Reviews)
	return u
}

func cloneAll[T interface{ Clone() T }](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = v.Clone()
	}
	return out
}
