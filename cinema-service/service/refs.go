package service

import (
	"context"
	"fmt"

	"github.com/arunvm123/cinemabooking/cinema-service/cache"
	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"github.com/arunvm123/cinemabooking/cinema-service/repository"
	"go.uber.org/zap"
)

type refID struct {
	kind cache.Kind
	id   int64
}

// resolver turns foreign keys into cache refs for one write. Parent names
// are read from the store, never from the cache.
type resolver struct {
	ctx    context.Context
	repos  repository.Repositories
	logger *zap.Logger
	known  map[refID]cache.Ref
}

func newResolver(ctx context.Context, repos repository.Repositories, logger *zap.Logger) *resolver {
	return &resolver{
		ctx:    ctx,
		repos:  repos,
		logger: logger,
		known:  make(map[refID]cache.Ref),
	}
}

func (r *resolver) remember(ref cache.Ref) cache.Ref {
	r.known[refID{ref.Kind, ref.ID}] = ref
	return ref
}

// require returns the ref of an entity that must exist.
func (r *resolver) require(kind cache.Kind, id int64) (cache.Ref, error) {
	if ref, ok := r.known[refID{kind, id}]; ok {
		return ref, nil
	}

	name, err := r.name(kind, id)
	if err != nil {
		return cache.Ref{}, notFound(kind, id, err)
	}
	return r.remember(cache.Ref{Kind: kind, ID: id, Name: name}), nil
}

// ref is require for entities already validated. A failed lookup still
// yields a usable ref, only without the name.
func (r *resolver) ref(kind cache.Kind, id int64) cache.Ref {
	ref, err := r.require(kind, id)
	if err != nil {
		r.logger.Warn("could not resolve cache ref",
			zap.String("kind", string(kind)),
			zap.Int64("id", id),
			zap.Error(err),
		)
		return cache.Ref{Kind: kind, ID: id}
	}
	return ref
}

func (r *resolver) name(kind cache.Kind, id int64) (string, error) {
	switch kind {
	case cache.Movie:
		m, err := r.repos.Movies.FindByID(r.ctx, id)
		if err != nil {
			return "", err
		}
		return m.Title, nil
	case cache.Theater:
		t, err := r.repos.Theaters.FindByID(r.ctx, id)
		if err != nil {
			return "", err
		}
		return t.Name, nil
	case cache.Showtime:
		s, err := r.repos.Showtimes.FindByID(r.ctx, id)
		if err != nil {
			return "", err
		}
		return s.DateTime, nil
	case cache.Seat:
		_, err := r.repos.Seats.FindByID(r.ctx, id)
		return "", err
	case cache.Ticket:
		t, err := r.repos.Tickets.FindByID(r.ctx, id)
		if err != nil {
			return "", err
		}
		return t.SeatNumber, nil
	case cache.User:
		u, err := r.repos.Users.FindByID(r.ctx, id)
		if err != nil {
			return "", err
		}
		return u.Username, nil
	case cache.Review:
		_, err := r.repos.Reviews.FindByID(r.ctx, id)
		return "", err
	}
	return "", fmt.Errorf("unknown kind %q", kind)
}

// ===============================
// Nodes
// ===============================

func (r *resolver) movieNode(m model.Movie) cache.Node {
	return cache.Node{Ref: r.remember(cache.Ref{Kind: cache.Movie, ID: m.ID, Name: m.Title})}
}

func (r *resolver) theaterNode(t model.Theater) cache.Node {
	return cache.Node{Ref: r.remember(cache.Ref{Kind: cache.Theater, ID: t.ID, Name: t.Name})}
}

func (r *resolver) userNode(u model.User) cache.Node {
	return cache.Node{Ref: r.remember(cache.Ref{Kind: cache.User, ID: u.ID, Name: u.Username})}
}

func (r *resolver) reviewNode(rv model.Review) cache.Node {
	return cache.Node{
		Ref: r.remember(cache.Ref{Kind: cache.Review, ID: rv.ID}),
		Parents: []cache.Ref{
			r.ref(cache.Movie, rv.MovieID),
			r.ref(cache.User, rv.UserID),
		},
	}
}

func (r *resolver) showtimeNode(s model.Showtime) cache.Node {
	return cache.Node{
		Ref: r.remember(cache.Ref{Kind: cache.Showtime, ID: s.ID, Name: s.DateTime}),
		Parents: []cache.Ref{
			r.ref(cache.Movie, s.MovieID),
			r.ref(cache.Theater, s.TheaterID),
		},
	}
}

func (r *resolver) seatNode(s model.Seat) cache.Node {
	return cache.Node{
		Ref:     r.remember(cache.Ref{Kind: cache.Seat, ID: s.ID}),
		Parents: []cache.Ref{r.ref(cache.Theater, s.TheaterID)},
	}
}

func (r *resolver) ticketNode(t model.Ticket) cache.Node {
	return cache.Node{
		Ref: r.remember(cache.Ref{Kind: cache.Ticket, ID: t.ID, Name: t.SeatNumber}),
		Parents: []cache.Ref{
			r.ref(cache.Showtime, t.ShowtimeID),
			r.ref(cache.Seat, t.SeatID),
			r.ref(cache.User, t.UserID),
		},
	}
}

// updated folds the pre-write node into the post-write one so both the old
// and the new parents and names are evicted.
func updated(after cache.Node, before *cache.Node) cache.Node {
	if before == nil {
		return after
	}
	after.Parents = append(after.Parents, before.Parents...)
	if before.Name != after.Name {
		former := before.Ref
		after.Former = &former
	}
	return after
}

// ===============================
// Delete trees
// ===============================

// Trees hold every row a delete cascades to. They must be built before the
// delete runs.

func (r *resolver) movieTree(m model.Movie) (cache.Node, error) {
	node := r.movieNode(m)

	reviews, err := r.repos.Reviews.FindByMovieID(r.ctx, m.ID)
	if err != nil {
		return cache.Node{}, err
	}
	for _, rv := range reviews {
		node.Children = append(node.Children, r.reviewNode(rv))
	}

	showtimes, err := r.repos.Showtimes.FindByMovieID(r.ctx, m.ID)
	if err != nil {
		return cache.Node{}, err
	}
	for _, s := range showtimes {
		child, err := r.showtimeTree(s)
		if err != nil {
			return cache.Node{}, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

func (r *resolver) theaterTree(t model.Theater) (cache.Node, error) {
	node := r.theaterNode(t)

	seats, err := r.repos.Seats.FindByTheaterID(r.ctx, t.ID)
	if err != nil {
		return cache.Node{}, err
	}
	for _, s := range seats {
		child, err := r.seatTree(s)
		if err != nil {
			return cache.Node{}, err
		}
		node.Children = append(node.Children, child)
	}

	showtimes, err := r.repos.Showtimes.FindByTheaterID(r.ctx, t.ID)
	if err != nil {
		return cache.Node{}, err
	}
	for _, s := range showtimes {
		child, err := r.showtimeTree(s)
		if err != nil {
			return cache.Node{}, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

func (r *resolver) showtimeTree(s model.Showtime) (cache.Node, error) {
	node := r.showtimeNode(s)
	tickets, err := r.repos.Tickets.FindByShowtimeID(r.ctx, s.ID)
	if err != nil {
		return cache.Node{}, err
	}
	for _, t := range tickets {
		node.Children = append(node.Children, r.ticketNode(t))
	}
	return node, nil
}

func (r *resolver) seatTree(s model.Seat) (cache.Node, error) {
	node := r.seatNode(s)
	tickets, err := r.repos.Tickets.FindBySeatID(r.ctx, s.ID)
	if err != nil {
		return cache.Node{}, err
	}
	for _, t := range tickets {
		node.Children = append(node.Children, r.ticketNode(t))
	}
	return node, nil
}

func (r *resolver) userTree(u model.User) (cache.Node, error) {
	node := r.userNode(u)

	tickets, err := r.repos.Tickets.FindByUserID(r.ctx, u.ID)
	if err != nil {
		return cache.Node{}, err
	}
	for _, t := range tickets {
		node.Children = append(node.Children, r.ticketNode(t))
	}

	reviews, err := r.repos.Reviews.FindByUserID(r.ctx, u.ID)
	if err != nil {
		return cache.Node{}, err
	}
	for _, rv := range reviews {
		node.Children = append(node.Children, r.reviewNode(rv))
	}
	return node, nil
}
