package cache

import (
	"sort"
)

// Ref identifies one entity for invalidation. Name is the entity's lookup
// field when it has one: movie title, theater name, showtime date/time, ticket
// seat number, user username.
type Ref struct {
	Kind Kind
	ID   int64
	Name string
}

// Node describes a saved or deleted entity.
//
// Parents holds every entity the node points at, both before and after the
// write, so moving a review between movies invalidates both movies. Former is
// the node's own identity before the write when its Name changed. Children is
// only set for deletes and must be gathered before the row is removed.
type Node struct {
	Ref
	Former   *Ref
	Parents  []Ref
	Children []Node
}

type edge struct {
	parent Kind
	child  Kind
}

var edges = []edge{
	{Movie, Review},
	{Movie, Showtime},
	{Showtime, Ticket},
	{Theater, Seat},
	{Theater, Showtime},
	{Seat, Ticket},
	{User, Ticket},
	{User, Review},
}

type field int

const (
	fieldID field = iota
	fieldName
	// fieldIDAndOwnName combines the qualifying entity's id with the name of
	// the indexed entity itself.
	fieldIDAndOwnName
)

// index is a secondary lookup on values of kind owner, qualified by an
// identity of kind by. An index with owner == by is keyed by the entity's own
// fields.
type index struct {
	owner     Kind
	by        Kind
	qualifier string
	field     field
}

var indexes = []index{
	{Review, Movie, reviewByMovieID, fieldID},
	{Review, Movie, reviewByMovieTitle, fieldName},
	{Review, User, reviewByUserID, fieldID},
	{Review, User, reviewByUserUsername, fieldName},

	{Showtime, Movie, showtimeByMovieID, fieldID},
	{Showtime, Movie, showtimeByMovieTitle, fieldName},
	{Showtime, Theater, showtimeByTheaterID, fieldID},
	{Showtime, Theater, showtimeByTheaterName, fieldName},

	{Seat, Theater, seatByTheaterID, fieldID},
	{Seat, Theater, seatByTheaterName, fieldName},

	{Ticket, User, ticketByUserID, fieldID},
	{Ticket, User, ticketByUserUsername, fieldName},
	{Ticket, Showtime, ticketByShowtimeID, fieldID},
	{Ticket, Showtime, ticketByShowtimeDateTime, fieldName},
	{Ticket, Showtime, ticketByShowtimeSeat, fieldIDAndOwnName},
	{Ticket, Seat, ticketBySeatID, fieldID},

	{User, User, userByUsername, fieldName},
}

var collections = map[Kind][]string{
	Movie:    {collectionAll, collectionAllWithReviews},
	Review:   {collectionAll},
	Showtime: {collectionAll},
	Theater:  {collectionAll},
	Seat:     {collectionAll},
	Ticket:   {collectionAll},
	User:     {collectionAll},
}

// ancestors maps each kind to every kind reachable by walking edges upwards.
var ancestors = buildAncestors()

func buildAncestors() map[Kind][]Kind {
	parents := make(map[Kind][]Kind)
	for _, e := range edges {
		parents[e.child] = append(parents[e.child], e.parent)
	}

	out := make(map[Kind][]Kind)
	for kind := range collections {
		seen := make(map[Kind]bool)
		queue := append([]Kind(nil), parents[kind]...)
		for len(queue) > 0 {
			k := queue[0]
			queue = queue[1:]
			if seen[k] {
				continue
			}
			seen[k] = true
			out[kind] = append(out[kind], k)
			queue = append(queue, parents[k]...)
		}
	}
	return out
}

func (ix index) key(by Ref, own Ref) (string, bool) {
	switch ix.field {
	case fieldID:
		if by.ID == 0 {
			return "", false
		}
		return key(ix.owner, ix.qualifier, id(by.ID)), true
	case fieldName:
		if by.Name == "" {
			return "", false
		}
		return key(ix.owner, ix.qualifier, by.Name), true
	case fieldIDAndOwnName:
		if by.ID == 0 || own.Name == "" {
			return "", false
		}
		return key(ix.owner, ix.qualifier, id(by.ID)+"_"+own.Name), true
	}
	return "", false
}

// Keys returns every key that may hold a stale view once node has been
// written or deleted. The result is sorted and free of duplicates.
func Keys(node Node) []string {
	set := make(map[string]struct{})
	collect(set, node)

	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func collect(set map[string]struct{}, node Node) {
	add := func(k string) { set[k] = struct{}{} }

	identities := []Ref{node.Ref}
	if node.Former != nil {
		identities = append(identities, *node.Former)
	}

	for _, self := range identities {
		if self.ID != 0 {
			add(ByID(node.Kind, self.ID))
		}
		for _, ix := range indexes {
			if ix.owner == node.Kind && ix.by == node.Kind {
				if k, ok := ix.key(self, self); ok {
					add(k)
				}
			}
		}

		// Views of children that were looked up through this entity.
		for _, ix := range indexes {
			if ix.by == node.Kind && ix.owner != node.Kind && ix.field != fieldIDAndOwnName {
				if k, ok := ix.key(self, Ref{}); ok {
					add(k)
				}
			}
		}
	}

	for _, name := range collections[node.Kind] {
		add(collectionKey(node.Kind, name))
	}

	for _, parent := range node.Parents {
		if parent.ID != 0 {
			add(ByID(parent.Kind, parent.ID))
		}
		for _, name := range collections[parent.Kind] {
			add(collectionKey(parent.Kind, name))
		}
		for _, ix := range indexes {
			if ix.owner != node.Kind || ix.by != parent.Kind {
				continue
			}
			for _, self := range identities {
				if k, ok := ix.key(parent, self); ok {
					add(k)
				}
			}
		}
	}

	for _, ancestor := range ancestors[node.Kind] {
		for _, name := range collections[ancestor] {
			add(collectionKey(ancestor, name))
		}
	}

	for _, child := range node.Children {
		collect(set, child)
	}
}

// Invalidate evicts every key returned by Keys(node).
func Invalidate(c CacheRepository, node Node) {
	for _, k := range Keys(node) {
		c.Evict(k)
	}
}
