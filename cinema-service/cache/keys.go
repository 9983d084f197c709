package cache

import (
	"strconv"
)

// Kind names a cached entity type. It is also the key namespace.
type Kind string

const (
	Movie    Kind = "movie"
	Review   Kind = "review"
	Showtime Kind = "showtime"
	Theater  Kind = "theater"
	Seat     Kind = "seat"
	Ticket   Kind = "ticket"
	User     Kind = "user"
)

// Collection qualifiers.
const (
	collectionAll            = "all"
	collectionAllWithReviews = "all_with_reviews"
)

// Secondary index qualifiers.
const (
	qualifierID = "id"

	reviewByMovieID      = "movie_id"
	reviewByMovieTitle   = "movie_title"
	reviewByUserID       = "user_id"
	reviewByUserUsername = "user_username"

	showtimeByMovieID     = "by_movie_id"
	showtimeByMovieTitle  = "by_movie_title"
	showtimeByTheaterID   = "by_theater_id"
	showtimeByTheaterName = "by_theater_name"

	seatByTheaterID   = "by_theater_id"
	seatByTheaterName = "by_theater_name"

	ticketByUserID           = "user_id"
	ticketByUserUsername     = "user_username"
	ticketByShowtimeID       = "showtime_id"
	ticketByShowtimeDateTime = "showtime_datetime"
	ticketBySeatID           = "seat_id"
	ticketByShowtimeSeat     = "showtime_seat"

	userByUsername = "username"
)

func key(kind Kind, qualifier, value string) string {
	return string(kind) + "::" + qualifier + ":" + value
}

func collectionKey(kind Kind, name string) string {
	return string(kind) + "::" + name
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

// ByID is the key of a single entity.
func ByID(kind Kind, entityID int64) string {
	return key(kind, qualifierID, id(entityID))
}

// All is the key of the full collection of kind.
func All(kind Kind) string {
	return collectionKey(kind, collectionAll)
}

func MovieKey(movieID int64) string { return ByID(Movie, movieID) }

func MoviesAllKey() string { return All(Movie) }

func MoviesAllWithReviewsKey() string { return collectionKey(Movie, collectionAllWithReviews) }

func ReviewKey(reviewID int64) string { return ByID(Review, reviewID) }

func ReviewsAllKey() string { return All(Review) }

func ReviewsByMovieIDKey(movieID int64) string {
	return key(Review, reviewByMovieID, id(movieID))
}

func ReviewsByMovieTitleKey(title string) string {
	return key(Review, reviewByMovieTitle, title)
}

func ReviewsByUserIDKey(userID int64) string {
	return key(Review, reviewByUserID, id(userID))
}

func ReviewsByUserUsernameKey(username string) string {
	return key(Review, reviewByUserUsername, username)
}

func ShowtimeKey(showtimeID int64) string { return ByID(Showtime, showtimeID) }

func ShowtimesAllKey() string { return All(Showtime) }

func ShowtimesByMovieIDKey(movieID int64) string {
	return key(Showtime, showtimeByMovieID, id(movieID))
}

func ShowtimesByMovieTitleKey(title string) string {
	return key(Showtime, showtimeByMovieTitle, title)
}

func ShowtimesByTheaterIDKey(theaterID int64) string {
	return key(Showtime, showtimeByTheaterID, id(theaterID))
}

func ShowtimesByTheaterNameKey(name string) string {
	return key(Showtime, showtimeByTheaterName, name)
}

func TheaterKey(theaterID int64) string { return ByID(Theater, theaterID) }

func TheatersAllKey() string { return All(Theater) }

func SeatKey(seatID int64) string { return ByID(Seat, seatID) }

func SeatsAllKey() string { return All(Seat) }

func SeatsByTheaterIDKey(theaterID int64) string {
	return key(Seat, seatByTheaterID, id(theaterID))
}

func SeatsByTheaterNameKey(name string) string {
	return key(Seat, seatByTheaterName, name)
}

func TicketKey(ticketID int64) string { return ByID(Ticket, ticketID) }

func TicketsAllKey() string { return All(Ticket) }

func TicketsByUserIDKey(userID int64) string {
	return key(Ticket, ticketByUserID, id(userID))
}

func TicketsByUserUsernameKey(username string) string {
	return key(Ticket, ticketByUserUsername, username)
}

func TicketsByShowtimeIDKey(showtimeID int64) string {
	return key(Ticket, ticketByShowtimeID, id(showtimeID))
}

func TicketsByShowtimeDateTimeKey(dateTime string) string {
	return key(Ticket, ticketByShowtimeDateTime, dateTime)
}

func TicketsBySeatIDKey(seatID int64) string {
	return key(Ticket, ticketBySeatID, id(seatID))
}

// TicketByShowtimeSeatKey keys the ticket sold for seatNumber at a showtime.
// The showtime id is numeric, so the first '_' always ends it.
func TicketByShowtimeSeatKey(showtimeID int64, seatNumber string) string {
	return key(Ticket, ticketByShowtimeSeat, id(showtimeID)+"_"+seatNumber)
}

func UserKey(userID int64) string { return ByID(User, userID) }

func UsersAllKey() string { return All(User) }

func UserByUsernameKey(username string) string {
	return key(User, userByUsername, username)
}
