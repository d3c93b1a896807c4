package domain

import (
	"context"
	"iter"
	"strconv"
	"strings"
	"time"
)

// Query is the search string plus an optional place filter.
type Query struct {
	Name    string
	Text    string
	PlaceID string
}

// String renders the query the way the search service expects it.
func (q Query) String() string {
	if q.PlaceID == "" {
		return q.Text
	}
	return strings.TrimSpace(q.Text + " place:" + q.PlaceID)
}

// Watermark is the highest post id seen so far. The zero value is unset.
type Watermark struct {
	ID  int64
	Set bool
}

// Advance returns max(w, id); an unset watermark always takes id.
func (w Watermark) Advance(id int64) Watermark {
	if !w.Set || id > w.ID {
		return Watermark{ID: id, Set: true}
	}
	return w
}

func (w Watermark) String() string {
	if !w.Set {
		return "unset"
	}
	return strconv.FormatInt(w.ID, 10)
}

// PageRequest is one call to a Searcher.
type PageRequest struct {
	Query      Query
	Since      Watermark
	Lang       string
	ResultType string
	PageSize   int
	MaxItems   int
}

// Author carries the user metadata attached to a post.
type Author struct {
	ID        string
	Name      string
	Location  string
	Followers int
	Friends   int
}

// Place is the tagged place of a post.
type Place struct {
	Country string
	Name    string
}

// Coordinates is an exact point, GeoJSON order.
type Coordinates struct {
	Lon float64
	Lat float64
}

// Entities holds parsed entities; nil when the service returned none.
type Entities struct {
	Hashtags []string
}

// Post is the raw search result as returned by a backend.
type Post struct {
	ID           int64
	CreatedAt    time.Time
	Text         string
	RetweetCount int
	Author       *Author
	Place        *Place
	Coordinates  *Coordinates
	Entities     *Entities
}

// Header is the fixed column order of every output file.
// Missing hashtag and tweetloc values are written as the literal "None",
// not as an empty cell.
var Header = []string{
	"username", "authorid", "created", "userloc", "text", "retwc",
	"hashtag", "tweetloc", "followers", "friends", "polarity", "subjectivity",
}

// CreatedLayout is how Record.Created is written.
const CreatedLayout = "2006-01-02 15:04:05"

// Record is the enriched, flat row written to the sink.
type Record struct {
	Username     string    `json:"username"`
	AuthorID     string    `json:"authorid"`
	Created      time.Time `json:"created"`
	UserLocation string    `json:"userloc"`
	Text         string    `json:"text"`
	RetweetCount int       `json:"retwc"`
	Hashtag      string    `json:"hashtag"`
	Location     string    `json:"tweetloc"`
	Followers    int       `json:"followers"`
	Friends      int       `json:"friends"`
	Polarity     float64   `json:"polarity"`
	Subjectivity float64   `json:"subjectivity"`
}

// Row returns the record's cells in Header order.
func (r Record) Row() []string {
	return []string{
		r.Username,
		r.AuthorID,
		r.Created.UTC().Format(CreatedLayout),
		r.UserLocation,
		r.Text,
		strconv.Itoa(r.RetweetCount),
		r.Hashtag,
		r.Location,
		strconv.Itoa(r.Followers),
		strconv.Itoa(r.Friends),
		strconv.FormatFloat(r.Polarity, 'f', -1, 64),
		strconv.FormatFloat(r.Subjectivity, 'f', -1, 64),
	}
}

// Searcher defines the interface for paged search backends.
// Throttling is absorbed inside Search; callers only observe latency.
type Searcher interface {
	Search(ctx context.Context, req PageRequest) iter.Seq2[Post, error]
}

// Sink appends records to a durable destination.
type Sink interface {
	Append(r Record) error
	Close() error
}
